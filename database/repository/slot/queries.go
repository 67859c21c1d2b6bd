package slotRepo

import (
	"context"
	"fmt"
	"time"

	"tutorhive/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoSlotRepo) FindFree(ctx context.Context, tutorID, date string, times []time.Time) ([]models.TimeSlot, error) {
	slots, err := r.findByStatus(ctx, tutorID, date, times, models.SlotStatusFree)
	if err != nil {
		return nil, err
	}
	// Touch lastAccess so abandoned checkouts can be detected later.
	if len(slots) > 0 {
		ids := make([]string, 0, len(slots))
		for _, s := range slots {
			ids = append(ids, s.ID)
		}
		touchCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_, err := r.coll.UpdateMany(touchCtx,
			bson.M{"id": bson.M{"$in": ids}},
			bson.M{"$set": bson.M{"lastAccess": time.Now()}},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to touch slot access times: %w", err)
		}
	}
	return slots, nil
}

func (r *mongoSlotRepo) FindBooked(ctx context.Context, tutorID, date string, times []time.Time) ([]models.TimeSlot, error) {
	return r.findByStatus(ctx, tutorID, date, times, models.SlotStatusBooked)
}

func (r *mongoSlotRepo) findByStatus(ctx context.Context, tutorID, date string, times []time.Time, status string) ([]models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"tutorId":   tutorID,
		"date":      date,
		"status":    status,
		"startTime": bson.M{"$in": times},
	}

	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s slots for tutor %s: %w", status, tutorID, err)
	}
	defer cursor.Close(ctx)

	var slots []models.TimeSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}
	return slots, nil
}
