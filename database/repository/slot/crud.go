package slotRepo

import (
	"context"
	"fmt"
	"time"

	"tutorhive/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoSlotRepo) Create(ctx context.Context, slot models.TimeSlot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	if slot.Status == "" {
		slot.Status = models.SlotStatusFree
	}
	if slot.DurationMinutes == 0 {
		slot.DurationMinutes = int(slot.EndTime.Sub(slot.StartTime).Minutes())
	}

	if _, err := r.coll.InsertOne(ctx, slot); err != nil {
		return fmt.Errorf("failed to insert time slot: %w", err)
	}
	return nil
}

func (r *mongoSlotRepo) GetByID(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.TimeSlot
	err := r.coll.FindOne(ctx, bson.M{"id": slotID}).Decode(&slot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to load time slot %s: %w", slotID, err)
	}
	return &slot, nil
}

// Claim performs the free->booked transition as a conditional update. The
// status in the filter is what makes concurrent claims safe: only one of N
// racing requests can match the free document.
func (r *mongoSlotRepo) Claim(ctx context.Context, slotID string) (bool, error) {
	return r.transition(ctx, slotID, models.SlotStatusFree, models.SlotStatusBooked)
}

// Release performs the booked->free transition conditionally.
func (r *mongoSlotRepo) Release(ctx context.Context, slotID string) (bool, error) {
	return r.transition(ctx, slotID, models.SlotStatusBooked, models.SlotStatusFree)
}

func (r *mongoSlotRepo) transition(ctx context.Context, slotID, from, to string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":     slotID,
		"status": from,
	}
	update := bson.M{
		"$set": bson.M{
			"status":     to,
			"lastAccess": time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to transition slot %s to %s: %w", slotID, to, err)
	}
	if res.MatchedCount == 0 {
		// Either the slot does not exist or another request changed its
		// status first. Distinguish so callers can surface NotFound.
		count, err := r.coll.CountDocuments(ctx, bson.M{"id": slotID})
		if err != nil {
			return false, fmt.Errorf("failed to verify slot %s: %w", slotID, err)
		}
		if count == 0 {
			return false, ErrSlotNotFound
		}
		return false, nil
	}
	return true, nil
}
