package slotRepo

import (
	"context"
	"errors"
	"time"

	"tutorhive/database"
	"tutorhive/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrSlotNotFound is returned when a slot id does not exist.
var ErrSlotNotFound = errors.New("time slot not found")

// SlotRepository owns the availability calendar: discrete time slots per
// tutor, each either free or booked. Status transitions are conditional
// single-document updates so concurrent claims of the same slot cannot
// both succeed.
type SlotRepository interface {
	// FindFree returns the subset of the requested (date, start time)
	// pairs for the tutor that are currently free. Callers must treat a
	// shorter result than the request as "at least one slot unavailable".
	FindFree(ctx context.Context, tutorID, date string, times []time.Time) ([]models.TimeSlot, error)
	// FindBooked is the symmetric query for booked slots.
	FindBooked(ctx context.Context, tutorID, date string, times []time.Time) ([]models.TimeSlot, error)
	// Claim transitions a slot free->booked. Returns false when the slot
	// was not free anymore (the CAS lost), without error.
	Claim(ctx context.Context, slotID string) (bool, error)
	// Release transitions a slot booked->free. Returns false when the
	// slot was not booked.
	Release(ctx context.Context, slotID string) (bool, error)
	// GetByID returns a slot or ErrSlotNotFound.
	GetByID(ctx context.Context, slotID string) (*models.TimeSlot, error)
	// Create inserts a slot. Used by tutor-side scheduling and fixtures.
	Create(ctx context.Context, slot models.TimeSlot) error
	// EnsureIndexes creates the collection indexes.
	EnsureIndexes() error
}

type mongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo returns a SlotRepository backed by MongoDB.
func NewMongoSlotRepo() SlotRepository {
	db := database.MongoClient.Database("tutorhive")
	return &mongoSlotRepo{
		coll: db.Collection("time_slots"),
	}
}
