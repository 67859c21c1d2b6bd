package sessionRepo

import (
	"context"
	"errors"

	"tutorhive/database"
	"tutorhive/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrSessionNotFound is returned when a session id does not exist.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository owns session records.
type SessionRepository interface {
	Create(ctx context.Context, session models.Session) (string, error)
	GetByID(ctx context.Context, sessionID string) (*models.Session, error)
	// UpdateStatusIfCurrent transitions the session status only when it
	// still holds the expected current value. Returns false when the
	// precondition failed.
	UpdateStatusIfCurrent(ctx context.Context, sessionID, current, next string) (bool, error)
	// SetTitle updates the human-readable title.
	SetTitle(ctx context.Context, sessionID, title string) error
	// SetMeetingURLs stores the meeting URLs and clears the pending flag.
	SetMeetingURLs(ctx context.Context, sessionID, hostURL, joinURL string) error
}

type mongoSessionRepo struct {
	coll *mongo.Collection
}

// NewMongoSessionRepo returns a SessionRepository backed by MongoDB.
func NewMongoSessionRepo() SessionRepository {
	db := database.MongoClient.Database("tutorhive")
	return &mongoSessionRepo{
		coll: db.Collection("sessions"),
	}
}
