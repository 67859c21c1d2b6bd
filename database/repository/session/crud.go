package sessionRepo

import (
	"context"
	"fmt"
	"time"

	"tutorhive/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoSessionRepo) Create(ctx context.Context, session models.Session) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	session.CreatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, session); err != nil {
		return "", fmt.Errorf("failed to insert session: %w", err)
	}
	return session.ID, nil
}

func (r *mongoSessionRepo) GetByID(ctx context.Context, sessionID string) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var session models.Session
	err := r.coll.FindOne(ctx, bson.M{"id": sessionID}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	return &session, nil
}

func (r *mongoSessionRepo) UpdateStatusIfCurrent(ctx context.Context, sessionID, current, next string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": sessionID, "status": current}
	update := bson.M{"$set": bson.M{"status": next}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to update session %s status: %w", sessionID, err)
	}
	return res.MatchedCount > 0, nil
}

func (r *mongoSessionRepo) SetTitle(ctx context.Context, sessionID, title string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": sessionID},
		bson.M{"$set": bson.M{"title": title}},
	)
	if err != nil {
		return fmt.Errorf("failed to set session title: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *mongoSessionRepo) SetMeetingURLs(ctx context.Context, sessionID, hostURL, joinURL string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": sessionID},
		bson.M{"$set": bson.M{
			"hostUrl":        hostURL,
			"joinUrl":        joinURL,
			"meetingPending": false,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to set meeting urls: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrSessionNotFound
	}
	return nil
}
