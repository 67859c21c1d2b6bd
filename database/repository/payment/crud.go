package paymentRepo

import (
	"context"
	"fmt"
	"time"

	"tutorhive/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

func (r *mongoPaymentRepo) Create(ctx context.Context, record models.PaymentRecord) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return "", fmt.Errorf("failed to insert payment record: %w", err)
	}
	return record.ID, nil
}

func (r *mongoPaymentRepo) GetActiveBySessionID(ctx context.Context, sessionID string) (*models.PaymentRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"sessionId": sessionID,
		"status":    models.PaymentStatusSuccess,
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment records for session %s: %w", sessionID, err)
	}
	defer cursor.Close(ctx)

	var records []models.PaymentRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode payment records: %w", err)
	}

	switch len(records) {
	case 0:
		return nil, ErrRecordNotFound
	case 1:
		return &records[0], nil
	default:
		return nil, ErrAmbiguousRecord
	}
}

func (r *mongoPaymentRepo) MarkRefunded(ctx context.Context, recordID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": recordID},
		bson.M{"$set": bson.M{"status": models.PaymentStatusRefund}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark payment record %s refunded: %w", recordID, err)
	}
	if res.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *mongoPaymentRepo) ListBySessionID(ctx context.Context, sessionID string) ([]models.PaymentRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"sessionId": sessionID})
	if err != nil {
		return nil, fmt.Errorf("failed to query payment records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.PaymentRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode payment records: %w", err)
	}
	return records, nil
}
