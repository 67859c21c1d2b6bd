package paymentRepo

import (
	"context"
	"errors"

	"tutorhive/database"
	"tutorhive/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrRecordNotFound is returned when no payment record matches.
	ErrRecordNotFound = errors.New("payment record not found")
	// ErrAmbiguousRecord is returned when a session has more than one
	// active success record; refunds must resolve to exactly one.
	ErrAmbiguousRecord = errors.New("multiple active payment records for session")
)

// PaymentRecordRepository owns the ledger of payment attempts tied to
// sessions.
type PaymentRecordRepository interface {
	Create(ctx context.Context, record models.PaymentRecord) (string, error)
	// GetActiveBySessionID returns the single success-status record for a
	// session. ErrRecordNotFound when none, ErrAmbiguousRecord when more
	// than one.
	GetActiveBySessionID(ctx context.Context, sessionID string) (*models.PaymentRecord, error)
	// MarkRefunded flips the status of one specific record to refund.
	MarkRefunded(ctx context.Context, recordID string) error
	ListBySessionID(ctx context.Context, sessionID string) ([]models.PaymentRecord, error)
}

type mongoPaymentRepo struct {
	coll *mongo.Collection
}

// NewMongoPaymentRepo returns a PaymentRecordRepository backed by MongoDB.
func NewMongoPaymentRepo() PaymentRecordRepository {
	db := database.MongoClient.Database("tutorhive")
	return &mongoPaymentRepo{
		coll: db.Collection("payment_records"),
	}
}
