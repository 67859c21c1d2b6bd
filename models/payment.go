package models

import "time"

// PaymentRecord status values.
const (
	PaymentStatusSuccess = "success"
	PaymentStatusRefund  = "refund"
	PaymentStatusFailed  = "failed"
)

// PaymentRecord is one entry in the ledger of payment attempts tied to a
// session. A session has at most one record in status "success" that has
// not been superseded by a refund.
type PaymentRecord struct {
	ID              string    `bson:"id" json:"id"`
	StudentID       string    `bson:"studentId" json:"studentId"`
	SessionID       string    `bson:"sessionId" json:"sessionId"`
	PaymentIntentID string    `bson:"paymentIntentId" json:"paymentIntentId"`
	Amount          int64     `bson:"amount" json:"amount"` // minor units
	Status          string    `bson:"status" json:"status"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}
