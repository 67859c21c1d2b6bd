package payment

import "context"

// Intent is the gateway's authoritative view of a payment intent.
type Intent struct {
	ID     string
	Status string
}

// Refund is the gateway's record of an issued refund.
type Refund struct {
	ID     string
	Status string
}

// IntentStatusSucceeded is the only intent status the booking workflow
// accepts before committing any local state.
const IntentStatusSucceeded = "succeeded"

// Gateway is the payment gateway consumed by the booking workflow. It is a
// remote transactional resource; its success or failure must be reconciled
// with local state by the caller.
type Gateway interface {
	RetrieveIntent(ctx context.Context, intentID string) (*Intent, error)
	CreateRefund(ctx context.Context, intentID string, amount int64) (*Refund, error)
}
