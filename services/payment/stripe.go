package payment

import (
	"context"
	"fmt"
	"time"

	"tutorhive/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"go.uber.org/zap"
)

// StripeGateway implements Gateway over the Stripe API. The API key is set
// globally on the stripe package in main.
type StripeGateway struct {
	Timeout time.Duration
}

// NewStripeGateway returns a StripeGateway with a bounded per-call timeout.
func NewStripeGateway() *StripeGateway {
	return &StripeGateway{Timeout: 10 * time.Second}
}

func (g *StripeGateway) RetrieveIntent(ctx context.Context, intentID string) (*Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	}
	pi, err := paymentintent.Get(intentID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payment intent %s: %w", intentID, err)
	}
	return &Intent{
		ID:     pi.ID,
		Status: string(pi.Status),
	}, nil
}

func (g *StripeGateway) CreateRefund(ctx context.Context, intentID string, amount int64) (*Refund, error) {
	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	params := &stripe.RefundParams{
		Params:        stripe.Params{Context: ctx},
		PaymentIntent: stripe.String(intentID),
		Amount:        stripe.Int64(amount),
	}
	ref, err := refund.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create refund for intent %s: %w", intentID, err)
	}

	utils.GetLogger().Info("Refund issued",
		zap.String("intentId", intentID),
		zap.String("refundId", ref.ID),
		zap.Int64("amount", amount),
	)
	return &Refund{
		ID:     ref.ID,
		Status: string(ref.Status),
	}, nil
}
