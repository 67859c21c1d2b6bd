package booking

import (
	"context"
	"time"

	"tutorhive/database/repository"
	"tutorhive/models"
	"tutorhive/services/meeting"
	"tutorhive/services/notification"
	"tutorhive/services/payment"
)

// SessionDetails is the proposed session accompanying a confirmed payment.
type SessionDetails struct {
	StudentID string      `json:"studentId"`
	TutorID   string      `json:"tutorId"`
	Slots     []time.Time `json:"slots"`
	Status    string      `json:"status"`
	Price     int64       `json:"price"`
	Date      string      `json:"date"`
	Subject   string      `json:"subject"`
}

// ConfirmPaymentRequest is the inbound payload for the booking workflow.
type ConfirmPaymentRequest struct {
	PaymentIntentID string         `json:"paymentIntentId"`
	SessionDetails  SessionDetails `json:"sessionDetails"`
}

// ConfirmPaymentResult reports a committed booking.
type ConfirmPaymentResult struct {
	SessionID    string `json:"sessionId"`
	SlotsUpdated int    `json:"slotsUpdated"`
}

// CancelRequest is the inbound payload for the cancellation workflow.
type CancelRequest struct {
	SessionID      string
	Reason         string
	IdempotencyKey string
}

// BookingService coordinates the slot, session and payment stores with the
// payment gateway, conference provisioner and notification sink. It owns no
// persistent state of its own.
type BookingService interface {
	ConfirmPaymentAndBook(ctx context.Context, req ConfirmPaymentRequest) (*ConfirmPaymentResult, error)
	CancelAndRefund(ctx context.Context, req CancelRequest) (*models.Session, error)
}

// TaskEnqueuer schedules background work. Kept narrow so the workflow does
// not depend on the queue implementation.
type TaskEnqueuer interface {
	EnqueueMeetingProvision(sessionID string) error
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Slots    repository.SlotRepository
	Sessions repository.SessionRepository
	Payments repository.PaymentRecordRepository
	Users    repository.UserRepository

	Gateway     payment.Gateway
	Provisioner meeting.Provisioner
	Notifier    notification.NotificationService

	Refunds RefundPolicy
	Tasks   TaskEnqueuer
	Tokens  CancelTokenStore
}
