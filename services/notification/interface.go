package notification

import "context"

// CancellationEmail carries everything the email template needs.
type CancellationEmail struct {
	To          string
	Role        string // "student" or "tutor"
	StudentName string
	TutorName   string
	Date        string
	Time        string
	Reason      string
	Amount      int64 // refunded amount, minor units
}

// NotificationService sends best-effort cancellation emails. Failures are
// logged by callers, never escalated: by the time an email goes out the
// cancellation has already committed.
type NotificationService interface {
	SendCancellationEmail(ctx context.Context, email CancellationEmail) error
}
