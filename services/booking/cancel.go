package booking

import (
	"context"
	"errors"

	paymentRepo "tutorhive/database/repository/payment"
	sessionRepo "tutorhive/database/repository/session"
	"tutorhive/models"
	"tutorhive/services/notification"
	"tutorhive/utils"

	"go.uber.org/zap"
)

// CancelAndRefund reverses a booking: it refunds the captured payment,
// releases the session's slots, marks the session canceled and notifies
// both parties. A bare repeat call fails with AlreadyCanceled; a retry that
// carries the same idempotency key as the original call is answered with
// the already-canceled session instead.
func (s *DefaultBookingService) CancelAndRefund(ctx context.Context, req CancelRequest) (*models.Session, error) {
	logger := utils.GetLogger()

	// Replayed cancellation: same idempotency key as a completed one.
	if req.IdempotencyKey != "" && s.Tokens != nil {
		storedID, err := s.Tokens.Get(ctx, req.IdempotencyKey)
		if err != nil {
			logger.Warn("Failed to read cancel idempotency token", zap.Error(err))
		} else if storedID != "" && storedID == req.SessionID {
			session, err := s.Sessions.GetByID(ctx, req.SessionID)
			if err != nil {
				return nil, newWorkflowError(CodeStorageFailed, "failed to load session", err)
			}
			return session, nil
		}
	}

	// Precondition 1: the session exists.
	session, err := s.Sessions.GetByID(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, newWorkflowError(CodeNotFound, "session not found", nil)
		}
		return nil, newWorkflowError(CodeStorageFailed, "failed to load session", err)
	}

	// Precondition 2: not canceled already.
	if session.Status == models.SessionStatusCanceled {
		return nil, newWorkflowError(CodeAlreadyCanceled, "session is already canceled", nil)
	}

	// Precondition 3: the slots it occupies are actually booked.
	bookedSlots, err := s.Slots.FindBooked(ctx, session.TutorID, session.Date, session.Slots)
	if err != nil {
		return nil, newWorkflowError(CodeStorageFailed, "failed to locate booked slots", err)
	}
	if len(bookedSlots) == 0 {
		return nil, newWorkflowError(CodeNoBookedSlotsFound,
			"no booked time slots found for this session", nil)
	}

	// Precondition 4: exactly one active payment record whose intent the
	// gateway still recognizes.
	record, err := s.Payments.GetActiveBySessionID(ctx, session.ID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrRecordNotFound) || errors.Is(err, paymentRepo.ErrAmbiguousRecord) {
			return nil, newWorkflowError(CodePaymentIntentNotFound,
				"no refundable payment found for this session", err)
		}
		return nil, newWorkflowError(CodeStorageFailed, "failed to load payment record", err)
	}
	if _, err := s.Gateway.RetrieveIntent(ctx, record.PaymentIntentID); err != nil {
		return nil, newWorkflowError(CodePaymentIntentNotFound,
			"no refundable payment found for this session", err)
	}

	// Step 1: refund first. If this fails nothing has changed locally.
	amount := s.Refunds.Amount(session.Price)
	if _, err := s.Gateway.CreateRefund(ctx, record.PaymentIntentID, amount); err != nil {
		return nil, newWorkflowError(CodeRefundFailed, "failed to process refund", err)
	}

	// Step 2: release every booked slot.
	for _, slot := range bookedSlots {
		if _, err := s.Slots.Release(ctx, slot.ID); err != nil {
			return nil, newWorkflowError(CodeStorageFailed, "failed to release time slot", err)
		}
	}

	// Step 3: session to canceled, conditional on the status we read.
	ok, err := s.Sessions.UpdateStatusIfCurrent(ctx, session.ID, session.Status, models.SessionStatusCanceled)
	if err != nil {
		return nil, newWorkflowError(CodeStorageFailed, "failed to update session status", err)
	}
	if !ok {
		// A concurrent cancellation won between our read and this write.
		return nil, newWorkflowError(CodeAlreadyCanceled, "session is already canceled", nil)
	}

	// Step 4: mark only the record that was actually refunded.
	if err := s.Payments.MarkRefunded(ctx, record.ID); err != nil {
		return nil, newWorkflowError(CodeStorageFailed, "failed to update payment record", err)
	}

	// The cancellation has committed; everything below is best effort.
	s.notifyCancellation(ctx, session, req.Reason, amount)

	if req.IdempotencyKey != "" && s.Tokens != nil {
		if err := s.Tokens.Put(ctx, req.IdempotencyKey, session.ID); err != nil {
			logger.Warn("Failed to store cancel idempotency token", zap.Error(err))
		}
	}

	logger.Info("Session canceled",
		zap.String("sessionId", session.ID),
		zap.Int64("refundAmount", amount),
		zap.Int("slotsReleased", len(bookedSlots)),
	)

	updated, err := s.Sessions.GetByID(ctx, session.ID)
	if err != nil {
		return nil, newWorkflowError(CodeStorageFailed, "failed to load canceled session", err)
	}
	return updated, nil
}

// notifyCancellation emails both parties. Lookup or delivery failures are
// logged only; the cancellation has already succeeded.
func (s *DefaultBookingService) notifyCancellation(ctx context.Context, session *models.Session, reason string, amount int64) {
	logger := utils.GetLogger()

	student, err := s.Users.GetByID(ctx, session.StudentID)
	if err != nil {
		logger.Warn("Failed to load student for cancellation email",
			zap.String("studentId", session.StudentID), zap.Error(err))
		return
	}
	tutor, err := s.Users.GetByID(ctx, session.TutorID)
	if err != nil {
		logger.Warn("Failed to load tutor for cancellation email",
			zap.String("tutorId", session.TutorID), zap.Error(err))
		return
	}

	timeStr := ""
	if len(session.Slots) > 0 {
		timeStr = session.Slots[0].Format("15:04")
	}

	for _, target := range []struct {
		to   string
		role string
	}{
		{student.Email, models.RoleStudent},
		{tutor.Email, models.RoleTutor},
	} {
		email := notification.CancellationEmail{
			To:          target.to,
			Role:        target.role,
			StudentName: student.Name,
			TutorName:   tutor.Name,
			Date:        session.Date,
			Time:        timeStr,
			Reason:      reason,
			Amount:      amount,
		}
		if err := s.Notifier.SendCancellationEmail(ctx, email); err != nil {
			logger.Warn("Failed to send cancellation email",
				zap.String("to", target.to),
				zap.String("role", target.role),
				zap.Error(err),
			)
		}
	}
}
