package booking

import (
	"context"
	"fmt"
	"sync"

	"tutorhive/models"
	"tutorhive/services/payment"
	"tutorhive/utils"

	"go.uber.org/zap"
)

// ConfirmPaymentAndBook verifies a settled payment intent and books the
// proposed session: it claims the requested slots, provisions a meeting,
// creates the session record and writes the payment ledger entry. On any
// hard failure before the session exists, every slot claimed by this
// request is released again so no partial booking is visible.
func (s *DefaultBookingService) ConfirmPaymentAndBook(ctx context.Context, req ConfirmPaymentRequest) (*ConfirmPaymentResult, error) {
	logger := utils.GetLogger()

	// Step 1: input shape.
	if err := validateSessionDetails(req); err != nil {
		return nil, newWorkflowError(CodeInvalidRequest, err.Error(), nil)
	}
	details := req.SessionDetails

	// Step 2: the gateway is the authority on whether the payment settled.
	// Nothing has been written yet, so a hard stop here has no side effects.
	intent, err := s.Gateway.RetrieveIntent(ctx, req.PaymentIntentID)
	if err != nil {
		return nil, newWorkflowError(CodePaymentIntentNotFound, "payment intent could not be retrieved", err)
	}
	if intent.Status != payment.IntentStatusSucceeded {
		logger.Warn("Booking rejected: payment not completed",
			zap.String("intentId", req.PaymentIntentID),
			zap.String("status", intent.Status),
		)
		return nil, newWorkflowError(CodePaymentNotCompleted, "Payment not completed", nil)
	}

	// Step 3: availability check. A shorter result than the request means
	// another booking raced ahead for at least one slot.
	freeSlots, err := s.Slots.FindFree(ctx, details.TutorID, details.Date, details.Slots)
	if err != nil {
		return nil, newWorkflowError(CodeStorageFailed, "failed to check slot availability", err)
	}
	if len(freeSlots) != len(details.Slots) {
		return nil, newWorkflowError(CodeSlotUnavailable,
			"one of your selected time slots is not available now", nil)
	}

	// Step 4: claim every slot with a conditional free->booked update. The
	// claims run concurrently; if any claim loses its race, all slots this
	// request already claimed are released before returning.
	claimed, err := s.claimSlots(ctx, freeSlots)
	if err != nil {
		s.releaseSlots(ctx, claimed)
		return nil, err
	}

	durationMinutes := 0
	for _, slot := range freeSlots {
		durationMinutes += slot.DurationMinutes
	}

	// Step 5: provision the meeting. Conferencing is an external
	// best-effort dependency: when it fails the booking still commits,
	// with the meeting provisioned asynchronously afterwards.
	title := fmt.Sprintf("Tutoring Session-%s-%s", details.StudentID, details.TutorID)
	meetingPending := false
	var hostURL, joinURL string

	m, err := s.Provisioner.CreateMeeting(ctx, title, details.Slots[0], durationMinutes)
	if err != nil {
		logger.Warn("Meeting provisioning failed, deferring to background retry",
			zap.String("tutorId", details.TutorID),
			zap.Error(err),
		)
		meetingPending = true
	} else {
		hostURL = m.HostURL
		joinURL = m.JoinURL
	}

	// Step 6: create the session. This is the point of no return; a
	// storage failure here still has to undo the slot claims.
	session := models.Session{
		StudentID:       details.StudentID,
		TutorID:         details.TutorID,
		Slots:           details.Slots,
		Status:          details.Status,
		Subject:         details.Subject,
		Price:           details.Price,
		Date:            details.Date,
		DurationMinutes: durationMinutes,
		HostURL:         hostURL,
		JoinURL:         joinURL,
		MeetingPending:  meetingPending,
	}
	sessionID, err := s.Sessions.Create(ctx, session)
	if err != nil {
		s.releaseSlots(ctx, claimed)
		return nil, newWorkflowError(CodeStorageFailed, "failed to create session", err)
	}

	// Step 7: human-readable title, best effort. The session is already
	// usable without it.
	s.deriveTitle(ctx, sessionID, details.StudentID, details.TutorID)

	// Step 8: ledger entry tying the captured payment to the session.
	record := models.PaymentRecord{
		StudentID:       details.StudentID,
		SessionID:       sessionID,
		PaymentIntentID: req.PaymentIntentID,
		Amount:          details.Price,
		Status:          models.PaymentStatusSuccess,
	}
	if _, err := s.Payments.Create(ctx, record); err != nil {
		return nil, newWorkflowError(CodeStorageFailed, "failed to record payment", err)
	}

	if meetingPending && s.Tasks != nil {
		if err := s.Tasks.EnqueueMeetingProvision(sessionID); err != nil {
			logger.Error("Failed to enqueue meeting provisioning retry",
				zap.String("sessionId", sessionID),
				zap.Error(err),
			)
		}
	}

	logger.Info("Booking committed",
		zap.String("sessionId", sessionID),
		zap.String("tutorId", details.TutorID),
		zap.Int("slots", len(claimed)),
		zap.Bool("meetingPending", meetingPending),
	)

	return &ConfirmPaymentResult{
		SessionID:    sessionID,
		SlotsUpdated: len(claimed),
	}, nil
}

// claimSlots attempts the free->booked transition on every slot and returns
// the ids that were actually claimed. The returned slice is valid even when
// an error is returned, so the caller can compensate.
func (s *DefaultBookingService) claimSlots(ctx context.Context, slots []models.TimeSlot) ([]string, error) {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		claimed []string
		lost    bool
		failure error
	)

	for _, slot := range slots {
		wg.Add(1)
		go func(slotID string) {
			defer wg.Done()
			ok, err := s.Slots.Claim(ctx, slotID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				failure = err
			case !ok:
				lost = true
			default:
				claimed = append(claimed, slotID)
			}
		}(slot.ID)
	}
	wg.Wait()

	if failure != nil {
		return claimed, newWorkflowError(CodeStorageFailed, "failed to claim time slots", failure)
	}
	if lost {
		return claimed, newWorkflowError(CodeSlotUnavailable,
			"one of your selected time slots is not available now", nil)
	}
	return claimed, nil
}

// releaseSlots is the compensating action for claimSlots. Release failures
// are logged, not returned: the caller is already propagating the original
// error.
func (s *DefaultBookingService) releaseSlots(ctx context.Context, slotIDs []string) {
	logger := utils.GetLogger()
	for _, id := range slotIDs {
		if _, err := s.Slots.Release(ctx, id); err != nil {
			logger.Error("Failed to release claimed slot during compensation",
				zap.String("slotId", id),
				zap.Error(err),
			)
		}
	}
}

// deriveTitle loads both display names and stores a readable session title.
// Never fails the booking.
func (s *DefaultBookingService) deriveTitle(ctx context.Context, sessionID, studentID, tutorID string) {
	logger := utils.GetLogger()

	student, err := s.Users.GetByID(ctx, studentID)
	if err != nil {
		logger.Warn("Failed to load student for session title", zap.String("studentId", studentID), zap.Error(err))
		return
	}
	tutor, err := s.Users.GetByID(ctx, tutorID)
	if err != nil {
		logger.Warn("Failed to load tutor for session title", zap.String("tutorId", tutorID), zap.Error(err))
		return
	}

	title := fmt.Sprintf("%s - %s - %s", student.Name, tutor.Name, sessionID)
	if err := s.Sessions.SetTitle(ctx, sessionID, title); err != nil {
		logger.Warn("Failed to set session title", zap.String("sessionId", sessionID), zap.Error(err))
	}
}
