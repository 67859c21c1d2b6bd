package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"tutorhive/models"
	"tutorhive/services/payment"
)

type cancelFixture struct {
	svc      *DefaultBookingService
	slots    *fakeSlotRepo
	sessions *fakeSessionRepo
	payments *fakePaymentRepo
	gateway  *fakeGateway
	notifier *fakeNotifier
	tokens   *fakeTokenStore

	sessionID string
	recordID  string
}

// newCancelFixture builds a committed booking: two booked slots, a
// scheduled session and one success payment record.
func newCancelFixture(price int64) *cancelFixture {
	t1 := time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)

	slots := testSlots(t1, t2)
	for i := range slots {
		slots[i].Status = models.SlotStatusBooked
	}

	f := &cancelFixture{
		slots: newFakeSlotRepo(slots...),
		sessions: newFakeSessionRepo(models.Session{
			ID:              "sess-1",
			StudentID:       testStudentID,
			TutorID:         testTutorID,
			Slots:           []time.Time{t1, t2},
			Status:          models.SessionStatusScheduled,
			Price:           price,
			Date:            testDate,
			DurationMinutes: 120,
		}),
		payments: newFakePaymentRepo(models.PaymentRecord{
			ID:              "pay-1",
			StudentID:       testStudentID,
			SessionID:       "sess-1",
			PaymentIntentID: testIntentID,
			Amount:          price,
			Status:          models.PaymentStatusSuccess,
		}),
		gateway: newFakeGateway(payment.Intent{
			ID:     testIntentID,
			Status: payment.IntentStatusSucceeded,
		}),
		notifier:  &fakeNotifier{},
		tokens:    newFakeTokenStore(),
		sessionID: "sess-1",
		recordID:  "pay-1",
	}
	f.svc = &DefaultBookingService{
		Slots:    f.slots,
		Sessions: f.sessions,
		Payments: f.payments,
		Users: newFakeUserRepo(
			models.User{ID: testStudentID, Name: "Amina", Email: "amina@example.com", Role: models.RoleStudent},
			models.User{ID: testTutorID, Name: "Brian", Email: "brian@example.com", Role: models.RoleTutor},
		),
		Gateway:     f.gateway,
		Provisioner: &fakeProvisioner{},
		Notifier:    f.notifier,
		Refunds:     NewRefundPolicy(DefaultRefundUnitDivisor),
		Tasks:       &fakeEnqueuer{},
		Tokens:      f.tokens,
	}
	return f
}

func TestCancelAndRefundHappyPath(t *testing.T) {
	f := newCancelFixture(600)

	session, err := f.svc.CancelAndRefund(context.Background(), CancelRequest{
		SessionID: f.sessionID,
		Reason:    "student unavailable",
	})
	if err != nil {
		t.Fatalf("expected cancellation to succeed, got %v", err)
	}
	if session.Status != models.SessionStatusCanceled {
		t.Errorf("expected canceled session, got %q", session.Status)
	}

	if got := f.slots.countByStatus(models.SlotStatusFree); got != 2 {
		t.Errorf("expected both slots released, got %d free", got)
	}
	if got := f.payments.statusOf(f.recordID); got != models.PaymentStatusRefund {
		t.Errorf("expected payment record marked refund, got %q", got)
	}
	// 600 scaled by the divisor of 300 refunds 2 units.
	if len(f.gateway.refunds) != 1 || f.gateway.refunds[0] != 2 {
		t.Errorf("expected one refund of 2, got %v", f.gateway.refunds)
	}
	if len(f.notifier.sent) != 2 {
		t.Fatalf("expected emails to both parties, got %d", len(f.notifier.sent))
	}
	roles := map[string]bool{}
	for _, email := range f.notifier.sent {
		roles[email.Role] = true
		if email.Reason != "student unavailable" {
			t.Errorf("expected reason in email, got %q", email.Reason)
		}
	}
	if !roles[models.RoleStudent] || !roles[models.RoleTutor] {
		t.Errorf("expected one email per role, got %v", roles)
	}
}

func TestCancelAndRefundRoundsSmallAmounts(t *testing.T) {
	// 100 / 300 rounds to 0: the refund is still issued, for zero units.
	f := newCancelFixture(100)

	if _, err := f.svc.CancelAndRefund(context.Background(), CancelRequest{SessionID: f.sessionID}); err != nil {
		t.Fatalf("expected cancellation to succeed, got %v", err)
	}
	if len(f.gateway.refunds) != 1 || f.gateway.refunds[0] != 0 {
		t.Errorf("expected one refund of 0, got %v", f.gateway.refunds)
	}
}

func TestCancelAndRefundUnknownSession(t *testing.T) {
	f := newCancelFixture(600)

	_, err := f.svc.CancelAndRefund(context.Background(), CancelRequest{SessionID: "sess-missing"})
	if ErrorCode(err) != CodeNotFound {
		t.Fatalf("expected notFound, got %v", err)
	}
}

func TestCancelAndRefundSecondCallRejected(t *testing.T) {
	f := newCancelFixture(600)

	if _, err := f.svc.CancelAndRefund(context.Background(), CancelRequest{SessionID: f.sessionID}); err != nil {
		t.Fatalf("first cancellation failed: %v", err)
	}
	_, err := f.svc.CancelAndRefund(context.Background(), CancelRequest{SessionID: f.sessionID})
	if ErrorCode(err) != CodeAlreadyCanceled {
		t.Fatalf("expected alreadyCanceled on repeat, got %v", err)
	}
	if got := f.gateway.refundCount(); got != 1 {
		t.Errorf("expected a single refund, got %d", got)
	}
}

func TestCancelAndRefundIdempotentRetry(t *testing.T) {
	f := newCancelFixture(600)
	req := CancelRequest{
		SessionID:      f.sessionID,
		IdempotencyKey: "key-1",
	}

	first, err := f.svc.CancelAndRefund(context.Background(), req)
	if err != nil {
		t.Fatalf("first cancellation failed: %v", err)
	}

	// Same key again: replies with the canceled session, no second refund.
	second, err := f.svc.CancelAndRefund(context.Background(), req)
	if err != nil {
		t.Fatalf("expected replay to succeed, got %v", err)
	}
	if second.ID != first.ID || second.Status != models.SessionStatusCanceled {
		t.Errorf("expected the canceled session back, got %+v", second)
	}
	if got := f.gateway.refundCount(); got != 1 {
		t.Errorf("expected a single refund across the retry, got %d", got)
	}
}

func TestCancelAndRefundNoBookedSlots(t *testing.T) {
	f := newCancelFixture(600)

	// Release the slots out of band so the session points at free slots.
	for _, id := range []string{"slot-1", "slot-2"} {
		if ok, err := f.slots.Release(context.Background(), id); err != nil || !ok {
			t.Fatalf("fixture release failed: ok=%v err=%v", ok, err)
		}
	}

	_, err := f.svc.CancelAndRefund(context.Background(), CancelRequest{SessionID: f.sessionID})
	if ErrorCode(err) != CodeNoBookedSlotsFound {
		t.Fatalf("expected noBookedSlotsFound, got %v", err)
	}
	if got := f.gateway.refundCount(); got != 0 {
		t.Errorf("expected no refund, got %d", got)
	}
}

func TestCancelAndRefundMissingPaymentRecord(t *testing.T) {
	f := newCancelFixture(600)
	f.payments = newFakePaymentRepo()
	f.svc.Payments = f.payments

	_, err := f.svc.CancelAndRefund(context.Background(), CancelRequest{SessionID: f.sessionID})
	if ErrorCode(err) != CodePaymentIntentNotFound {
		t.Fatalf("expected paymentIntentNotFound, got %v", err)
	}
}

func TestCancelAndRefundAmbiguousPaymentRecords(t *testing.T) {
	f := newCancelFixture(600)
	if _, err := f.payments.Create(context.Background(), models.PaymentRecord{
		StudentID:       testStudentID,
		SessionID:       f.sessionID,
		PaymentIntentID: "pi_test_2",
		Amount:          600,
		Status:          models.PaymentStatusSuccess,
	}); err != nil {
		t.Fatalf("fixture record failed: %v", err)
	}

	_, err := f.svc.CancelAndRefund(context.Background(), CancelRequest{SessionID: f.sessionID})
	if ErrorCode(err) != CodePaymentIntentNotFound {
		t.Fatalf("expected paymentIntentNotFound for ambiguous records, got %v", err)
	}
	if got := f.gateway.refundCount(); got != 0 {
		t.Errorf("expected no refund, got %d", got)
	}
}

func TestCancelAndRefundGatewayRefundFailure(t *testing.T) {
	f := newCancelFixture(600)
	f.gateway.refundErr = errors.New("stripe 500")

	_, err := f.svc.CancelAndRefund(context.Background(), CancelRequest{SessionID: f.sessionID})
	if ErrorCode(err) != CodeRefundFailed {
		t.Fatalf("expected refundFailed, got %v", err)
	}

	// Nothing local changed: refund-first means a gateway failure leaves
	// the booking intact.
	if got := f.slots.countByStatus(models.SlotStatusBooked); got != 2 {
		t.Errorf("expected slots to stay booked, got %d booked", got)
	}
	session, err := f.sessions.GetByID(context.Background(), f.sessionID)
	if err != nil {
		t.Fatalf("expected session to exist: %v", err)
	}
	if session.Status != models.SessionStatusScheduled {
		t.Errorf("expected session to stay scheduled, got %q", session.Status)
	}
	if got := f.payments.statusOf(f.recordID); got != models.PaymentStatusSuccess {
		t.Errorf("expected payment record untouched, got %q", got)
	}
}

func TestCancelAndRefundMarksOnlyTheRefundedRecord(t *testing.T) {
	f := newCancelFixture(600)
	// A failed earlier attempt shares the session; it must not be touched.
	if _, err := f.payments.Create(context.Background(), models.PaymentRecord{
		StudentID:       testStudentID,
		SessionID:       f.sessionID,
		PaymentIntentID: "pi_failed",
		Amount:          600,
		Status:          models.PaymentStatusFailed,
	}); err != nil {
		t.Fatalf("fixture record failed: %v", err)
	}

	if _, err := f.svc.CancelAndRefund(context.Background(), CancelRequest{SessionID: f.sessionID}); err != nil {
		t.Fatalf("expected cancellation to succeed, got %v", err)
	}

	records, err := f.payments.ListBySessionID(context.Background(), f.sessionID)
	if err != nil {
		t.Fatalf("listing records failed: %v", err)
	}
	for _, rec := range records {
		switch rec.PaymentIntentID {
		case testIntentID:
			if rec.Status != models.PaymentStatusRefund {
				t.Errorf("expected refunded record, got %q", rec.Status)
			}
		case "pi_failed":
			if rec.Status != models.PaymentStatusFailed {
				t.Errorf("expected failed record untouched, got %q", rec.Status)
			}
		}
	}
}
