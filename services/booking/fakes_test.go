package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	paymentRepo "tutorhive/database/repository/payment"
	sessionRepo "tutorhive/database/repository/session"
	userRepo "tutorhive/database/repository/user"
	"tutorhive/models"
	"tutorhive/services/meeting"
	"tutorhive/services/notification"
	"tutorhive/services/payment"
)

// fakeSlotRepo is an in-memory SlotRepository with the same conditional
// transition semantics as the Mongo implementation.
type fakeSlotRepo struct {
	mu    sync.Mutex
	slots map[string]*models.TimeSlot

	claimErr   error
	releaseErr error
	findErr    error
}

func newFakeSlotRepo(slots ...models.TimeSlot) *fakeSlotRepo {
	r := &fakeSlotRepo{slots: make(map[string]*models.TimeSlot)}
	for i := range slots {
		s := slots[i]
		r.slots[s.ID] = &s
	}
	return r
}

func (r *fakeSlotRepo) findByStatus(tutorID, date, status string, times []time.Time) []models.TimeSlot {
	wanted := make(map[time.Time]bool, len(times))
	for _, t := range times {
		wanted[t] = true
	}
	var out []models.TimeSlot
	for _, s := range r.slots {
		if s.TutorID == tutorID && s.Date == date && s.Status == status && wanted[s.StartTime] {
			out = append(out, *s)
		}
	}
	return out
}

func (r *fakeSlotRepo) FindFree(ctx context.Context, tutorID, date string, times []time.Time) ([]models.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.findByStatus(tutorID, date, models.SlotStatusFree, times), nil
}

func (r *fakeSlotRepo) FindBooked(ctx context.Context, tutorID, date string, times []time.Time) ([]models.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.findByStatus(tutorID, date, models.SlotStatusBooked, times), nil
}

func (r *fakeSlotRepo) transition(slotID, from, to string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[slotID]
	if !ok {
		return false, fmt.Errorf("time slot not found")
	}
	if s.Status != from {
		return false, nil
	}
	s.Status = to
	s.Version++
	return true, nil
}

func (r *fakeSlotRepo) Claim(ctx context.Context, slotID string) (bool, error) {
	if r.claimErr != nil {
		return false, r.claimErr
	}
	return r.transition(slotID, models.SlotStatusFree, models.SlotStatusBooked)
}

func (r *fakeSlotRepo) Release(ctx context.Context, slotID string) (bool, error) {
	if r.releaseErr != nil {
		return false, r.releaseErr
	}
	return r.transition(slotID, models.SlotStatusBooked, models.SlotStatusFree)
}

func (r *fakeSlotRepo) GetByID(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[slotID]
	if !ok {
		return nil, fmt.Errorf("time slot not found")
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSlotRepo) Create(ctx context.Context, slot models.TimeSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[slot.ID] = &slot
	return nil
}

func (r *fakeSlotRepo) EnsureIndexes() error { return nil }

func (r *fakeSlotRepo) status(slotID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.slots[slotID]; ok {
		return s.Status
	}
	return ""
}

func (r *fakeSlotRepo) countByStatus(status string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.slots {
		if s.Status == status {
			n++
		}
	}
	return n
}

// fakeSessionRepo is an in-memory SessionRepository.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
	nextID   int

	createErr error
}

func newFakeSessionRepo(sessions ...models.Session) *fakeSessionRepo {
	r := &fakeSessionRepo{sessions: make(map[string]*models.Session)}
	for i := range sessions {
		s := sessions[i]
		r.sessions[s.ID] = &s
	}
	return r
}

func (r *fakeSessionRepo) Create(ctx context.Context, session models.Session) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return "", r.createErr
	}
	r.nextID++
	session.ID = fmt.Sprintf("sess-%d", r.nextID)
	session.CreatedAt = time.Now()
	r.sessions[session.ID] = &session
	return session.ID, nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, sessionID string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, sessionRepo.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) UpdateStatusIfCurrent(ctx context.Context, sessionID, current, next string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok || s.Status != current {
		return false, nil
	}
	s.Status = next
	return true, nil
}

func (r *fakeSessionRepo) SetTitle(ctx context.Context, sessionID, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[sessionID]; ok {
		s.Title = title
	}
	return nil
}

func (r *fakeSessionRepo) SetMeetingURLs(ctx context.Context, sessionID, hostURL, joinURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[sessionID]; ok {
		s.HostURL = hostURL
		s.JoinURL = joinURL
		s.MeetingPending = false
	}
	return nil
}

// fakePaymentRepo is an in-memory PaymentRecordRepository.
type fakePaymentRepo struct {
	mu      sync.Mutex
	records map[string]*models.PaymentRecord
	nextID  int

	createErr error
}

func newFakePaymentRepo(records ...models.PaymentRecord) *fakePaymentRepo {
	r := &fakePaymentRepo{records: make(map[string]*models.PaymentRecord)}
	for i := range records {
		rec := records[i]
		r.records[rec.ID] = &rec
	}
	// Seeded fixtures use IDs of the form "pay-N"; start the counter past
	// them so Create never reuses a seeded ID.
	r.nextID = len(records)
	return r
}

func (r *fakePaymentRepo) Create(ctx context.Context, record models.PaymentRecord) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return "", r.createErr
	}
	r.nextID++
	record.ID = fmt.Sprintf("pay-%d", r.nextID)
	record.CreatedAt = time.Now()
	r.records[record.ID] = &record
	return record.ID, nil
}

func (r *fakePaymentRepo) GetActiveBySessionID(ctx context.Context, sessionID string) (*models.PaymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matches []*models.PaymentRecord
	for _, rec := range r.records {
		if rec.SessionID == sessionID && rec.Status == models.PaymentStatusSuccess {
			matches = append(matches, rec)
		}
	}
	switch len(matches) {
	case 0:
		return nil, paymentRepo.ErrRecordNotFound
	case 1:
		cp := *matches[0]
		return &cp, nil
	default:
		return nil, paymentRepo.ErrAmbiguousRecord
	}
}

func (r *fakePaymentRepo) MarkRefunded(ctx context.Context, recordID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[recordID]
	if !ok {
		return paymentRepo.ErrRecordNotFound
	}
	rec.Status = models.PaymentStatusRefund
	return nil
}

func (r *fakePaymentRepo) ListBySessionID(ctx context.Context, sessionID string) ([]models.PaymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.PaymentRecord
	for _, rec := range r.records {
		if rec.SessionID == sessionID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) statusOf(recordID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[recordID]; ok {
		return rec.Status
	}
	return ""
}

// fakeUserRepo serves fixed users.
type fakeUserRepo struct {
	users map[string]models.User
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID string) (*models.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, userRepo.ErrUserNotFound
	}
	return &u, nil
}

// fakeGateway serves canned intents and records refunds.
type fakeGateway struct {
	mu      sync.Mutex
	intents map[string]*payment.Intent
	refunds []int64

	refundErr error
}

func newFakeGateway(intents ...payment.Intent) *fakeGateway {
	g := &fakeGateway{intents: make(map[string]*payment.Intent)}
	for i := range intents {
		in := intents[i]
		g.intents[in.ID] = &in
	}
	return g
}

func (g *fakeGateway) RetrieveIntent(ctx context.Context, intentID string) (*payment.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	in, ok := g.intents[intentID]
	if !ok {
		return nil, errors.New("no such payment_intent")
	}
	cp := *in
	return &cp, nil
}

func (g *fakeGateway) CreateRefund(ctx context.Context, intentID string, amount int64) (*payment.Refund, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.refundErr != nil {
		return nil, g.refundErr
	}
	if _, ok := g.intents[intentID]; !ok {
		return nil, errors.New("no such payment_intent")
	}
	g.refunds = append(g.refunds, amount)
	return &payment.Refund{ID: "re_1", Status: "succeeded"}, nil
}

func (g *fakeGateway) refundCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.refunds)
}

// fakeProvisioner returns fixed URLs, or fails when err is set.
type fakeProvisioner struct {
	err   error
	calls int
}

func (p *fakeProvisioner) CreateMeeting(ctx context.Context, title string, start time.Time, durationMinutes int) (*meeting.Meeting, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &meeting.Meeting{
		HostURL: "https://zoom.example/host",
		JoinURL: "https://zoom.example/join",
	}, nil
}

// fakeNotifier records sent emails.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification.CancellationEmail
}

func (n *fakeNotifier) SendCancellationEmail(ctx context.Context, email notification.CancellationEmail) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, email)
	return nil
}

// fakeTokenStore is an in-memory CancelTokenStore.
type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]string)}
}

func (s *fakeTokenStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[key], nil
}

func (s *fakeTokenStore) Put(ctx context.Context, key, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[key] = sessionID
	return nil
}

// fakeEnqueuer records enqueued session ids.
type fakeEnqueuer struct {
	mu       sync.Mutex
	enqueued []string
}

func (e *fakeEnqueuer) EnqueueMeetingProvision(sessionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enqueued = append(e.enqueued, sessionID)
	return nil
}
