package models

import "time"

// Session status values. Allowed transitions: scheduled -> ongoing,
// scheduled -> canceled, ongoing -> completed. Canceled is terminal.
const (
	SessionStatusScheduled = "scheduled"
	SessionStatusOngoing   = "ongoing"
	SessionStatusCompleted = "completed"
	SessionStatusCanceled  = "canceled"
)

// Session represents a booked engagement between a student and a tutor.
type Session struct {
	ID        string      `bson:"id" json:"id"`
	StudentID string      `bson:"studentId" json:"studentId"`
	TutorID   string      `bson:"tutorId" json:"tutorId"`
	Slots     []time.Time `bson:"slots" json:"slots"` // start times of the slots the session occupies
	Status    string      `bson:"status" json:"status"`
	Subject   string      `bson:"subject,omitempty" json:"subject,omitempty"`
	Price     int64       `bson:"price" json:"price"` // minor units
	Date      string      `bson:"date" json:"date"`   // e.g., "2025-10-15"
	// DurationMinutes is the sum of the booked slots' stored durations,
	// captured at booking time for meeting provisioning.
	DurationMinutes int       `bson:"durationMinutes" json:"durationMinutes"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	HostURL         string    `bson:"hostUrl,omitempty" json:"hostUrl,omitempty"`
	JoinURL         string    `bson:"joinUrl,omitempty" json:"joinUrl,omitempty"`
	// MeetingPending is set when conference provisioning failed during
	// booking and is being retried asynchronously.
	MeetingPending bool   `bson:"meetingPending,omitempty" json:"meetingPending,omitempty"`
	Title          string `bson:"title,omitempty" json:"title,omitempty"`
}
