package models

import "time"

// TimeSlot status values. A slot only ever moves free->booked or booked->free.
const (
	SlotStatusFree   = "free"
	SlotStatusBooked = "booked"
)

// TimeSlot represents one bookable window on a tutor's calendar. Slots are
// created ahead of time by tutor-side scheduling; the booking workflow only
// flips their status.
type TimeSlot struct {
	ID              string    `bson:"id" json:"id"`
	TutorID         string    `bson:"tutorId" json:"tutorId"`
	Date            string    `bson:"date" json:"date"` // e.g., "2025-10-15"
	StartTime       time.Time `bson:"startTime" json:"startTime"`
	EndTime         time.Time `bson:"endTime" json:"endTime"`
	DurationMinutes int       `bson:"durationMinutes" json:"durationMinutes"`
	Status          string    `bson:"status" json:"status"`
	// LastAccess is advisory only, used for abandoned-checkout detection.
	LastAccess time.Time `bson:"lastAccess,omitempty" json:"lastAccess,omitempty"`
	// Version is bumped on every status transition so concurrent claims
	// can be detected by the conditional update filter.
	Version int `bson:"version" json:"version"`
}
