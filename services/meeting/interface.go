package meeting

import (
	"context"
	"time"
)

// Meeting holds the join URLs for a provisioned conference.
type Meeting struct {
	HostURL string
	JoinURL string
}

// Provisioner creates video-conference meetings for booked sessions. It is
// an external best-effort collaborator: a provisioning failure must never
// strand a paid session without recourse.
type Provisioner interface {
	CreateMeeting(ctx context.Context, title string, start time.Time, durationMinutes int) (*Meeting, error)
}
