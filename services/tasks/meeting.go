package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TypeMeetingProvision = "meeting:provision"

// MeetingProvisionPayload identifies the session whose meeting still needs
// to be provisioned.
type MeetingProvisionPayload struct {
	SessionID string `json:"sessionId"`
}

// NewMeetingProvisionTask builds a retryable provisioning task for a
// session that was booked while the conferencing API was unavailable.
func NewMeetingProvisionTask(sessionID string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(MeetingProvisionPayload{SessionID: sessionID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeMeetingProvision, b)
	opts := []asynq.Option{asynq.MaxRetry(10), asynq.Queue("default")}

	return task, opts, nil
}
