package booking

import (
	"fmt"

	"tutorhive/services/tasks"

	"github.com/hibiken/asynq"
)

// AsynqEnqueuer implements TaskEnqueuer over an asynq client.
type AsynqEnqueuer struct {
	Client *asynq.Client
}

func (e *AsynqEnqueuer) EnqueueMeetingProvision(sessionID string) error {
	task, opts, err := tasks.NewMeetingProvisionTask(sessionID)
	if err != nil {
		return fmt.Errorf("failed to build provisioning task: %w", err)
	}
	if _, err := e.Client.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue provisioning task: %w", err)
	}
	return nil
}
