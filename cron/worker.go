package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"tutorhive/config"
	"tutorhive/database/repository"
	"tutorhive/models"
	"tutorhive/services/meeting"
	"tutorhive/services/tasks"

	"github.com/hibiken/asynq"
)

// InitProvisionWorker runs the async meeting-provisioning worker in
// background. It picks up sessions whose conference could not be created
// during booking and retries until the provider comes back.
func InitProvisionWorker(sessions repository.SessionRepository, provisioner meeting.Provisioner) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeMeetingProvision, handleMeetingProvisionTask(sessions, provisioner))

	go func() {
		log.Println("[ProvisionWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ProvisionWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ProvisionWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleMeetingProvisionTask(sessions repository.SessionRepository, provisioner meeting.Provisioner) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.MeetingProvisionPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ProvisionHandler] Invalid payload: %v", err)
			return err
		}

		session, err := sessions.GetByID(ctx, p.SessionID)
		if err != nil {
			log.Printf("[ProvisionHandler] Failed to load session %s: %v", p.SessionID, err)
			return err
		}

		// Another retry (or the booking itself) may have won already.
		if session.HostURL != "" && session.JoinURL != "" {
			return nil
		}
		// A canceled session no longer needs a meeting.
		if session.Status == models.SessionStatusCanceled {
			return nil
		}

		if len(session.Slots) == 0 {
			log.Printf("[ProvisionHandler] Session %s has no slots, dropping task", p.SessionID)
			return nil
		}

		title := fmt.Sprintf("Tutoring Session-%s-%s", session.StudentID, session.TutorID)
		m, err := provisioner.CreateMeeting(ctx, title, session.Slots[0], session.DurationMinutes)
		if err != nil {
			log.Printf("[ProvisionHandler] Provisioning failed for session %s, will retry: %v", p.SessionID, err)
			return err
		}

		if err := sessions.SetMeetingURLs(ctx, p.SessionID, m.HostURL, m.JoinURL); err != nil {
			log.Printf("[ProvisionHandler] Failed to persist meeting urls for session %s: %v", p.SessionID, err)
			return err
		}

		log.Printf("[ProvisionHandler] Meeting provisioned for session %s", p.SessionID)
		return nil
	}
}
