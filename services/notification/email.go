package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tutorhive/config"
	"tutorhive/utils"

	"go.uber.org/zap"
)

// EmailNotificationService is the production implementation, posting to a
// transactional email HTTP API.
type EmailNotificationService struct {
	client *http.Client
}

// NewEmailNotificationService returns an EmailNotificationService with a
// bounded HTTP client.
func NewEmailNotificationService() *EmailNotificationService {
	return &EmailNotificationService{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type mailPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

func (s *EmailNotificationService) SendCancellationEmail(ctx context.Context, email CancellationEmail) error {
	if config.AppConfig.MailAPIURL == "" || config.AppConfig.MailAPIKey == "" {
		// No mail provider configured; nothing to send.
		utils.GetLogger().Debug("Mail API not configured, skipping cancellation email",
			zap.String("to", email.To))
		return nil
	}

	var counterpart string
	if email.Role == "tutor" {
		counterpart = email.StudentName
	} else {
		counterpart = email.TutorName
	}

	text := fmt.Sprintf(
		"Your tutoring session with %s on %s at %s has been canceled.",
		counterpart, email.Date, email.Time,
	)
	if email.Reason != "" {
		text += fmt.Sprintf(" Reason: %s.", email.Reason)
	}
	if email.Role == "student" && email.Amount > 0 {
		text += fmt.Sprintf(" A refund of %d has been issued to your original payment method.", email.Amount)
	}

	payload := mailPayload{
		From:    config.AppConfig.MailFrom,
		To:      email.To,
		Subject: "Your tutoring session has been canceled",
		Text:    text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, config.AppConfig.MailAPIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+config.AppConfig.MailAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("mail request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail API returned status %d", resp.StatusCode)
	}

	utils.GetLogger().Info("Cancellation email sent",
		zap.String("to", email.To),
		zap.String("role", email.Role),
	)
	return nil
}
