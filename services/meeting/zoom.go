package meeting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"tutorhive/config"
)

const (
	zoomTokenURL   = "https://zoom.us/oauth/token"
	zoomMeetingURL = "https://api.zoom.us/v2/users/me/meetings"
)

// ZoomProvisioner implements Provisioner against the Zoom REST API using a
// server-to-server OAuth app.
type ZoomProvisioner struct {
	client *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewZoomProvisioner returns a ZoomProvisioner with a bounded HTTP client.
func NewZoomProvisioner() *ZoomProvisioner {
	return &ZoomProvisioner{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type zoomTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type zoomMeetingRequest struct {
	Topic     string `json:"topic"`
	Type      int    `json:"type"` // 2 = scheduled meeting
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
	Timezone  string `json:"timezone"`
}

type zoomMeetingResponse struct {
	StartURL string `json:"start_url"`
	JoinURL  string `json:"join_url"`
}

func (z *ZoomProvisioner) CreateMeeting(ctx context.Context, title string, start time.Time, durationMinutes int) (*Meeting, error) {
	token, err := z.getAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with Zoom: %w", err)
	}

	payload := zoomMeetingRequest{
		Topic:     title,
		Type:      2,
		StartTime: start.UTC().Format("2006-01-02T15:04:05Z"),
		Duration:  durationMinutes,
		Timezone:  "UTC",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal meeting request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, zoomMeetingURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build meeting request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := z.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("meeting creation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("meeting creation returned status %d", resp.StatusCode)
	}

	var meetingResp zoomMeetingResponse
	if err := json.NewDecoder(resp.Body).Decode(&meetingResp); err != nil {
		return nil, fmt.Errorf("failed to decode meeting response: %w", err)
	}
	if meetingResp.StartURL == "" || meetingResp.JoinURL == "" {
		return nil, fmt.Errorf("meeting response missing join urls")
	}

	return &Meeting{
		HostURL: meetingResp.StartURL,
		JoinURL: meetingResp.JoinURL,
	}, nil
}

// getAccessToken returns a cached token or requests a new one via the
// account_credentials grant.
func (z *ZoomProvisioner) getAccessToken(ctx context.Context) (string, error) {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.accessToken != "" && time.Now().Before(z.tokenExpiry) {
		return z.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "account_credentials")
	form.Set("account_id", config.AppConfig.ZoomAccountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, zoomTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.SetBasicAuth(config.AppConfig.ZoomClientID, config.AppConfig.ZoomClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := z.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request returned status %d", resp.StatusCode)
	}

	var tokenResp zoomTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	z.accessToken = tokenResp.AccessToken
	// Refresh one minute early.
	z.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn-60) * time.Second)
	return z.accessToken, nil
}
