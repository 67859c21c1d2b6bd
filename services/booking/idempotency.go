package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// CancelTokenStore records completed cancellations under a caller-supplied
// idempotency key so client retries of the same cancellation are answered
// with the original outcome instead of AlreadyCanceled.
type CancelTokenStore interface {
	// Get returns the session id stored for the key, or "" when unseen.
	Get(ctx context.Context, key string) (string, error)
	// Put stores the key -> session id mapping.
	Put(ctx context.Context, key, sessionID string) error
}

const cancelTokenTTL = 24 * time.Hour

// RedisCancelTokenStore implements CancelTokenStore on Redis.
type RedisCancelTokenStore struct {
	Client *redis.Client
}

func (s *RedisCancelTokenStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.Client.Get(ctx, cancelTokenKey(key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read cancel token: %w", err)
	}
	return val, nil
}

func (s *RedisCancelTokenStore) Put(ctx context.Context, key, sessionID string) error {
	if err := s.Client.Set(ctx, cancelTokenKey(key), sessionID, cancelTokenTTL).Err(); err != nil {
		return fmt.Errorf("failed to store cancel token: %w", err)
	}
	return nil
}

func cancelTokenKey(key string) string {
	return "cancel:" + key
}
