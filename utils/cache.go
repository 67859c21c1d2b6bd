// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"tutorhive/config"

	"github.com/go-redis/redis/v8"
)

// BookingCacheClient is the Redis client used by the booking workflow for
// cancellation idempotency tokens and other short-lived workflow state.
var BookingCacheClient *redis.Client

// InitBookingCache initializes the booking cache client.
func InitBookingCache() {
	BookingCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisBookingDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := BookingCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Booking Cache): %v", err)
	}
}

// GetBookingCacheClient returns the booking cache client.
func GetBookingCacheClient() *redis.Client {
	if BookingCacheClient == nil {
		InitBookingCache()
	}
	return BookingCacheClient
}
