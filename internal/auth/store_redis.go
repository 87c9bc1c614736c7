// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tabletoptracker/backend/internal/platform/constants"
)

// # Login Throttle

// RedisLoginThrottle implements LoginThrottle using Redis.
//
// Counters live only in Redis: they are volatile by design, and a flushed
// counter merely resets the throttle window, never account state.
type RedisLoginThrottle struct {
	client *redis.Client
}

// NewLoginThrottle creates a new Redis-backed LoginThrottle.
func NewLoginThrottle(client *redis.Client) *RedisLoginThrottle {
	return &RedisLoginThrottle{client: client}
}

/*
Hit increments the failed-attempt counter for a key.

Description: INCR followed by a conditional EXPIRE on the first increment,
so the window starts at the first failed attempt and the key self-destructs.

Parameters:
  - context: context.Context
  - key: string
  - window: time.Duration

Returns:
  - int64: Attempt count within the current window
  - error: Execution errors
*/
func (throttle *RedisLoginThrottle) Hit(context context.Context, key string, window time.Duration) (int64, error) {

	// Use constants for key prefix
	redisKey := constants.RedisPrefixLoginAttempts + key

	// Increment the counter
	count, err := throttle.client.Incr(context, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis_login_throttle_incr_failed: %w", err)
	}

	// First hit in the window: arm the expiry
	if count == 1 {
		if err := throttle.client.Expire(context, redisKey, window).Err(); err != nil {
			return count, fmt.Errorf("redis_login_throttle_expire_failed: %w", err)
		}
	}

	// Return the count
	return count, nil
}

/*
Reset clears the attempt counter after a successful login.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - error: Deletion failures
*/
func (throttle *RedisLoginThrottle) Reset(context context.Context, key string) error {

	// Use constants for key prefix
	redisKey := constants.RedisPrefixLoginAttempts + key

	// Delete the counter
	if err := throttle.client.Del(context, redisKey).Err(); err != nil {
		return fmt.Errorf("redis_login_throttle_reset_failed: %w", err)
	}

	// Return nil on success
	return nil
}
