package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptCounter counts attempts per key inside a fixed window.
type AttemptCounter struct {
	rdb    *redis.Client
	window time.Duration
}

func NewAttemptCounter(rdb *redis.Client, window time.Duration) *AttemptCounter {
	return &AttemptCounter{rdb: rdb, window: window}
}

// IncrementAndGet increments the attempt count for key and returns the new count.
// The window starts with the first attempt.
func (c *AttemptCounter) IncrementAndGet(ctx context.Context, key string) (int64, error) {
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count attempt: %w", err)
	}

	if count == 1 {
		if err := c.rdb.Expire(ctx, key, c.window).Err(); err != nil {
			return count, fmt.Errorf("failed to set attempt window: %w", err)
		}
	}
	return count, nil
}

// Reset clears the attempts of key, e.g. after a successful login.
func (c *AttemptCounter) Reset(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to reset attempts: %w", err)
	}
	return nil
}

// FormatAttemptKey formats the counter key for a route and client address
func FormatAttemptKey(route, clientIP string) string {
	return fmt.Sprintf("attempts:%s:%s", route, clientIP)
}
