// Package rate throttles credential verification attempts per identifier
// using a Redis counter with a sliding expiry. A nil limiter allows
// everything, so deployments without Redis keep working.
package rate

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter counts attempts per key and rejects the key once the count
// exceeds the configured maximum inside the cooldown window.
type Limiter struct {
	client   *redis.Client
	max      int
	cooldown time.Duration
}

// NewLimiter builds a limiter on the given Redis client. max attempts are
// allowed per key before Allow starts returning false; the counter resets
// cooldown after the first attempt in a window.
func NewLimiter(client *redis.Client, max int, cooldown time.Duration) *Limiter {
	return &Limiter{client: client, max: max, cooldown: cooldown}
}

// Allow records one attempt for the key and reports whether it is still
// within the limit. Redis being unreachable fails open.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	if l == nil || l.client == nil {
		return true, nil
	}

	redisKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return true, fmt.Errorf("rate limiter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.cooldown).Err(); err != nil {
			return true, fmt.Errorf("rate limiter: %w", err)
		}
	}

	return count <= int64(l.max), nil
}

// Reset clears the attempt counter for the key, used after a successful
// verification so honest users are not penalized by earlier typos.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	if l == nil || l.client == nil {
		return nil
	}
	return l.client.Del(ctx, fmt.Sprintf("ratelimit:%s", key)).Err()
}
