package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zenithwebstudios/billing-service/internal/middleware/ratelimit"
	"go.uber.org/zap"
)

// FixedWindowLimiter counts hits per key in a fixed window: INCR plus
// an EXPIRE set on the window's first hit.
type FixedWindowLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger *zap.Logger
}

func NewFixedWindowLimiter(client *redis.Client, limit int, window time.Duration, logger *zap.Logger) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		client: client,
		limit:  limit,
		window: window,
		logger: logger,
	}
}

// Allow consumes one hit for the key and reports the window state.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (ratelimit.Decision, error) {
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return ratelimit.Decision{}, err
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("Failed to set rate limit window expiry",
				zap.String("key", key),
				zap.Error(err))
		}
	}

	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}

	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return ratelimit.Decision{
		Allowed:   count <= int64(l.limit),
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   time.Now().Add(ttl),
	}, nil
}
