package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds issuance quota parameters.
type Config struct {
	MaxPerWindow int
	Window       time.Duration
	Prefix       string
}

// Limiter enforces a per-subject issuance budget using Redis fixed-window
// counters.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a rate [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	if cfg.Prefix == "" {
		cfg.Prefix = "gt:iss"
	}
	return &Limiter{
		redis:  redisClient,
		config: cfg,
	}
}

// AllowIssue consumes one unit of the subject's budget. It returns
// ErrRateLimited once the window is exhausted.
func (l *Limiter) AllowIssue(ctx context.Context, subject string) error {
	count, err := l.incrementWithTTL(ctx, l.issueKey(subject), l.config.Window)
	if err != nil {
		return err
	}
	if count > int64(l.config.MaxPerWindow) {
		return ErrRateLimited
	}
	return nil
}

// Remaining reports how many issuances the subject has left in the current
// window. Missing keys report the full budget.
func (l *Limiter) Remaining(ctx context.Context, subject string) (int, error) {
	count, err := l.redis.Get(ctx, l.issueKey(subject)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return l.config.MaxPerWindow, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	left := int64(l.config.MaxPerWindow) - count
	if left < 0 {
		return 0, nil
	}
	return int(left), nil
}

// Reset clears the subject's counter.
func (l *Limiter) Reset(ctx context.Context, subject string) error {
	if err := l.redis.Del(ctx, l.issueKey(subject)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (l *Limiter) issueKey(subject string) string {
	return l.config.Prefix + ":" + subject
}

func (l *Limiter) incrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count, nil
}
