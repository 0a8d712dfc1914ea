package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"accessd/internal/domain"

	"github.com/redis/go-redis/v9"
)

type redisLimiter struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisLimiter shares the scan-rate window across guard stations
// pointed at the same redis.
func NewRedisLimiter(addr, password string, db int, now func() time.Time) (domain.RateLimiter, error) {
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	if now == nil {
		now = time.Now
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisLimiter{client: client, now: now}, nil
}

func windowBucket(key string, now time.Time, window time.Duration) (string, time.Time) {
	idx := now.UnixMilli() / window.Milliseconds()
	return fmt.Sprintf("%s:%d", key, idx), time.UnixMilli((idx + 1) * window.Milliseconds())
}

// Allow counts against a bucketed window key: each fixed window maps to
// its own key ("key:bucketIndex") so a counter can never leak into the
// next window even if its expiry lags. The window end is derived from
// the bucket index, not from redis TTLs.
func (r *redisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (domain.RateLimitDecision, error) {
	if limit <= 0 {
		return domain.RateLimitDecision{Allowed: true, Limit: limit, Remaining: limit}, nil
	}
	if window <= 0 {
		window = time.Second
	}
	bucketKey, resetAt := windowBucket(key, r.now(), window)

	pipe := r.client.Pipeline()
	count := pipe.Incr(ctx, bucketKey)
	pipe.PExpire(ctx, bucketKey, 2*window)
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.RateLimitDecision{}, err
	}
	current, err := count.Result()
	if err != nil {
		return domain.RateLimitDecision{}, err
	}

	remaining := limit - int(current)
	if remaining < 0 {
		remaining = 0
	}
	return domain.RateLimitDecision{
		Allowed:   current <= int64(limit),
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
