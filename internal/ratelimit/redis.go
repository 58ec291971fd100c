package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "scionviz:ratelimit:"

// RedisLimiter shares fixed-window counters between several backend
// instances through Redis INCR/PEXPIRE.
type RedisLimiter struct {
	client      *redis.Client
	windowSize  time.Duration
	maxRequests int
}

func NewRedisLimiter(client *redis.Client, windowSize time.Duration, maxRequests int) *RedisLimiter {
	return &RedisLimiter{
		client:      client,
		windowSize:  windowSize,
		maxRequests: maxRequests,
	}
}

func (rl *RedisLimiter) Allow(ctx context.Context, key string) error {
	k := redisKeyPrefix + key
	n, err := rl.client.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("redis incr: %w", err)
	}
	if n == 1 {
		if err := rl.client.PExpire(ctx, k, rl.windowSize).Err(); err != nil {
			return fmt.Errorf("redis expire: %w", err)
		}
	}
	if n > int64(rl.maxRequests) {
		return exceeded(rl.maxRequests, rl.windowSize)
	}
	return nil
}

func (rl *RedisLimiter) Close() error {
	return rl.client.Close()
}
