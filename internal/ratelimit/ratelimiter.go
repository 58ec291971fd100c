package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

var ErrLimitExceeded = errors.New("rate limit exceeded")

// Limiter admits or rejects one request for key.
type Limiter interface {
	Allow(ctx context.Context, key string) error
}

func exceeded(max int, window time.Duration) error {
	return fmt.Errorf("%w. Maximum %d requests per %v", ErrLimitExceeded, max, window)
}

// RateLimiter is a fixed-window counter per key held in process memory.
// Expired windows are dropped by go-cache's janitor.
type RateLimiter struct {
	counts      *cache.Cache
	windowSize  time.Duration
	maxRequests int
}

func NewRateLimiter(windowSize time.Duration, maxRequests int) *RateLimiter {
	return &RateLimiter{
		counts:      cache.New(windowSize, time.Minute),
		windowSize:  windowSize,
		maxRequests: maxRequests,
	}
}

func (rl *RateLimiter) Allow(_ context.Context, key string) error {
	for {
		if err := rl.counts.Add(key, 1, rl.windowSize); err == nil {
			return nil
		}

		n, err := rl.counts.IncrementInt(key, 1)
		if err != nil {
			// Window expired between Add and IncrementInt; start a new one.
			continue
		}
		if n > rl.maxRequests {
			return exceeded(rl.maxRequests, rl.windowSize)
		}
		return nil
	}
}
