package compute

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/swrcache/swr"
)

// RateLimiterConfig configures the token-bucket rate limiter.
type RateLimiterConfig struct {
	// Rate is the number of computations allowed per second.
	// Default: 1
	Rate float64

	// Burst is the maximum burst size.
	// Default: 1
	Burst int

	// WaitOnLimit waits for a token instead of returning an error.
	WaitOnLimit bool

	// MaxWait is the maximum time to wait for a token.
	// Default: 1 second
	MaxWait time.Duration
}

// RateLimiter is a token-bucket limiter shared across compute functions
// that hit the same rate-limited upstream.
type RateLimiter struct {
	config RateLimiterConfig

	mu          sync.Mutex
	tokens      float64
	lastRefresh time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Rate <= 0 {
		config.Rate = 1
	}
	if config.Burst <= 0 {
		config.Burst = 1
	}
	if config.MaxWait <= 0 {
		config.MaxWait = time.Second
	}
	return &RateLimiter{
		config:      config,
		tokens:      float64(config.Burst),
		lastRefresh: time.Now(),
	}
}

// Allow consumes a token if one is available.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillLocked()
	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available, MaxWait elapses, or the context
// is canceled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rl.Allow() {
		return nil
	}

	rl.mu.Lock()
	needed := 1 - rl.tokens
	waitTime := time.Duration(needed / rl.config.Rate * float64(time.Second))
	rl.mu.Unlock()

	if waitTime > rl.config.MaxWait {
		waitTime = rl.config.MaxWait
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(waitTime):
		if rl.Allow() {
			return nil
		}
		return ErrRateLimitExceeded
	}
}

// Tokens returns the current number of available tokens.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refillLocked()
	return rl.tokens
}

func (rl *RateLimiter) refillLocked() {
	now := time.Now()
	elapsed := now.Sub(rl.lastRefresh)
	rl.lastRefresh = now

	rl.tokens += elapsed.Seconds() * rl.config.Rate
	if rl.tokens > float64(rl.config.Burst) {
		rl.tokens = float64(rl.config.Burst)
	}
}

// WithRateLimit gates a compute function behind a shared rate limiter.
// Without WaitOnLimit the wrapper fails fast with ErrRateLimitExceeded,
// which the cache propagates like any other compute error.
func WithRateLimit[T any](fn swr.ComputeFunc[T], rl *RateLimiter) swr.ComputeFunc[T] {
	return func(ctx context.Context) (T, error) {
		if rl.config.WaitOnLimit {
			if err := rl.Wait(ctx); err != nil {
				var zero T
				return zero, err
			}
		} else if !rl.Allow() {
			var zero T
			return zero, ErrRateLimitExceeded
		}
		return fn(ctx)
	}
}
