package compute

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/jonwraymond/swrcache/swr"
)

// BackoffStrategy defines how delays increase between retries.
type BackoffStrategy int

const (
	// BackoffExponential doubles the delay each attempt with jitter.
	BackoffExponential BackoffStrategy = iota
	// BackoffLinear increases delay linearly.
	BackoffLinear
	// BackoffConstant uses the same delay for all retries.
	BackoffConstant
)

// RetryConfig configures the retry wrapper.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	// Default: 3
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	// Default: 100ms
	InitialDelay time.Duration

	// MaxDelay caps the maximum delay between retries.
	// Default: 30s
	MaxDelay time.Duration

	// Multiplier is the backoff multiplier for exponential backoff.
	// Default: 2.0
	Multiplier float64

	// Strategy is the backoff strategy.
	// Default: BackoffExponential
	Strategy BackoffStrategy

	// Jitter adds randomness to delays to prevent thundering herd.
	Jitter bool

	// RetryIf determines if an error should trigger a retry.
	// Default: all non-nil errors trigger retry.
	RetryIf func(err error) bool

	// OnRetry is called before each retry attempt.
	OnRetry func(attempt int, err error, delay time.Duration)
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = 100 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	if c.Multiplier <= 0 {
		c.Multiplier = 2.0
	}
	if c.RetryIf == nil {
		c.RetryIf = func(err error) bool { return err != nil }
	}
	return c
}

// WithRetry retries a compute function with backoff. A zero RetryConfig
// means 3 attempts with exponential backoff starting at 100ms.
func WithRetry[T any](fn swr.ComputeFunc[T], cfg RetryConfig) swr.ComputeFunc[T] {
	cfg = cfg.withDefaults()

	return func(ctx context.Context) (T, error) {
		var (
			data    T
			lastErr error
		)

		for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
			var err error
			data, err = fn(ctx)
			if err == nil {
				return data, nil
			}
			lastErr = err

			if !cfg.RetryIf(err) {
				return data, err
			}
			if attempt >= cfg.MaxAttempts {
				break
			}

			delay := cfg.delay(attempt)
			if cfg.OnRetry != nil {
				cfg.OnRetry(attempt, err, delay)
			}

			select {
			case <-ctx.Done():
				var zeroT T
				return zeroT, ctx.Err()
			case <-time.After(delay):
			}
		}

		var zeroT T
		return zeroT, lastErr
	}
}

func (c RetryConfig) delay(attempt int) time.Duration {
	var delay time.Duration

	switch c.Strategy {
	case BackoffConstant:
		delay = c.InitialDelay
	case BackoffLinear:
		delay = c.InitialDelay * time.Duration(attempt)
	case BackoffExponential:
		multiplier := math.Pow(c.Multiplier, float64(attempt-1))
		delay = time.Duration(float64(c.InitialDelay) * multiplier)
	}

	if delay > c.MaxDelay {
		delay = c.MaxDelay
	}

	if c.Jitter && delay > 0 {
		// Up to 25% jitter.
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		delay += time.Duration(rand.Int64N(int64(delay / 4)))
	}

	return delay
}
