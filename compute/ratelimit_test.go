package compute

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// TestRateLimiter_Burst verifies tokens drain to zero and deny.
func TestRateLimiter_Burst(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 3})

	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Fatalf("Allow() = false within burst at call %d", i+1)
		}
	}
	if rl.Allow() {
		t.Error("Allow() = true past burst, want denial")
	}
}

// TestRateLimiter_Refill verifies tokens return over time.
func TestRateLimiter_Refill(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 100, Burst: 1})

	if !rl.Allow() {
		t.Fatal("initial token missing")
	}
	if rl.Allow() {
		t.Fatal("second immediate token, want empty bucket")
	}

	time.Sleep(50 * time.Millisecond)
	if !rl.Allow() {
		t.Error("bucket did not refill at 100/s after 50ms")
	}
}

// TestWithRateLimit_FailFast verifies the non-waiting mode surfaces
// ErrRateLimitExceeded without invoking the compute function.
func TestWithRateLimit_FailFast(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 1})
	var calls atomic.Int64
	fn := WithRateLimit(func(context.Context) (string, error) {
		calls.Add(1)
		return "v", nil
	}, rl)

	if _, err := fn(context.Background()); err != nil {
		t.Fatalf("first call: %v", err)
	}
	_, err := fn(context.Background())
	if !errors.Is(err, ErrRateLimitExceeded) {
		t.Errorf("err = %v, want ErrRateLimitExceeded", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("compute calls = %d, want 1", got)
	}
}

// TestWithRateLimit_WaitOnLimit verifies the waiting mode acquires a token
// once one refills.
func TestWithRateLimit_WaitOnLimit(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 50, Burst: 1, WaitOnLimit: true, MaxWait: time.Second})
	fn := WithRateLimit(func(context.Context) (string, error) {
		return "v", nil
	}, rl)

	if _, err := fn(context.Background()); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := fn(context.Background()); err != nil {
		t.Errorf("waiting call = %v, want token after refill", err)
	}
}

// TestRateLimiter_WaitHonorsContext verifies cancellation interrupts the
// wait.
func TestRateLimiter_WaitHonorsContext(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 1, MaxWait: time.Hour})
	rl.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}
