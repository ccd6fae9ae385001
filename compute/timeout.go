package compute

import (
	"context"
	"time"

	"github.com/jonwraymond/swrcache/swr"
)

// DefaultTimeout bounds wrapped computations when no bound is given.
const DefaultTimeout = 30 * time.Second

// WithTimeout bounds a compute function to the given duration. When the
// bound is hit the wrapper returns ErrTimeout; the underlying call sees its
// context canceled.
func WithTimeout[T any](fn swr.ComputeFunc[T], timeout time.Duration) swr.ComputeFunc[T] {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return func(ctx context.Context) (T, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		type outcome struct {
			data T
			err  error
		}
		done := make(chan outcome, 1)

		go func() {
			data, err := fn(ctx)
			done <- outcome{data: data, err: err}
		}()

		select {
		case out := <-done:
			return out.data, out.err
		case <-ctx.Done():
			var zero T
			if ctx.Err() == context.DeadlineExceeded {
				return zero, ErrTimeout
			}
			return zero, ctx.Err()
		}
	}
}
