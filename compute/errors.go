package compute

import "errors"

// Sentinel errors for compute wrappers.
var (
	// ErrTimeout is returned when a wrapped computation exceeds its bound.
	ErrTimeout = errors.New("compute: operation timed out")

	// ErrRateLimitExceeded is returned when no token is available in time.
	ErrRateLimitExceeded = errors.New("compute: rate limit exceeded")
)
