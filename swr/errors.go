package swr

import "errors"

// Sentinel errors for cache operations.
var (
	// ErrNilCompute indicates GetOrSet was called without a compute function.
	ErrNilCompute = errors.New("swr: compute function is nil")

	// ErrClosed indicates the cache has been closed.
	ErrClosed = errors.New("swr: cache is closed")
)
