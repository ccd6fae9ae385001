package swr

import "context"

// Store is the durable-tier contract. It is strictly an optimization: any
// error from Get or Put is caught by the orchestrator and treated as a tier
// miss or an ignored write, never surfaced to callers.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Transparency: Get must return exactly the bytes previously passed to
//   Put for the same key, with no re-encoding or added metadata.
// - Errors: Get returns (nil, false, err) on I/O failure, (nil, false, nil)
//   on a plain miss.
type Store interface {
	// Get returns the stored value for key, or found=false on miss.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Put stores value under key, replacing any prior value.
	Put(ctx context.Context, key string, value []byte) error
}

// Deleter is an optional extension for stores that support removal. The
// orchestrator never deletes durable entries; retention is left to the
// store and expired records are simply ignored on read.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}
