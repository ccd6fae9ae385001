package swr

import (
	"encoding/json"
	"fmt"
	"time"
)

// Entry is a single cached value plus the metadata needed to judge its age.
//
// Entries are immutable once created: a revalidation never mutates an entry
// in place, it replaces the entry under the same key with a new one carrying
// a new StoredAtEpochMs.
//
// The JSON field names form the durable-tier wire envelope and must stay
// stable across versions so independent processes can share a store.
type Entry[T any] struct {
	// StoredAtEpochMs is the creation time in Unix epoch milliseconds.
	StoredAtEpochMs int64 `json:"storedAtEpochMs"`

	// FreshTTLSeconds records the fresh window the entry was written with.
	FreshTTLSeconds float64 `json:"freshTtlSeconds"`

	// HardTTLSeconds records the absolute age bound the entry was written with.
	HardTTLSeconds float64 `json:"hardTtlSeconds"`

	// Version is the policy version at write time. A reader whose policy
	// carries a different version treats the entry as absent.
	Version int `json:"version"`

	// Payload is the cached computation result.
	Payload T `json:"payload"`
}

// newEntry wraps a freshly computed payload under the given policy.
func newEntry[T any](payload T, now time.Time, p Policy) Entry[T] {
	return Entry[T]{
		StoredAtEpochMs: now.UnixMilli(),
		FreshTTLSeconds: p.FreshTTL.Seconds(),
		HardTTLSeconds:  p.HardTTL.Seconds(),
		Version:         p.Version,
		Payload:         payload,
	}
}

// age returns the entry age at the given instant, at millisecond resolution.
func (e Entry[T]) age(now time.Time) time.Duration {
	return time.Duration(now.UnixMilli()-e.StoredAtEpochMs) * time.Millisecond
}

// encodeEntry serializes an entry into its durable-tier JSON envelope.
func encodeEntry[T any](e Entry[T]) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("swr: encode entry: %w", err)
	}
	return data, nil
}

// decodeEntry parses a durable-tier envelope. Callers treat any error as a
// tier miss; a malformed record is never served and never fatal.
func decodeEntry[T any](raw []byte) (Entry[T], error) {
	var e Entry[T]
	if err := json.Unmarshal(raw, &e); err != nil {
		return Entry[T]{}, fmt.Errorf("swr: decode entry: %w", err)
	}
	return e, nil
}
