// Package swr provides a two-tier stale-while-revalidate result cache.
//
// It combines a bounded in-process LRU tier with an optional durable
// key-value tier, applies fresh/stale/hard TTL policy per call, and
// refreshes stale entries asynchronously so callers never block on
// revalidation.
package swr
