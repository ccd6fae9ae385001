// Package compute provides optional wrappers for the caller-supplied
// compute functions fed into the cache: timeout, retry with backoff, and
// token-bucket rate limiting.
//
// The cache deliberately imposes none of these itself. Bounded latency and
// retry policy belong to the caller, so the wrappers compose around a
// compute function before it is handed to GetOrSet.
package compute
