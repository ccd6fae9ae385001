// Package health provides reachability checks for the cache tiers and an
// HTTP surface for liveness/readiness probes.
package health

import (
	"context"
	"time"

	"github.com/jonwraymond/swrcache/swr"
)

// Status represents the health status of a component.
type Status int

const (
	// StatusHealthy indicates the component is functioning normally.
	StatusHealthy Status = iota
	// StatusDegraded indicates the component is functioning but with issues.
	StatusDegraded
	// StatusUnhealthy indicates the component is not functioning properly.
	StatusUnhealthy
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result contains the outcome of a health check.
type Result struct {
	// Status is the health status.
	Status Status

	// Message provides additional context about the status.
	Message string

	// Details contains arbitrary metadata about the check.
	Details map[string]any

	// Duration is how long the check took.
	Duration time.Duration

	// Timestamp is when the check was performed.
	Timestamp time.Time

	// Error is the error if the check failed.
	Error error
}

// Healthy creates a healthy result.
func Healthy(message string) Result {
	return Result{Status: StatusHealthy, Message: message, Timestamp: time.Now()}
}

// Degraded creates a degraded result.
func Degraded(message string) Result {
	return Result{Status: StatusDegraded, Message: message, Timestamp: time.Now()}
}

// Unhealthy creates an unhealthy result.
func Unhealthy(message string, err error) Result {
	return Result{Status: StatusUnhealthy, Message: message, Error: err, Timestamp: time.Now()}
}

// WithDetails adds details to a result.
func (r Result) WithDetails(details map[string]any) Result {
	r.Details = details
	return r
}

// Checker is the interface for health checks.
type Checker interface {
	// Name returns the name of this checker.
	Name() string

	// Check performs the health check and returns the result.
	Check(ctx context.Context) Result
}

// CheckerFunc adapts an ordinary function into a Checker.
type CheckerFunc struct {
	name string
	fn   func(context.Context) Result
}

// NewCheckerFunc creates a new CheckerFunc.
func NewCheckerFunc(name string, fn func(context.Context) Result) *CheckerFunc {
	return &CheckerFunc{name: name, fn: fn}
}

// Name returns the name of this checker.
func (f *CheckerFunc) Name() string { return f.name }

// Check performs the health check.
func (f *CheckerFunc) Check(ctx context.Context) Result { return f.fn(ctx) }

// probeKey is read by the durable-tier checker. A miss is healthy; only an
// I/O error marks the tier down.
const probeKey = "health:probe"

// DurableChecker probes the durable tier with a read. The durable tier is
// an optimization, so a failing probe reports degraded, not unhealthy.
type DurableChecker struct {
	store swr.Store
}

// NewDurableChecker creates a checker for the durable tier.
func NewDurableChecker(store swr.Store) *DurableChecker {
	return &DurableChecker{store: store}
}

// Name returns the checker name.
func (c *DurableChecker) Name() string { return "durable-tier" }

// Check probes the store with a single read.
func (c *DurableChecker) Check(ctx context.Context) Result {
	if c.store == nil {
		return Degraded("durable tier not configured")
	}
	start := time.Now()
	_, _, err := c.store.Get(ctx, probeKey)
	d := time.Since(start)
	if err != nil {
		r := Degraded("durable tier unreachable, cache is memory-only")
		r.Error = err
		r.Duration = d
		return r
	}
	r := Healthy("durable tier reachable")
	r.Duration = d
	return r
}

// StatsSource exposes cache occupancy for the memory-tier checker. Any
// swr.Cache instantiation satisfies it.
type StatsSource interface {
	Stats() swr.Stats
}

// MemoryChecker reports memory-tier occupancy. The in-process tier cannot
// fail, so the check is always healthy; it exists to surface occupancy in
// the detailed health endpoint.
type MemoryChecker struct {
	source StatsSource
}

// NewMemoryChecker creates a checker for the in-process tier.
func NewMemoryChecker(source StatsSource) *MemoryChecker {
	return &MemoryChecker{source: source}
}

// Name returns the checker name.
func (c *MemoryChecker) Name() string { return "memory-tier" }

// Check reports tier occupancy.
func (c *MemoryChecker) Check(ctx context.Context) Result {
	s := c.source.Stats()
	return Healthy("memory tier resident").WithDetails(map[string]any{
		"len":      s.MemoryLen,
		"capacity": s.MemoryCapacity,
		"hits":     s.MemoryHits + s.DurableHits,
		"misses":   s.Misses,
	})
}

// Ensure implementations satisfy Checker.
var (
	_ Checker = (*CheckerFunc)(nil)
	_ Checker = (*DurableChecker)(nil)
	_ Checker = (*MemoryChecker)(nil)
)
