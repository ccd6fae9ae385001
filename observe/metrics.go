package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome classifies how a cache lookup was answered.
type Outcome string

const (
	// OutcomeFreshMemory is a fresh hit served from the in-process tier.
	OutcomeFreshMemory Outcome = "fresh_memory"
	// OutcomeFreshDurable is a fresh hit served from the durable tier.
	OutcomeFreshDurable Outcome = "fresh_durable"
	// OutcomeStale is a stale-window hit served while revalidating.
	OutcomeStale Outcome = "stale"
	// OutcomeMiss is a foreground compute with no servable entry.
	OutcomeMiss Outcome = "miss"
	// OutcomeBypass is a forced recompute that touched no tier.
	OutcomeBypass Outcome = "bypass"
)

// Tier labels for write telemetry.
const (
	TierMemory  = "memory"
	TierDurable = "durable"
)

// CacheMetrics records cache telemetry.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic; recording is best-effort.
type CacheMetrics interface {
	// RecordLookup records one GetOrSet decision with the served entry's
	// age (zero for misses and bypasses).
	RecordLookup(ctx context.Context, kind string, outcome Outcome, age time.Duration)

	// RecordRevalidation records one background refresh attempt.
	RecordRevalidation(ctx context.Context, kind string, duration time.Duration, err error)

	// RecordWrite records one tier write attempt.
	RecordWrite(ctx context.Context, kind string, tier string, err error)
}

// cacheMetrics is the OpenTelemetry-backed implementation.
type cacheMetrics struct {
	lookups        metric.Int64Counter
	staleServed    metric.Int64Counter
	revalidations  metric.Int64Counter
	writes         metric.Int64Counter
	entryAge       metric.Float64Histogram
	revalidateTime metric.Float64Histogram
}

// NewCacheMetrics creates a CacheMetrics backed by the given meter.
func NewCacheMetrics(meter metric.Meter) (CacheMetrics, error) {
	lookups, err := meter.Int64Counter(
		"cache.lookup.total",
		metric.WithDescription("Total cache lookups by outcome"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	staleServed, err := meter.Int64Counter(
		"cache.stale.served",
		metric.WithDescription("Lookups answered from the stale window"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	revalidations, err := meter.Int64Counter(
		"cache.revalidation.total",
		metric.WithDescription("Background revalidation attempts by status"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	writes, err := meter.Int64Counter(
		"cache.write.total",
		metric.WithDescription("Tier write attempts by tier and status"),
		metric.WithUnit("{write}"),
	)
	if err != nil {
		return nil, err
	}

	entryAge, err := meter.Float64Histogram(
		"cache.entry.age_seconds",
		metric.WithDescription("Age of served entries in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	revalidateTime, err := meter.Float64Histogram(
		"cache.revalidation.duration_ms",
		metric.WithDescription("Background revalidation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &cacheMetrics{
		lookups:        lookups,
		staleServed:    staleServed,
		revalidations:  revalidations,
		writes:         writes,
		entryAge:       entryAge,
		revalidateTime: revalidateTime,
	}, nil
}

func (m *cacheMetrics) RecordLookup(ctx context.Context, kind string, outcome Outcome, age time.Duration) {
	opt := metric.WithAttributes(
		attribute.String("cache.kind", kind),
		attribute.String("cache.outcome", string(outcome)),
	)
	m.lookups.Add(ctx, 1, opt)
	if outcome == OutcomeStale {
		m.staleServed.Add(ctx, 1, opt)
	}
	if outcome == OutcomeFreshMemory || outcome == OutcomeFreshDurable || outcome == OutcomeStale {
		m.entryAge.Record(ctx, age.Seconds(), opt)
	}
}

func (m *cacheMetrics) RecordRevalidation(ctx context.Context, kind string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	opt := metric.WithAttributes(
		attribute.String("cache.kind", kind),
		attribute.String("status", status),
	)
	m.revalidations.Add(ctx, 1, opt)
	m.revalidateTime.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *cacheMetrics) RecordWrite(ctx context.Context, kind string, tier string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.writes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cache.kind", kind),
		attribute.String("cache.tier", tier),
		attribute.String("status", status),
	))
}

// nopCacheMetrics discards everything.
type nopCacheMetrics struct{}

// NewNopCacheMetrics returns a CacheMetrics that records nothing.
func NewNopCacheMetrics() CacheMetrics { return nopCacheMetrics{} }

func (nopCacheMetrics) RecordLookup(ctx context.Context, kind string, outcome Outcome, age time.Duration) {
}
func (nopCacheMetrics) RecordRevalidation(ctx context.Context, kind string, duration time.Duration, err error) {
}
func (nopCacheMetrics) RecordWrite(ctx context.Context, kind string, tier string, err error) {}

// Ensure implementations satisfy CacheMetrics.
var (
	_ CacheMetrics = (*cacheMetrics)(nil)
	_ CacheMetrics = nopCacheMetrics{}
)
