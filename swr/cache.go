package swr

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/swrcache/observe"
)

// ComputeFunc produces the value to cache. It is supplied by the caller and
// typically wraps an expensive, rate-limited upstream call. The cache never
// retries, times out, or cancels it; see package compute for wrappers.
type ComputeFunc[T any] func(ctx context.Context) (T, error)

// Result is the outcome of a GetOrSet call.
type Result[T any] struct {
	// Data is the cached or freshly computed value.
	Data T

	// Cached is true when Data was served from a tier rather than computed
	// on the foreground path.
	Cached bool

	// Stale is true when Data came from the stale window.
	Stale bool

	// Revalidating is true when a background refresh was scheduled for
	// this key as part of the call.
	Revalidating bool
}

// Options configures a Cache.
type Options struct {
	// Kind labels the cache for logs and telemetry, e.g. "pagespeed".
	Kind string

	// MemoryCapacity bounds the in-process LRU tier.
	// Default: DefaultMemoryCapacity.
	MemoryCapacity int

	// Durable is the optional persistent tier. Nil means memory-only.
	Durable Store

	// DisableDurable forces memory-only operation even when Durable is
	// set. It replaces any ambient process-wide toggle: the decision is
	// explicit per cache instance.
	DisableDurable bool

	// DisableRevalidate turns off background refresh. Stale entries are
	// then recomputed on the foreground path instead of served.
	DisableRevalidate bool

	// CoalesceMisses collapses concurrent foreground computes for the same
	// key into a single upstream call. Off by default: the baseline
	// behavior lets concurrent misses each compute independently.
	CoalesceMisses bool

	// Logger receives the missing-durable-tier diagnostic and background
	// revalidation failures. Default: no-op.
	Logger observe.Logger

	// Metrics receives per-lookup telemetry. Default: no-op.
	Metrics observe.CacheMetrics

	// Tracer wraps each background revalidation in a span. Default: no-op.
	Tracer observe.Tracer
}

// Cache is a two-tier stale-while-revalidate result cache for values of
// type T. Safe for concurrent use.
type Cache[T any] struct {
	opts    Options
	memory  *memoryTier[T]
	logger  observe.Logger
	metrics observe.CacheMetrics
	tracer  observe.Tracer

	counters counters
	flight   singleflight.Group

	// warnDurable fires the one-shot diagnostic when a lookup finds the
	// durable tier disabled or unconfigured. Instance-scoped so its
	// lifetime is explicit and testable.
	warnDurable sync.Once

	closed  atomic.Bool
	revalWG sync.WaitGroup

	// now is swapped in tests to drive age boundaries deterministically.
	now func() time.Time
}

// New creates a Cache with the given options.
func New[T any](opts Options) *Cache[T] {
	logger := opts.Logger
	if logger == nil {
		logger = observe.NewNopLogger()
	}
	if opts.Kind != "" {
		logger = logger.WithKind(opts.Kind)
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = observe.NewNopCacheMetrics()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = observe.NewNopTracer()
	}
	return &Cache[T]{
		opts:    opts,
		memory:  newMemoryTier[T](opts.MemoryCapacity),
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		now:     time.Now,
	}
}

// GetOrSet returns the cached value for key, computing and storing it when
// no servable entry exists.
//
// Decision order: bypass, memory-tier fresh hit, durable-tier fresh hit
// (promoted into memory), durable-tier stale hit with background refresh,
// foreground compute. TTL boundaries are inclusive.
//
// A compute error on the foreground path propagates to the caller
// unchanged; the cache never hides a computation failure behind a stale
// value it was not entitled to serve. Durable-tier I/O and decode errors
// are swallowed and treated as a miss.
func (c *Cache[T]) GetOrSet(ctx context.Context, key string, compute ComputeFunc[T], policy Policy) (Result[T], error) {
	if compute == nil {
		return Result[T]{}, ErrNilCompute
	}
	if c.closed.Load() {
		return Result[T]{}, ErrClosed
	}

	p := policy.withDefaults()

	if p.Bypass {
		data, err := compute(ctx)
		if err != nil {
			return Result[T]{}, err
		}
		c.metrics.RecordLookup(ctx, c.opts.Kind, observe.OutcomeBypass, 0)
		return Result[T]{Data: data}, nil
	}

	now := c.now()

	if e, ok := c.memory.get(key); ok && e.Version == p.Version {
		if age := e.age(now); p.Fresh(age) {
			c.counters.memoryHits.Add(1)
			c.metrics.RecordLookup(ctx, c.opts.Kind, observe.OutcomeFreshMemory, age)
			return Result[T]{Data: e.Payload, Cached: true}, nil
		}
	}

	if store := c.durable(ctx); store != nil {
		if e, ok := c.durableGet(ctx, store, key, p.Version); ok {
			age := e.age(now)
			switch {
			case p.Fresh(age):
				c.memory.set(key, e)
				c.counters.durableHits.Add(1)
				c.metrics.RecordLookup(ctx, c.opts.Kind, observe.OutcomeFreshDurable, age)
				return Result[T]{Data: e.Payload, Cached: true}, nil

			case p.ServableStale(age) && !c.opts.DisableRevalidate:
				c.counters.staleServed.Add(1)
				c.counters.revalidations.Add(1)
				c.metrics.RecordLookup(ctx, c.opts.Kind, observe.OutcomeStale, age)
				c.scheduleRevalidation(key, compute, p)
				return Result[T]{Data: e.Payload, Cached: true, Stale: true, Revalidating: true}, nil
			}
		}
	}

	data, err := c.computeAndStore(ctx, key, compute, p)
	if err != nil {
		return Result[T]{}, err
	}
	c.counters.misses.Add(1)
	c.metrics.RecordLookup(ctx, c.opts.Kind, observe.OutcomeMiss, 0)
	return Result[T]{Data: data}, nil
}

// Stats returns a snapshot of the counters and memory tier occupancy.
func (c *Cache[T]) Stats() Stats {
	s := c.counters.snapshot()
	s.MemoryLen = c.memory.len()
	s.MemoryCapacity = c.memory.capacity
	return s
}

// Close marks the cache closed and waits for in-flight background
// revalidations to finish. Subsequent GetOrSet calls return ErrClosed.
func (c *Cache[T]) Close() error {
	c.closed.Store(true)
	c.revalWG.Wait()
	return nil
}

// durable returns the durable store, or nil when the tier is absent or
// disabled. The first lookup that finds no durable tier logs a single
// warning so operators notice missing persistence without log flooding.
func (c *Cache[T]) durable(ctx context.Context) Store {
	if c.opts.DisableDurable || c.opts.Durable == nil {
		c.warnDurable.Do(func() {
			c.logger.Warn(ctx, "durable tier unavailable, caching in memory only",
				observe.Field{Key: "disabled", Value: c.opts.DisableDurable})
		})
		return nil
	}
	return c.opts.Durable
}

// durableGet reads and decodes a durable entry. Any read error, decode
// error, or version mismatch is a miss.
func (c *Cache[T]) durableGet(ctx context.Context, store Store, key string, version int) (Entry[T], bool) {
	raw, found, err := store.Get(ctx, key)
	if err != nil || !found {
		return Entry[T]{}, false
	}
	e, err := decodeEntry[T](raw)
	if err != nil {
		return Entry[T]{}, false
	}
	if e.Version != version {
		return Entry[T]{}, false
	}
	return e, true
}

// computeAndStore runs the compute function on the foreground path and, on
// success, writes the new entry to both tiers. With CoalesceMisses set,
// concurrent callers for the same key share one compute.
func (c *Cache[T]) computeAndStore(ctx context.Context, key string, compute ComputeFunc[T], p Policy) (T, error) {
	if !c.opts.CoalesceMisses {
		data, err := compute(ctx)
		if err != nil {
			var zero T
			return zero, err
		}
		c.storeEntry(ctx, key, data, p)
		return data, nil
	}

	v, err, _ := c.flight.Do(key, func() (any, error) {
		data, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		c.storeEntry(ctx, key, data, p)
		return data, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// storeEntry writes a new entry to the memory tier and, when present, the
// durable tier. Durable write failures are logged and ignored.
func (c *Cache[T]) storeEntry(ctx context.Context, key string, data T, p Policy) {
	e := newEntry(data, c.now(), p)
	c.memory.set(key, e)
	c.counters.writes.Add(1)

	store := c.opts.Durable
	if store == nil || c.opts.DisableDurable {
		return
	}
	raw, err := encodeEntry(e)
	if err == nil {
		err = store.Put(ctx, key, raw)
	}
	c.metrics.RecordWrite(ctx, c.opts.Kind, observe.TierDurable, err)
	if err != nil {
		c.logger.Warn(ctx, "durable tier write failed",
			observe.Field{Key: "key", Value: key},
			observe.Field{Key: "error", Value: err.Error()})
	}
}

// scheduleRevalidation refreshes a stale key in the background. The
// triggering call never waits on it. Errors and panics are contained here:
// a failed refresh leaves the prior entry servable until its hard expiry.
func (c *Cache[T]) scheduleRevalidation(key string, compute ComputeFunc[T], p Policy) {
	c.revalWG.Add(1)
	go func() {
		defer c.revalWG.Done()

		// Detached from the caller: the triggering request may complete
		// or be canceled long before the refresh finishes.
		ctx, span := c.tracer.StartRevalidation(context.Background(), c.opts.Kind, key)
		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("swr: revalidation panic: %v", r)
				c.metrics.RecordRevalidation(ctx, c.opts.Kind, time.Since(start), err)
				c.tracer.EndSpan(span, err)
				c.logger.Error(ctx, "revalidation panicked",
					observe.Field{Key: "key", Value: key},
					observe.Field{Key: "panic", Value: r})
			}
		}()

		data, err := compute(ctx)
		c.metrics.RecordRevalidation(ctx, c.opts.Kind, time.Since(start), err)
		if err != nil {
			c.tracer.EndSpan(span, err)
			c.logger.Warn(ctx, "revalidation failed, keeping stale entry",
				observe.Field{Key: "key", Value: key},
				observe.Field{Key: "error", Value: err.Error()})
			return
		}
		c.storeEntry(ctx, key, data, p)
		c.tracer.EndSpan(span, nil)
	}()
}
