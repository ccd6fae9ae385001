package health

import (
	"context"
	"sync"
	"time"
)

// Aggregator combines multiple health checkers into one composite check.
type Aggregator struct {
	timeout time.Duration

	mu       sync.RWMutex
	checkers map[string]Checker
	order    []string
}

// NewAggregator creates a health aggregator. A non-positive timeout
// defaults to 10 seconds per CheckAll run.
func NewAggregator(timeout time.Duration) *Aggregator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Aggregator{
		timeout:  timeout,
		checkers: make(map[string]Checker),
	}
}

// Register adds a health checker under its own name.
func (a *Aggregator) Register(c Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()

	name := c.Name()
	if _, exists := a.checkers[name]; !exists {
		a.order = append(a.order, name)
	}
	a.checkers[name] = c
}

// CheckAll runs every registered checker and returns results by name.
func (a *Aggregator) CheckAll(ctx context.Context) map[string]Result {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	a.mu.RLock()
	names := make([]string, len(a.order))
	copy(names, a.order)
	checkers := make(map[string]Checker, len(a.checkers))
	for k, v := range a.checkers {
		checkers[k] = v
	}
	a.mu.RUnlock()

	results := make(map[string]Result, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			results[name] = Unhealthy("check canceled", err)
			continue
		}
		results[name] = checkers[name].Check(ctx)
	}
	return results
}

// OverallStatus reduces a result set to the worst observed status.
func (a *Aggregator) OverallStatus(results map[string]Result) Status {
	overall := StatusHealthy
	for _, r := range results {
		if r.Status > overall {
			overall = r.Status
		}
	}
	return overall
}
