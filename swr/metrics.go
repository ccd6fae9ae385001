package swr

import "sync/atomic"

// counters holds the process-local diagnostic counters. They reset on
// restart, which is acceptable: they are operational signals, not billing
// data.
type counters struct {
	memoryHits    atomic.Int64
	durableHits   atomic.Int64
	misses        atomic.Int64
	staleServed   atomic.Int64
	revalidations atomic.Int64
	writes        atomic.Int64
}

// Stats is a point-in-time snapshot of the cache counters and the memory
// tier occupancy.
type Stats struct {
	// MemoryHits counts fresh hits served from the in-process LRU tier.
	MemoryHits int64

	// DurableHits counts fresh hits served from the durable tier.
	DurableHits int64

	// Misses counts foreground computes (no servable entry in either tier).
	Misses int64

	// StaleServed counts responses served from the stale window.
	StaleServed int64

	// Revalidations counts background refreshes scheduled.
	Revalidations int64

	// Writes counts entries written (foreground misses and successful
	// revalidations).
	Writes int64

	// MemoryLen is the current number of entries in the memory tier.
	MemoryLen int

	// MemoryCapacity is the memory tier bound.
	MemoryCapacity int
}

func (c *counters) snapshot() Stats {
	return Stats{
		MemoryHits:    c.memoryHits.Load(),
		DurableHits:   c.durableHits.Load(),
		Misses:        c.misses.Load(),
		StaleServed:   c.staleServed.Load(),
		Revalidations: c.revalidations.Load(),
		Writes:        c.writes.Load(),
	}
}
