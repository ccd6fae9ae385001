package swr

import "time"

// DefaultHardTTL is the floor for the hard-expiry bound when a policy does
// not set one explicitly: 48 hours.
const DefaultHardTTL = 48 * time.Hour

// Policy configures freshness for a single GetOrSet call.
//
// A zero StaleTTL disables stale serving entirely; a zero HardTTL is
// replaced by max(FreshTTL+StaleTTL, DefaultHardTTL) so an entry is never
// discarded sooner than its own stale window implies.
type Policy struct {
	// FreshTTL is the window during which an entry is served without any
	// recompute.
	FreshTTL time.Duration

	// StaleTTL extends the servable window past FreshTTL. Entries in the
	// stale window are returned immediately while a background
	// revalidation refreshes them.
	StaleTTL time.Duration

	// HardTTL is the absolute age bound past which an entry is never
	// served. Zero means "derive from FreshTTL and StaleTTL".
	HardTTL time.Duration

	// Version invalidates all entries written under a different version.
	// Zero means version 1.
	Version int

	// Bypass forces a full recompute, touching neither tier.
	Bypass bool
}

// withDefaults returns a copy of the policy with zero values resolved.
func (p Policy) withDefaults() Policy {
	if p.Version == 0 {
		p.Version = 1
	}
	if p.HardTTL == 0 {
		p.HardTTL = p.FreshTTL + p.StaleTTL
		if p.HardTTL < DefaultHardTTL {
			p.HardTTL = DefaultHardTTL
		}
	}
	return p
}

// ServableStale reports whether an entry of the given age may be served
// stale under this policy. Boundaries are inclusive: an entry exactly at a
// TTL edge is still inside the window.
func (p Policy) ServableStale(age time.Duration) bool {
	return age > p.FreshTTL && age <= p.FreshTTL+p.StaleTTL && age <= p.HardTTL
}

// Fresh reports whether an entry of the given age is inside the fresh
// window.
func (p Policy) Fresh(age time.Duration) bool {
	return age <= p.FreshTTL
}
