// Package config loads cache settings and per-kind freshness profiles from
// the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/jonwraymond/swrcache/swr"
)

// Cache kinds with built-in profiles.
const (
	KindPageSpeed    = "pagespeed"
	KindLinkAnalyzer = "linkanalyzer"
)

// Profile is the freshness configuration for one cache kind.
type Profile struct {
	// Fresh is the window served without recompute.
	Fresh time.Duration `env:"FRESH_TTL"`

	// Stale extends the servable window past Fresh; entries inside it are
	// returned while a background refresh runs.
	Stale time.Duration `env:"STALE_TTL"`

	// Hard is the absolute age bound. Zero derives it from Fresh+Stale.
	Hard time.Duration `env:"HARD_TTL"`

	// Version invalidates entries written under older profile versions.
	Version int `env:"VERSION" envDefault:"1"`
}

// Policy converts the profile into a per-call cache policy.
func (p Profile) Policy() swr.Policy {
	return swr.Policy{
		FreshTTL: p.Fresh,
		StaleTTL: p.Stale,
		HardTTL:  p.Hard,
		Version:  p.Version,
	}
}

// Config holds process-level cache settings plus the per-kind profiles.
type Config struct {
	// MemoryCapacity bounds the in-process tier.
	MemoryCapacity int `env:"SWRCACHE_MEMORY_CAPACITY" envDefault:"200"`

	// DisableDurable forces memory-only caching even when a durable tier
	// is configured.
	DisableDurable bool `env:"SWRCACHE_DISABLE_DURABLE"`

	// SQLitePath locates the durable tier database file. Empty disables
	// the durable tier.
	SQLitePath string `env:"SWRCACHE_SQLITE_PATH"`

	PageSpeed    Profile `envPrefix:"SWRCACHE_PAGESPEED_"`
	LinkAnalyzer Profile `envPrefix:"SWRCACHE_LINKANALYZER_"`
}

// Built-in profile defaults, applied where the environment sets nothing.
// Page-speed audits are slow and rate-limited upstream, so they tolerate a
// long stale window; link analysis drifts faster.
var defaults = map[string]Profile{
	KindPageSpeed:    {Fresh: 24 * time.Hour, Stale: 72 * time.Hour, Version: 1},
	KindLinkAnalyzer: {Fresh: 12 * time.Hour, Stale: 24 * time.Hour, Version: 1},
}

// Load parses configuration from environment variables and fills in
// built-in profile defaults.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	c.PageSpeed = mergeDefaults(c.PageSpeed, defaults[KindPageSpeed])
	c.LinkAnalyzer = mergeDefaults(c.LinkAnalyzer, defaults[KindLinkAnalyzer])
	return c, nil
}

// Profile returns the freshness profile for a cache kind.
func (c Config) Profile(kind string) (Profile, bool) {
	switch kind {
	case KindPageSpeed:
		return c.PageSpeed, true
	case KindLinkAnalyzer:
		return c.LinkAnalyzer, true
	default:
		return Profile{}, false
	}
}

func mergeDefaults(p, def Profile) Profile {
	if p.Fresh == 0 {
		p.Fresh = def.Fresh
	}
	if p.Stale == 0 {
		p.Stale = def.Stale
	}
	if p.Version == 0 {
		p.Version = def.Version
	}
	return p
}
