package config

import (
	"testing"
	"time"
)

// TestLoad_Defaults verifies the built-in profiles apply when the
// environment sets nothing.
func TestLoad_Defaults(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if c.MemoryCapacity != 200 {
		t.Errorf("MemoryCapacity = %d, want 200", c.MemoryCapacity)
	}
	if c.DisableDurable {
		t.Error("DisableDurable = true, want false by default")
	}

	ps, ok := c.Profile(KindPageSpeed)
	if !ok {
		t.Fatal("pagespeed profile missing")
	}
	if ps.Fresh != 24*time.Hour || ps.Stale != 72*time.Hour || ps.Version != 1 {
		t.Errorf("pagespeed profile = %+v, want 24h/72h/v1", ps)
	}

	la, ok := c.Profile(KindLinkAnalyzer)
	if !ok {
		t.Fatal("linkanalyzer profile missing")
	}
	if la.Fresh != 12*time.Hour || la.Stale != 24*time.Hour {
		t.Errorf("linkanalyzer profile = %+v, want 12h/24h", la)
	}

	if _, ok := c.Profile("unknown"); ok {
		t.Error("unknown kind resolved to a profile")
	}
}

// TestLoad_EnvOverrides verifies environment variables win over built-ins.
func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SWRCACHE_MEMORY_CAPACITY", "50")
	t.Setenv("SWRCACHE_DISABLE_DURABLE", "true")
	t.Setenv("SWRCACHE_SQLITE_PATH", "/var/lib/swrcache/cache.db")
	t.Setenv("SWRCACHE_PAGESPEED_FRESH_TTL", "1h")
	t.Setenv("SWRCACHE_PAGESPEED_STALE_TTL", "2h")
	t.Setenv("SWRCACHE_PAGESPEED_VERSION", "3")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if c.MemoryCapacity != 50 {
		t.Errorf("MemoryCapacity = %d, want 50", c.MemoryCapacity)
	}
	if !c.DisableDurable {
		t.Error("DisableDurable = false, want true")
	}
	if c.SQLitePath != "/var/lib/swrcache/cache.db" {
		t.Errorf("SQLitePath = %q", c.SQLitePath)
	}

	ps, _ := c.Profile(KindPageSpeed)
	if ps.Fresh != time.Hour || ps.Stale != 2*time.Hour || ps.Version != 3 {
		t.Errorf("pagespeed profile = %+v, want 1h/2h/v3", ps)
	}

	// The other kind keeps its built-ins.
	la, _ := c.Profile(KindLinkAnalyzer)
	if la.Fresh != 12*time.Hour {
		t.Errorf("linkanalyzer Fresh = %v, want untouched default", la.Fresh)
	}
}

// TestLoad_InvalidEnv verifies malformed values surface as errors.
func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("SWRCACHE_MEMORY_CAPACITY", "many")
	if _, err := Load(); err == nil {
		t.Error("Load with malformed capacity succeeded")
	}
}

// TestProfile_Policy verifies the conversion into a per-call policy.
func TestProfile_Policy(t *testing.T) {
	p := Profile{Fresh: time.Hour, Stale: 2 * time.Hour, Hard: 10 * time.Hour, Version: 4}
	policy := p.Policy()

	if policy.FreshTTL != time.Hour || policy.StaleTTL != 2*time.Hour {
		t.Errorf("policy windows = %+v", policy)
	}
	if policy.HardTTL != 10*time.Hour {
		t.Errorf("HardTTL = %v, want 10h", policy.HardTTL)
	}
	if policy.Version != 4 {
		t.Errorf("Version = %d, want 4", policy.Version)
	}
	if policy.Bypass {
		t.Error("Bypass set by profile conversion")
	}
}
