package swr

import (
	"fmt"
	"testing"
	"time"
)

func testEntry(v string) Entry[string] {
	return Entry[string]{
		StoredAtEpochMs: time.Now().UnixMilli(),
		Version:         1,
		Payload:         v,
	}
}

// TestMemoryTier_GetSet covers basic storage and overwrite semantics.
func TestMemoryTier_GetSet(t *testing.T) {
	m := newMemoryTier[string](4)

	if _, ok := m.get("absent"); ok {
		t.Error("get on empty tier returned a value")
	}

	m.set("k", testEntry("v1"))
	e, ok := m.get("k")
	if !ok || e.Payload != "v1" {
		t.Fatalf("get = (%+v, %v), want v1", e, ok)
	}

	// Overwrite replaces in place without growing the tier.
	m.set("k", testEntry("v2"))
	e, _ = m.get("k")
	if e.Payload != "v2" {
		t.Errorf("after overwrite payload = %q, want v2", e.Payload)
	}
	if m.len() != 1 {
		t.Errorf("len = %d after overwrite, want 1", m.len())
	}
}

// TestMemoryTier_EvictsLeastRecentlyUsed verifies inserting capacity+1
// distinct keys evicts exactly the least-recently-accessed one.
func TestMemoryTier_EvictsLeastRecentlyUsed(t *testing.T) {
	m := newMemoryTier[string](3)

	for i := 1; i <= 3; i++ {
		m.set(fmt.Sprintf("k%d", i), testEntry(fmt.Sprintf("v%d", i)))
	}

	m.set("k4", testEntry("v4"))

	if _, ok := m.get("k1"); ok {
		t.Error("k1 survived eviction, want it gone as LRU victim")
	}
	for _, k := range []string{"k2", "k3", "k4"} {
		if _, ok := m.get(k); !ok {
			t.Errorf("%s missing, want it resident", k)
		}
	}
	if m.len() != 3 {
		t.Errorf("len = %d, want capacity 3", m.len())
	}
}

// TestMemoryTier_GetPromotes verifies reading a key protects it from the
// next eviction.
func TestMemoryTier_GetPromotes(t *testing.T) {
	m := newMemoryTier[string](3)

	for i := 1; i <= 3; i++ {
		m.set(fmt.Sprintf("k%d", i), testEntry(fmt.Sprintf("v%d", i)))
	}

	// Touch k1 so k2 becomes the eviction victim.
	if _, ok := m.get("k1"); !ok {
		t.Fatal("k1 missing before promotion")
	}
	m.set("k4", testEntry("v4"))

	if _, ok := m.get("k1"); !ok {
		t.Error("k1 evicted despite promotion")
	}
	if _, ok := m.get("k2"); ok {
		t.Error("k2 survived, want it evicted as LRU victim")
	}
}

// TestMemoryTier_DefaultCapacity verifies the fallback bound.
func TestMemoryTier_DefaultCapacity(t *testing.T) {
	m := newMemoryTier[string](0)
	if m.capacity != DefaultMemoryCapacity {
		t.Errorf("capacity = %d, want %d", m.capacity, DefaultMemoryCapacity)
	}
}
