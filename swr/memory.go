package swr

import (
	"container/list"
	"sync"
)

// DefaultMemoryCapacity bounds the in-process tier when Options does not.
const DefaultMemoryCapacity = 200

// memoryTier is the bounded in-process tier: a map for O(1) lookup plus a
// doubly-linked list for recency ordering. Front is most recently used.
//
// A get promotes the entry; a set beyond capacity evicts the back of the
// list. Guarded by a mutex so concurrent GetOrSet calls are safe.
type memoryTier[T any] struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List
}

type memoryItem[T any] struct {
	key   string
	entry Entry[T]
}

func newMemoryTier[T any](capacity int) *memoryTier[T] {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &memoryTier[T]{
		capacity: capacity,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// get returns the entry for key, promoting it to most recently used.
func (m *memoryTier[T]) get(key string) (Entry[T], bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.items[key]
	if !ok {
		return Entry[T]{}, false
	}
	m.order.MoveToFront(el)
	return el.Value.(*memoryItem[T]).entry, true
}

// set stores an entry under key, replacing any prior entry in a single map
// slot update, and evicts the least recently used entry when over capacity.
func (m *memoryTier[T]) set(key string, e Entry[T]) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.items[key]; ok {
		el.Value.(*memoryItem[T]).entry = e
		m.order.MoveToFront(el)
		return
	}

	el := m.order.PushFront(&memoryItem[T]{key: key, entry: e})
	m.items[key] = el

	if m.order.Len() > m.capacity {
		victim := m.order.Back()
		if victim != nil {
			m.order.Remove(victim)
			delete(m.items, victim.Value.(*memoryItem[T]).key)
		}
	}
}

// len reports the current number of resident entries.
func (m *memoryTier[T]) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}
