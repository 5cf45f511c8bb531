// Package cache is a process-wide TTL store keyed by request
// fingerprint. Expired entries are treated as absent and lazily evicted
// on the next lookup; there is no background sweep.
package cache

import (
	"sync"
	"time"
)

// Clock supplies the current time so tests can control expiry.
type Clock func() time.Time

type entry[T any] struct {
	value    T
	storedAt time.Time
}

// TTLCache holds values of one data class under a single TTL. Callers
// wanting different TTLs per data class use separate instances.
type TTLCache[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
	ttl     time.Duration
	now     Clock
}

func New[T any](ttl time.Duration, clock Clock) *TTLCache[T] {
	if clock == nil {
		clock = time.Now
	}
	return &TTLCache[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
		now:     clock,
	}
}

// Get returns the cached value if present and unexpired.
func (c *TTLCache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero T
	if !ok {
		return zero, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		c.mu.Lock()
		// Re-check under the write lock, a concurrent Set may have
		// refreshed the entry.
		if e2, ok := c.entries[key]; ok && c.now().Sub(e2.storedAt) >= c.ttl {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Set stores a value under key, overwriting any prior entry.
func (c *TTLCache[T]) Set(key string, value T) {
	c.mu.Lock()
	c.entries[key] = entry[T]{value: value, storedAt: c.now()}
	c.mu.Unlock()
}

// Clear drops every entry. Used for forced refresh.
func (c *TTLCache[T]) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry[T])
	c.mu.Unlock()
}

// Len counts live and expired-but-unswept entries.
func (c *TTLCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
