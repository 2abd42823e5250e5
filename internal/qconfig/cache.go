// Package qconfig loads questionnaire, documentation and gate JSON
// configuration from the blob store's config/ namespace, with a
// process-local TTL cache in front of it. It also owns the
// template-to-config field mapping and the legacy field migration.
package qconfig

import (
	"sync"
	"time"
)

// DefaultTTL is how long a cached config entry stays fresh.
const DefaultTTL = 5 * time.Minute

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

// Cache is a TTL cache for config values. It is a constructed
// component, not a global, so tests can build one per case with a
// fake clock and reset it freely.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCache builds a cache with the given TTL. now overrides the
// clock; pass nil outside tests.
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{ttl: ttl, now: now, entries: make(map[string]cacheEntry)}
}

// Get returns the cached value for key, calling loader on a miss or
// an expired entry. Loader errors are not cached.
func (c *Cache) Get(key string, loader func() (any, error)) (any, error) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && c.now().Before(entry.expiresAt) {
		c.mu.Unlock()
		return entry.value, nil
	}
	c.mu.Unlock()

	value, err := loader()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return value, nil
}

// Invalidate drops one cached entry.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear drops every cached entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}
