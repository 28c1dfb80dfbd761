package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     bool
	expiresAt time.Time
}

// TTLCache is a small expiring verdict cache. It only ever answers from
// memory; code that mutates the underlying data must call Invalidate
// explicitly so a stale verdict is never served past a write.
type TTLCache struct {
	entries map[string]entry
	ttl     time.Duration
	mu      sync.RWMutex
}

// NewTTLCache creates a cache whose entries expire after ttl and starts
// a goroutine that sweeps expired entries periodically.
func NewTTLCache(ttl time.Duration) *TTLCache {
	c := &TTLCache{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
	go c.cleanupExpired()
	return c
}

// Get returns the cached verdict for key, if present and not expired.
func (c *TTLCache) Get(key string) (bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return false, false
	}
	return e.value, true
}

// Put stores a verdict for key with the configured TTL.
func (c *TTLCache) Put(key string, value bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(c.ttl)}
}

// Invalidate drops the entry for key.
func (c *TTLCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// cleanupExpired periodically removes expired entries.
func (c *TTLCache) cleanupExpired() {
	interval := c.ttl
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, key)
			}
		}
		c.mu.Unlock()
	}
}
