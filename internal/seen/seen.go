// Package seen provides a bounded, time-limited cache of already-processed listing IDs.
package seen

import (
	"sync"
	"time"
)

// DefaultMaxEntries caps the cache size when no bound is given.
const DefaultMaxEntries = 10000

// DefaultTTL is how long an ID stays cached when no TTL is given.
const DefaultTTL = 24 * time.Hour

// cleanupInterval is how often expired entries are swept in the background.
const cleanupInterval = 5 * time.Minute

// Cache remembers external IDs already written during this process's
// lifetime so the pipeline can skip redundant upserts. It is best effort
// only: entries expire, the cache is bounded, and nothing survives a
// restart. The store's uniqueness constraint on the external ID is the
// source of truth for deduplication.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]time.Time // ID -> time added
	maxEntries int
	ttl        time.Duration

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
}

// New creates a cache holding at most maxEntries IDs for at most ttl each.
// Non-positive arguments fall back to the defaults.
func New(maxEntries int, ttl time.Duration) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c := &Cache{
		entries:       make(map[string]time.Time),
		maxEntries:    maxEntries,
		ttl:           ttl,
		cleanupTicker: time.NewTicker(cleanupInterval),
		cleanupStop:   make(chan struct{}),
	}
	go c.cleanup()

	return c
}

// Contains reports whether id was added within the TTL window.
func (c *Cache) Contains(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	added, ok := c.entries[id]
	if !ok {
		return false
	}
	// Expiry is checked lazily so callers never see stale hits between sweeps.
	if time.Since(added) > c.ttl {
		delete(c.entries, id)
		return false
	}
	return true
}

// Add records id, evicting the oldest entry when the cache is full.
func (c *Cache) Add(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[id]; !ok && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[id] = time.Now()
}

// Len returns the number of cached IDs, including not-yet-swept expired ones.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictOldestLocked removes the entry with the earliest add time.
// Callers must hold c.mu.
func (c *Cache) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, added := range c.entries {
		if oldestID == "" || added.Before(oldest) {
			oldestID = id
			oldest = added
		}
	}
	if oldestID != "" {
		delete(c.entries, oldestID)
	}
}

// cleanup sweeps expired entries until Stop is called.
func (c *Cache) cleanup() {
	for {
		select {
		case <-c.cleanupTicker.C:
			c.removeExpired()
		case <-c.cleanupStop:
			return
		}
	}
}

// removeExpired drops entries older than the TTL.
func (c *Cache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().Add(-c.ttl)
	for id, added := range c.entries {
		if added.Before(cutoff) {
			delete(c.entries, id)
		}
	}
}

// Stop ends the cleanup goroutine.
func (c *Cache) Stop() {
	c.cleanupTicker.Stop()
	close(c.cleanupStop)
}
