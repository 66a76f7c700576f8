// Package viewcache holds the cached, aggregated views served to the public
// feed, the academy dashboard, and the admin panel. Each view is owned by one
// manager that refreshes it from storage when its TTL elapses.
package viewcache

import (
	"sync"
	"time"
)

// Clock supplies the current time. Injected so staleness is testable.
type Clock func() time.Time

// Cache holds the last successful snapshot of a view plus the instant it was
// stored. Validity is all-or-nothing: a snapshot is either entirely usable or
// entirely discarded, never partially expired.
type Cache[S any] struct {
	mu          sync.Mutex
	clock       Clock
	ttl         time.Duration
	snapshot    S
	lastRefresh time.Time
}

// NewCache creates an empty (cold) cache.
// PRE: ttl > 0; clock is non-nil
func NewCache[S any](ttl time.Duration, clock Clock) *Cache[S] {
	return &Cache[S]{clock: clock, ttl: ttl}
}

// Valid reports whether a snapshot exists and its TTL has not elapsed.
// POST: false before the first Store and after Invalidate
func (c *Cache[S]) Valid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validLocked()
}

func (c *Cache[S]) validLocked() bool {
	if c.lastRefresh.IsZero() {
		return false
	}
	return c.clock().Sub(c.lastRefresh) < c.ttl
}

// Snapshot returns the cached value and whether it is still valid. Callers
// must treat ok=false as a miss even though a stale value is returned.
func (c *Cache[S]) Snapshot() (S, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot, c.validLocked()
}

// Store replaces the snapshot and restarts the TTL window. Last writer wins;
// concurrent refreshes each store a self-consistent snapshot, so a race only
// costs a redundant fetch.
func (c *Cache[S]) Store(s S) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = s
	c.lastRefresh = c.clock()
}

// Invalidate discards the snapshot and forces the next read to refetch.
// POST: Valid() is false until the next Store
func (c *Cache[S]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero S
	c.snapshot = zero
	c.lastRefresh = time.Time{}
}

// LastRefresh returns when the current snapshot was stored, zero when cold.
func (c *Cache[S]) LastRefresh() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRefresh
}
