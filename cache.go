package viewport

import (
	"sync"
	"sync/atomic"
)

// Default cache bounds. The general cache absorbs distinct view states as
// the user pans and zooms; the stable cache only holds one entry per live
// view and parameter combination, so it can stay smaller.
const (
	DefaultCacheSize       = 20
	DefaultStableCacheSize = 10
)

// boundedCache is a size-bounded map from key to derived transform with
// insertion-order (FIFO) eviction: once the bound is exceeded the oldest
// inserted key is removed, regardless of how recently it was read. Entries
// never expire; staleness is prevented by keying on every transform-
// affecting parameter.
//
// The cache is guarded by a mutex and keeps atomic hit/miss/eviction
// counters for zero-allocation stat reads.
type boundedCache[K comparable] struct {
	mu         sync.RWMutex
	entries    map[K]*Transform
	order      []K // insertion order, oldest first
	maxEntries int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

func newBoundedCache[K comparable](maxEntries int) *boundedCache[K] {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheSize
	}
	return &boundedCache[K]{
		entries:    make(map[K]*Transform),
		maxEntries: maxEntries,
	}
}

// get retrieves a cached transform. Reads do not disturb eviction order.
func (c *boundedCache[K]) get(key K) (*Transform, bool) {
	c.mu.RLock()
	t, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return t, true
}

// put stores a transform under key, evicting the oldest entries once the
// bound is exceeded. Re-putting an existing key refreshes its position.
func (c *boundedCache[K]) put(key K, t *Transform) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.removeFromOrder(key)
	}
	c.entries[key] = t
	c.order = append(c.order, key)

	for len(c.entries) > c.maxEntries && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
		c.evictions.Add(1)
	}
}

// removeFromOrder drops key from the insertion order slice.
// Must be called with c.mu held.
func (c *boundedCache[K]) removeFromOrder(key K) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// clear drops every entry.
func (c *boundedCache[K]) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := uint64(len(c.entries))
	c.entries = make(map[K]*Transform)
	c.order = nil
	if evicted > 0 {
		c.evictions.Add(evicted)
	}
}

// len returns the number of cached entries.
func (c *boundedCache[K]) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CacheStats is a snapshot of the service's two caches, for monitoring.
type CacheStats struct {
	// Size is the number of entries in the general transform cache.
	Size int
	// MaxSize is the general cache's entry bound.
	MaxSize int
	// StableSize is the number of entries in the stable per-view cache.
	StableSize int
	// StableMaxSize is the stable cache's entry bound.
	StableMaxSize int
	// Hits and Misses count lookups across both caches.
	Hits   uint64
	Misses uint64
	// Evictions counts entries removed by bound enforcement or clearing.
	Evictions uint64
}
