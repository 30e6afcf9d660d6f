package viewport

import "testing"

func TestBoundedCacheFIFOEviction(t *testing.T) {
	c := newBoundedCache[int](3)
	transforms := make([]*Transform, 5)
	for i := range transforms {
		tr := Identity()
		tr.PanOffsetX = float64(i)
		transforms[i] = &tr
		c.put(i, transforms[i])
	}

	// Oldest two inserts are gone, newest three remain.
	for i := 0; i < 2; i++ {
		if _, ok := c.get(i); ok {
			t.Errorf("key %d survived eviction", i)
		}
	}
	for i := 2; i < 5; i++ {
		if got, ok := c.get(i); !ok || got != transforms[i] {
			t.Errorf("key %d missing or wrong after eviction", i)
		}
	}
}

func TestBoundedCacheReadDoesNotRefresh(t *testing.T) {
	// FIFO, not LRU: reading the oldest key must not save it from
	// eviction.
	c := newBoundedCache[int](2)
	tr := Identity()
	c.put(1, &tr)
	c.put(2, &tr)
	c.get(1)
	c.put(3, &tr)

	if _, ok := c.get(1); ok {
		t.Error("read refreshed key 1 past its eviction turn")
	}
	if _, ok := c.get(2); !ok {
		t.Error("key 2 evicted out of order")
	}
}

func TestBoundedCacheRePutRefreshes(t *testing.T) {
	c := newBoundedCache[int](2)
	tr := Identity()
	c.put(1, &tr)
	c.put(2, &tr)
	c.put(1, &tr) // re-insert moves 1 to the back of the queue
	c.put(3, &tr)

	if _, ok := c.get(1); !ok {
		t.Error("re-put key 1 was evicted")
	}
	if _, ok := c.get(2); ok {
		t.Error("key 2 survived, want it evicted as oldest")
	}
}

func TestBoundedCacheClear(t *testing.T) {
	c := newBoundedCache[int](4)
	tr := Identity()
	c.put(1, &tr)
	c.put(2, &tr)
	c.clear()

	if c.len() != 0 {
		t.Errorf("len = %d after clear, want 0", c.len())
	}
	if evictions := c.evictions.Load(); evictions != 2 {
		t.Errorf("evictions = %d, want 2", evictions)
	}
}

func TestBoundedCacheCounters(t *testing.T) {
	c := newBoundedCache[int](4)
	tr := Identity()
	c.put(1, &tr)

	c.get(1)
	c.get(1)
	c.get(99)

	if hits := c.hits.Load(); hits != 2 {
		t.Errorf("hits = %d, want 2", hits)
	}
	if misses := c.misses.Load(); misses != 1 {
		t.Errorf("misses = %d, want 1", misses)
	}
}

func TestBoundedCacheDefaultBound(t *testing.T) {
	c := newBoundedCache[int](0)
	if c.maxEntries != DefaultCacheSize {
		t.Errorf("maxEntries = %d, want default %d", c.maxEntries, DefaultCacheSize)
	}
}
