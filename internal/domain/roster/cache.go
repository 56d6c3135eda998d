package roster

import (
	"sync"
	"sync/atomic"
)

// cachedResolution remembers the outcome for one normalized query,
// including failed lookups so repeated misspellings stay cheap.
type cachedResolution struct {
	name       string
	confidence float64
}

// resolutionCache is a bounded map with insertion-order eviction. The
// fuzzy layer scans the whole roster per query, so interactive sessions
// that repeat player names benefit from remembering outcomes.
type resolutionCache struct {
	mu      sync.RWMutex
	entries map[string]cachedResolution
	order   []string
	maxSize int

	hits   atomic.Int64
	misses atomic.Int64
}

func newResolutionCache(maxSize int) *resolutionCache {
	if maxSize <= 0 {
		return nil
	}
	return &resolutionCache{
		entries: make(map[string]cachedResolution, maxSize),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
	}
}

func (c *resolutionCache) get(query string) (cachedResolution, bool) {
	c.mu.RLock()
	hit, ok := c.entries[query]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return hit, ok
}

func (c *resolutionCache) put(query string, res cachedResolution) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[query]; exists {
		c.entries[query] = res
		return
	}
	if len(c.order) >= c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[query] = res
	c.order = append(c.order, query)
}

func (c *resolutionCache) stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
