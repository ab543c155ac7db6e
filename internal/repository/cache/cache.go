// Package cache memoizes final search responses in memory.
package cache

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain"
)

// ResultCache holds computed search responses. TTL governs visibility;
// capacity is enforced by evicting the oldest-inserted entry. FIFO, not LRU:
// a hit does not refresh insertion time.
type ResultCache struct {
	mu         sync.Mutex
	entries    map[string]entry
	ttl        time.Duration
	capacity   int
	cacheTotal *prometheus.CounterVec
	now        func() time.Time
}

type entry struct {
	result     domain.SearchResult
	insertedAt time.Time
}

// New creates a result cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(ttl time.Duration, capacity int, cacheTotal *prometheus.CounterVec) *ResultCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if capacity <= 0 {
		capacity = 100
	}
	return &ResultCache{
		entries:    make(map[string]entry, capacity),
		ttl:        ttl,
		capacity:   capacity,
		cacheTotal: cacheTotal,
		now:        time.Now,
	}
}

// Get returns the cached result for key. Served copies carry Cached=true.
func (c *ResultCache) Get(key string) (domain.SearchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if ok && c.now().Sub(e.insertedAt) >= c.ttl {
		delete(c.entries, key)
		ok = false
	}
	if !ok {
		c.incCache("miss")
		return domain.SearchResult{}, false
	}

	c.incCache("hit")
	res := e.result
	res.Cached = true
	return res, true
}

// Put stores a computed result, evicting the oldest entry at capacity.
func (c *ResultCache) Put(key string, res domain.SearchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictOldest()
	}

	res.Cached = false
	c.entries[key] = entry{result: res, insertedAt: c.now()}
}

// Len reports stored entries, expired ones included until they are read.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictOldest removes the single entry with the earliest insertion time.
// Caller holds the lock.
func (c *ResultCache) evictOldest() {
	var (
		oldestKey string
		oldestAt  time.Time
		found     bool
	)
	for k, e := range c.entries {
		if !found || e.insertedAt.Before(oldestAt) {
			oldestKey, oldestAt, found = k, e.insertedAt, true
		}
	}
	if found {
		delete(c.entries, oldestKey)
	}
}

func (c *ResultCache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
