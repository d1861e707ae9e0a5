package cache

import (
	"sync"
	"time"

	"MacroPull/internal/domain/models"
)

// YoYKey is the derived cache key under which the refresh loop stores a
// series' year-over-year value, next to the plain latest-value entry.
func YoYKey(seriesID string) string { return "yoy:" + seriesID }

// ValueCache maps raw series/ticker id to its last known value. Reads are
// O(1) and never touch the network; staleness is advisory (old entries are
// still served). Absence is represented by key-not-present, never by a nil
// value. A Put replaces value and timestamp together, so a concurrent
// reader can never observe a half-written entry.
type ValueCache struct {
	mu sync.RWMutex
	m  map[string]models.CachedValue
}

// NewValueCache creates an empty value cache. It is populated by the
// warm-up pass and then mutated only by the value refresh loop.
func NewValueCache() *ValueCache {
	return &ValueCache{m: make(map[string]models.CachedValue)}
}

// Put upserts the entry for rawID. Last writer wins.
func (c *ValueCache) Put(rawID string, value float64, fetchedAt time.Time) {
	c.mu.Lock()
	c.m[rawID] = models.CachedValue{RawID: rawID, Value: value, FetchedAt: fetchedAt}
	c.mu.Unlock()
}

// Get returns the entry for rawID, if any. Never triggers a fetch.
func (c *ValueCache) Get(rawID string) (models.CachedValue, bool) {
	c.mu.RLock()
	v, ok := c.m[rawID]
	c.mu.RUnlock()
	return v, ok
}

// Len reports how many keys are populated. Used for readiness logging.
func (c *ValueCache) Len() int {
	c.mu.RLock()
	n := len(c.m)
	c.mu.RUnlock()
	return n
}
