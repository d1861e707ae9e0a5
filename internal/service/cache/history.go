package cache

import (
	"sync"

	"MacroPull/internal/domain/models"
)

// HistoryCache maps indicator name to its short trailing window of dated
// values. Each refresh replaces the whole series, there is no incremental
// merge. Independent of the ValueCache: the two are refreshed on different
// cadences and may disagree mid-tick.
type HistoryCache struct {
	mu sync.RWMutex
	m  map[string][]models.HistoryPoint
}

// NewHistoryCache creates an empty history cache.
func NewHistoryCache() *HistoryCache {
	return &HistoryCache{m: make(map[string][]models.HistoryPoint)}
}

// Put replaces the stored series for an indicator wholesale.
func (c *HistoryCache) Put(indicator string, points []models.HistoryPoint) {
	cp := make([]models.HistoryPoint, len(points))
	copy(cp, points)
	c.mu.Lock()
	c.m[indicator] = cp
	c.mu.Unlock()
}

// Get returns the stored series. An indicator never fetched yields an
// empty slice, never nil and never an error.
func (c *HistoryCache) Get(indicator string) []models.HistoryPoint {
	c.mu.RLock()
	stored, ok := c.m[indicator]
	c.mu.RUnlock()
	if !ok {
		return []models.HistoryPoint{}
	}
	out := make([]models.HistoryPoint, len(stored))
	copy(out, stored)
	return out
}
