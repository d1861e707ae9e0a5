package cache

import (
	"sync"

	"MacroPull/internal/domain/models"
)

// SnapshotHolder retains the single latest composite score snapshot. When a
// computation fails upstream the previous snapshot stays in place, so the
// dashboard keeps showing the last good score.
type SnapshotHolder struct {
	mu   sync.RWMutex
	snap models.CompositeSnapshot
	set  bool
}

// NewSnapshotHolder creates an empty holder; Get reports ok=false until the
// first successful computation.
func NewSnapshotHolder() *SnapshotHolder {
	return &SnapshotHolder{}
}

// Set replaces the retained snapshot.
func (h *SnapshotHolder) Set(s models.CompositeSnapshot) {
	h.mu.Lock()
	h.snap = s
	h.set = true
	h.mu.Unlock()
}

// Get returns the retained snapshot and whether one has ever been set.
func (h *SnapshotHolder) Get() (models.CompositeSnapshot, bool) {
	h.mu.RLock()
	s, ok := h.snap, h.set
	h.mu.RUnlock()
	return s, ok
}
