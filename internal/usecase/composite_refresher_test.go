package usecase

import (
	"testing"
	"time"

	icache "MacroPull/internal/service/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompositeCalmMarketScoresZero(t *testing.T) {
	values := icache.NewValueCache()
	snapshot := icache.NewSnapshotHolder()
	now := time.Now()

	// A normally sloped curve with yields below their stress anchors.
	values.Put("DGS2", 2.0, now)
	values.Put("DGS10", 2.5, now)

	c := NewCompositeRefresher(values, snapshot, &fakeMetrics{}, testLogger(t))
	c.RefreshOnce()

	snap, ok := snapshot.Get()
	require.True(t, ok)
	assert.Equal(t, 0.0, snap.Score)
}

func TestCompositeUsesDerivedYoYKeys(t *testing.T) {
	values := icache.NewValueCache()
	snapshot := icache.NewSnapshotHolder()
	now := time.Now()

	values.Put("DGS2", 2.0, now)
	values.Put("DGS10", 2.5, now)
	values.Put(icache.YoYKey("CPIAUCSL"), 7.0, now) // saturates the CPI term

	c := NewCompositeRefresher(values, snapshot, &fakeMetrics{}, testLogger(t))
	c.RefreshOnce()

	snap, ok := snapshot.Get()
	require.True(t, ok)
	// CPI term 100, quarter of the macro sub-index, weighted 0.25.
	assert.Equal(t, 6.25, snap.Score)
}

func TestCompositeMissingInputsContributeZero(t *testing.T) {
	values := icache.NewValueCache()
	snapshot := icache.NewSnapshotHolder()

	// Entirely cold cache. The pinned inversion map treats an absent
	// curve as deeply inverted, so the score is 2s10s-term only:
	// 100/4 * 0.20 = 5.
	c := NewCompositeRefresher(values, snapshot, &fakeMetrics{}, testLogger(t))
	c.RefreshOnce()

	snap, ok := snapshot.Get()
	require.True(t, ok)
	assert.Equal(t, 5.0, snap.Score)
}

func TestCompositeRecomputeReplacesSnapshot(t *testing.T) {
	values := icache.NewValueCache()
	snapshot := icache.NewSnapshotHolder()
	now := time.Now()
	values.Put("DGS2", 2.0, now)
	values.Put("DGS10", 2.5, now)

	c := NewCompositeRefresher(values, snapshot, &fakeMetrics{}, testLogger(t))
	c.RefreshOnce()
	first, _ := snapshot.Get()

	values.Put("VIXCLS", 40.0, now)
	c.RefreshOnce()
	second, _ := snapshot.Get()

	assert.Greater(t, second.Score, first.Score)
	assert.Equal(t, 8.75, second.Score) // VIX saturated: 100/4 * 0.35
}
