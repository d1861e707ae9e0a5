package cache

import (
	"sync"
	"testing"
	"time"

	"MacroPull/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueCachePutGet(t *testing.T) {
	c := NewValueCache()

	_, ok := c.Get("DGS10")
	assert.False(t, ok)

	now := time.Now()
	c.Put("DGS10", 4.2, now)

	v, ok := c.Get("DGS10")
	require.True(t, ok)
	assert.Equal(t, models.CachedValue{RawID: "DGS10", Value: 4.2, FetchedAt: now}, v)
	assert.Equal(t, 1, c.Len())
}

func TestValueCacheReplaceIsWholeEntry(t *testing.T) {
	c := NewValueCache()
	t0 := time.Unix(1000, 0)
	t1 := time.Unix(2000, 0)

	c.Put("VIXCLS", 15.5, t0)
	c.Put("VIXCLS", 22.1, t1)

	v, ok := c.Get("VIXCLS")
	require.True(t, ok)
	assert.Equal(t, 22.1, v.Value)
	assert.Equal(t, t1, v.FetchedAt)
}

func TestValueCacheYoYKeyIsSeparateEntry(t *testing.T) {
	c := NewValueCache()
	now := time.Now()
	c.Put("CPIAUCSL", 321.5, now)
	c.Put(YoYKey("CPIAUCSL"), 3.2, now)

	raw, ok := c.Get("CPIAUCSL")
	require.True(t, ok)
	yoy, ok := c.Get("yoy:CPIAUCSL")
	require.True(t, ok)
	assert.Equal(t, 321.5, raw.Value)
	assert.Equal(t, 3.2, yoy.Value)
}

func TestValueCacheConcurrentAccess(t *testing.T) {
	c := NewValueCache()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Put("DGS2", float64(j), time.Now())
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if v, ok := c.Get("DGS2"); ok {
					// An entry is always internally consistent.
					assert.Equal(t, "DGS2", v.RawID)
				}
			}
		}()
	}
	wg.Wait()
}

func TestHistoryCacheGetNeverNil(t *testing.T) {
	c := NewHistoryCache()
	got := c.Get("VIX")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestHistoryCacheWholesaleReplace(t *testing.T) {
	c := NewHistoryCache()
	c.Put("VIX", []models.HistoryPoint{
		{Date: "2026-08-25", Value: 14.1},
		{Date: "2026-08-26", Value: 15.0},
	})
	c.Put("VIX", []models.HistoryPoint{
		{Date: "2026-08-27", Value: 18.3},
	})

	got := c.Get("VIX")
	require.Len(t, got, 1)
	assert.Equal(t, "2026-08-27", got[0].Date)
}

func TestHistoryCacheCopiesOnPutAndGet(t *testing.T) {
	c := NewHistoryCache()
	in := []models.HistoryPoint{{Date: "2026-08-27", Value: 1}}
	c.Put("Gold", in)
	in[0].Value = 99

	got := c.Get("Gold")
	require.Len(t, got, 1)
	assert.Equal(t, 1.0, got[0].Value)

	got[0].Value = 42
	again := c.Get("Gold")
	assert.Equal(t, 1.0, again[0].Value)
}

func TestSnapshotHolder(t *testing.T) {
	h := NewSnapshotHolder()
	_, ok := h.Get()
	assert.False(t, ok)

	now := time.Now()
	h.Set(models.CompositeSnapshot{Score: 37.25, ComputedAt: now})

	s, ok := h.Get()
	require.True(t, ok)
	assert.Equal(t, 37.25, s.Score)
	assert.Equal(t, now, s.ComputedAt)
}
