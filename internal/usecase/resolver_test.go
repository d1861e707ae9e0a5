package usecase

import (
	"testing"
	"time"

	"MacroPull/internal/domain/models"
	icache "MacroPull/internal/service/cache"
	"MacroPull/internal/sources"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeededResolver() (*Resolver, *icache.ValueCache, *icache.HistoryCache, *icache.SnapshotHolder) {
	values := icache.NewValueCache()
	history := icache.NewHistoryCache()
	snapshot := icache.NewSnapshotHolder()
	return NewResolver(sources.Default(), values, history, snapshot), values, history, snapshot
}

func TestResolveDirect(t *testing.T) {
	r, values, _, _ := newSeededResolver()
	values.Put("VIXCLS", 18.5, time.Now())

	res := r.Resolve("VIX")
	require.NotNil(t, res.Value)
	assert.Equal(t, 18.5, *res.Value)
	assert.Empty(t, res.Error)
}

func TestResolveSpread(t *testing.T) {
	r, values, _, _ := newSeededResolver()
	values.Put("DGS2", 4.00, time.Now())
	values.Put("DGS10", 4.20, time.Now())

	res := r.Resolve("UST 2s/10s Curve")
	require.NotNil(t, res.Value)
	assert.Equal(t, 0.2, *res.Value)
}

func TestResolveSpreadMissingLegIsNull(t *testing.T) {
	r, values, _, _ := newSeededResolver()
	values.Put("DGS2", 4.00, time.Now())

	res := r.Resolve("UST 2s/10s Curve")
	assert.Nil(t, res.Value)
	assert.Empty(t, res.Error)
}

func TestResolveYoYReadsDerivedKey(t *testing.T) {
	r, values, _, _ := newSeededResolver()
	// The raw level alone must not satisfy a YoY indicator.
	values.Put("CPIAUCSL", 321.5, time.Now())

	res := r.Resolve("CPI (YoY)")
	assert.Nil(t, res.Value)

	values.Put(icache.YoYKey("CPIAUCSL"), 3.2, time.Now())
	res = r.Resolve("CPI (YoY)")
	require.NotNil(t, res.Value)
	assert.Equal(t, 3.2, *res.Value)
}

func TestResolveUnknownIndicator(t *testing.T) {
	r, _, _, _ := newSeededResolver()

	res := r.Resolve("Copper")
	assert.Nil(t, res.Value)
	assert.Equal(t, "no data source mapped", res.Error)
	assert.Equal(t, "Copper", res.Name)
}

func TestResolveStressFromSnapshot(t *testing.T) {
	r, _, _, snapshot := newSeededResolver()

	res := r.Resolve("Stress Composite Score")
	assert.Nil(t, res.Value, "no snapshot before the first computation")

	snapshot.Set(models.CompositeSnapshot{Score: 41.37, ComputedAt: time.Now()})
	res = r.Resolve("Stress Composite Score")
	require.NotNil(t, res.Value)
	assert.Equal(t, 41.37, *res.Value)
}

func TestResolveAllCoversRegistry(t *testing.T) {
	r, values, _, _ := newSeededResolver()
	values.Put("DGS2", 4.0, time.Now())

	all := r.ResolveAll()
	assert.Len(t, all, len(r.Names()))

	byName := map[string]models.IndicatorResult{}
	for _, res := range all {
		byName[res.Name] = res
	}
	require.NotNil(t, byName["2-Year Yield"].Value)
	assert.Nil(t, byName["Gold"].Value)
}

func TestHistoryUnknownNameIsEmptyWindow(t *testing.T) {
	r, _, history, _ := newSeededResolver()

	res := r.History("Copper")
	assert.Equal(t, "Copper", res.Name)
	assert.NotNil(t, res.Values)
	assert.Empty(t, res.Values)

	history.Put("VIX", []models.HistoryPoint{{Date: "2026-08-28", Value: 16.2}})
	res = r.History("VIX")
	require.Len(t, res.Values, 1)
	assert.Equal(t, 16.2, res.Values[0].Value)
}
