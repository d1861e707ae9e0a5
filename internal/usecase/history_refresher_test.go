package usecase

import (
	"context"
	"testing"

	"MacroPull/internal/domain/models"
	icache "MacroPull/internal/service/cache"
	"MacroPull/internal/sources"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryDirectKeepsTrailingWindow(t *testing.T) {
	registry := testRegistry(t, map[string]sources.Descriptor{
		"VIX": sources.Direct("VIXCLS"),
	})
	history := icache.NewHistoryCache()
	macro := &fakeMacro{series: map[string][]models.Observation{
		"VIXCLS": monthlySeries("VIXCLS", 10, 10),
	}}

	h := NewHistoryRefresher(registry, macro, &fakeQuotes{}, history, &fakeMetrics{}, testLogger(t), 0)
	h.RefreshOnce(context.Background())

	got := history.Get("VIX")
	require.Len(t, got, 7)
	assert.Equal(t, 13.0, got[0].Value) // first three dropped
	assert.Equal(t, 19.0, got[6].Value)
	assert.Equal(t, "2025-04-01", got[0].Date)
}

func TestHistoryYoYWindow(t *testing.T) {
	registry := testRegistry(t, map[string]sources.Descriptor{
		"CPI (YoY)": sources.YoY("CPIAUCSL"),
	})
	history := icache.NewHistoryCache()
	macro := &fakeMacro{series: map[string][]models.Observation{
		"CPIAUCSL": monthlySeries("CPIAUCSL", 100, 15),
	}}

	h := NewHistoryRefresher(registry, macro, &fakeQuotes{}, history, &fakeMetrics{}, testLogger(t), 0)
	h.RefreshOnce(context.Background())

	got := history.Get("CPI (YoY)")
	// 15 points yield 3 YoY points (indexes 12..14).
	require.Len(t, got, 3)
	assert.InDelta(t, 12.0, got[0].Value, 1e-9)
	assert.InDelta(t, 11.8812, got[1].Value, 1e-4)
}

func TestHistorySpreadAlignsOnCommonDates(t *testing.T) {
	registry := testRegistry(t, map[string]sources.Descriptor{
		"UST 2s/10s Curve": sources.Spread("DGS2", "DGS10"),
	})
	history := icache.NewHistoryCache()

	short := monthlySeries("DGS2", 4.0, 3)
	long := monthlySeries("DGS10", 4.5, 5) // two extra dates with no DGS2 partner
	macro := &fakeMacro{series: map[string][]models.Observation{
		"DGS2":  short,
		"DGS10": long,
	}}

	h := NewHistoryRefresher(registry, macro, &fakeQuotes{}, history, &fakeMetrics{}, testLogger(t), 0)
	h.RefreshOnce(context.Background())

	got := history.Get("UST 2s/10s Curve")
	require.Len(t, got, 3)
	for _, p := range got {
		assert.Equal(t, 0.5, p.Value)
	}
}

func TestHistoryQuote(t *testing.T) {
	registry := testRegistry(t, map[string]sources.Descriptor{
		"Gold": sources.Quote("OANDA:XAU_USD"),
	})
	history := icache.NewHistoryCache()
	quotes := &fakeQuotes{candles: map[string][]models.Observation{
		"OANDA:XAU_USD": monthlySeries("OANDA:XAU_USD", 2400, 9),
	}}

	h := NewHistoryRefresher(registry, &fakeMacro{}, quotes, history, &fakeMetrics{}, testLogger(t), 0)
	h.RefreshOnce(context.Background())

	got := history.Get("Gold")
	require.Len(t, got, 7)
	assert.Equal(t, 2408.0, got[6].Value)
}

func TestHistoryFailurePreservesPreviousWindow(t *testing.T) {
	registry := testRegistry(t, map[string]sources.Descriptor{
		"VIX": sources.Direct("VIXCLS"),
	})
	history := icache.NewHistoryCache()
	history.Put("VIX", []models.HistoryPoint{{Date: "2026-08-01", Value: 14.5}})

	macro := &fakeMacro{errs: map[string]error{"VIXCLS": models.ErrUpstreamUnavailable}}
	m := &fakeMetrics{}

	h := NewHistoryRefresher(registry, macro, &fakeQuotes{}, history, m, testLogger(t), 0)
	h.RefreshOnce(context.Background())

	got := history.Get("VIX")
	require.Len(t, got, 1)
	assert.Equal(t, 14.5, got[0].Value)
	assert.Equal(t, 1, m.errors["upstream_unavailable"])
}

func TestHistoryStressIndicatorHasNoWindow(t *testing.T) {
	registry := testRegistry(t, map[string]sources.Descriptor{
		"Stress Composite Score": sources.Stress(),
	})
	history := icache.NewHistoryCache()

	h := NewHistoryRefresher(registry, &fakeMacro{}, &fakeQuotes{}, history, &fakeMetrics{}, testLogger(t), 0)
	h.RefreshOnce(context.Background())

	assert.Empty(t, history.Get("Stress Composite Score"))
}
