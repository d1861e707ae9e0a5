package sources

import (
	"errors"
	"testing"

	"MacroPull/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableIsValid(t *testing.T) {
	r := Default()
	require.NotNil(t, r)
	assert.Len(t, r.Names(), 17)
}

func TestDescribeUnknownIndicator(t *testing.T) {
	r := Default()
	_, err := r.Describe("Copper")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnknownIndicator))
}

func TestDependenciesPerKind(t *testing.T) {
	r := Default()

	deps, err := r.Dependencies("2-Year Yield")
	require.NoError(t, err)
	assert.Equal(t, []string{"DGS2"}, deps)

	deps, err = r.Dependencies("UST 2s/10s Curve")
	require.NoError(t, err)
	assert.Equal(t, []string{"DGS2", "DGS10"}, deps)

	deps, err = r.Dependencies("Gold")
	require.NoError(t, err)
	assert.Equal(t, []string{"OANDA:XAU_USD"}, deps)

	deps, err = r.Dependencies("Stress Composite Score")
	require.NoError(t, err)
	assert.Empty(t, deps)
}

func TestMacroSeriesIDsExcludeTickersAndDedupe(t *testing.T) {
	r := Default()
	ids := r.MacroSeriesIDs()

	seen := map[string]int{}
	for _, id := range ids {
		seen[id]++
		assert.Equal(t, 1, seen[id], "duplicate id %s", id)
	}
	// DGS2 and DGS10 back several indicators but appear once.
	assert.Contains(t, ids, "DGS2")
	assert.Contains(t, ids, "DGS10")
	assert.NotContains(t, ids, "^MOVE")
	assert.NotContains(t, ids, "BINANCE:BTCUSDT")
}

func TestTickers(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{"BINANCE:BTCUSDT", "OANDA:XAU_USD", "^MOVE", "^VXTLT"}, r.Tickers())
}

func TestYoYSeriesIDs(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{"CPIAUCSL"}, r.YoYSeriesIDs())
}

func TestNewRejectsMalformedDescriptors(t *testing.T) {
	cases := map[string]Descriptor{
		"no series":       {Kind: KindDirect},
		"one leg":         {Kind: KindSpread, SeriesA: "DGS2"},
		"no ticker":       {Kind: KindQuote},
		"empty composite": {Kind: KindComposite},
		"bad kind":        {Kind: Kind("weekly")},
	}
	for label, d := range cases {
		_, err := New(map[string]Descriptor{label: d})
		assert.Error(t, err, label)
	}
}
