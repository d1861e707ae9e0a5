package stress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// calmInputs is a market with every input at its calm anchor: yields at or
// below their zero points, a normally sloped +0.50 curve, subdued vol.
func calmInputs() Inputs {
	return Inputs{TwosTens: 0.5}
}

func crisisInputs() Inputs {
	return Inputs{
		TwoYear:      10,
		TenYear:      10,
		ThirtyYear:   10,
		TwosTens:     -2,
		VIX:          80,
		MOVE:         250,
		VXTLT:        60,
		HYSpread:     10,
		FedFunds:     10,
		CPIYoY:       10,
		Unemployment: 10,
		RetailYoY:    -10,
		Gold:         4000,
		Bitcoin:      200000,
	}
}

func TestScoreCalmBaseline(t *testing.T) {
	assert.Equal(t, 0.0, Score(calmInputs()))
}

func TestScoreCrisisSaturates(t *testing.T) {
	in := crisisInputs()
	assert.Equal(t, 100.0, RatesCurve(in))
	assert.Equal(t, 100.0, CreditVolatility(in))
	assert.Equal(t, 100.0, Macro(in))
	assert.Equal(t, 100.0, FlightToSafety(in))
	assert.Equal(t, 100.0, Score(in))
}

func TestScoreNeverLeavesRange(t *testing.T) {
	extremes := []Inputs{
		{},
		{VIX: 1e9, MOVE: 1e9, Gold: 1e9, Bitcoin: 1e9},
		{TwoYear: -50, TenYear: -50, TwosTens: 20, RetailYoY: 1e6},
		crisisInputs(),
	}
	for _, in := range extremes {
		s := Score(in)
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 100.0)
	}
}

func TestVIXSaturation(t *testing.T) {
	in := calmInputs()
	in.VIX = 1000

	// A saturated VIX contributes exactly 100 to its term, a quarter of
	// the credit sub-index.
	assert.Equal(t, 25.0, CreditVolatility(in))
	assert.InDelta(t, 0.35*25, Score(in), 1e-9)
}

func TestCurveInversionRaisesStress(t *testing.T) {
	in := calmInputs()
	flat := in
	flat.TwosTens = 0
	inverted := in
	inverted.TwosTens = -0.5

	assert.Greater(t, RatesCurve(flat), RatesCurve(in))
	assert.Greater(t, RatesCurve(inverted), RatesCurve(flat))
	assert.Equal(t, 25.0, RatesCurve(inverted)) // clamped at 100 for the term
}

func TestScoreMonotonicInVIX(t *testing.T) {
	prev := -1.0
	for vix := 15.0; vix <= 40; vix += 5 {
		in := calmInputs()
		in.VIX = vix
		s := Score(in)
		assert.Greater(t, s, prev, "score must rise with VIX at %v", vix)
		prev = s
	}
}

func TestScoreRoundedToTwoDecimals(t *testing.T) {
	in := calmInputs()
	in.VIX = 16.123

	s := Score(in)
	// 0.35 * (16.123-15)*4/4 = 0.393...; rounded to 2 decimals
	assert.Equal(t, 0.39, s)
}

func TestWeightsBlendSubIndices(t *testing.T) {
	in := crisisInputs()
	calm := calmInputs()

	// Zero out everything but credit & volatility.
	credit := calm
	credit.VIX, credit.MOVE, credit.VXTLT, credit.HYSpread = in.VIX, in.MOVE, in.VXTLT, in.HYSpread
	assert.Equal(t, 35.0, Score(credit))

	macroOnly := calm
	macroOnly.FedFunds, macroOnly.CPIYoY, macroOnly.Unemployment, macroOnly.RetailYoY = in.FedFunds, in.CPIYoY, in.Unemployment, in.RetailYoY
	assert.Equal(t, 25.0, Score(macroOnly))
}
