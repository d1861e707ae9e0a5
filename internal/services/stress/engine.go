package stress

import "math"

// Inputs is the bundle of raw cached values the stress score reads. Fields
// left at their zero value are treated as 0 by the normalizers, never as an
// exclusion of the term. That understates the score when an input is
// missing; the behavior is kept from the original dashboard on purpose.
type Inputs struct {
	TwoYear      float64 // DGS2, percent
	TenYear      float64 // DGS10, percent
	ThirtyYear   float64 // DGS30, percent
	TwosTens     float64 // DGS10 - DGS2, percentage points
	VIX          float64
	MOVE         float64
	VXTLT        float64
	HYSpread     float64 // BAMLH0A0HYM2, percentage points
	FedFunds     float64 // percent
	CPIYoY       float64 // percent, year over year
	Unemployment float64 // percent
	RetailYoY    float64 // percent, year over year
	Gold         float64 // USD/oz
	Bitcoin      float64 // USD
	SOFRSpread   float64 // SOFR - EFFR; carried but not scored yet
}

// Sub-index weights. They sum to 1.
const (
	weightRates  = 0.20
	weightCredit = 0.35
	weightMacro  = 0.25
	weightSafety = 0.20
)

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Normalizers. Each is a linear map clamped to [0,100] and monotonic in the
// direction of rising stress. Anchors are noted as (zero point, saturation).

func scoreTwoYear(y float64) float64    { return clamp100((y - 4.0) * 25) }    // 4.00 -> 8.00
func scoreTenYear(y float64) float64    { return clamp100((y - 4.5) * 25) }    // 4.50 -> 8.50
func scoreThirtyYear(y float64) float64 { return clamp100((y - 4.75) * 25) }   // 4.75 -> 8.75
func scoreInversion(s float64) float64  { return clamp100((0.5 - s) * 200) }   // +0.50 -> 0.00
func scoreVIX(v float64) float64        { return clamp100((v - 15) * 4) }      // 15 -> 40
func scoreMOVE(v float64) float64       { return clamp100((v - 100) * 1.25) }  // 100 -> 180
func scoreVXTLT(v float64) float64      { return clamp100((v - 10) * 5) }      // 10 -> 30
func scoreHYSpread(s float64) float64   { return clamp100((s - 3.0) * 25) }    // 3.00 -> 7.00
func scoreFedFunds(r float64) float64   { return clamp100((r - 4.0) * 25) }    // 4.00 -> 8.00
func scoreCPI(y float64) float64        { return clamp100((y - 2.0) * 20) }    // 2% -> 7%
func scoreUnemployment(u float64) float64 { return clamp100((u - 4.0) * 25) }  // 4% -> 8%
func scoreRetail(y float64) float64     { return clamp100(-y * 25) }           // 0% -> -4%
func scoreGold(p float64) float64       { return clamp100((p - 2000) * 0.1) }  // 2000 -> 3000
func scoreBitcoin(p float64) float64    { return clamp100((p - 100000) * 0.002) } // 100k -> 150k

// RatesCurve is the rates & curve sub-index: yield levels plus 2s10s
// inversion, equally weighted within the sub-index.
func RatesCurve(in Inputs) float64 {
	return (scoreTwoYear(in.TwoYear) +
		scoreTenYear(in.TenYear) +
		scoreThirtyYear(in.ThirtyYear) +
		scoreInversion(in.TwosTens)) / 4
}

// CreditVolatility is the credit & volatility sub-index.
func CreditVolatility(in Inputs) float64 {
	return (scoreVIX(in.VIX) +
		scoreMOVE(in.MOVE) +
		scoreVXTLT(in.VXTLT) +
		scoreHYSpread(in.HYSpread)) / 4
}

// Macro is the macro indicators sub-index.
func Macro(in Inputs) float64 {
	return (scoreFedFunds(in.FedFunds) +
		scoreCPI(in.CPIYoY) +
		scoreUnemployment(in.Unemployment) +
		scoreRetail(in.RetailYoY)) / 4
}

// FlightToSafety is the flight-to-safety sub-index. SOFRSpread is not
// scored.
func FlightToSafety(in Inputs) float64 {
	return (scoreGold(in.Gold) + scoreBitcoin(in.Bitcoin)) / 2
}

// Score blends the four sub-indices into the 0-100 composite, rounded to
// two decimals. Deterministic and side-effect free.
func Score(in Inputs) float64 {
	total := weightRates*RatesCurve(in) +
		weightCredit*CreditVolatility(in) +
		weightMacro*Macro(in) +
		weightSafety*FlightToSafety(in)
	return math.Round(total*100) / 100
}
