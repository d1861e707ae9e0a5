package models

import "time"

// Observation is a single dated point of an upstream series, as returned
// by a provider. Date is the provider's observation date (daily or monthly
// granularity depending on the series).
type Observation struct {
	SeriesID string
	Date     time.Time
	Value    float64
}

// Latest returns the last observation of an ascending-ordered series.
func Latest(obs []Observation) (Observation, bool) {
	if len(obs) == 0 {
		return Observation{}, false
	}
	return obs[len(obs)-1], true
}

// YoYPercent computes the year-over-year percent change of an
// ascending-ordered monthly series: 100*(v[-1]-v[-13])/v[-13].
// ok is false when fewer than 13 points are available or the base is zero.
func YoYPercent(obs []Observation) (float64, bool) {
	if len(obs) < 13 {
		return 0, false
	}
	latest := obs[len(obs)-1].Value
	base := obs[len(obs)-13].Value
	if base == 0 {
		return 0, false
	}
	return 100 * (latest - base) / base, true
}
