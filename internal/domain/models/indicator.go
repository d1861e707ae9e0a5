package models

import "time"

// CachedValue is the last known value for a raw series or ticker.
// Immutable once written; a refresh replaces the whole entry per key.
type CachedValue struct {
	RawID     string    `json:"raw_id"`
	Value     float64   `json:"value"`
	FetchedAt time.Time `json:"fetched_at"`
}

// HistoryPoint is a single dated value in an indicator's trailing window.
type HistoryPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// CompositeSnapshot is the latest computed stress score. Only one is
// retained process-wide.
type CompositeSnapshot struct {
	Score      float64   `json:"score"`
	ComputedAt time.Time `json:"computed_at"`
}

// IndicatorResult is the read-path response for a single indicator.
// Value is nil when any required input is absent; Error is set only for
// reportable conditions such as an unknown indicator name.
type IndicatorResult struct {
	Name  string   `json:"name"`
	Value *float64 `json:"value"`
	Error string   `json:"error,omitempty"`
}

// HistoryResult is the read-path response for an indicator's history.
// Values is an empty list, never null, when nothing has been fetched.
type HistoryResult struct {
	Name   string         `json:"name"`
	Values []HistoryPoint `json:"values"`
}
