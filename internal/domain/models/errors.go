package models

import "errors"

// Fault taxonomy of the caching engine. Fetch-time faults are caught at the
// refresh tick, logged and swallowed; the previous cache entry survives.
// None of these is fatal to the process.
var (
	// ErrUnknownIndicator reports a lookup for a name that is not in the
	// source registry. Reported to the caller, never a crash.
	ErrUnknownIndicator = errors.New("unknown indicator")

	// ErrUpstreamUnavailable wraps network or provider-side failures.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrEmptySeries means the provider answered but returned no points.
	ErrEmptySeries = errors.New("empty series")

	// ErrInsufficientHistory means a year-over-year derivation had fewer
	// than the 13 trailing periods it needs.
	ErrInsufficientHistory = errors.New("insufficient history")
)
