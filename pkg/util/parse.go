package util

import (
	"math"
	"strconv"
)

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// ParseFloat parses a decimal string, reporting ok=false for empty or
// malformed input.
func ParseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Round4 rounds to four decimal places, enough precision for basis-point
// level spreads.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
