package sources

// Kind discriminates the source descriptor union.
type Kind string

const (
	// KindDirect serves the latest value of a single macro series.
	KindDirect Kind = "direct"
	// KindYoY serves the year-over-year percent change of a macro series.
	KindYoY Kind = "yoy"
	// KindSpread serves latest(B) - latest(A) of two macro series.
	KindSpread Kind = "spread"
	// KindComposite serves the arithmetic mean of the available members.
	KindComposite Kind = "composite"
	// KindQuote serves the latest close price of a ticker.
	KindQuote Kind = "quote"
	// KindStress routes to the composite stress score engine.
	KindStress Kind = "stress"
)

// Descriptor declares how an indicator derives from raw upstream series.
// Exactly the fields for its Kind are set; a Spread never references more
// than two series.
type Descriptor struct {
	Kind    Kind
	Series  string   // Direct, YoY
	SeriesA string   // Spread: subtrahend
	SeriesB string   // Spread: minuend
	Ticker  string   // Quote
	Members []string // Composite
}

// Direct builds a Direct descriptor.
func Direct(seriesID string) Descriptor {
	return Descriptor{Kind: KindDirect, Series: seriesID}
}

// YoY builds a YoY descriptor.
func YoY(seriesID string) Descriptor {
	return Descriptor{Kind: KindYoY, Series: seriesID}
}

// Spread builds a Spread descriptor resolving to latest(b) - latest(a).
func Spread(a, b string) Descriptor {
	return Descriptor{Kind: KindSpread, SeriesA: a, SeriesB: b}
}

// Composite builds a simple mean-of-members descriptor.
func Composite(members ...string) Descriptor {
	return Descriptor{Kind: KindComposite, Members: members}
}

// Quote builds a ticker-backed descriptor.
func Quote(ticker string) Descriptor {
	return Descriptor{Kind: KindQuote, Ticker: ticker}
}

// Stress builds the descriptor routed to the stress score engine.
func Stress() Descriptor {
	return Descriptor{Kind: KindStress}
}

// RawIDs lists the raw series/ticker identifiers this descriptor reads.
// Stress returns nil: its inputs are declared by the engine, not here.
func (d Descriptor) RawIDs() []string {
	switch d.Kind {
	case KindDirect, KindYoY:
		return []string{d.Series}
	case KindSpread:
		return []string{d.SeriesA, d.SeriesB}
	case KindComposite:
		ids := make([]string, len(d.Members))
		copy(ids, d.Members)
		return ids
	case KindQuote:
		return []string{d.Ticker}
	default:
		return nil
	}
}
