package sources

import (
	"fmt"
	"sort"

	"MacroPull/internal/domain/models"
)

// Registry is the static mapping from indicator name to source descriptor.
// Built once at startup and read-only afterwards, so it needs no locking.
type Registry struct {
	table map[string]Descriptor
	names []string
}

// New builds a registry from an explicit table. Use Default for the
// built-in dashboard table.
func New(table map[string]Descriptor) (*Registry, error) {
	names := make([]string, 0, len(table))
	for name, d := range table {
		if name == "" {
			return nil, fmt.Errorf("indicator with empty name")
		}
		switch d.Kind {
		case KindDirect, KindYoY:
			if d.Series == "" {
				return nil, fmt.Errorf("indicator %q: series is required", name)
			}
		case KindSpread:
			if d.SeriesA == "" || d.SeriesB == "" {
				return nil, fmt.Errorf("indicator %q: spread needs two series", name)
			}
		case KindComposite:
			if len(d.Members) == 0 {
				return nil, fmt.Errorf("indicator %q: composite needs members", name)
			}
		case KindQuote:
			if d.Ticker == "" {
				return nil, fmt.Errorf("indicator %q: ticker is required", name)
			}
		case KindStress:
		default:
			return nil, fmt.Errorf("indicator %q: unknown kind %q", name, d.Kind)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return &Registry{table: table, names: names}, nil
}

// Default returns the registry for the stress dashboard: treasury yields and
// curves, policy and inflation gauges, volatility indices, safe-haven quotes
// and the composite stress score.
func Default() *Registry {
	r, err := New(map[string]Descriptor{
		"2-Year Yield":           Direct("DGS2"),
		"10-Year Yield":          Direct("DGS10"),
		"30Y Yield":              Direct("DGS30"),
		"UST 2s/10s Curve":       Spread("DGS2", "DGS10"),
		"UST 3m/10y Curve":       Spread("TB3MS", "DGS10"),
		"Fed Funds Rate":         Direct("FEDFUNDS"),
		"Unemployment Rate":      Direct("UNRATE"),
		"CPI (YoY)":              YoY("CPIAUCSL"),
		"Retail Sales":           Direct("RSAFS"),
		"VIX":                    Direct("VIXCLS"),
		"High Yield Spread":      Direct("BAMLH0A0HYM2"),
		"SOFR Spread":            Spread("EFFR", "SOFR"),
		"MOVE Index":             Quote("^MOVE"),
		"VXTLT":                  Quote("^VXTLT"),
		"Gold":                   Quote("OANDA:XAU_USD"),
		"Bitcoin":                Quote("BINANCE:BTCUSDT"),
		"Stress Composite Score": Stress(),
	})
	if err != nil {
		// the built-in table is validated by tests
		panic(err)
	}
	return r
}

// Describe returns the descriptor for an indicator name.
func (r *Registry) Describe(name string) (Descriptor, error) {
	d, ok := r.table[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", models.ErrUnknownIndicator, name)
	}
	return d, nil
}

// Dependencies resolves an indicator to the raw identifiers it reads.
func (r *Registry) Dependencies(name string) ([]string, error) {
	d, err := r.Describe(name)
	if err != nil {
		return nil, err
	}
	return d.RawIDs(), nil
}

// Names lists registered indicator names in stable order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// MacroSeriesIDs is the deduplicated set of macro series the value refresh
// loop must fetch (everything except quote tickers).
func (r *Registry) MacroSeriesIDs() []string {
	seen := map[string]bool{}
	var ids []string
	for _, name := range r.names {
		d := r.table[name]
		if d.Kind == KindQuote {
			continue
		}
		for _, id := range d.RawIDs() {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Strings(ids)
	return ids
}

// Tickers is the deduplicated set of quote tickers to fetch.
func (r *Registry) Tickers() []string {
	seen := map[string]bool{}
	var ids []string
	for _, name := range r.names {
		d := r.table[name]
		if d.Kind != KindQuote || seen[d.Ticker] {
			continue
		}
		seen[d.Ticker] = true
		ids = append(ids, d.Ticker)
	}
	sort.Strings(ids)
	return ids
}

// YoYSeriesIDs is the set of series whose refresh must also derive a
// year-over-year entry.
func (r *Registry) YoYSeriesIDs() []string {
	seen := map[string]bool{}
	var ids []string
	for _, name := range r.names {
		d := r.table[name]
		if d.Kind != KindYoY || seen[d.Series] {
			continue
		}
		seen[d.Series] = true
		ids = append(ids, d.Series)
	}
	sort.Strings(ids)
	return ids
}
