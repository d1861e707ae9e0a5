package usecase

import (
	"errors"

	"MacroPull/internal/domain/models"
	icache "MacroPull/internal/service/cache"
	"MacroPull/internal/sources"
	"MacroPull/pkg/util"
)

// Resolver answers read requests out of the caches. It never touches the
// network: a value an upstream has not delivered yet simply resolves to
// null.
type Resolver struct {
	registry *sources.Registry
	values   *icache.ValueCache
	history  *icache.HistoryCache
	snapshot *icache.SnapshotHolder
}

func NewResolver(
	registry *sources.Registry,
	values *icache.ValueCache,
	history *icache.HistoryCache,
	snapshot *icache.SnapshotHolder,
) *Resolver {
	return &Resolver{
		registry: registry,
		values:   values,
		history:  history,
		snapshot: snapshot,
	}
}

// Names lists every resolvable indicator in registration order.
func (r *Resolver) Names() []string { return r.registry.Names() }

// Resolve returns the current value of one indicator by display name. An
// unregistered name yields a result carrying an error message instead of a
// value; a registered indicator whose inputs are not cached yet yields a
// null value.
func (r *Resolver) Resolve(name string) models.IndicatorResult {
	desc, err := r.registry.Describe(name)
	if err != nil {
		if errors.Is(err, models.ErrUnknownIndicator) {
			return models.IndicatorResult{Name: name, Error: "no data source mapped"}
		}
		return models.IndicatorResult{Name: name, Error: err.Error()}
	}

	res := models.IndicatorResult{Name: name}
	switch desc.Kind {
	case sources.KindDirect:
		if v, ok := r.values.Get(desc.Series); ok {
			res.Value = f64ptr(v.Value)
		}

	case sources.KindYoY:
		if v, ok := r.values.Get(icache.YoYKey(desc.Series)); ok {
			res.Value = f64ptr(v.Value)
		}

	case sources.KindQuote:
		if v, ok := r.values.Get(desc.Ticker); ok {
			res.Value = f64ptr(v.Value)
		}

	case sources.KindSpread:
		a, okA := r.values.Get(desc.SeriesA)
		b, okB := r.values.Get(desc.SeriesB)
		if okA && okB {
			res.Value = f64ptr(util.Round4(b.Value - a.Value))
		}

	case sources.KindComposite:
		var sum float64
		var n int
		for _, id := range desc.Members {
			if v, ok := r.values.Get(id); ok {
				sum += v.Value
				n++
			}
		}
		if n > 0 {
			res.Value = f64ptr(util.Round4(sum / float64(n)))
		}

	case sources.KindStress:
		if snap, ok := r.snapshot.Get(); ok {
			res.Value = f64ptr(snap.Score)
		}
	}
	return res
}

// ResolveAll resolves every registered indicator.
func (r *Resolver) ResolveAll() []models.IndicatorResult {
	names := r.registry.Names()
	out := make([]models.IndicatorResult, 0, len(names))
	for _, name := range names {
		out = append(out, r.Resolve(name))
	}
	return out
}

// History returns the cached trailing window for one indicator. Unknown
// names and indicators with no points yet both resolve to an empty window.
func (r *Resolver) History(name string) models.HistoryResult {
	return models.HistoryResult{Name: name, Values: r.history.Get(name)}
}

// Composite returns the latest stress snapshot; ok is false until the
// first computation has run.
func (r *Resolver) Composite() (models.CompositeSnapshot, bool) {
	return r.snapshot.Get()
}

func f64ptr(v float64) *float64 { return &v }
