package usecase

import (
	"context"
	"sort"
	"time"

	"MacroPull/internal/domain/models"
	drepo "MacroPull/internal/domain/repository"
	icache "MacroPull/internal/service/cache"
	"MacroPull/internal/sources"
	applogger "MacroPull/pkg/logger"
	"MacroPull/pkg/util"
)

const historyWindow = 7

// HistoryRefresher rebuilds the trailing window for every registered
// indicator. Each indicator is refreshed independently; one failing
// upstream series leaves the others and its own previous window intact.
type HistoryRefresher struct {
	registry *sources.Registry
	macro    drepo.MacroSeriesProvider
	quotes   drepo.QuoteProvider
	history  *icache.HistoryCache
	metrics  drepo.Metrics
	log      *applogger.Logger

	quoteWindow time.Duration
	now         func() time.Time
}

func NewHistoryRefresher(
	registry *sources.Registry,
	macro drepo.MacroSeriesProvider,
	quotes drepo.QuoteProvider,
	history *icache.HistoryCache,
	metrics drepo.Metrics,
	log *applogger.Logger,
	quoteWindow time.Duration,
) *HistoryRefresher {
	if quoteWindow <= 0 {
		quoteWindow = 90 * 24 * time.Hour
	}
	return &HistoryRefresher{
		registry:    registry,
		macro:       macro,
		quotes:      quotes,
		history:     history,
		metrics:     metrics,
		log:         log,
		quoteWindow: quoteWindow,
		now:         time.Now,
	}
}

// RefreshOnce rebuilds every indicator's trailing window in one pass.
func (h *HistoryRefresher) RefreshOnce(ctx context.Context) {
	start := h.now()
	for _, name := range h.registry.Names() {
		desc, err := h.registry.Describe(name)
		if err != nil {
			continue
		}
		points, err := h.buildWindow(ctx, desc)
		if err != nil {
			h.metrics.RecordError(errorKind(err))
			h.log.Warn("history rebuild failed, keeping previous window",
				applogger.String("indicator", name),
				applogger.Error(err),
			)
			continue
		}
		if points == nil {
			continue
		}
		h.history.Put(name, points)
	}
	h.metrics.RecordRefreshDuration("history", time.Since(start).Seconds())
}

// buildWindow returns the trailing points for one indicator, or (nil, nil)
// for kinds that carry no history of their own.
func (h *HistoryRefresher) buildWindow(ctx context.Context, desc sources.Descriptor) ([]models.HistoryPoint, error) {
	switch desc.Kind {
	case sources.KindDirect:
		obs, err := h.macro.FetchSeries(ctx, desc.Series)
		if err != nil {
			return nil, err
		}
		return tail(toPoints(obs)), nil

	case sources.KindYoY:
		obs, err := h.macro.FetchSeries(ctx, desc.Series)
		if err != nil {
			return nil, err
		}
		return tail(yoyPoints(obs)), nil

	case sources.KindQuote:
		obs, err := h.quotes.FetchCandles(ctx, desc.Ticker, h.quoteWindow)
		if err != nil {
			return nil, err
		}
		return tail(toPoints(obs)), nil

	case sources.KindSpread:
		a, err := h.macro.FetchSeries(ctx, desc.SeriesA)
		if err != nil {
			return nil, err
		}
		b, err := h.macro.FetchSeries(ctx, desc.SeriesB)
		if err != nil {
			return nil, err
		}
		return tail(alignedPoints([][]models.Observation{a, b}, func(vs []float64) float64 {
			return util.Round4(vs[1] - vs[0])
		})), nil

	case sources.KindComposite:
		series := make([][]models.Observation, 0, len(desc.Members))
		for _, id := range desc.Members {
			obs, err := h.macro.FetchSeries(ctx, id)
			if err != nil {
				return nil, err
			}
			series = append(series, obs)
		}
		return tail(alignedPoints(series, mean)), nil

	default:
		// Stress carries no per-date series of its own.
		return nil, nil
	}
}

func toPoints(obs []models.Observation) []models.HistoryPoint {
	out := make([]models.HistoryPoint, 0, len(obs))
	for _, o := range obs {
		out = append(out, models.HistoryPoint{
			Date:  util.FormatDate(o.Date),
			Value: o.Value,
		})
	}
	return out
}

// yoyPoints computes the year-over-year change at each index that has a
// twelve-observation lookback with a nonzero base.
func yoyPoints(obs []models.Observation) []models.HistoryPoint {
	var out []models.HistoryPoint
	for i := 12; i < len(obs); i++ {
		base := obs[i-12].Value
		if base == 0 {
			continue
		}
		out = append(out, models.HistoryPoint{
			Date:  util.FormatDate(obs[i].Date),
			Value: util.Round4(100 * (obs[i].Value - base) / base),
		})
	}
	return out
}

// alignedPoints combines several observation series on their common dates.
func alignedPoints(series [][]models.Observation, combine func([]float64) float64) []models.HistoryPoint {
	if len(series) == 0 {
		return nil
	}
	byDate := make([]map[string]float64, len(series))
	for i, obs := range series {
		m := make(map[string]float64, len(obs))
		for _, o := range obs {
			m[util.FormatDate(o.Date)] = o.Value
		}
		byDate[i] = m
	}

	var dates []string
	for d := range byDate[0] {
		common := true
		for _, m := range byDate[1:] {
			if _, ok := m[d]; !ok {
				common = false
				break
			}
		}
		if common {
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)

	out := make([]models.HistoryPoint, 0, len(dates))
	vs := make([]float64, len(byDate))
	for _, d := range dates {
		for i, m := range byDate {
			vs[i] = m[d]
		}
		out = append(out, models.HistoryPoint{Date: d, Value: combine(vs)})
	}
	return out
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return util.Round4(sum / float64(len(vs)))
}

func tail(points []models.HistoryPoint) []models.HistoryPoint {
	if len(points) <= historyWindow {
		return points
	}
	return points[len(points)-historyWindow:]
}
