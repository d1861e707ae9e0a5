package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"MacroPull/internal/domain/models"
	drepo "MacroPull/internal/domain/repository"
	icache "MacroPull/internal/service/cache"
	"MacroPull/internal/sources"
	applogger "MacroPull/pkg/logger"
)

// ValueRefresher runs one bounded pass over every raw identifier any
// registered indicator depends on. Fetches fan out over a small worker
// pool; a failed fetch is logged and leaves the previous cache entry
// untouched, so readers keep seeing the last known good value.
type ValueRefresher struct {
	registry *sources.Registry
	macro    drepo.MacroSeriesProvider
	quotes   drepo.QuoteProvider
	values   *icache.ValueCache
	recorder *ObservationRecorder
	metrics  drepo.Metrics
	log      *applogger.Logger

	quoteWindow time.Duration
	workers     int
	now         func() time.Time
	onTick      func()
}

// NewValueRefresher wires a refresher. recorder may record to a no-op
// backend; workers <= 0 falls back to 4.
func NewValueRefresher(
	registry *sources.Registry,
	macro drepo.MacroSeriesProvider,
	quotes drepo.QuoteProvider,
	values *icache.ValueCache,
	recorder *ObservationRecorder,
	metrics drepo.Metrics,
	log *applogger.Logger,
	quoteWindow time.Duration,
) *ValueRefresher {
	if quoteWindow <= 0 {
		quoteWindow = 90 * 24 * time.Hour
	}
	return &ValueRefresher{
		registry:    registry,
		macro:       macro,
		quotes:      quotes,
		values:      values,
		recorder:    recorder,
		metrics:     metrics,
		log:         log,
		quoteWindow: quoteWindow,
		workers:     4,
		now:         time.Now,
	}
}

// OnTick registers a callback invoked after every completed pass. The
// dashboard stream hub uses it to push fresh values to subscribers.
func (r *ValueRefresher) OnTick(fn func()) { r.onTick = fn }

// SetWorkers bounds the fetch fan-out.
func (r *ValueRefresher) SetWorkers(n int) {
	if n > 0 {
		r.workers = n
	}
}

// RefreshOnce executes a single refresh tick. It never returns an error:
// per-identifier failures are contained so one bad series cannot abort the
// rest of the pass.
func (r *ValueRefresher) RefreshOnce(ctx context.Context) {
	start := r.now()

	yoyNeeded := map[string]bool{}
	for _, id := range r.registry.YoYSeriesIDs() {
		yoyNeeded[id] = true
	}
	for _, id := range stressYoYSeries {
		yoyNeeded[id] = true
	}

	var (
		mu        sync.Mutex
		collected []*models.Observation
	)
	keep := func(o models.Observation) {
		mu.Lock()
		collected = append(collected, &o)
		mu.Unlock()
	}

	sem := make(chan struct{}, r.workers)
	var wg sync.WaitGroup

	for _, id := range r.registry.MacroSeriesIDs() {
		wg.Add(1)
		sem <- struct{}{}
		go func(seriesID string) {
			defer wg.Done()
			defer func() { <-sem }()
			r.refreshMacroSeries(ctx, seriesID, yoyNeeded[seriesID], keep)
		}(id)
	}
	for _, t := range r.registry.Tickers() {
		wg.Add(1)
		sem <- struct{}{}
		go func(ticker string) {
			defer wg.Done()
			defer func() { <-sem }()
			r.refreshTicker(ctx, ticker, keep)
		}(t)
	}
	wg.Wait()

	if r.recorder != nil {
		if err := r.recorder.RecordBatch(ctx, collected); err != nil {
			r.log.Warn("observation sink write failed", applogger.Error(err))
		}
	}

	r.metrics.RecordRefreshDuration("values", time.Since(start).Seconds())
	r.log.Debug("value refresh tick done",
		applogger.Int("fetched", len(collected)),
		applogger.Int("cached_keys", r.values.Len()),
	)

	if r.onTick != nil {
		r.onTick()
	}
}

func (r *ValueRefresher) refreshMacroSeries(ctx context.Context, seriesID string, deriveYoY bool, keep func(models.Observation)) {
	obs, err := r.macro.FetchSeries(ctx, seriesID)
	if err != nil {
		r.metrics.RecordError(errorKind(err))
		r.log.Warn("macro series fetch failed, keeping previous value",
			applogger.String("series", seriesID),
			applogger.Error(err),
		)
		return
	}

	latest, ok := models.Latest(obs)
	if !ok {
		r.metrics.RecordError("empty_series")
		r.log.Warn("macro series returned no observations, keeping previous value",
			applogger.String("series", seriesID),
		)
		return
	}
	now := r.now()
	r.values.Put(seriesID, latest.Value, now)
	r.metrics.RecordFetch("fred", seriesID)
	r.metrics.RecordLastValue(seriesID, latest.Value)
	keep(latest)
	r.log.Debug("macro series refreshed",
		applogger.String("series", seriesID),
		applogger.Float64("value", latest.Value),
	)

	if !deriveYoY {
		return
	}
	yoy, ok := models.YoYPercent(obs)
	if !ok {
		r.metrics.RecordError("insufficient_history")
		r.log.Warn("keeping previous YoY value",
			applogger.String("series", seriesID),
			applogger.Int("points", len(obs)),
			applogger.Error(models.ErrInsufficientHistory),
		)
		return
	}
	key := icache.YoYKey(seriesID)
	r.values.Put(key, yoy, now)
	r.metrics.RecordLastValue(key, yoy)
}

func (r *ValueRefresher) refreshTicker(ctx context.Context, ticker string, keep func(models.Observation)) {
	obs, err := r.quotes.FetchCandles(ctx, ticker, r.quoteWindow)
	if err != nil {
		r.metrics.RecordError(errorKind(err))
		r.log.Warn("quote fetch failed, keeping previous value",
			applogger.String("ticker", ticker),
			applogger.Error(err),
		)
		return
	}

	latest, ok := models.Latest(obs)
	if !ok {
		r.metrics.RecordError("empty_series")
		r.log.Warn("quote returned no observations, keeping previous value",
			applogger.String("ticker", ticker),
		)
		return
	}
	r.values.Put(ticker, latest.Value, r.now())
	r.metrics.RecordFetch("finnhub", ticker)
	r.metrics.RecordLastValue(ticker, latest.Value)
	keep(latest)
	r.log.Debug("quote refreshed",
		applogger.String("ticker", ticker),
		applogger.Float64("value", latest.Value),
	)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, models.ErrEmptySeries):
		return "empty_series"
	case errors.Is(err, models.ErrUpstreamUnavailable):
		return "upstream_unavailable"
	default:
		return "fetch"
	}
}
