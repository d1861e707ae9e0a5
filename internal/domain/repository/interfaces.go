package repository

import (
	"context"
	"time"

	"MacroPull/internal/domain/models"
)

// MacroSeriesProvider fetches a numeric time series by its upstream series
// id (FRED-style). Implementations never cache and must be safe to call
// concurrently for different ids. Observations come back ordered by date
// ascending.
type MacroSeriesProvider interface {
	FetchSeries(ctx context.Context, seriesID string) ([]models.Observation, error)
}

// QuoteProvider fetches daily close prices for a ticker over a trailing
// window. Same contract as MacroSeriesProvider: no caching, concurrency-safe
// per ticker, ascending order.
type QuoteProvider interface {
	FetchCandles(ctx context.Context, ticker string, window time.Duration) ([]models.Observation, error)
}

// Publisher emits refreshed observations to a message broker.
type Publisher interface {
	Publish(ctx context.Context, o *models.Observation) error
	PublishBatch(ctx context.Context, obs []*models.Observation) error
	Close() error
}

// Storage records refreshed observations in an analytical store.
type Storage interface {
	Store(ctx context.Context, o *models.Observation) error
	StoreBatch(ctx context.Context, obs []*models.Observation) error
	Health(ctx context.Context) error
	Close() error
}

// Metrics is the instrumentation sink for refresh loops and adapters.
type Metrics interface {
	RecordFetch(provider, rawID string)
	RecordError(kind string)
	RecordLastValue(rawID string, value float64)
	RecordRefreshDuration(loop string, seconds float64)
	RecordCompositeScore(score float64)
}
