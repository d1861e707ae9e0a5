package usecase

import (
	"context"
	"fmt"
	"time"

	"MacroPull/internal/domain/models"
	drepo "MacroPull/internal/domain/repository"
)

// ObservationRecorder forwards refreshed observations to the configured
// telemetry backend. Recording is best-effort: a sink failure never affects
// the caches, the refresh tick just logs it.
type ObservationRecorder struct {
	pub          drepo.Publisher
	store        drepo.Storage
	metrics      drepo.Metrics
	backend      string // "kafka", "clickhouse" or "none"
	batchTimeout time.Duration
}

// NewObservationRecorder creates a recorder for the given backend.
// batchTimeout bounds one batch write; <= 0 disables the bound.
func NewObservationRecorder(pub drepo.Publisher, store drepo.Storage, metrics drepo.Metrics, backend string, batchTimeout time.Duration) *ObservationRecorder {
	return &ObservationRecorder{pub: pub, store: store, metrics: metrics, backend: backend, batchTimeout: batchTimeout}
}

// Record forwards a single observation.
func (r *ObservationRecorder) Record(ctx context.Context, o *models.Observation) error {
	if o == nil {
		return fmt.Errorf("observation is nil")
	}

	start := time.Now()
	var err error

	switch r.backend {
	case "kafka":
		err = r.pub.Publish(ctx, o)
	case "clickhouse":
		err = r.store.Store(ctx, o)
	case "none", "":
		return nil
	default:
		err = fmt.Errorf("unknown backend: %s", r.backend)
	}

	if err != nil {
		r.metrics.RecordError("record")
		return fmt.Errorf("record observation: %w", err)
	}

	r.metrics.RecordRefreshDuration("record", time.Since(start).Seconds())
	return nil
}

// RecordBatch forwards all observations collected by one refresh tick.
func (r *ObservationRecorder) RecordBatch(ctx context.Context, obs []*models.Observation) error {
	if len(obs) == 0 {
		return nil
	}

	if r.batchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.batchTimeout)
		defer cancel()
	}

	start := time.Now()
	var err error

	switch r.backend {
	case "kafka":
		err = r.pub.PublishBatch(ctx, obs)
	case "clickhouse":
		err = r.store.StoreBatch(ctx, obs)
	case "none", "":
		return nil
	default:
		err = fmt.Errorf("unknown backend: %s", r.backend)
	}

	if err != nil {
		r.metrics.RecordError("record_batch")
		return fmt.Errorf("record batch: %w", err)
	}

	r.metrics.RecordRefreshDuration("record_batch", time.Since(start).Seconds())
	return nil
}

// Close closes the underlying sink, if any.
func (r *ObservationRecorder) Close() {
	if r.pub != nil {
		_ = r.pub.Close()
	}
	if r.store != nil {
		_ = r.store.Close()
	}
}
