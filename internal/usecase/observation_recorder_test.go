package usecase

import (
	"context"
	"testing"
	"time"

	"MacroPull/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	batches     int
	hadDeadline bool
}

func (s *fakeStore) Store(context.Context, *models.Observation) error { return nil }
func (s *fakeStore) StoreBatch(ctx context.Context, _ []*models.Observation) error {
	s.batches++
	_, s.hadDeadline = ctx.Deadline()
	return nil
}
func (s *fakeStore) Health(context.Context) error { return nil }
func (s *fakeStore) Close() error                 { return nil }

func sampleBatch() []*models.Observation {
	return []*models.Observation{
		{SeriesID: "DGS2", Date: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), Value: 3.87},
	}
}

func TestRecordBatchBoundsSinkWrite(t *testing.T) {
	store := &fakeStore{}
	r := NewObservationRecorder(nil, store, &fakeMetrics{}, "clickhouse", 5*time.Second)

	require.NoError(t, r.RecordBatch(context.Background(), sampleBatch()))
	assert.Equal(t, 1, store.batches)
	assert.True(t, store.hadDeadline, "batch write must carry the configured deadline")
}

func TestRecordBatchUnboundedWhenTimeoutDisabled(t *testing.T) {
	store := &fakeStore{}
	r := NewObservationRecorder(nil, store, &fakeMetrics{}, "clickhouse", 0)

	require.NoError(t, r.RecordBatch(context.Background(), sampleBatch()))
	assert.False(t, store.hadDeadline)
}

func TestRecordBatchNoneBackendSkipsSink(t *testing.T) {
	store := &fakeStore{}
	r := NewObservationRecorder(nil, store, &fakeMetrics{}, "none", time.Second)

	require.NoError(t, r.RecordBatch(context.Background(), sampleBatch()))
	assert.Equal(t, 0, store.batches)
}
