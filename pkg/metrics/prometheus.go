package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal    *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	lastValue       *prometheus.GaugeVec
	refreshDuration *prometheus.HistogramVec
	compositeScore  prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macropull_fetches_total",
				Help: "Total number of successful upstream fetches",
			},
			[]string{"provider", "series"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macropull_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastValue: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "macropull_last_value",
				Help: "Last cached value for a raw series or ticker",
			},
			[]string{"series"},
		),
		refreshDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "macropull_refresh_duration_seconds",
				Help:    "Duration of refresh loop passes in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"loop"},
		),
		compositeScore: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "macropull_composite_stress_score",
				Help: "Latest blended composite stress score",
			},
		),
	}
}

// RecordFetch records a successful fetch from an upstream provider.
func (r *Recorder) RecordFetch(provider, series string) {
	r.fetchesTotal.WithLabelValues(provider, series).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastValue records the latest cached value for a raw identifier.
func (r *Recorder) RecordLastValue(series string, value float64) {
	r.lastValue.WithLabelValues(series).Set(value)
}

// RecordRefreshDuration records how long one refresh pass took.
func (r *Recorder) RecordRefreshDuration(loop string, seconds float64) {
	r.refreshDuration.WithLabelValues(loop).Observe(seconds)
}

// RecordCompositeScore records the latest composite score.
func (r *Recorder) RecordCompositeScore(score float64) {
	r.compositeScore.Set(score)
}
