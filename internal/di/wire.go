//go:build wireinject
// +build wireinject

package di

import (
	"MacroPull/pkg/config"
	"MacroPull/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideRegistry,
		ProvideRateLimiter,

		// Upstream clients
		ProvideMacroProvider,
		ProvideQuoteProvider,

		// Caches
		ProvideValueCache,
		ProvideHistoryCache,
		ProvideSnapshotHolder,
		ProvideResponseCache,

		// Telemetry sink
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideObservationStorage,
		ProvideObservationPublisher,
		ProvideObservationRecorder,

		// Use cases
		ProvideValueRefresher,
		ProvideHistoryRefresher,
		ProvideCompositeRefresher,
		ProvideResolver,

		// HTTP surface
		ProvideStreamHub,
		ProvideIndicatorsHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
