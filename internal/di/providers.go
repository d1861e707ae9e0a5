package di

import (
	"context"
	"fmt"
	"net"
	"time"

	"MacroPull/internal/domain/repository"
	"MacroPull/internal/handler/api"
	"MacroPull/internal/handler/stream"
	internalrepo "MacroPull/internal/repository"
	icache "MacroPull/internal/service/cache"
	"MacroPull/internal/service/finnhub"
	"MacroPull/internal/service/fred"
	"MacroPull/internal/service/ratelimit"
	"MacroPull/internal/sources"
	"MacroPull/internal/usecase"
	pkgcache "MacroPull/pkg/cache"
	pkgch "MacroPull/pkg/clickhouse"
	"MacroPull/pkg/config"
	pkgkafka "MacroPull/pkg/kafka"
	applogger "MacroPull/pkg/logger"
	"MacroPull/pkg/metrics"
	"MacroPull/pkg/server"
	"MacroPull/pkg/util"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	if cfg.Environment == "development" {
		level = "debug"
	}
	return applogger.New(&applogger.Config{Level: level, Format: "console", Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideRegistry builds the indicator table, from config when one is
// declared there and from the built-in dashboard table otherwise.
func ProvideRegistry(cfg *config.Config) (*sources.Registry, error) {
	if len(cfg.Indicators) == 0 {
		return sources.Default(), nil
	}
	table := make(map[string]sources.Descriptor, len(cfg.Indicators))
	for _, ind := range cfg.Indicators {
		table[ind.Name] = sources.Descriptor{
			Kind:    sources.Kind(ind.Kind),
			Series:  ind.Series,
			SeriesA: ind.SeriesA,
			SeriesB: ind.SeriesB,
			Ticker:  ind.Ticker,
			Members: ind.Members,
		}
	}
	return sources.New(table)
}

// ProvideRateLimiter configures per-provider token buckets.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	rl := ratelimit.New()
	if cfg.FRED.RateLimit.Capacity > 0 {
		rl.Configure("fred", float64(cfg.FRED.RateLimit.Capacity), cfg.FRED.RateLimit.RefillPerSec)
	}
	if cfg.Finnhub.RateLimit.Capacity > 0 {
		rl.Configure("finnhub", float64(cfg.Finnhub.RateLimit.Capacity), cfg.Finnhub.RateLimit.RefillPerSec)
	}
	return rl
}

// ProvideMacroProvider creates the FRED series client.
func ProvideMacroProvider(cfg *config.Config, rl *ratelimit.Limiter) repository.MacroSeriesProvider {
	return fred.New(cfg.FRED.APIKey, cfg.FRED.BaseURL, cfg.FRED.Limit, cfg.FRED.Timeout, rl)
}

// ProvideQuoteProvider creates the Finnhub candle client.
func ProvideQuoteProvider(cfg *config.Config, rl *ratelimit.Limiter) repository.QuoteProvider {
	return finnhub.New(cfg.Finnhub.APIKey, cfg.Finnhub.BaseURL, cfg.Finnhub.Timeout, rl)
}

// ProvideValueCache creates the raw value cache.
func ProvideValueCache() *icache.ValueCache { return icache.NewValueCache() }

// ProvideHistoryCache creates the trailing window cache.
func ProvideHistoryCache() *icache.HistoryCache { return icache.NewHistoryCache() }

// ProvideSnapshotHolder creates the composite snapshot holder.
func ProvideSnapshotHolder() *icache.SnapshotHolder { return icache.NewSnapshotHolder() }

// ProvideClickHouseClient creates a ClickHouse client when the sink uses
// it, nil otherwise.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Sink.Type != "clickhouse" {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS macropull",
		"CREATE TABLE IF NOT EXISTS macropull.observations (series_id String, date DateTime, value Float64) ENGINE=ReplacingMergeTree ORDER BY (series_id, date)",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer when the sink uses it, nil
// otherwise.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if cfg.Sink.Type != "kafka" {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideObservationStorage creates ClickHouse storage when configured.
func ProvideObservationStorage(chClient *pkgch.Client, cfg *config.Config) repository.Storage {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHouseStorage(chClient.DB(), cfg.ClickHouse.Database+".observations", cfg.Sink.BatchSize)
}

// ProvideObservationPublisher creates a Kafka publisher when configured.
func ProvideObservationPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideObservationRecorder creates the telemetry sink recorder.
func ProvideObservationRecorder(
	pub repository.Publisher,
	store repository.Storage,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.ObservationRecorder {
	return usecase.NewObservationRecorder(pub, store, m, cfg.Sink.Type, cfg.Sink.BatchTimeout)
}

// ProvideResponseCache creates the resolved-payload cache. With Redis
// enabled the memory cache becomes an L1 in front of it.
func ProvideResponseCache(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.ResponseCache.Redis.Enabled {
		return pkgcache.NewMemoryCache(), nil
	}
	host, portStr, err := net.SplitHostPort(cfg.ResponseCache.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr: %w", err)
	}
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(util.ParseIntDefault(portStr, 6379)),
		pkgcache.WithRedisPassword(cfg.ResponseCache.Redis.Password),
		pkgcache.WithRedisDB(cfg.ResponseCache.Redis.DB),
	)
	if err != nil {
		return nil, err
	}
	return pkgcache.NewLayeredCache(rc), nil
}

// ProvideValueRefresher creates the value refresh loop.
func ProvideValueRefresher(
	registry *sources.Registry,
	macro repository.MacroSeriesProvider,
	quotes repository.QuoteProvider,
	values *icache.ValueCache,
	recorder *usecase.ObservationRecorder,
	m repository.Metrics,
	log *applogger.Logger,
	cfg *config.Config,
) *usecase.ValueRefresher {
	vr := usecase.NewValueRefresher(registry, macro, quotes, values, recorder, m, log, cfg.Finnhub.QuoteWindow)
	vr.SetWorkers(cfg.Refresh.Workers)
	return vr
}

// ProvideHistoryRefresher creates the history refresh loop.
func ProvideHistoryRefresher(
	registry *sources.Registry,
	macro repository.MacroSeriesProvider,
	quotes repository.QuoteProvider,
	history *icache.HistoryCache,
	m repository.Metrics,
	log *applogger.Logger,
	cfg *config.Config,
) *usecase.HistoryRefresher {
	return usecase.NewHistoryRefresher(registry, macro, quotes, history, m, log, cfg.Finnhub.QuoteWindow)
}

// ProvideCompositeRefresher creates the composite refresh loop.
func ProvideCompositeRefresher(
	values *icache.ValueCache,
	snapshot *icache.SnapshotHolder,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.CompositeRefresher {
	return usecase.NewCompositeRefresher(values, snapshot, m, log)
}

// ProvideResolver creates the read-path resolver.
func ProvideResolver(
	registry *sources.Registry,
	values *icache.ValueCache,
	history *icache.HistoryCache,
	snapshot *icache.SnapshotHolder,
) *usecase.Resolver {
	return usecase.NewResolver(registry, values, history, snapshot)
}

// ProvideStreamHub creates the websocket fan-out hub.
func ProvideStreamHub(log *applogger.Logger) *stream.Hub {
	return stream.NewHub(log)
}

// ProvideIndicatorsHandler creates the REST handler.
func ProvideIndicatorsHandler(
	log *applogger.Logger,
	resolver *usecase.Resolver,
	respCache pkgcache.Service,
	cfg *config.Config,
) *api.IndicatorsEchoHandler {
	h := api.NewIndicatorsEchoHandler(log, resolver)
	h.SetResponseCache(respCache, cfg.ResponseCache.TTL)
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	values *usecase.ValueRefresher,
	history *usecase.HistoryRefresher,
	composite *usecase.CompositeRefresher,
	resolver *usecase.Resolver,
	recorder *usecase.ObservationRecorder,
	handler *api.IndicatorsEchoHandler,
	hub *stream.Hub,
	valueCache *icache.ValueCache,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, log, values, history, composite, resolver, recorder, handler, hub, valueCache, chClient)
}
