package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalYAML = `
environment: test
fred:
  api_key: abc
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "https://api.stlouisfed.org/fred", cfg.FRED.BaseURL)
	assert.Equal(t, 400, cfg.FRED.Limit)
	assert.Equal(t, "https://finnhub.io/api/v1", cfg.Finnhub.BaseURL)
	assert.Equal(t, 5*time.Minute, cfg.Refresh.Values)
	assert.Equal(t, 6*time.Hour, cfg.Refresh.History)
	assert.Equal(t, 5*time.Minute, cfg.Refresh.Composite)
	assert.Equal(t, "none", cfg.Sink.Type)
	assert.Equal(t, 2000, cfg.Sink.BatchSize)
	assert.Equal(t, 30*time.Second, cfg.Sink.BatchTimeout)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 30*time.Second, cfg.ResponseCache.TTL)
}

func TestLoadRejectsMissingEnvironment(t *testing.T) {
	_, err := Load(writeConfig(t, "fred:\n  api_key: abc\n"))
	assert.ErrorContains(t, err, "environment is required")
}

func TestLoadRejectsMissingFredKey(t *testing.T) {
	_, err := Load(writeConfig(t, "environment: test\n"))
	assert.ErrorContains(t, err, "fred.api_key is required")
}

func TestLoadRejectsUnknownSink(t *testing.T) {
	_, err := Load(writeConfig(t, minimalYAML+"sink:\n  type: s3\n"))
	assert.ErrorContains(t, err, "sink.type")
}

func TestLoadRejectsKafkaSinkWithoutBrokers(t *testing.T) {
	_, err := Load(writeConfig(t, minimalYAML+"sink:\n  type: kafka\n"))
	assert.ErrorContains(t, err, "kafka.brokers")
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("FRED_API_KEY", "from-env")
	t.Setenv("FINNHUB_API_KEY", "fh-env")
	t.Setenv("KAFKA_BROKERS", "b1:9092,b2:9092")

	cfg, err := LoadWithEnv(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.FRED.APIKey)
	assert.Equal(t, "fh-env", cfg.Finnhub.APIKey)
	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.Kafka.Brokers)
}

func TestLoadParsesDurationsAndRates(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
environment: test
fred:
  api_key: abc
  timeout: 3s
  rate_limit:
    capacity: 10
    refill_per_sec: 0.5
refresh:
  values: 90s
`))
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.FRED.Timeout)
	assert.Equal(t, 10, cfg.FRED.RateLimit.Capacity)
	assert.Equal(t, 0.5, cfg.FRED.RateLimit.RefillPerSec)
	assert.Equal(t, 90*time.Second, cfg.Refresh.Values)
}

func TestLoadParsesIndicatorTable(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML+`
indicators:
  - name: 2-Year Yield
    kind: direct
    series: DGS2
  - name: UST 2s/10s Curve
    kind: spread
    series_a: DGS2
    series_b: DGS10
  - name: Gold
    kind: quote
    ticker: OANDA:XAU_USD
`))
	require.NoError(t, err)

	require.Len(t, cfg.Indicators, 3)
	assert.Equal(t, "direct", cfg.Indicators[0].Kind)
	assert.Equal(t, "DGS2", cfg.Indicators[0].Series)
	assert.Equal(t, "DGS10", cfg.Indicators[1].SeriesB)
	assert.Equal(t, "OANDA:XAU_USD", cfg.Indicators[2].Ticker)
}
