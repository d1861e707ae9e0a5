package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	FRED struct {
		APIKey    string        `yaml:"api_key"`
		BaseURL   string        `yaml:"base_url"`
		Limit     int           `yaml:"limit"`
		Timeout   time.Duration `yaml:"timeout"`
		RateLimit struct {
			Capacity     int     `yaml:"capacity"`
			RefillPerSec float64 `yaml:"refill_per_sec"`
		} `yaml:"rate_limit"`
	} `yaml:"fred"`
	Finnhub struct {
		APIKey      string        `yaml:"api_key"`
		BaseURL     string        `yaml:"base_url"`
		Timeout     time.Duration `yaml:"timeout"`
		QuoteWindow time.Duration `yaml:"quote_window"`
		RateLimit   struct {
			Capacity     int     `yaml:"capacity"`
			RefillPerSec float64 `yaml:"refill_per_sec"`
		} `yaml:"rate_limit"`
	} `yaml:"finnhub"`
	Refresh struct {
		Values    time.Duration `yaml:"values"`
		History   time.Duration `yaml:"history"`
		Composite time.Duration `yaml:"composite"`
		Workers   int           `yaml:"workers"`
	} `yaml:"refresh"`
	// Indicators overrides the built-in indicator table when non-empty.
	Indicators []IndicatorSource `yaml:"indicators"`
	ResponseCache struct {
		TTL   time.Duration `yaml:"ttl"`
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"response_cache"`
	Sink struct {
		Type         string        `yaml:"type"`
		BatchSize    int           `yaml:"batch_size"`
		BatchTimeout time.Duration `yaml:"batch_timeout"`
	} `yaml:"sink"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
}

// IndicatorSource declares one indicator of a custom table. Exactly the
// fields for its kind are set, mirroring the source registry descriptors.
type IndicatorSource struct {
	Name    string   `yaml:"name"`
	Kind    string   `yaml:"kind"` // direct, yoy, spread, composite, quote, stress
	Series  string   `yaml:"series"`
	SeriesA string   `yaml:"series_a"`
	SeriesB string   `yaml:"series_b"`
	Ticker  string   `yaml:"ticker"`
	Members []string `yaml:"members"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("FRED_API_KEY"); v != "" {
		c.FRED.APIKey = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.Finnhub.APIKey = v
	}
	if v := os.Getenv("SINK"); v != "" {
		c.Sink.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.ResponseCache.Redis.Addr = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.FRED.BaseURL == "" {
		c.FRED.BaseURL = "https://api.stlouisfed.org/fred"
	}
	if c.FRED.Limit == 0 {
		c.FRED.Limit = 400
	}
	if c.FRED.Timeout == 0 {
		c.FRED.Timeout = 10 * time.Second
	}
	if c.Finnhub.BaseURL == "" {
		c.Finnhub.BaseURL = "https://finnhub.io/api/v1"
	}
	if c.Finnhub.Timeout == 0 {
		c.Finnhub.Timeout = 10 * time.Second
	}
	if c.Finnhub.QuoteWindow == 0 {
		c.Finnhub.QuoteWindow = 90 * 24 * time.Hour
	}
	if c.Refresh.Values == 0 {
		c.Refresh.Values = 5 * time.Minute
	}
	if c.Refresh.History == 0 {
		c.Refresh.History = 6 * time.Hour
	}
	if c.Refresh.Composite == 0 {
		c.Refresh.Composite = 5 * time.Minute
	}
	if c.Refresh.Workers == 0 {
		c.Refresh.Workers = 4
	}
	if c.ResponseCache.TTL == 0 {
		c.ResponseCache.TTL = 30 * time.Second
	}
	if c.Sink.Type == "" {
		c.Sink.Type = "none"
	}
	if c.Sink.BatchSize == 0 {
		c.Sink.BatchSize = 2000
	}
	if c.Sink.BatchTimeout == 0 {
		c.Sink.BatchTimeout = 30 * time.Second
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.FRED.APIKey == "" {
		return fmt.Errorf("fred.api_key is required")
	}
	switch c.Sink.Type {
	case "kafka", "clickhouse", "none":
	default:
		return fmt.Errorf("sink.type must be 'kafka', 'clickhouse' or 'none', got '%s'", c.Sink.Type)
	}
	if c.Sink.Type == "kafka" && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when sink.type is 'kafka'")
	}
	return nil
}
