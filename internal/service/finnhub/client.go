package finnhub

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"MacroPull/internal/domain/models"
	drepo "MacroPull/internal/domain/repository"
	"MacroPull/internal/service/ratelimit"
	xhttp "MacroPull/pkg/http"

	"github.com/sony/gobreaker"
)

const providerName = "finnhub"

// Client implements QuoteProvider against the Finnhub candle REST API.
// Daily resolution only; the caching engine never needs intraday bars.
type Client struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	client  *xhttp.Client
	limiter *ratelimit.Limiter
	breaker *gobreaker.CircuitBreaker
	now     func() time.Time
}

// New creates a Finnhub quote client.
func New(apiKey, baseURL string, timeout time.Duration, limiter *ratelimit.Limiter) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		timeout: timeout,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		limiter: limiter,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    providerName,
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
		now: time.Now,
	}
}

type candleResponse struct {
	Close      []float64 `json:"c"`
	Timestamps []int64   `json:"t"`
	Status     string    `json:"s"`
}

// FetchCandles returns daily close observations for a ticker over the
// trailing window, ordered by date ascending.
func (c *Client) FetchCandles(ctx context.Context, ticker string, window time.Duration) ([]models.Observation, error) {
	if !c.limiter.Allow(providerName) {
		return nil, fmt.Errorf("%w: finnhub rate limited", models.ErrUpstreamUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	to := c.now()
	from := to.Add(-window)

	raw, err := c.breaker.Execute(func() (interface{}, error) {
		var resp candleResponse
		err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: xhttp.MethodGet,
			URL:    c.baseURL + "/stock/candle",
			QueryParams: map[string][]string{
				"symbol":     {ticker},
				"resolution": {"D"},
				"from":       {strconv.FormatInt(from.Unix(), 10)},
				"to":         {strconv.FormatInt(to.Unix(), 10)},
				"token":      {c.apiKey},
			},
		}, &resp)
		if err != nil {
			return nil, err
		}
		return resp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", models.ErrUpstreamUnavailable, ticker, err)
	}

	resp := raw.(candleResponse)
	if resp.Status == "no_data" || len(resp.Close) == 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrEmptySeries, ticker)
	}

	n := len(resp.Close)
	if len(resp.Timestamps) < n {
		n = len(resp.Timestamps)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrEmptySeries, ticker)
	}
	obs := make([]models.Observation, 0, n)
	for i := 0; i < n; i++ {
		obs = append(obs, models.Observation{
			SeriesID: ticker,
			Date:     time.Unix(resp.Timestamps[i], 0).UTC(),
			Value:    resp.Close[i],
		})
	}
	return obs, nil
}

var _ drepo.QuoteProvider = (*Client)(nil)
