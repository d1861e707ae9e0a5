package fred

import (
	"context"
	"fmt"
	"sort"
	"time"

	"MacroPull/internal/domain/models"
	drepo "MacroPull/internal/domain/repository"
	"MacroPull/internal/service/ratelimit"
	xhttp "MacroPull/pkg/http"
	"MacroPull/pkg/util"

	"github.com/sony/gobreaker"
)

const providerName = "fred"

// Client implements MacroSeriesProvider against the FRED observations API.
// It holds no cache; every call goes upstream, bounded by a per-call
// timeout, a token-bucket rate limit and a circuit breaker.
type Client struct {
	apiKey  string
	baseURL string
	limit   int // trailing observations per fetch, >= 13 for YoY
	timeout time.Duration
	client  *xhttp.Client
	limiter *ratelimit.Limiter
	breaker *gobreaker.CircuitBreaker
}

// New creates a FRED client. limit is clamped to at least 13 so a single
// fetch always carries enough trailing history for a year-over-year delta.
func New(apiKey, baseURL string, limit int, timeout time.Duration, limiter *ratelimit.Limiter) *Client {
	if limit < 13 {
		limit = 13
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		limit:   limit,
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
	}
}

type observationJSON struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

type observationsResponse struct {
	Observations []observationJSON `json:"observations"`
}

// FetchSeries returns the trailing observations for a series id, ordered by
// date ascending. FRED marks missing observations with ".", those are
// skipped.
func (c *Client) FetchSeries(ctx context.Context, seriesID string) ([]models.Observation, error) {
	if !c.limiter.Allow(providerName) {
		return nil, fmt.Errorf("%w: fred rate limited", models.ErrUpstreamUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.breaker.Execute(func() (interface{}, error) {
		var resp observationsResponse
		err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: xhttp.MethodGet,
			URL:    c.baseURL + "/series/observations",
			QueryParams: map[string][]string{
				"series_id":  {seriesID},
				"api_key":    {c.apiKey},
				"file_type":  {"json"},
				"sort_order": {"desc"},
				"limit":      {fmt.Sprintf("%d", c.limit)},
			},
		}, &resp)
		if err != nil {
			return nil, err
		}
		return resp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", models.ErrUpstreamUnavailable, seriesID, err)
	}

	resp := raw.(observationsResponse)
	obs := make([]models.Observation, 0, len(resp.Observations))
	for _, o := range resp.Observations {
		v, ok := util.ParseFloat(o.Value) // "." marks a missing point
		if !ok {
			continue
		}
		d, ok := util.ParseDate(o.Date)
		if !ok {
			continue
		}
		obs = append(obs, models.Observation{SeriesID: seriesID, Date: d, Value: v})
	}
	if len(obs) == 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrEmptySeries, seriesID)
	}
	sort.Slice(obs, func(i, j int) bool { return obs[i].Date.Before(obs[j].Date) })
	return obs, nil
}

var _ drepo.MacroSeriesProvider = (*Client)(nil)
