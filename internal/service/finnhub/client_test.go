package finnhub

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MacroPull/internal/domain/models"
	"MacroPull/internal/service/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCandlesDailyWindow(t *testing.T) {
	fixedNow := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock/candle", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "^MOVE", q.Get("symbol"))
		assert.Equal(t, "D", q.Get("resolution"))
		assert.Equal(t, "secret", q.Get("token"))

		from := fixedNow.Add(-48 * time.Hour).Unix()
		assert.Equal(t, fmt.Sprint(from), q.Get("from"))
		assert.Equal(t, fmt.Sprint(fixedNow.Unix()), q.Get("to"))

		fmt.Fprintf(w, `{"s":"ok","c":[101.5,103.25],"t":[%d,%d]}`,
			fixedNow.Add(-48*time.Hour).Unix(), fixedNow.Add(-24*time.Hour).Unix())
	}))
	defer srv.Close()

	c := New("secret", srv.URL, 0, ratelimit.New())
	c.now = func() time.Time { return fixedNow }

	obs, err := c.FetchCandles(context.Background(), "^MOVE", 48*time.Hour)
	require.NoError(t, err)
	require.Len(t, obs, 2)
	assert.Equal(t, 101.5, obs[0].Value)
	assert.Equal(t, 103.25, obs[1].Value)
	assert.True(t, obs[0].Date.Before(obs[1].Date))
	assert.Equal(t, "^MOVE", obs[0].SeriesID)
}

func TestFetchCandlesNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"s":"no_data"}`)
	}))
	defer srv.Close()

	c := New("k", srv.URL, 0, ratelimit.New())
	_, err := c.FetchCandles(context.Background(), "^VXTLT", 24*time.Hour)
	assert.True(t, errors.Is(err, models.ErrEmptySeries))
}

func TestFetchCandlesMissingTimestamps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"s":"ok","c":[101.5],"t":[]}`)
	}))
	defer srv.Close()

	c := New("k", srv.URL, 0, ratelimit.New())
	obs, err := c.FetchCandles(context.Background(), "OANDA:XAU_USD", 24*time.Hour)
	assert.True(t, errors.Is(err, models.ErrEmptySeries))
	assert.Empty(t, obs)
}

func TestFetchCandlesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New("k", srv.URL, 0, ratelimit.New())
	_, err := c.FetchCandles(context.Background(), "BINANCE:BTCUSDT", 24*time.Hour)
	assert.True(t, errors.Is(err, models.ErrUpstreamUnavailable))
}
