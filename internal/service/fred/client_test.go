package fred

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"MacroPull/internal/domain/models"
	"MacroPull/internal/service/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchSeriesParsesAndSortsAscending(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/series/observations", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "DGS10", q.Get("series_id"))
		assert.Equal(t, "test-key", q.Get("api_key"))
		assert.Equal(t, "json", q.Get("file_type"))
		assert.Equal(t, "desc", q.Get("sort_order"))
		assert.Equal(t, "13", q.Get("limit"))

		fmt.Fprint(w, `{"observations":[
			{"date":"2026-08-28","value":"4.23"},
			{"date":"2026-08-27","value":"."},
			{"date":"2026-08-26","value":"4.19"}
		]}`)
	})

	c := New("test-key", srv.URL, 13, 0, ratelimit.New())
	obs, err := c.FetchSeries(context.Background(), "DGS10")
	require.NoError(t, err)

	require.Len(t, obs, 2, "the '.' placeholder must be skipped")
	assert.Equal(t, 4.19, obs[0].Value)
	assert.Equal(t, 4.23, obs[1].Value)
	assert.True(t, obs[0].Date.Before(obs[1].Date))
	assert.Equal(t, "DGS10", obs[0].SeriesID)
}

func TestFetchSeriesAllMissingIsEmptySeries(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"observations":[{"date":"2026-08-28","value":"."}]}`)
	})

	c := New("k", srv.URL, 13, 0, ratelimit.New())
	_, err := c.FetchSeries(context.Background(), "DGS30")
	assert.True(t, errors.Is(err, models.ErrEmptySeries))
}

func TestFetchSeriesUpstreamErrorWrapped(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	c := New("k", srv.URL, 13, 0, ratelimit.New())
	_, err := c.FetchSeries(context.Background(), "UNRATE")
	assert.True(t, errors.Is(err, models.ErrUpstreamUnavailable))
}

func TestFetchSeriesRateLimited(t *testing.T) {
	rl := ratelimit.New()
	rl.Configure("fred", 1, 0) // one token, never refilled

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"observations":[{"date":"2026-08-28","value":"1.0"}]}`)
	})

	c := New("k", srv.URL, 13, 0, rl)
	_, err := c.FetchSeries(context.Background(), "EFFR")
	require.NoError(t, err)

	_, err = c.FetchSeries(context.Background(), "EFFR")
	assert.True(t, errors.Is(err, models.ErrUpstreamUnavailable))
}

func TestLimitClampedForYoY(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "13", r.URL.Query().Get("limit"))
		fmt.Fprint(w, `{"observations":[{"date":"2026-08-28","value":"1.0"}]}`)
	})

	c := New("k", srv.URL, 3, 0, ratelimit.New())
	_, err := c.FetchSeries(context.Background(), "CPIAUCSL")
	require.NoError(t, err)
}
