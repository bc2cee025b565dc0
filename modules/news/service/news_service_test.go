package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"sportmeet/core/config"
	"sportmeet/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	values map[string][]byte
	ttls   map[string]time.Duration
}

func newMapCache() *mapCache {
	return &mapCache{values: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *mapCache) GetJSON(_ context.Context, key string, dst any) error {
	raw, ok := c.values[key]
	if !ok {
		return errors.New("miss")
	}
	return json.Unmarshal(raw, dst)
}

func (c *mapCache) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	c.ttls[key] = ttl
	return nil
}

func upstream(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v2/top-headlines", r.URL.Path)
		assert.Equal(t, "sports", r.URL.Query().Get("category"))
		assert.Equal(t, "secret", r.URL.Query().Get("apiKey"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestSportsHeadlinesPassesThroughAndCaches(t *testing.T) {
	srv, calls := upstream(t, http.StatusOK, `{"status":"ok","totalResults":1,"articles":[{"title":"Final"}]}`)
	cache := newMapCache()
	svc := NewNewsService(config.NewsConfig{APIKey: "secret", BaseURL: srv.URL, Country: "gb"}, cache)

	for range 2 {
		body, appErr := svc.SportsHeadlines(context.Background(), "")
		require.Nil(t, appErr)
		assert.JSONEq(t, `{"status":"ok","totalResults":1,"articles":[{"title":"Final"}]}`, string(body))
	}
	assert.Equal(t, int32(1), calls.Load())
	assert.Contains(t, cache.values, "news:sports:gb")
	assert.Equal(t, defaultCacheTTL, cache.ttls["news:sports:gb"])
}

func TestSportsHeadlinesCountryOverride(t *testing.T) {
	var country string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		country = r.URL.Query().Get("country")
		_, _ = w.Write([]byte(`{"articles":[]}`))
	}))
	t.Cleanup(srv.Close)
	svc := NewNewsService(config.NewsConfig{APIKey: "secret", BaseURL: srv.URL}, nil)

	_, appErr := svc.SportsHeadlines(context.Background(), "IN")
	require.Nil(t, appErr)
	assert.Equal(t, "in", country)

	_, appErr = svc.SportsHeadlines(context.Background(), "")
	require.Nil(t, appErr)
	assert.Equal(t, defaultCountry, country)
}

func TestSportsHeadlinesRejectsMalformedCountry(t *testing.T) {
	srv, calls := upstream(t, http.StatusOK, `{"articles":[]}`)
	cache := newMapCache()
	svc := NewNewsService(config.NewsConfig{APIKey: "secret", BaseURL: srv.URL}, cache)

	for _, country := range []string{"usa", "u", "u$", "gb:*", "ü1", "g\nb"} {
		_, appErr := svc.SportsHeadlines(context.Background(), country)
		require.NotNil(t, appErr, country)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	}
	assert.Zero(t, calls.Load())
	assert.Empty(t, cache.values)
}

func TestMalformedConfiguredCountryFallsBack(t *testing.T) {
	svc := NewNewsService(config.NewsConfig{APIKey: "secret", Country: "usa"}, nil)
	assert.Equal(t, defaultCountry, svc.country)
}

func TestSportsHeadlinesMissingKey(t *testing.T) {
	svc := NewNewsService(config.NewsConfig{}, nil)

	_, appErr := svc.SportsHeadlines(context.Background(), "")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInternalServer, appErr.Code)
	assert.Equal(t, "News API key is missing", appErr.Message)
}

func TestSportsHeadlinesUpstreamFailure(t *testing.T) {
	srv, _ := upstream(t, http.StatusUnauthorized, `{"status":"error","code":"apiKeyInvalid"}`)
	cache := newMapCache()
	svc := NewNewsService(config.NewsConfig{APIKey: "secret", BaseURL: srv.URL}, cache)

	_, appErr := svc.SportsHeadlines(context.Background(), "")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUpstreamFailed, appErr.Code)
	assert.Equal(t, "Failed to fetch news", appErr.Message)
	assert.Empty(t, cache.values)
}
