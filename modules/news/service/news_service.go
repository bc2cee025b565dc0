package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sportmeet/core/config"
	"sportmeet/core/constants"
	"sportmeet/core/errors"
	"sportmeet/core/logger"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL  = "https://newsapi.org"
	defaultCountry  = "us"
	defaultCacheTTL = 10 * time.Minute
	maxUpstreamBody = 4 << 20
)

// Cache is the slice of core/cache the news service needs.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type NewsServiceInterface interface {
	SportsHeadlines(ctx context.Context, country string) (json.RawMessage, *errors.AppError)
}

type NewsService struct {
	apiKey   string
	baseURL  string
	country  string
	cacheTTL time.Duration
	cache    Cache
	client   *http.Client
}

// NewNewsService builds the headline pass-through. cache may be nil.
func NewNewsService(cfg config.NewsConfig, cache Cache) *NewsService {
	s := &NewsService{
		apiKey:   strings.TrimSpace(cfg.APIKey),
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		country:  strings.ToLower(strings.TrimSpace(cfg.Country)),
		cacheTTL: time.Duration(cfg.CacheTTL) * time.Second,
		cache:    cache,
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	if s.baseURL == "" {
		s.baseURL = defaultBaseURL
	}
	if !isCountryCode(s.country) {
		s.country = defaultCountry
	}
	if s.cacheTTL <= 0 {
		s.cacheTTL = defaultCacheTTL
	}
	return s
}

// isCountryCode reports whether s is a lowercase ISO 3166-1 alpha-2 shape.
func isCountryCode(s string) bool {
	return len(s) == 2 && s[0] >= 'a' && s[0] <= 'z' && s[1] >= 'a' && s[1] <= 'z'
}

func cacheKey(country string) string {
	return constants.RedisKeyNewsPrefix + country
}

// SportsHeadlines returns the upstream top-headlines body unchanged.
func (s *NewsService) SportsHeadlines(ctx context.Context, country string) (json.RawMessage, *errors.AppError) {
	if s.apiKey == "" {
		return nil, errors.NewAppError(errors.ErrInternalServer, "News API key is missing", nil)
	}
	country = strings.ToLower(strings.TrimSpace(country))
	if country == "" {
		country = s.country
	}
	if !isCountryCode(country) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "country must be a two-letter code", nil)
	}

	if s.cache != nil {
		var cached json.RawMessage
		if err := s.cache.GetJSON(ctx, cacheKey(country), &cached); err == nil {
			return cached, nil
		}
	}

	body, err := s.fetch(ctx, country)
	if err != nil {
		logger.Error("NewsService:SportsHeadlines:Fetch:Error", "error", err, "country", country)
		return nil, errors.NewAppError(errors.ErrUpstreamFailed, "Failed to fetch news", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey(country), body, s.cacheTTL); err != nil {
			logger.Warn("NewsService:SportsHeadlines:Cache:Error", "error", err)
		}
	}
	return body, nil
}

func (s *NewsService) fetch(ctx context.Context, country string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("category", "sports")
	params.Set("country", country)
	params.Set("apiKey", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v2/top-headlines?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news api returned status %d", resp.StatusCode)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("news api returned invalid json")
	}
	return json.RawMessage(data), nil
}
