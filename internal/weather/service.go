package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/i474232898/weather-lookup-service/internal/cache"
)

// MaxForecastDays is the longest forecast the provider serves.
const MaxForecastDays = 5

// Provider abstracts the external weather API.
type Provider interface {
	Current(ctx context.Context, city string) (*Current, error)
	Forecast(ctx context.Context, city string, days int) (*Forecast, error)
}

// Service is the cache-aside weather retrieval engine: check the cache,
// fetch from the provider on a miss, and cache only successful fetches.
type Service struct {
	cache    cache.Store
	provider Provider
	ttl      time.Duration
	log      *logrus.Logger
}

// NewService creates a Service caching provider results for ttl.
func NewService(store cache.Store, provider Provider, ttl time.Duration, log *logrus.Logger) *Service {
	return &Service{
		cache:    store,
		provider: provider,
		ttl:      ttl,
		log:      log,
	}
}

// ClampDays maps any day count outside [1, MaxForecastDays] to
// MaxForecastDays. Invalid input silently becomes the maximum rather than an
// error; callers binding query parameters rely on that.
func ClampDays(days int) int {
	if days < 1 || days > MaxForecastDays {
		return MaxForecastDays
	}
	return days
}

func cacheKey(city string) string {
	return "weather_data_" + strings.ToLower(strings.TrimSpace(city))
}

func forecastCacheKey(city string, days int) string {
	return fmt.Sprintf("weather_forecast_%s_%d", strings.ToLower(strings.TrimSpace(city)), days)
}

// CurrentWeather returns current weather for a city. FromCache is always set
// before the result leaves the engine.
func (s *Service) CurrentWeather(ctx context.Context, city string) (*Current, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrInvalidInput
	}

	key := cacheKey(city)
	if data, ok := s.cacheGet(ctx, key); ok {
		var w Current
		if err := json.Unmarshal(data, &w); err == nil {
			s.log.WithField("city", city).Debug("cache hit for current weather")
			w.FromCache = true
			return &w, nil
		}
	}
	s.log.WithField("city", city).Debug("cache miss for current weather")

	w, err := s.provider.Current(ctx, city)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, w)
	w.FromCache = false
	return w, nil
}

// Forecast returns up to days daily forecast entries for a city. Distinct
// day counts cache independently.
func (s *Service) Forecast(ctx context.Context, city string, days int) (*Forecast, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrInvalidInput
	}
	days = ClampDays(days)

	key := forecastCacheKey(city, days)
	if data, ok := s.cacheGet(ctx, key); ok {
		var f Forecast
		if err := json.Unmarshal(data, &f); err == nil {
			s.log.WithField("city", city).Debug("cache hit for forecast")
			f.FromCache = true
			return &f, nil
		}
	}
	s.log.WithField("city", city).Debug("cache miss for forecast")

	f, err := s.provider.Forecast(ctx, city, days)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, f)
	f.FromCache = false
	return f, nil
}

// ClearCache deletes the current-weather entry for a city, or flushes the
// whole store when city is empty. Forecast keys for a named city are left
// untouched; that asymmetry is long-standing behavior callers depend on.
func (s *Service) ClearCache(ctx context.Context, city string) error {
	if strings.TrimSpace(city) != "" {
		if err := s.cache.Delete(ctx, cacheKey(city)); err != nil {
			return fmt.Errorf("clearing cache for %s: %w", city, err)
		}
		s.log.WithField("city", city).Info("cleared cached weather")
		return nil
	}

	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	s.log.Info("cleared all cached weather")
	return nil
}

func (s *Service) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			// An unavailable store degrades to a miss; the lookup still works.
			s.log.WithError(err).WithField("key", key).Warn("cache read failed")
		}
		return nil, false
	}
	return data, true
}

func (s *Service) cacheSet(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("cache encode failed")
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}
