package weather

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-lookup-service/internal/cache"
)

type fakeProvider struct {
	currentCalls  int
	forecastCalls int
	lastDays      int
	currentErr    error
}

func (f *fakeProvider) Current(_ context.Context, city string) (*Current, error) {
	f.currentCalls++
	if f.currentErr != nil {
		return nil, f.currentErr
	}
	return &Current{
		City:        city,
		Country:     "GB",
		Temperature: 15.3,
		FeelsLike:   14.8,
		Description: "Scattered Clouds",
		Humidity:    72,
		Coord:       Coord{Lat: 51.51, Lon: -0.13},
	}, nil
}

func (f *fakeProvider) Forecast(_ context.Context, city string, days int) (*Forecast, error) {
	f.forecastCalls++
	f.lastDays = days
	return &Forecast{
		City:     city,
		Country:  "GB",
		Days:     []ForecastDay{{Date: 1700000000, Temperature: 12.0}},
		DayCount: 1,
	}, nil
}

func newTestService(provider Provider) *Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(cache.NewMemory(), provider, time.Minute, log)
}

func TestCurrentWeatherEmptyCity(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(provider)

	_, err := svc.CurrentWeather(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, provider.currentCalls)
}

func TestCurrentWeatherCacheRoundTrip(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(provider)
	ctx := context.Background()

	first, err := svc.CurrentWeather(ctx, "London")
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, 1, provider.currentCalls)

	second, err := svc.CurrentWeather(ctx, "London")
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, 1, provider.currentCalls, "cache hit must not call the provider")

	// The cache round-trip preserves every payload field.
	second.FromCache = first.FromCache
	assert.Equal(t, first, second)
}

func TestCurrentWeatherCacheKeyNormalization(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(provider)
	ctx := context.Background()

	_, err := svc.CurrentWeather(ctx, "London")
	require.NoError(t, err)

	w, err := svc.CurrentWeather(ctx, "  LONDON ")
	require.NoError(t, err)
	assert.True(t, w.FromCache)
	assert.Equal(t, 1, provider.currentCalls)
}

func TestCurrentWeatherFailureNotCached(t *testing.T) {
	provider := &fakeProvider{currentErr: ErrCityNotFound}
	svc := newTestService(provider)
	ctx := context.Background()

	_, err := svc.CurrentWeather(ctx, "Nonexistentville")
	assert.ErrorIs(t, err, ErrCityNotFound)

	_, err = svc.CurrentWeather(ctx, "Nonexistentville")
	assert.ErrorIs(t, err, ErrCityNotFound)
	assert.Equal(t, 2, provider.currentCalls, "failures must not populate the cache")
}

func TestForecastClampsDays(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(provider)
	ctx := context.Background()

	_, err := svc.Forecast(ctx, "Paris", 99)
	require.NoError(t, err)
	assert.Equal(t, MaxForecastDays, provider.lastDays)

	// The out-of-range request was cached under the clamped day count, so a
	// second invalid request is a hit.
	f, err := svc.Forecast(ctx, "Paris", 0)
	require.NoError(t, err)
	assert.True(t, f.FromCache)
	assert.Equal(t, 1, provider.forecastCalls)
}

func TestForecastCachesPerDayCount(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(provider)
	ctx := context.Background()

	_, err := svc.Forecast(ctx, "Paris", 2)
	require.NoError(t, err)
	_, err = svc.Forecast(ctx, "Paris", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.forecastCalls, "distinct day counts cache independently")
}

func TestClearCacheCityLeavesForecastCached(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(provider)
	ctx := context.Background()

	_, err := svc.CurrentWeather(ctx, "Paris")
	require.NoError(t, err)
	_, err = svc.Forecast(ctx, "Paris", 3)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCache(ctx, "Paris"))

	w, err := svc.CurrentWeather(ctx, "Paris")
	require.NoError(t, err)
	assert.False(t, w.FromCache)
	assert.Equal(t, 2, provider.currentCalls)

	// Forecast keys are intentionally untouched by a per-city clear.
	f, err := svc.Forecast(ctx, "Paris", 3)
	require.NoError(t, err)
	assert.True(t, f.FromCache)
	assert.Equal(t, 1, provider.forecastCalls)
}

func TestClearCacheAllFlushesEverything(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(provider)
	ctx := context.Background()

	_, err := svc.CurrentWeather(ctx, "Paris")
	require.NoError(t, err)
	_, err = svc.Forecast(ctx, "Paris", 3)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCache(ctx, ""))

	w, err := svc.CurrentWeather(ctx, "Paris")
	require.NoError(t, err)
	assert.False(t, w.FromCache)

	f, err := svc.Forecast(ctx, "Paris", 3)
	require.NoError(t, err)
	assert.False(t, f.FromCache)
}

func TestClampDays(t *testing.T) {
	cases := map[int]int{
		-1: 5,
		0:  5,
		1:  1,
		3:  3,
		5:  5,
		6:  5,
		99: 5,
	}
	for in, want := range cases {
		assert.Equal(t, want, ClampDays(in), "days=%d", in)
	}
}
