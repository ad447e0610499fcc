package lookup

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-lookup-service/internal/geo"
	"github.com/i474232898/weather-lookup-service/internal/weather"
)

type fakeGeolocator struct {
	location     *geo.Location
	resolveErr   error
	nearby       []geo.NearbyCity
	nearbyErr    error
	resolveCalls int
	nearbyCalls  int
	lastRadius   float64
}

func (f *fakeGeolocator) Resolve(context.Context, float64, float64) (*geo.Location, error) {
	f.resolveCalls++
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return f.location, nil
}

func (f *fakeGeolocator) NearbyCities(_ context.Context, _, _, radiusKm float64) ([]geo.NearbyCity, error) {
	f.nearbyCalls++
	f.lastRadius = radiusKm
	return f.nearby, f.nearbyErr
}

type fakeFetcher struct {
	current *weather.Current
	err     error
	calls   int
}

func (f *fakeFetcher) CurrentWeather(context.Context, string) (*weather.Current, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.current, nil
}

func testLocation() *geo.Location {
	return &geo.Location{
		City:        "Richmond",
		Suburb:      "St Margarets",
		State:       "England",
		Country:     "United Kingdom",
		DisplayName: "St Margarets, Richmond, England",
		Source:      "OpenStreetMap",
		Accuracy:    geo.AccuracyHigh,
	}
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestWeatherNearRejectsZeroCoordinates(t *testing.T) {
	locator := &fakeGeolocator{location: testLocation()}
	fetcher := &fakeFetcher{current: &weather.Current{City: "Richmond"}}
	svc := NewService(locator, fetcher, testLogger())

	for _, coords := range [][2]float64{{0, 0}, {0, 10.5}, {51.4, 0}} {
		_, err := svc.WeatherNear(context.Background(), coords[0], coords[1], false)
		assert.ErrorIs(t, err, ErrMissingCoordinates)
	}
	assert.Zero(t, locator.resolveCalls, "resolver must not be consulted")
	assert.Zero(t, fetcher.calls, "weather must not be fetched")
}

func TestWeatherNearMergesDetectionMetadata(t *testing.T) {
	locator := &fakeGeolocator{location: testLocation()}
	fetcher := &fakeFetcher{current: &weather.Current{City: "Richmond", Temperature: 18.5}}
	svc := NewService(locator, fetcher, testLogger())

	got, err := svc.WeatherNear(context.Background(), 51.44, -0.33, false)
	require.NoError(t, err)

	assert.Equal(t, "Richmond", got.City)
	assert.Equal(t, 18.5, got.Temperature)
	assert.True(t, got.LocationDetected)
	assert.Equal(t, "gps", got.DetectedFrom)
	assert.Equal(t, geo.AccuracyHigh, got.DetectionAccuracy)
	assert.Equal(t, "OpenStreetMap", got.DetectionSource)
	assert.Equal(t, "St Margarets", got.Suburb)
	assert.Equal(t, "England", got.State)
	assert.Equal(t, "St Margarets, Richmond, England", got.DisplayName)
	assert.Equal(t, weather.Coord{Lat: 51.44, Lon: -0.33}, got.Coordinates)
	assert.Nil(t, got.NearbyCities)
	assert.Zero(t, locator.nearbyCalls)
}

func TestWeatherNearAttachesCappedNearbyList(t *testing.T) {
	nearby := make([]geo.NearbyCity, 8)
	for i := range nearby {
		nearby[i] = geo.NearbyCity{City: string(rune('A' + i))}
	}
	locator := &fakeGeolocator{location: testLocation(), nearby: nearby}
	fetcher := &fakeFetcher{current: &weather.Current{City: "Richmond"}}
	svc := NewService(locator, fetcher, testLogger())

	got, err := svc.WeatherNear(context.Background(), 51.44, -0.33, true)
	require.NoError(t, err)

	assert.Len(t, got.NearbyCities, 5)
	assert.Equal(t, float64(30), locator.lastRadius)
}

func TestWeatherNearToleratesNearbyFailure(t *testing.T) {
	locator := &fakeGeolocator{location: testLocation(), nearbyErr: errors.New("boom")}
	fetcher := &fakeFetcher{current: &weather.Current{City: "Richmond"}}
	svc := NewService(locator, fetcher, testLogger())

	got, err := svc.WeatherNear(context.Background(), 51.44, -0.33, true)
	require.NoError(t, err)
	assert.Nil(t, got.NearbyCities)
}

func TestWeatherNearResolverErrorPropagates(t *testing.T) {
	locator := &fakeGeolocator{resolveErr: geo.ErrLocationNotFound}
	fetcher := &fakeFetcher{current: &weather.Current{}}
	svc := NewService(locator, fetcher, testLogger())

	_, err := svc.WeatherNear(context.Background(), 51.44, -0.33, false)
	assert.ErrorIs(t, err, geo.ErrLocationNotFound)
	assert.Zero(t, fetcher.calls)
}

func TestWeatherNearOffersAlternatives(t *testing.T) {
	nearby := make([]geo.NearbyCity, 12)
	for i := range nearby {
		nearby[i] = geo.NearbyCity{City: string(rune('A' + i))}
	}
	locator := &fakeGeolocator{location: testLocation(), nearby: nearby}
	fetcher := &fakeFetcher{err: weather.ErrCityNotFound}
	svc := NewService(locator, fetcher, testLogger())

	_, err := svc.WeatherNear(context.Background(), 51.44, -0.33, false)
	require.Error(t, err)

	var noWeather *NoWeatherError
	require.ErrorAs(t, err, &noWeather)
	assert.Equal(t, "Richmond", noWeather.City)
	assert.Len(t, noWeather.Nearby, 10)
	assert.Equal(t, "Try: A", noWeather.Suggestion)
	assert.Equal(t, float64(50), locator.lastRadius)
}

func TestWeatherNearNoAlternativesKeepsOriginalError(t *testing.T) {
	locator := &fakeGeolocator{location: testLocation()}
	fetcher := &fakeFetcher{err: weather.ErrCityNotFound}
	svc := NewService(locator, fetcher, testLogger())

	_, err := svc.WeatherNear(context.Background(), 51.44, -0.33, false)
	assert.ErrorIs(t, err, weather.ErrCityNotFound)

	locator.nearbyErr = errors.New("search down")
	locator.nearby = []geo.NearbyCity{{City: "Kingston"}}
	_, err = svc.WeatherNear(context.Background(), 51.44, -0.33, false)
	assert.ErrorIs(t, err, weather.ErrCityNotFound)
}
