package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.openweathermap.org/data/2.5", cfg.WeatherBaseURL)
	assert.Equal(t, "https://api.openweathermap.org/geo/1.0", cfg.GeoBaseURL)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.NominatimBaseURL)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 15*time.Minute, cfg.WarmInterval)
	assert.Equal(t, 6, cfg.WarmTopCities)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "secret")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("WARM_TOP_CITIES", "12")
	t.Setenv("PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.OpenWeatherAPIKey)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 12, cfg.WarmTopCities)
	assert.Equal(t, "9000", cfg.Port)
}

func TestLoadRejectsBadDurations(t *testing.T) {
	t.Setenv("CACHE_TTL", "not-a-duration")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadToleratesBadIntegers(t *testing.T) {
	t.Setenv("WARM_TOP_CITIES", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.WarmTopCities)
}
