package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds everything the service reads from the environment. No
// component reads settings on its own; the values are passed in at
// construction.
type AppConfig struct {
	OpenWeatherAPIKey string

	// WeatherBaseURL hosts the current-weather, forecast, and find endpoints.
	WeatherBaseURL string
	// GeoBaseURL hosts the OpenWeatherMap geocoding endpoints.
	GeoBaseURL string
	// NominatimBaseURL hosts the detailed reverse-geocoding endpoint.
	NominatimBaseURL string
	// NominatimUserAgent is sent on every Nominatim request, as required by
	// their usage policy.
	NominatimUserAgent string

	// CacheTTL bounds the lifetime of cached weather entries.
	CacheTTL time.Duration
	// HTTPTimeout applies to every outbound provider call.
	HTTPTimeout time.Duration

	// RedisURL selects the Redis cache store; empty falls back to memory.
	RedisURL string
	// DatabaseURL selects the Postgres query log; empty disables it.
	DatabaseURL string

	// WarmInterval and WarmTopCities control the popular-city cache warm job.
	WarmInterval  time.Duration
	WarmTopCities int

	Port      string
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		WeatherBaseURL:     getenvDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),
		GeoBaseURL:         getenvDefault("OPENWEATHER_GEO_URL", "https://api.openweathermap.org/geo/1.0"),
		NominatimBaseURL:   getenvDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: getenvDefault("NOMINATIM_USER_AGENT", "weather-lookup-service/1.0"),
		RedisURL:           os.Getenv("REDIS_URL"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		WarmTopCities:      getenvInt("WARM_TOP_CITIES", 6),
		Port:               getenvDefault("PORT", "8080"),
		LogLevel:           getenvDefault("LOG_LEVEL", "info"),
		LogFormat:          getenvDefault("LOG_FORMAT", "text"),
	}

	ttl, err := time.ParseDuration(getenvDefault("CACHE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = ttl

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	warm, err := time.ParseDuration(getenvDefault("WARM_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid WARM_INTERVAL: %w", err)
	}
	cfg.WarmInterval = warm

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
