package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	httpapi "github.com/i474232898/weather-lookup-service/internal/api/http"
	"github.com/i474232898/weather-lookup-service/internal/cache"
	"github.com/i474232898/weather-lookup-service/internal/config"
	"github.com/i474232898/weather-lookup-service/internal/geo"
	"github.com/i474232898/weather-lookup-service/internal/history"
	"github.com/i474232898/weather-lookup-service/internal/lookup"
	"github.com/i474232898/weather-lookup-service/internal/scheduler"
	"github.com/i474232898/weather-lookup-service/internal/weather"
	"github.com/i474232898/weather-lookup-service/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	log := newLogger(cfg)

	// Shared HTTP client for outbound provider calls. One fixed timeout, no
	// retries; a timeout is a terminal failure for that attempt.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	// Cache store: Redis when configured, in-memory otherwise.
	var store cache.Store
	if cfg.RedisURL != "" {
		redisStore, err := cache.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
		log.Info("using redis cache store")
	} else {
		store = cache.NewMemory()
		log.Info("REDIS_URL not set; using in-memory cache store")
	}

	// Query log: Postgres when configured, otherwise discarded.
	var recorder history.Recorder = history.NewNoop()
	if cfg.DatabaseURL != "" {
		pg, err := history.NewPostgres(cfg.DatabaseURL, log)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pg.Close()
		recorder = pg
		log.Info("query history enabled")
	} else {
		log.Info("DATABASE_URL not set; query history disabled")
	}

	// Core components.
	owmProvider := providers.NewOpenWeather(httpClient, cfg.WeatherBaseURL, cfg.OpenWeatherAPIKey)
	weatherSvc := weather.NewService(store, owmProvider, cfg.CacheTTL, log)

	nominatim := geo.NewNominatim(httpClient, cfg.NominatimBaseURL, cfg.NominatimUserAgent)
	owmGeo := geo.NewOpenWeather(httpClient, cfg.GeoBaseURL, cfg.WeatherBaseURL, cfg.OpenWeatherAPIKey)
	resolver := geo.NewResolver(nominatim, owmGeo, log)

	lookupSvc := lookup.NewService(resolver, weatherSvc, log)

	// Keep popular cities warm in the cache.
	warm := scheduler.New(weatherSvc, recorder, cfg.WarmInterval, cfg.WarmTopCities, log)
	if err := warm.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer warm.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-lookup-service",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-lookup-service",
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Services{
		Weather: weatherSvc,
		Geo:     resolver,
		Lookup:  lookupSvc,
		History: recorder,
		Log:     log,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Errorf("fiber server stopped: %v", err)
		}
	}()
	log.Infof("server started on :%s", cfg.Port)

	// Wait for termination signal.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorf("error during shutdown: %v", err)
	}
}

func newLogger(cfg *config.AppConfig) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}
