package httpapi

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/weather-lookup-service/internal/geo"
	"github.com/i474232898/weather-lookup-service/internal/history"
	"github.com/i474232898/weather-lookup-service/internal/lookup"
	"github.com/i474232898/weather-lookup-service/internal/weather"
)

var validate = validator.New()

// Services bundles the components the HTTP surface exposes.
type Services struct {
	Weather *weather.Service
	Geo     *geo.Resolver
	Lookup  *lookup.Service
	History history.Recorder
	Log     *logrus.Logger
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, svcs Services) {
	h := &handlers{svcs: svcs}

	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", h.currentWeather)
	v1.Get("/weather/forecast", h.forecast)
	v1.Get("/weather/coordinates", h.weatherByCoordinates)

	v1.Get("/geo/nearby", h.nearbyCities)
	v1.Get("/geo/reverse", h.reverseGeocode)
	v1.Get("/geo/search", h.searchCities)

	v1.Post("/cache/clear", h.clearCache)
	v1.Get("/stats", h.stats)
}

type handlers struct {
	svcs Services
}

type currentResponse struct {
	Success bool `json:"success"`
	weather.Current
	ResponseTimeMS int64 `json:"response_time_ms"`
}

func (h *handlers) currentWeather(c *fiber.Ctx) error {
	start := time.Now()

	city := strings.TrimSpace(c.Query("city"))
	if city == "" {
		return &Error{Status: fiber.StatusBadRequest, Message: "City parameter is required", Details: "Please provide a valid city name"}
	}

	w, err := h.svcs.Weather.CurrentWeather(c.UserContext(), city)
	if err != nil {
		return mapError(err)
	}

	elapsed := time.Since(start).Milliseconds()
	h.recordQuery(c.UserContext(), w, elapsed)

	return c.JSON(currentResponse{Success: true, Current: *w, ResponseTimeMS: elapsed})
}

type forecastResponse struct {
	Success bool `json:"success"`
	weather.Forecast
	ResponseTimeMS int64 `json:"response_time_ms"`
}

func (h *handlers) forecast(c *fiber.Ctx) error {
	start := time.Now()

	city := strings.TrimSpace(c.Query("city"))
	if city == "" {
		return &Error{Status: fiber.StatusBadRequest, Message: "City parameter is required", Details: "Please provide a valid city name"}
	}

	// Unparsable or out-of-range day counts silently become the maximum.
	days := weather.MaxForecastDays
	if v, err := strconv.Atoi(c.Query("days")); err == nil {
		days = weather.ClampDays(v)
	}

	f, err := h.svcs.Weather.Forecast(c.UserContext(), city, days)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(forecastResponse{Success: true, Forecast: *f, ResponseTimeMS: time.Since(start).Milliseconds()})
}

type lookupResponse struct {
	Success bool `json:"success"`
	lookup.Result
	ResponseTimeMS int64 `json:"response_time_ms"`
}

type coordsQuery struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

func (h *handlers) weatherByCoordinates(c *fiber.Ctx) error {
	start := time.Now()

	coords, err := parseCoords(c)
	if err != nil {
		return err
	}
	showNearby := strings.EqualFold(c.Query("show_nearby"), "true")

	res, err := h.svcs.Lookup.WeatherNear(c.UserContext(), coords.Lat, coords.Lon, showNearby)
	if err != nil {
		var noWeather *lookup.NoWeatherError
		if errors.As(err, &noWeather) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success":           false,
				"error":             "No weather data for " + noWeather.City,
				"details":           "Try one of the nearby cities",
				"location_detected": noWeather.Location,
				"nearby_cities":     noWeather.Nearby,
				"suggestion":        noWeather.Suggestion,
			})
		}
		return mapError(err)
	}

	elapsed := time.Since(start).Milliseconds()
	h.recordQuery(c.UserContext(), &res.Current, elapsed)

	return c.JSON(lookupResponse{Success: true, Result: *res, ResponseTimeMS: elapsed})
}

func (h *handlers) nearbyCities(c *fiber.Ctx) error {
	coords, err := parseCoords(c)
	if err != nil {
		return err
	}

	radius := 50
	if v, err := strconv.Atoi(c.Query("radius")); err == nil && v > 0 {
		radius = v
	}

	cities, err := h.svcs.Geo.NearbyCities(c.UserContext(), coords.Lat, coords.Lon, float64(radius))
	if err != nil {
		return &Error{Status: fiber.StatusBadRequest, Message: "Failed to find nearby cities", Details: err.Error()}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"cities":  cities,
		"count":   len(cities),
		"radius":  radius,
	})
}

type reverseResponse struct {
	Success bool `json:"success"`
	geo.Location
}

func (h *handlers) reverseGeocode(c *fiber.Ctx) error {
	coords, err := parseCoords(c)
	if err != nil {
		return err
	}

	loc, err := h.svcs.Geo.Resolve(c.UserContext(), coords.Lat, coords.Lon)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(reverseResponse{Success: true, Location: *loc})
}

func (h *handlers) searchCities(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return &Error{Status: fiber.StatusBadRequest, Message: "Search query is required"}
	}

	limit := 5
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}

	results, err := h.svcs.Geo.SearchCities(c.UserContext(), query, limit)
	if err != nil {
		return &Error{Status: fiber.StatusBadRequest, Message: "City search failed", Details: err.Error()}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}

func (h *handlers) clearCache(c *fiber.Ctx) error {
	city := strings.TrimSpace(c.FormValue("city"))
	if city == "" {
		city = strings.TrimSpace(c.Query("city"))
	}

	if err := h.svcs.Weather.ClearCache(c.UserContext(), city); err != nil {
		return &Error{Status: fiber.StatusInternalServerError, Message: "Failed to clear cache", Details: err.Error()}
	}

	message := "All cache cleared"
	if city != "" {
		message = "Cache cleared for " + city
	}
	return c.JSON(fiber.Map{"success": true, "message": message})
}

type statsResponse struct {
	Success bool `json:"success"`
	history.Stats
}

func (h *handlers) stats(c *fiber.Ctx) error {
	stats, err := h.svcs.History.Stats(c.UserContext())
	if err != nil {
		return &Error{Status: fiber.StatusInternalServerError, Message: "Failed to fetch statistics", Details: err.Error()}
	}
	return c.JSON(statsResponse{Success: true, Stats: *stats})
}

// parseCoords binds and validates lat/lon query parameters. A zero coordinate
// is treated as missing, not as a valid Earth location.
func parseCoords(c *fiber.Ctx) (coordsQuery, error) {
	var q coordsQuery

	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		return q, &Error{Status: fiber.StatusBadRequest, Message: "Invalid coordinates", Details: "Latitude and longitude must be valid numbers"}
	}

	q.Lat = lat
	q.Lon = lon
	if err := validate.Struct(q); err != nil {
		return q, &Error{Status: fiber.StatusBadRequest, Message: "Invalid coordinates", Details: err.Error()}
	}
	if lat == 0 || lon == 0 {
		return q, &Error{Status: fiber.StatusBadRequest, Message: "Missing coordinates", Details: "Both latitude and longitude are required"}
	}

	return q, nil
}

// recordQuery emits the query-log record for a successful lookup. Persistence
// failures are logged and never surfaced; the caller still gets their weather.
func (h *handlers) recordQuery(ctx context.Context, w *weather.Current, elapsedMS int64) {
	rec := history.Record{
		City:           w.City,
		Country:        w.Country,
		Temperature:    w.Temperature,
		Description:    w.Description,
		FromCache:      w.FromCache,
		ResponseTimeMS: elapsedMS,
	}
	if err := h.svcs.History.RecordQuery(ctx, rec); err != nil {
		h.svcs.Log.WithError(err).WithField("city", w.City).Error("recording query failed")
	}
}
