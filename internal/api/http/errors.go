package httpapi

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-lookup-service/internal/geo"
	"github.com/i474232898/weather-lookup-service/internal/lookup"
	"github.com/i474232898/weather-lookup-service/internal/weather"
)

// Error is an API failure with the HTTP status it should be rendered with.
type Error struct {
	Status  int
	Message string
	Details string
}

func (e *Error) Error() string {
	return e.Message
}

// ErrorHandler is the centralized Fiber error handler. Every failure leaves
// the API as {success:false, error, details}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		body := fiber.Map{"success": false, "error": apiErr.Message}
		if apiErr.Details != "" {
			body["details"] = apiErr.Details
		}
		return c.Status(apiErr.Status).JSON(body)
	}

	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	return c.Status(code).JSON(fiber.Map{"success": false, "error": err.Error()})
}

// mapError translates domain errors into API errors. Input and not-found
// failures are 400s; 500 is reserved for cache and log store failures.
func mapError(err error) *Error {
	var statusErr *weather.StatusError

	switch {
	case errors.Is(err, weather.ErrInvalidInput):
		return &Error{Status: fiber.StatusBadRequest, Message: "City name is required", Details: "Please provide a valid city name"}
	case errors.Is(err, weather.ErrCityNotFound):
		return &Error{Status: fiber.StatusBadRequest, Message: "City not found", Details: "Please check the city name and try again"}
	case errors.Is(err, weather.ErrInvalidAPIKey):
		return &Error{Status: fiber.StatusBadRequest, Message: "Invalid API key", Details: "Please configure a valid API key"}
	case errors.Is(err, weather.ErrTimeout):
		return &Error{Status: fiber.StatusBadRequest, Message: "Request timeout", Details: "The weather service is taking too long to respond"}
	case errors.Is(err, weather.ErrConnection):
		return &Error{Status: fiber.StatusBadRequest, Message: "Connection error", Details: "Could not connect to weather service"}
	case errors.As(err, &statusErr):
		return &Error{Status: fiber.StatusBadRequest, Message: fmt.Sprintf("API error: %d", statusErr.StatusCode), Details: err.Error()}
	case errors.Is(err, geo.ErrLocationNotFound):
		return &Error{Status: fiber.StatusBadRequest, Message: "Could not determine location", Details: "Unable to find city/town for these coordinates"}
	case errors.Is(err, lookup.ErrMissingCoordinates):
		return &Error{Status: fiber.StatusBadRequest, Message: "Missing coordinates", Details: "Both latitude and longitude are required"}
	default:
		return &Error{Status: fiber.StatusBadRequest, Message: "Failed to fetch weather data", Details: err.Error()}
	}
}
