package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when the city name is empty after trimming.
	ErrInvalidInput = errors.New("city name is required")

	// ErrCityNotFound maps the provider's 404 response.
	ErrCityNotFound = errors.New("city not found")

	// ErrInvalidAPIKey maps the provider's 401 response.
	ErrInvalidAPIKey = errors.New("invalid api key")

	// ErrTimeout is returned when an outbound call exceeds its deadline.
	// Timeouts are terminal; there is no automatic retry.
	ErrTimeout = errors.New("request timeout")

	// ErrConnection covers transport-level failures, including a tripped
	// circuit breaker.
	ErrConnection = errors.New("connection error")
)

// StatusError reports a non-2xx provider response that no sentinel above
// covers, carrying the HTTP status code for the caller.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("weather provider returned status %d", e.StatusCode)
}
