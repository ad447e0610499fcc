package providers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-lookup-service/internal/weather"
)

// newBreaker builds the circuit breaker shared by provider clients. There is
// deliberately no retry around it; a failed attempt is terminal and the
// breaker only protects the upstream from repeated hammering once it is
// already failing.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// doRequest executes one HTTP request through the circuit breaker and maps
// transport failures onto the weather error taxonomy. Server errors (>= 500)
// trip the breaker and surface as StatusError; other non-2xx responses are
// returned to the caller for endpoint-specific mapping.
func doRequest(ctx context.Context, client *http.Client, cb *gobreaker.CircuitBreaker, req *http.Request) (*http.Response, error) {
	result, err := cb.Execute(func() (interface{}, error) {
		resp, err := client.Do(req.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, &weather.StatusError{StatusCode: resp.StatusCode}
		}
		return resp, nil
	})
	if err != nil {
		return nil, mapTransportError(err)
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}

func mapTransportError(err error) error {
	var statusErr *weather.StatusError
	if errors.As(err, &statusErr) {
		return statusErr
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", weather.ErrConnection, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", weather.ErrTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", weather.ErrTimeout, err)
	}

	return fmt.Errorf("%w: %v", weather.ErrConnection, err)
}

// round1 rounds a value to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
