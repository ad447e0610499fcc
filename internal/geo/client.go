package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// newBreaker builds the circuit breaker wrapped around each geocoding
// provider. No retries; a strategy gets exactly one attempt per request.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// getJSON executes one GET through the breaker and decodes a 2xx JSON body
// into out. Any transport failure, non-2xx status, or decode error is
// returned as-is; resolver strategies swallow and log these.
func getJSON(ctx context.Context, client *http.Client, cb *gobreaker.CircuitBreaker, req *http.Request, out any) error {
	result, err := cb.Execute(func() (interface{}, error) {
		resp, err := client.Do(req.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			io.Copy(io.Discard, resp.Body)
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return body, nil
	})
	if err != nil {
		return err
	}

	body, ok := result.([]byte)
	if !ok {
		return fmt.Errorf("unexpected result type from circuit breaker")
	}
	return json.Unmarshal(body, out)
}
