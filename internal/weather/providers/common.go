package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"
)

// HTTPClientConfig bundles the HTTP client and the optional circuit breaker.
type HTTPClientConfig struct {
	Client *http.Client

	// Breaker guards the outbound call when set. nil means no circuit breaking.
	Breaker *gobreaker.CircuitBreaker
}

var (
	ErrMissingAPIKey    = errors.New("openweather api key is not configured")
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrMalformedBody    = errors.New("malformed response body")
	ErrCircuitOpen      = errors.New("circuit breaker open")
	errNoHTTPClient     = errors.New("http client not configured")
)

// maxBodyBytes caps how much of a provider response is read.
const maxBodyBytes = 1 << 20

// StatusError is returned for non-2xx provider responses.
type StatusError struct {
	StatusCode int
	// Message is the provider's own explanation, if the body carried one.
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed with status code %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// NewBreaker builds the circuit breaker used when PROVIDER_BREAKER is enabled.
// Client errors (4xx) such as an unknown city do not count against it.
func NewBreaker(name string, logger *slog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		IsSuccessful: func(err error) bool {
			var se *StatusError
			if errors.As(err, &se) {
				return se.StatusCode < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			}
		},
	})
}

// doRequest executes exactly one request and returns the body of a 2xx
// response. There are no retries; a configured breaker may reject the call
// without sending it.
func doRequest(ctx context.Context, cfg HTTPClientConfig, req *http.Request) ([]byte, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}

	// Ensure the request obeys context cancellation.
	req = req.WithContext(ctx)

	send := func() ([]byte, error) {
		resp, err := cfg.Client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &StatusError{StatusCode: resp.StatusCode, Message: providerMessage(body)}
		}
		return body, nil
	}

	if cfg.Breaker == nil {
		return send()
	}

	result, err := cfg.Breaker.Execute(func() (interface{}, error) {
		return send()
	})
	if err != nil {
		// If circuit is open, say so rather than surfacing gobreaker's text.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		return nil, err
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return body, nil
}

// providerMessage extracts the "message" field OpenWeatherMap puts in error
// bodies, e.g. {"cod":"404","message":"city not found"}.
func providerMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
