package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/observability"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// HTTPClientConfig bundles the HTTP client and instrumentation shared by providers.
type HTTPClientConfig struct {
	Client  *http.Client
	Metrics *observability.Metrics
}

var (
	errNoHTTPClient = errors.New("http client not configured")
	errEmptyValue   = errors.New("response has no temperature value")
)

// transport performs one lookup per call behind a circuit breaker. There are
// no retries: a failed lookup is reported to the caller as is.
type transport struct {
	provider string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker
	metrics  *observability.Metrics
}

func newTransport(provider string, cfg HTTPClientConfig) *transport {
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	return &transport{
		provider: provider,
		client:   cfg.Client,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        provider,
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		}),
		metrics: metrics,
	}
}

// lookup sends the request built by buildRequest and decodes a temperature
// from a 2xx body. Errors wrap weather.ErrInvalidInput when the remote service
// rejected the input (400, 422) and weather.ErrRateLimited otherwise.
func (t *transport) lookup(
	ctx context.Context,
	buildRequest func(ctx context.Context) (*http.Request, error),
	decode func(body []byte) (float64, error),
) (float64, error) {
	start := time.Now()
	temp, err := t.do(ctx, buildRequest, decode)
	t.metrics.LookupDuration.WithLabelValues(t.provider).Observe(time.Since(start).Seconds())

	outcome := "success"
	switch {
	case errors.Is(err, weather.ErrInvalidInput):
		outcome = "invalid_input"
	case err != nil:
		outcome = "rate_limited"
	}
	t.metrics.LookupRequests.WithLabelValues(t.provider, outcome).Inc()
	return temp, err
}

func (t *transport) do(
	ctx context.Context,
	buildRequest func(ctx context.Context) (*http.Request, error),
	decode func(body []byte) (float64, error),
) (float64, error) {
	if t.client == nil {
		return 0, fmt.Errorf("%w: %v", weather.ErrRateLimited, errNoHTTPClient)
	}

	req, err := buildRequest(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: build request: %v", weather.ErrRateLimited, err)
	}

	result, err := t.breaker.Execute(func() (interface{}, error) {
		resp, execErr := t.client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		defer resp.Body.Close()

		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, readErr
		}

		// A rejected input says nothing about the health of the remote
		// service, so it does not count against the breaker.
		if resp.StatusCode < 200 || (resp.StatusCode >= 300 && !isInputRejection(resp.StatusCode)) {
			return nil, &statusError{code: resp.StatusCode}
		}
		return &reply{status: resp.StatusCode, body: body}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return 0, fmt.Errorf("%w: circuit breaker open: %v", weather.ErrRateLimited, err)
		}
		return 0, fmt.Errorf("%w: %v", weather.ErrRateLimited, err)
	}

	r, ok := result.(*reply)
	if !ok {
		return 0, fmt.Errorf("%w: unexpected result type from circuit breaker", weather.ErrRateLimited)
	}
	if isInputRejection(r.status) {
		return 0, fmt.Errorf("%w: status %d", weather.ErrInvalidInput, r.status)
	}

	temp, err := decode(r.body)
	if err != nil {
		return 0, fmt.Errorf("%w: decode response: %v", weather.ErrRateLimited, err)
	}
	return temp, nil
}

type reply struct {
	status int
	body   []byte
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.code)
}

func isInputRejection(code int) bool {
	return code == http.StatusBadRequest || code == http.StatusUnprocessableEntity
}
