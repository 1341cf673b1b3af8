package weather

import (
	"context"
	"errors"
)

var (
	// ErrInvalidInput means the remote service rejected the request as malformed,
	// e.g. an out-of-range coordinate.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited covers every other non-success from the remote service.
	// The free tier enforces an hourly quota, so that is the usual cause.
	ErrRateLimited = errors.New("rate limited")
)

// Provider abstracts a remote current-conditions service.
// Errors returned by CurrentTemperature wrap ErrInvalidInput or ErrRateLimited.
type Provider interface {
	Name() string
	CurrentTemperature(ctx context.Context, at Coordinate, unit Unit) (float64, error)
}

// KeyValidator is implemented by providers that need an API key.
type KeyValidator interface {
	ValidateKey(ctx context.Context) error
}

// Labeler names a coordinate, typically through reverse geocoding.
type Labeler interface {
	Label(ctx context.Context, at Coordinate) (string, error)
}
