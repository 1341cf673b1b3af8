package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/i474232898/weather-dashboard/internal/common"
)

// MaxCities bounds the per-row fan-out of a country selection.
const MaxCities = 25

// Service fetches current temperatures for resolved selections.
type Service struct {
	provider Provider
	labeler  Labeler
	logger   *slog.Logger
}

// NewService creates a Service. labeler may be nil, in which case single-point
// readings carry no city name.
func NewService(provider Provider, labeler Labeler, logger *slog.Logger) *Service {
	return &Service{
		provider: provider,
		labeler:  labeler,
		logger:   logger,
	}
}

// ProviderName reports which remote service backs this Service.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// ValidateKey checks the provider's API key with a single lookup. Providers
// without keys always validate.
func (s *Service) ValidateKey(ctx context.Context) error {
	kv, ok := s.provider.(KeyValidator)
	if !ok {
		return nil
	}
	return kv.ValidateKey(ctx)
}

// Fetch looks up the current temperature for every location in sel.
//
// A single point fails with ErrInvalidInput when the remote service rejects
// the coordinate and ErrRateLimited otherwise. A country selection is
// all-or-nothing: rows are fetched one after another, the first failure of
// any kind stops the loop and the whole batch fails with ErrRateLimited.
func (s *Service) Fetch(ctx context.Context, sel Selection, unit Unit) ([]Reading, error) {
	if sel.IsPoint() {
		return s.fetchPoint(ctx, *sel.Point, unit)
	}
	return s.fetchCities(ctx, sel, unit)
}

func (s *Service) fetchPoint(ctx context.Context, at Coordinate, unit Unit) ([]Reading, error) {
	temp, err := s.provider.CurrentTemperature(ctx, at, unit)
	if err != nil {
		s.logger.Warn("point lookup failed", "provider", s.provider.Name(), "lat", at.Lat, "lon", at.Lon, "error", err)
		return nil, classify(err)
	}

	r := newReading(at, temp, unit)
	if s.labeler != nil {
		name, err := s.labeler.Label(ctx, at)
		if err != nil {
			s.logger.Warn("reverse geocoding failed", "lat", at.Lat, "lon", at.Lon, "error", err)
		} else {
			r.City = name
		}
	}
	return []Reading{r}, nil
}

func (s *Service) fetchCities(ctx context.Context, sel Selection, unit Unit) ([]Reading, error) {
	if len(sel.Cities) == 0 {
		return nil, fmt.Errorf("%w: no cities selected", ErrInvalidInput)
	}
	if len(sel.Cities) > MaxCities {
		return nil, fmt.Errorf("%w: %d cities selected, at most %d allowed", ErrInvalidInput, len(sel.Cities), MaxCities)
	}

	s.logger.Debug("fetching country temperatures", "provider", s.provider.Name(), "country", sel.Country, "cities", len(sel.Cities))

	readings := make([]Reading, 0, len(sel.Cities))
	for i, c := range sel.Cities {
		at := Coordinate{Lat: c.Lat, Lon: c.Lon}
		temp, err := s.provider.CurrentTemperature(ctx, at, unit)
		if err != nil {
			s.logger.Warn("city lookup failed, discarding batch",
				"provider", s.provider.Name(),
				"country", sel.Country,
				"row", i+1,
				"city", c.Name,
				"error", err,
			)
			return nil, fmt.Errorf("%w: row %d (%s): %v", ErrRateLimited, i+1, c.Name, err)
		}

		r := newReading(at, temp, unit)
		r.City = c.Name
		readings = append(readings, r)
	}
	return readings, nil
}

func newReading(at Coordinate, temp float64, unit Unit) Reading {
	v := common.RoundTo(temp, 1)
	return Reading{
		Lat:       at.Lat,
		Lon:       at.Lon,
		Value:     &v,
		Unit:      unit,
		FetchedAt: clock.Now().UTC(),
	}
}

// classify keeps the two outcomes a provider is expected to report and folds
// anything else into ErrRateLimited.
func classify(err error) error {
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrRateLimited) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrRateLimited, err)
}
