package location

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/i474232898/weather-dashboard/internal/fuzzy"
	"github.com/i474232898/weather-dashboard/internal/observability"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	// DefaultThreshold is the minimum fuzzy score for a country match.
	DefaultThreshold = 80
	// DefaultLimit caps how many cities a country selection holds.
	DefaultLimit = 25
)

var (
	// ErrInvalidCoordinate is returned when a coordinate field is not a finite number.
	ErrInvalidCoordinate = fmt.Errorf("invalid coordinate: %w", weather.ErrInvalidInput)

	// ErrNoMatch is returned when no reference country matches the input.
	ErrNoMatch = errors.New("no matching country")
)

// Reference is the read-only city table the resolver matches against.
type Reference interface {
	Countries() []string
	HasCountry(country string) bool
	CitiesIn(country string) []weather.City
}

// Resolve is the uncached resolver using the default threshold and limit.
func Resolve(q Query, ref Reference) (weather.Selection, error) {
	match := func(text string) countryMatch {
		return matchCountry(text, ref.Countries(), DefaultThreshold)
	}
	return resolve(q, ref, DefaultLimit, match)
}

// Options tunes a Resolver. Zero values fall back to the defaults; a zero
// CacheTTL disables the match memo.
type Options struct {
	Threshold int
	Limit     int
	CacheTTL  time.Duration
}

// Resolver turns user location input into a Selection. Country-name matches
// are memoized since matching is a pure function of the text.
type Resolver struct {
	ref       Reference
	threshold int
	limit     int
	memo      *cache.Cache
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewResolver creates a Resolver over ref.
func NewResolver(ref Reference, opts Options, metrics *observability.Metrics, logger *slog.Logger) *Resolver {
	r := &Resolver{
		ref:       ref,
		threshold: opts.Threshold,
		limit:     opts.Limit,
		metrics:   metrics,
		logger:    logger,
	}
	if r.threshold <= 0 {
		r.threshold = DefaultThreshold
	}
	if r.limit <= 0 || r.limit > DefaultLimit {
		r.limit = DefaultLimit
	}
	if opts.CacheTTL > 0 {
		r.memo = cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	}
	return r
}

// Countries lists the reference countries for the dropdown.
func (r *Resolver) Countries() []string {
	return r.ref.Countries()
}

// Resolve resolves q against the reference table.
func (r *Resolver) Resolve(q Query) (weather.Selection, error) {
	sel, err := resolve(q, r.ref, r.limit, r.match)

	result := "resolved"
	switch {
	case errors.Is(err, ErrNoMatch):
		result = "no_match"
	case err != nil:
		result = "invalid"
	}
	r.metrics.Resolutions.WithLabelValues(q.mode(), result).Inc()

	if err != nil {
		r.logger.Debug("location not resolved", "mode", q.mode(), "error", err)
	} else {
		r.logger.Debug("location resolved", "mode", q.mode(), "country", sel.Country, "score", sel.Score, "cities", len(sel.Cities))
	}
	return sel, err
}

func (r *Resolver) match(text string) countryMatch {
	if r.memo == nil {
		return matchCountry(text, r.ref.Countries(), r.threshold)
	}

	if v, found := r.memo.Get(text); found {
		r.metrics.MatchCache.WithLabelValues("hit").Inc()
		return v.(countryMatch)
	}
	r.metrics.MatchCache.WithLabelValues("miss").Inc()

	m := matchCountry(text, r.ref.Countries(), r.threshold)
	r.memo.Set(strings.Clone(text), m, cache.DefaultExpiration)
	return m
}

// countryMatch is the outcome of fuzzy matching one input text.
type countryMatch struct {
	Country string
	Score   int
	OK      bool
}

// matchCountry picks the best-scoring country. countries must be in a stable
// order (the store sorts them) so the first-maximum tie-break is reproducible.
func matchCountry(text string, countries []string, threshold int) countryMatch {
	m, ok := fuzzy.ExtractOne(text, countries)
	if !ok || m.Score < threshold {
		return countryMatch{Score: m.Score}
	}
	return countryMatch{Country: m.Choice, Score: m.Score, OK: true}
}

func resolve(q Query, ref Reference, limit int, match func(string) countryMatch) (weather.Selection, error) {
	switch q := q.(type) {
	case CoordinateQuery:
		c, err := parseCoordinate(q)
		if err != nil {
			return weather.Selection{}, err
		}
		return weather.Selection{Point: &c}, nil

	case CountryNameQuery:
		text := strings.TrimSpace(q.Text)
		if text == "" {
			return weather.Selection{}, ErrNoMatch
		}
		m := match(text)
		if !m.OK {
			return weather.Selection{}, fmt.Errorf("%w: %q (best score %d)", ErrNoMatch, text, m.Score)
		}
		return weather.Selection{
			Country: m.Country,
			Score:   m.Score,
			Cities:  topCities(ref.CitiesIn(m.Country), limit),
		}, nil

	case CountrySelectionQuery:
		if !ref.HasCountry(q.Country) {
			return weather.Selection{}, fmt.Errorf("%w: %q", ErrNoMatch, q.Country)
		}
		return weather.Selection{
			Country: q.Country,
			Score:   100,
			Cities:  topCities(ref.CitiesIn(q.Country), limit),
		}, nil

	default:
		return weather.Selection{}, fmt.Errorf("unsupported query type %T", q)
	}
}

func parseCoordinate(q CoordinateQuery) (weather.Coordinate, error) {
	lat, err := parseFinite(q.Lat)
	if err != nil {
		return weather.Coordinate{}, fmt.Errorf("%w: latitude %q", ErrInvalidCoordinate, q.Lat)
	}
	lon, err := parseFinite(q.Lon)
	if err != nil {
		return weather.Coordinate{}, fmt.Errorf("%w: longitude %q", ErrInvalidCoordinate, q.Lon)
	}
	return weather.Coordinate{Lat: lat, Lon: lon}, nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not finite")
	}
	return v, nil
}

// topCities returns at most limit cities by descending population. Equal
// populations keep their table order.
func topCities(cities []weather.City, limit int) []weather.City {
	sorted := append([]weather.City(nil), cities...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Population > sorted[j].Population
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
