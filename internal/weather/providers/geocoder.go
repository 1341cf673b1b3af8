package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kelvins/geocoder"
	"github.com/patrickmn/go-cache"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var errNoAddress = errors.New("no address found")

// GoogleLabeler names a coordinate with the Google reverse geocoding API.
// Non-empty names are cached per coordinate.
type GoogleLabeler struct {
	reverse func(geocoder.Location) ([]geocoder.Address, error)
	cache   *cache.Cache
}

// NewGoogleLabeler configures the geocoder package with apiKey. The key is
// process-wide in that package, so only one labeler should exist.
func NewGoogleLabeler(apiKey string, ttl time.Duration) *GoogleLabeler {
	geocoder.ApiKey = apiKey
	return newGoogleLabeler(geocoder.GeocodingReverse, ttl)
}

func newGoogleLabeler(reverse func(geocoder.Location) ([]geocoder.Address, error), ttl time.Duration) *GoogleLabeler {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &GoogleLabeler{
		reverse: reverse,
		cache:   cache.New(ttl, 2*ttl),
	}
}

func (l *GoogleLabeler) Label(ctx context.Context, at weather.Coordinate) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := fmt.Sprintf("%.6f,%.6f", at.Lat, at.Lon)
	if v, found := l.cache.Get(key); found {
		return v.(string), nil
	}

	addresses, err := l.reverse(geocoder.Location{Latitude: at.Lat, Longitude: at.Lon})
	if err != nil {
		return "", err
	}
	name := pickName(addresses)
	if name == "" {
		return "", errNoAddress
	}
	l.cache.Set(key, name, cache.DefaultExpiration)
	return name, nil
}

// pickName prefers the first city name and falls back to the first formatted address.
func pickName(addresses []geocoder.Address) string {
	for _, a := range addresses {
		if a.City != "" {
			return a.City
		}
	}
	for _, a := range addresses {
		if a.FormattedAddress != "" {
			return a.FormattedAddress
		}
	}
	return ""
}
