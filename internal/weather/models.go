package weather

import (
	"fmt"
	"strings"
	"time"
)

// Unit is the display unit for temperatures.
type Unit string

const (
	Celsius    Unit = "C"
	Fahrenheit Unit = "F"
)

// ParseUnit accepts the unit spellings used by the dashboard's unit toggle.
// An empty string yields Celsius.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "c", "°c", "celsius":
		return Celsius, nil
	case "f", "°f", "fahrenheit":
		return Fahrenheit, nil
	default:
		return "", fmt.Errorf("unknown temperature unit %q", s)
	}
}

// Symbol returns the unit as shown next to values, e.g. "°C".
func (u Unit) Symbol() string {
	return "°" + string(u)
}

// City is one row of the reference dataset.
type City struct {
	Name       string  `json:"city"`
	Country    string  `json:"country"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Population int64   `json:"population"`
}

// Coordinate is a WGS-84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Selection is the resolved form of a user's location input: either a single
// point or a country with its most populous cities.
type Selection struct {
	Point   *Coordinate `json:"point,omitempty"`
	Country string      `json:"country,omitempty"`
	// Score is the fuzzy match score; 100 for exact dropdown selections.
	Score  int    `json:"score,omitempty"`
	Cities []City `json:"cities,omitempty"`
}

// IsPoint reports whether the selection is a single coordinate.
func (s Selection) IsPoint() bool {
	return s.Point != nil
}

// Reading is the current temperature at one location.
// Value is nil when the lookup for this location did not produce a temperature.
type Reading struct {
	City      string    `json:"city,omitempty"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Value     *float64  `json:"temperature"`
	Unit      Unit      `json:"unit"`
	FetchedAt time.Time `json:"fetchedAt"` // always UTC
}
