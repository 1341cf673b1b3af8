package common

import (
	"math"
	"strconv"
)

// RoundTo rounds v half away from zero to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// FormatCoordinate renders a latitude or longitude for query strings and titles
// using the shortest representation that round-trips.
func FormatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
