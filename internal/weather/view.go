package weather

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/i474232898/weather-dashboard/internal/common"
)

const (
	markerSize = 15
	pointZoom  = 14
)

// MapPoint is one marker on the temperature scatter map.
type MapPoint struct {
	City        string   `json:"city,omitempty"`
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	Temperature *float64 `json:"temperature"`
	Size        int      `json:"size"`
}

// MapView is what a client needs to draw the scatter map: markers colored and
// sized by temperature, a center and a zoom level.
type MapView struct {
	Title  string     `json:"title"`
	Zoom   int        `json:"zoom"`
	Center Coordinate `json:"center"`
	Points []MapPoint `json:"points"`
}

// ZoomFor picks a zoom level from the number of plotted cities: a full
// top-25 list zooms out furthest, shorter lists zoom in.
func ZoomFor(rows int) int {
	switch {
	case rows >= MaxCities:
		return 3
	case rows >= 20:
		return 4
	default:
		return 5
	}
}

// BuildMapView lays out readings for the map.
func BuildMapView(sel Selection, readings []Reading) MapView {
	now := clock.Now().UTC().Format("2006-01-02 15:04:05")

	view := MapView{
		Points: make([]MapPoint, 0, len(readings)),
	}

	var sumLat, sumLon float64
	for _, r := range readings {
		view.Points = append(view.Points, MapPoint{
			City:        r.City,
			Lat:         r.Lat,
			Lon:         r.Lon,
			Temperature: r.Value,
			Size:        markerSize,
		})
		sumLat += r.Lat
		sumLon += r.Lon
	}
	if n := float64(len(readings)); n > 0 {
		view.Center = Coordinate{Lat: sumLat / n, Lon: sumLon / n}
	}

	if sel.IsPoint() {
		view.Zoom = pointZoom
		view.Center = *sel.Point
		view.Title = fmt.Sprintf("Temperatures for %s, at (%s, %s)", now,
			common.FormatCoordinate(sel.Point.Lat), common.FormatCoordinate(sel.Point.Lon))
		return view
	}

	view.Zoom = ZoomFor(len(readings))
	view.Title = fmt.Sprintf("Temperatures for %s, %s", now, cases.Title(language.Und).String(sel.Country))
	return view
}
