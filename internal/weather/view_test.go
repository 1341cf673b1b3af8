package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoomFor(t *testing.T) {
	tests := []struct {
		rows int
		want int
	}{
		{25, 3},
		{24, 4},
		{20, 4},
		{19, 5},
		{1, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ZoomFor(tt.rows), "rows=%d", tt.rows)
	}
}

func TestBuildMapView_Country(t *testing.T) {
	freezeClock(t)

	a, b := 10.0, 20.0
	readings := []Reading{
		{City: "A", Lat: 10, Lon: 100, Value: &a, Unit: Celsius},
		{City: "B", Lat: 20, Lon: 110, Value: &b, Unit: Celsius},
	}
	view := BuildMapView(Selection{Country: "united states"}, readings)

	assert.Equal(t, "Temperatures for 2024-04-26 12:00:00, United States", view.Title)
	assert.Equal(t, 5, view.Zoom)
	assert.Equal(t, Coordinate{Lat: 15, Lon: 105}, view.Center)
	require.Len(t, view.Points, 2)
	assert.Equal(t, MapPoint{City: "A", Lat: 10, Lon: 100, Temperature: &a, Size: 15}, view.Points[0])
}

func TestBuildMapView_Point(t *testing.T) {
	freezeClock(t)

	v := 4.2
	sel := Selection{Point: &Coordinate{Lat: 35.5, Lon: 139.25}}
	view := BuildMapView(sel, []Reading{{Lat: 35.5, Lon: 139.25, Value: &v, Unit: Celsius}})

	assert.Equal(t, "Temperatures for 2024-04-26 12:00:00, at (35.5, 139.25)", view.Title)
	assert.Equal(t, 14, view.Zoom)
	assert.Equal(t, *sel.Point, view.Center)
	require.Len(t, view.Points, 1)
	assert.Equal(t, 15, view.Points[0].Size)
}
