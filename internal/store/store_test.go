package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const sampleCSV = `"city","city_ascii","lat","lng","country","iso2","population"
"Tokyo","Tokyo","35.6897","139.6922","Japan","JP","37732000"
"Jakarta","Jakarta","-6.1750","106.8275","Indonesia","ID","33756000"
"Ōsaka","Osaka","34.6939","135.5022","Japan","JP","19059856.0"
"Kobe","Kobe","34.6900","135.1956","Japan","JP",""
`

func TestReadCSV(t *testing.T) {
	s, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 4, s.Len())
	assert.Equal(t, []string{"Indonesia", "Japan"}, s.Countries())
	assert.True(t, s.HasCountry("Japan"))
	assert.False(t, s.HasCountry("japan"))

	japan := s.CitiesIn("Japan")
	require.Len(t, japan, 3)
	assert.Equal(t, weather.City{Name: "Tokyo", Country: "Japan", Lat: 35.6897, Lon: 139.6922, Population: 37732000}, japan[0])
	assert.Equal(t, "Osaka", japan[1].Name)
	assert.Equal(t, int64(19059856), japan[1].Population)
	assert.Equal(t, int64(0), japan[2].Population)
}

func TestReadCSV_MissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("city_ascii,lat,country,population\nTokyo,35.6,Japan,1\n"))
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "lng")
}

func TestReadCSV_BadCoordinateNamesLine(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("city_ascii,lat,lng,country,population\nTokyo,35.6,139.6,Japan,1\nNowhere,north,0,Japan,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "lat")
}

func TestReadCSV_BadPopulation(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("city_ascii,lat,lng,country,population\nTokyo,35.6,139.6,Japan,many\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "population")
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worldcities.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))

	s, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestReferenceStore_CopiesInput(t *testing.T) {
	cities := []weather.City{{Name: "A", Country: "X"}}
	s := NewReferenceStore(cities)
	cities[0].Name = "mutated"

	assert.Equal(t, "A", s.CitiesIn("X")[0].Name)
	assert.Nil(t, s.CitiesIn("Y"))

	countries := s.Countries()
	countries[0] = "mutated"
	assert.Equal(t, []string{"X"}, s.Countries())
}
