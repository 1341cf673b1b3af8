package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	// ErrMissingColumn is returned when the reference table lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
)

// Required reference table columns.
const (
	colCity       = "city_ascii"
	colLat        = "lat"
	colLon        = "lng"
	colCountry    = "country"
	colPopulation = "population"
)

// LoadCSV reads the reference table from a file.
func LoadCSV(path string) (*ReferenceStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference table: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses a worldcities-style table. Columns are located by header name
// and extra columns are ignored.
func ReadCSV(r io.Reader) (*ReferenceStore, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range []string{colCity, colLat, colLon, colCountry, colPopulation} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	var cities []weather.City
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		city, err := parseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cities = append(cities, city)
	}

	return NewReferenceStore(cities), nil
}

func parseRow(rec []string, cols map[string]int) (weather.City, error) {
	field := func(name string) string {
		i := cols[name]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	lat, err := strconv.ParseFloat(field(colLat), 64)
	if err != nil {
		return weather.City{}, fmt.Errorf("invalid %s %q", colLat, field(colLat))
	}
	lon, err := strconv.ParseFloat(field(colLon), 64)
	if err != nil {
		return weather.City{}, fmt.Errorf("invalid %s %q", colLon, field(colLon))
	}

	pop, err := parsePopulation(field(colPopulation))
	if err != nil {
		return weather.City{}, err
	}

	return weather.City{
		Name:       field(colCity),
		Country:    field(colCountry),
		Lat:        lat,
		Lon:        lon,
		Population: pop,
	}, nil
}

// parsePopulation accepts integers, float-formatted integers ("1234.0") and
// blanks, which count as zero.
func parsePopulation(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", colPopulation, s)
	}
	return int64(f), nil
}
