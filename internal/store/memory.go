package store

import (
	"sort"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// ReferenceStore is the in-memory city/population table. It is built once at
// startup and never mutated, so concurrent reads need no locking.
type ReferenceStore struct {
	cities []weather.City

	// key: country name, value: indexes into cities in table order
	byCountry map[string][]int

	// distinct country names, sorted
	countries []string
}

// NewReferenceStore indexes cities by country. The slice is copied.
func NewReferenceStore(cities []weather.City) *ReferenceStore {
	s := &ReferenceStore{
		cities:    append([]weather.City(nil), cities...),
		byCountry: make(map[string][]int),
	}

	for i, c := range s.cities {
		if _, ok := s.byCountry[c.Country]; !ok {
			s.countries = append(s.countries, c.Country)
		}
		s.byCountry[c.Country] = append(s.byCountry[c.Country], i)
	}
	sort.Strings(s.countries)

	return s
}

// Len returns the number of rows in the table.
func (s *ReferenceStore) Len() int {
	return len(s.cities)
}

// Countries returns the distinct country names in lexicographic order.
func (s *ReferenceStore) Countries() []string {
	return append([]string(nil), s.countries...)
}

// HasCountry reports whether any row belongs to country (exact match).
func (s *ReferenceStore) HasCountry(country string) bool {
	_, ok := s.byCountry[country]
	return ok
}

// CitiesIn returns the rows for country in their original table order.
func (s *ReferenceStore) CitiesIn(country string) []weather.City {
	idx, ok := s.byCountry[country]
	if !ok {
		return nil
	}

	result := make([]weather.City, 0, len(idx))
	for _, i := range idx {
		result = append(result, s.cities[i])
	}
	return result
}
