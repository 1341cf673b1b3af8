package location

// Query is one user's location input. It is one of CoordinateQuery,
// CountryNameQuery or CountrySelectionQuery.
type Query interface {
	mode() string
}

// CoordinateQuery is a raw latitude/longitude pair as typed by the user.
type CoordinateQuery struct {
	Lat string
	Lon string
}

// CountryNameQuery is free text matched fuzzily against reference countries.
type CountryNameQuery struct {
	Text string
}

// CountrySelectionQuery is a country picked from the dropdown; it must match exactly.
type CountrySelectionQuery struct {
	Country string
}

func (CoordinateQuery) mode() string       { return "coordinate" }
func (CountryNameQuery) mode() string      { return "country_name" }
func (CountrySelectionQuery) mode() string { return "country_select" }
