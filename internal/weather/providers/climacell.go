package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Jeffail/gabs"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// DefaultClimaCellBaseURL is the production ClimaCell API host.
const DefaultClimaCellBaseURL = "https://api.climacell.co"

// ClimaCellProvider implements weather.Provider against the ClimaCell v3
// realtime endpoint.
type ClimaCellProvider struct {
	name      string
	baseURL   string
	apiKey    string
	transport *transport
}

func NewClimaCellProvider(baseURL, apiKey string, cfg HTTPClientConfig) *ClimaCellProvider {
	if baseURL == "" {
		baseURL = DefaultClimaCellBaseURL
	}
	return &ClimaCellProvider{
		name:      "climacell",
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		transport: newTransport("climacell", cfg),
	}
}

func (p *ClimaCellProvider) Name() string {
	return p.name
}

func (p *ClimaCellProvider) CurrentTemperature(ctx context.Context, at weather.Coordinate, unit weather.Unit) (float64, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", common.FormatCoordinate(at.Lat))
		values.Set("lon", common.FormatCoordinate(at.Lon))
		values.Set("fields", "temp")
		values.Set("unit_system", unitSystem(unit))
		values.Set("apikey", p.apiKey)

		u := fmt.Sprintf("%s/v3/weather/realtime?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	return p.transport.lookup(ctx, buildRequest, decodeClimaCell)
}

// ValidateKey makes one lookup at (0, 0) in metric units. Any failure means
// the key cannot be used.
func (p *ClimaCellProvider) ValidateKey(ctx context.Context) error {
	if p.apiKey == "" {
		return fmt.Errorf("%w: no api key configured", weather.ErrRateLimited)
	}
	_, err := p.CurrentTemperature(ctx, weather.Coordinate{}, weather.Celsius)
	return err
}

// decodeClimaCell reads temp.value from a realtime payload such as
// {"lat":0,"lon":0,"temp":{"value":26.9,"units":"C"},"observation_time":{...}}.
func decodeClimaCell(body []byte) (float64, error) {
	parsed, err := gabs.ParseJSON(body)
	if err != nil {
		return 0, err
	}
	value, ok := parsed.Path("temp.value").Data().(float64)
	if !ok {
		return 0, errEmptyValue
	}
	return value, nil
}

func unitSystem(unit weather.Unit) string {
	if unit == weather.Fahrenheit {
		return "us"
	}
	return "si"
}
