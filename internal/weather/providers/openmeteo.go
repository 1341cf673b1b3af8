package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// DefaultOpenMeteoBaseURL is the public Open-Meteo API host.
const DefaultOpenMeteoBaseURL = "https://api.open-meteo.com"

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
// It needs no API key.
type OpenMeteoProvider struct {
	name      string
	baseURL   string
	transport *transport
}

func NewOpenMeteoProvider(baseURL string, cfg HTTPClientConfig) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoBaseURL
	}
	return &OpenMeteoProvider{
		name:      "openmeteo",
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: newTransport("openmeteo", cfg),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) CurrentTemperature(ctx context.Context, at weather.Coordinate, unit weather.Unit) (float64, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", common.FormatCoordinate(at.Lat))
		values.Set("longitude", common.FormatCoordinate(at.Lon))
		values.Set("current_weather", "true")
		values.Set("temperature_unit", temperatureUnit(unit))

		u := fmt.Sprintf("%s/v1/forecast?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	return p.transport.lookup(ctx, buildRequest, decodeOpenMeteo)
}

func decodeOpenMeteo(body []byte) (float64, error) {
	var payload struct {
		CurrentWeather *struct {
			Temperature *float64 `json:"temperature"`
			Time        string   `json:"time"`
		} `json:"current_weather"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, err
	}
	if payload.CurrentWeather == nil || payload.CurrentWeather.Temperature == nil {
		return 0, errEmptyValue
	}
	return *payload.CurrentWeather.Temperature, nil
}

func temperatureUnit(unit weather.Unit) string {
	if unit == weather.Fahrenheit {
		return "fahrenheit"
	}
	return "celsius"
}
