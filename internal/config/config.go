package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderClimaCell = "climacell"
	ProviderOpenMeteo = "openmeteo"
)

type AppConfig struct {
	Port string

	// Provider selects the remote temperature service.
	Provider         string
	ClimaCellAPIKey  string
	ClimaCellBaseURL string
	OpenMeteoBaseURL string

	// GeocoderAPIKey enables reverse-geocoded labels for single points.
	GeocoderAPIKey string

	CitiesCSV   string
	HTTPTimeout time.Duration

	MatchThreshold int
	MaxCities      int
	MatchCacheTTL  time.Duration

	// KeyCheckInterval of 0 disables the periodic key check.
	KeyCheckInterval   time.Duration
	ValidateKeyOnStart bool

	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration with sensible defaults. Values come from, lowest
// precedence first: defaults, the YAML file named by CONFIG_FILE, the
// environment (including a .env file).
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	src, err := newSource(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}

	cfg := &AppConfig{
		Port:             src.getenvDefault("PORT", "8080"),
		Provider:         strings.ToLower(src.getenvDefault("WEATHER_PROVIDER", ProviderClimaCell)),
		ClimaCellAPIKey:  src.getenvDefault("CLIMACELL_API_KEY", src.getenvDefault("CLIMACELL_API", "")),
		ClimaCellBaseURL: src.getenvDefault("CLIMACELL_BASE_URL", "https://api.climacell.co"),
		OpenMeteoBaseURL: src.getenvDefault("OPENMETEO_BASE_URL", "https://api.open-meteo.com"),
		GeocoderAPIKey:   src.getenvDefault("GEOCODER_API_KEY", ""),
		CitiesCSV:        src.getenvDefault("CITIES_CSV", "data/worldcities.csv"),
		LogLevel:         src.getenvDefault("LOG_LEVEL", "info"),
		LogFormat:        src.getenvDefault("LOG_FORMAT", "json"),
	}

	if cfg.HTTPTimeout, err = src.getenvDuration("HTTP_TIMEOUT", "10s", false); err != nil {
		return nil, err
	}
	if cfg.MatchCacheTTL, err = src.getenvDuration("MATCH_CACHE_TTL", "10m", false); err != nil {
		return nil, err
	}
	if cfg.KeyCheckInterval, err = src.getenvDuration("KEY_CHECK_INTERVAL", "0", true); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = src.getenvDuration("SHUTDOWN_TIMEOUT", "10s", false); err != nil {
		return nil, err
	}

	if cfg.MatchThreshold, err = src.getenvInt("MATCH_THRESHOLD", 80); err != nil {
		return nil, err
	}
	if cfg.MatchThreshold < 1 || cfg.MatchThreshold > 100 {
		return nil, fmt.Errorf("invalid MATCH_THRESHOLD: %d is outside 1-100", cfg.MatchThreshold)
	}

	if cfg.MaxCities, err = src.getenvInt("MAX_CITIES", 25); err != nil {
		return nil, err
	}
	if cfg.MaxCities < 1 || cfg.MaxCities > 25 {
		return nil, fmt.Errorf("invalid MAX_CITIES: %d is outside 1-25", cfg.MaxCities)
	}

	validate := src.getenvDefault("VALIDATE_KEY_ON_START", "false")
	if cfg.ValidateKeyOnStart, err = strconv.ParseBool(validate); err != nil {
		return nil, fmt.Errorf("invalid VALIDATE_KEY_ON_START: %w", err)
	}

	switch cfg.Provider {
	case ProviderClimaCell, ProviderOpenMeteo:
	default:
		return nil, fmt.Errorf("invalid WEATHER_PROVIDER: %q (want %s or %s)", cfg.Provider, ProviderClimaCell, ProviderOpenMeteo)
	}

	return cfg, nil
}

// source resolves a key from the environment first, then the config file.
type source struct {
	file map[string]string
}

func newSource(path string) (source, error) {
	s := source{file: map[string]string{}}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read CONFIG_FILE: %w", err)
	}

	// Keys in the file use the environment variable names, e.g. "MATCH_THRESHOLD: 85".
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return s, fmt.Errorf("parse CONFIG_FILE %s: %w", path, err)
	}
	for k, v := range raw {
		if v == nil {
			continue
		}
		s.file[strings.ToUpper(k)] = fmt.Sprint(v)
	}
	return s, nil
}

func (s source) getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v, ok := s.file[key]; ok && v != "" {
		return v
	}
	return def
}

func (s source) getenvInt(key string, def int) (int, error) {
	v := s.getenvDefault(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func (s source) getenvDuration(key, def string, allowZero bool) (time.Duration, error) {
	d, err := time.ParseDuration(s.getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 || (d == 0 && !allowZero) {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
