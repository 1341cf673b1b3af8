package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the dashboard service.
type Metrics struct {
	LookupRequests *prometheus.CounterVec   // labels: provider, outcome={success,invalid_input,rate_limited}
	LookupDuration *prometheus.HistogramVec // labels: provider
	Resolutions    *prometheus.CounterVec   // labels: mode={coordinate,country_name,country_select}, result={resolved,invalid,no_match}
	MatchCache     *prometheus.CounterVec   // labels: result={hit,miss}
	APIKeyValid    prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.LookupRequests,
		m.LookupDuration,
		m.Resolutions,
		m.MatchCache,
		m.APIKeyValid,
	)
	return m
}

// NewMetricsForTesting creates unregistered metrics so tests can build as many
// as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		LookupRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_dashboard",
			Name:      "lookup_requests_total",
			Help:      "Remote temperature lookups by provider and outcome.",
		}, []string{"provider", "outcome"}),
		LookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_dashboard",
			Name:      "lookup_duration_seconds",
			Help:      "Remote temperature lookup duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_dashboard",
			Name:      "resolutions_total",
			Help:      "Location resolutions by input mode and result.",
		}, []string{"mode", "result"}),
		MatchCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_dashboard",
			Name:      "match_cache_total",
			Help:      "Fuzzy country match memo lookups by result.",
		}, []string{"result"}),
		APIKeyValid: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_dashboard",
			Name:      "api_key_valid",
			Help:      "1 when the last API key check succeeded, 0 otherwise.",
		}),
	}
}
