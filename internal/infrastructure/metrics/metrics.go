package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors
type Metrics struct {
	// Refresh attempts by outcome (success|failure)
	RefreshesTotal *prometheus.CounterVec

	// Conversion requests by status (ok|error)
	ConversionsTotal *prometheus.CounterVec

	// HTTP request latency by route
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. Tests should
// pass prometheus.NewRegistry() so repeated construction does not panic
// on duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RefreshesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exchange_rate_refreshes_total",
				Help: "Total rate refresh attempts by outcome.",
			},
			[]string{"outcome"},
		),
		ConversionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "currency_conversions_total",
				Help: "Total conversion requests by status.",
			},
			[]string{"status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
	}
}
