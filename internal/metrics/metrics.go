// Package metrics provides Prometheus metrics for the relay endpoints
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for RequestsTotal.
const (
	OutcomeRejected      = "rejected"
	OutcomeNotConfigured = "not_configured"
	OutcomeDone          = "done"
	OutcomeUpstreamError = "upstream_error"
	OutcomeClientGone    = "client_gone"
)

// Metrics holds all Prometheus metrics for the relay
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	FragmentsTotal  *prometheus.CounterVec
	StreamDuration  *prometheus.HistogramVec
	StreamsInFlight prometheus.Gauge
}

// NewMetrics creates all relay metrics on a fresh registry, together with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{registry: reg}

	m.RequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_relay_requests_total",
			Help: "Total number of relay requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	m.FragmentsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_relay_fragments_total",
			Help: "Total number of text fragments written to clients",
		},
		[]string{"endpoint"},
	)

	m.StreamDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_relay_stream_duration_seconds",
			Help:    "Time from the stream opening to its terminal record",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"endpoint"},
	)

	m.StreamsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_relay_streams_in_flight",
			Help: "Number of relay streams currently open",
		},
	)

	return m
}

// RecordRejected records a request that never opened a stream.
func (m *Metrics) RecordRejected(endpoint, outcome string) {
	m.RequestsTotal.WithLabelValues(endpoint, outcome).Inc()
}

// StreamStarted marks a stream as open and returns the function that closes
// it with the given outcome.
func (m *Metrics) StreamStarted(endpoint string) func(outcome string) {
	start := time.Now()
	m.StreamsInFlight.Inc()
	return func(outcome string) {
		m.StreamsInFlight.Dec()
		m.StreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		m.RequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	}
}

// RecordFragment counts one fragment written to a client.
func (m *Metrics) RecordFragment(endpoint string) {
	m.FragmentsTotal.WithLabelValues(endpoint).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
