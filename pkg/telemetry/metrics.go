package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for devrig.
type Metrics struct {
	config MetricsConfig

	// Pass metrics
	runsCompleted *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec

	// Changer metrics
	changersProcessed *prometheus.CounterVec
	changerDuration   *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		// Return a no-op metrics instance
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		runsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_completed_total",
				Help:      "Total number of engine passes completed",
			},
			[]string{"verb", "status"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of engine passes in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"verb", "status"},
		),

		changersProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "changers_processed_total",
				Help:      "Total number of state changers processed",
			},
			[]string{"verb", "result"},
		),
		changerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "changer_duration_seconds",
				Help:      "Duration of state changer operations in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"verb"},
		),
	}

	registry.MustRegister(
		m.runsCompleted,
		m.runDuration,
		m.changersProcessed,
		m.changerDuration,
	)

	return m, nil
}

// RecordRunCompleted records a completed engine pass with its status and duration.
func (m *Metrics) RecordRunCompleted(verb, status string, duration time.Duration) {
	if m.runsCompleted == nil {
		return
	}
	m.runsCompleted.WithLabelValues(verb, status).Inc()
	m.runDuration.WithLabelValues(verb, status).Observe(duration.Seconds())
}

// RecordChangerProcessed records the outcome of a single state changer.
// Result is SUCCESS, FAILED, WARN or skipped.
func (m *Metrics) RecordChangerProcessed(verb, result string, duration time.Duration) {
	if m.changersProcessed == nil {
		return
	}
	m.changersProcessed.WithLabelValues(verb, result).Inc()
	m.changerDuration.WithLabelValues(verb).Observe(duration.Seconds())
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// StartMetricsServer starts an HTTP server to expose metrics. It is a
// no-op when metrics are disabled or no listen address is configured.
func (m *Metrics) StartMetricsServer() error {
	if !m.config.Enabled || m.config.ListenAddress == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())

	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("metrics server error: %v\n", err)
		}
	}()

	return nil
}
