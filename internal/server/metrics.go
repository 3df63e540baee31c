package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry   *prometheus.Registry
	runs       *prometheus.CounterVec
	iterations *prometheus.HistogramVec
	active     prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "polyroot_runs_total",
			Help: "Finished root searches by method and status",
		}, []string{"method", "status"}),
		iterations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "polyroot_run_iterations",
			Help:    "Iterations used per root search",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		}, []string{"method"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "polyroot_runs_active",
			Help: "Root searches currently running",
		}),
	}
	m.registry.MustRegister(m.runs, m.iterations, m.active)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
