// Package metrics owns the Prometheus collectors for the delivery pipeline.
package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "notify"

// Metrics groups the collectors touched by the registry, dispatcher and notifier.
type Metrics struct {
	registry *prometheus.Registry

	Connections prometheus.Gauge
	Pushes      *prometheus.CounterVec
	Alerts      *prometheus.CounterVec
}

// New creates a private registry with Go and process collectors plus the
// pipeline's own collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := &Metrics{
		registry: reg,
		Connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_connections",
			Help:      "Number of registered live notification streams.",
		}),
		Pushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pushes_total",
			Help:      "Live push attempts by result.",
		}, []string{"result"}),
		Alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_total",
			Help:      "Alerts processed by notification type and outcome.",
		}, []string{"type", "outcome"}),
	}
	reg.MustRegister(m.Connections, m.Pushes, m.Alerts)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the exposition format for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      promLogger{},
		ErrorHandling: promhttp.ContinueOnError,
	})
}

// promLogger implements promhttp.Logger.
type promLogger struct{}

func (promLogger) Println(v ...interface{}) {
	slog.Error("metrics exposition failed", "err", v)
}
