// Package metrics exposes Prometheus counters for settings persistence.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inspectnet"

// Metrics records store and validation activity. It satisfies
// store.Observer and service.DiagnosticsRecorder.
type Metrics struct {
	registry    *prometheus.Registry
	saves       prometheus.Counter
	savedBytes  prometheus.Gauge
	migrations  prometheus.Counter
	diagnostics prometheus.Gauge
}

// New creates a Metrics backed by its own registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		saves: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "saves_total",
			Help:      "Total settings blobs written",
		}),
		savedBytes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "blob_bytes",
			Help:      "Size of the last written settings blob",
		}),
		migrations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "migrations_total",
			Help:      "Total legacy or absent blobs migrated to the current schema",
		}),
		diagnostics: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "diagnostics",
			Help:      "Diagnostics reported for the current settings",
		}),
	}
}

// Saved records a blob write of size bytes
func (m *Metrics) Saved(size int) {
	m.saves.Inc()
	m.savedBytes.Set(float64(size))
}

// Migrated records a migration
func (m *Metrics) Migrated() {
	m.migrations.Inc()
}

// Diagnostics records the current diagnostic count
func (m *Metrics) Diagnostics(count int) {
	m.diagnostics.Set(float64(count))
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
