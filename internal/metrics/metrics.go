package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	Registry *prometheus.Registry

	remoteRequests *prometheus.CounterVec
	cacheReads     *prometheus.CounterVec
	imported       *prometheus.CounterVec
	migrations     prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		remoteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ttscore",
			Name:      "remote_requests_total",
			Help:      "TabT API requests by action and HTTP status (0 on transport failure).",
		}, []string{"action", "status"}),
		cacheReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ttscore",
			Name:      "cache_reads_total",
			Help:      "Local cache reads by table and outcome.",
		}, []string{"table", "outcome"}),
		imported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ttscore",
			Name:      "imported_entities_total",
			Help:      "Entities saved into the local cache by remote imports.",
		}, []string{"table"}),
		migrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ttscore",
			Name:      "schema_migrations_total",
			Help:      "Schema migration runs that advanced the store version.",
		}),
	}

	reg.MustRegister(m.remoteRequests, m.cacheReads, m.imported, m.migrations)
	return m
}

func (m *Metrics) RemoteRequest(action string, status int) {
	if m == nil {
		return
	}
	m.remoteRequests.WithLabelValues(action, strconv.Itoa(status)).Inc()
}

func (m *Metrics) CacheRead(table string, hit bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.cacheReads.WithLabelValues(table, outcome).Inc()
}

func (m *Metrics) Imported(table string) {
	if m == nil {
		return
	}
	m.imported.WithLabelValues(table).Inc()
}

func (m *Metrics) MigrationApplied() {
	if m == nil {
		return
	}
	m.migrations.Inc()
}
