// Package metrics exposes Prometheus collectors for the background jobs, RPC
// calls and the audit queue.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "horses"

// Metrics holds the collectors of one process.
type Metrics struct {
	registry *prometheus.Registry

	SweepRuns     *prometheus.CounterVec
	SweepFailures *prometheus.CounterVec
	SweepDuration *prometheus.HistogramVec
	OverdueMarked prometheus.Counter
	PrizesApplied prometheus.Counter
	Backups       *prometheus.CounterVec
	LastBackup    prometheus.Gauge
	RPCDuration   *prometheus.HistogramVec

	AuditEventsDropped prometheus.Counter
	AuditSaveFailures  prometheus.Counter
}

// New registers every collector on a fresh registry, together with the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SweepRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_runs_total",
			Help:      "Background sweep runs by sweep name.",
		}, []string{"sweep"}),
		SweepFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_unit_failures_total",
			Help:      "Units of work rolled back during a sweep.",
		}, []string{"sweep"}),
		SweepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Wall time of one sweep run.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"sweep"}),
		OverdueMarked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "installments_marked_overdue_total",
			Help:      "Share installments moved to OVERDUE.",
		}),
		PrizesApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prizes_applied_total",
			Help:      "Matured PREMIO transactions applied.",
		}),
		Backups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backups_total",
			Help:      "Database backups by result.",
		}, []string{"result"}),
		LastBackup: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_backup_timestamp_seconds",
			Help:      "Unix time of the last successful backup.",
		}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
		AuditEventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_events_dropped_total",
			Help:      "Audit events dropped because the queue was full or closed.",
		}),
		AuditSaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_save_failures_total",
			Help:      "Audit events the event store failed to save.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.SweepRuns,
		m.SweepFailures,
		m.SweepDuration,
		m.OverdueMarked,
		m.PrizesApplied,
		m.Backups,
		m.LastBackup,
		m.RPCDuration,
		m.AuditEventsDropped,
		m.AuditSaveFailures,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveSweep records one sweep run.
func (m *Metrics) ObserveSweep(sweep string, took time.Duration, failed int) {
	m.SweepRuns.WithLabelValues(sweep).Inc()
	m.SweepDuration.WithLabelValues(sweep).Observe(took.Seconds())
	if failed > 0 {
		m.SweepFailures.WithLabelValues(sweep).Add(float64(failed))
	}
}

// ObserveBackup records one backup attempt.
func (m *Metrics) ObserveBackup(at time.Time, err error) {
	if err != nil {
		m.Backups.WithLabelValues("error").Inc()
		return
	}
	m.Backups.WithLabelValues("ok").Inc()
	m.LastBackup.Set(float64(at.Unix()))
}

// ObserveRPC records the latency of one RPC.
func (m *Metrics) ObserveRPC(procedure, code string, took time.Duration) {
	m.RPCDuration.WithLabelValues(procedure, code).Observe(took.Seconds())
}
