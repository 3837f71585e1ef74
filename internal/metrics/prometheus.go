package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// IntegrityMetrics метрики классификации и очистки заказов.
// Все методы допускают nil-получатель.
type IntegrityMetrics struct {
	registry         *prometheus.Registry
	auditRuns        prometheus.Counter
	classified       *prometheus.CounterVec
	deleted          prometheus.Counter
	deletionFailures *prometheus.CounterVec
	cycles           *prometheus.CounterVec
	cycleDuration    prometheus.Histogram
	hiddenOnRead     prometheus.Counter
}

func NewIntegrityMetrics() *IntegrityMetrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &IntegrityMetrics{
		registry: registry,
		auditRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "order_integrity",
			Name:      "audit_runs_total",
			Help:      "Total number of audit runs",
		}),
		classified: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "order_integrity",
			Name:      "orders_classified_total",
			Help:      "Orders classified by audit runs, by bucket",
		}, []string{"bucket"}),
		deleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "order_integrity",
			Name:      "orders_deleted_total",
			Help:      "Dummy orders physically deleted",
		}),
		deletionFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "order_integrity",
			Name:      "deletion_failures_total",
			Help:      "Failed order deletions, by stage",
		}, []string{"stage"}),
		cycles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "order_integrity",
			Name:      "cleanup_cycles_total",
			Help:      "Cleanup cycles, by status (including skipped ticks)",
		}, []string{"status"}),
		cycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "order_integrity",
			Name:      "cleanup_cycle_duration_seconds",
			Help:      "Duration of audit and cleanup cycles",
			Buckets:   prometheus.DefBuckets,
		}),
		hiddenOnRead: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "order_integrity",
			Name:      "read_hidden_orders_total",
			Help:      "Dummy orders hidden from read paths",
		}),
	}
}

func (m *IntegrityMetrics) RecordAudit(buckets map[string]int) {
	if m == nil {
		return
	}
	m.auditRuns.Inc()
	for bucket, n := range buckets {
		m.classified.WithLabelValues(bucket).Add(float64(n))
	}
}

func (m *IntegrityMetrics) RecordDeleted() {
	if m == nil {
		return
	}
	m.deleted.Inc()
}

func (m *IntegrityMetrics) RecordDeletionFailure(stage string) {
	if m == nil {
		return
	}
	m.deletionFailures.WithLabelValues(stage).Inc()
}

func (m *IntegrityMetrics) RecordCycle(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(status).Inc()
	m.cycleDuration.Observe(duration.Seconds())
}

func (m *IntegrityMetrics) RecordSkippedTick() {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues("skipped").Inc()
}

func (m *IntegrityMetrics) RecordHidden(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.hiddenOnRead.Add(float64(n))
}

// Registry нужен тестам и внешним экспортерам.
func (m *IntegrityMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *IntegrityMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
