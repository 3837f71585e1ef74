package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestIntegrityMetrics(t *testing.T) {
	m := NewIntegrityMetrics()

	m.RecordAudit(map[string]int{"DUMMY": 3, "LEGITIMATE": 5})
	m.RecordDeleted()
	m.RecordDeleted()
	m.RecordDeletionFailure("order")
	m.RecordCycle("SUCCESS", time.Second)
	m.RecordSkippedTick()
	m.RecordHidden(2)
	m.RecordHidden(0)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.auditRuns))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.classified.WithLabelValues("DUMMY")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.deleted))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.deletionFailures.WithLabelValues("order")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.cycles.WithLabelValues("skipped")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.hiddenOnRead))
}

func TestNilMetricsAreNoop(t *testing.T) {
	var m *IntegrityMetrics

	assert.NotPanics(t, func() {
		m.RecordAudit(map[string]int{"DUMMY": 1})
		m.RecordDeleted()
		m.RecordDeletionFailure("items")
		m.RecordCycle("FAILED", time.Millisecond)
		m.RecordSkippedTick()
		m.RecordHidden(1)
	})
}
