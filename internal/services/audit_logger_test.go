package services

import (
	"context"
	"testing"
	"time"

	"github.com/Renal37/order-integrity/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func sampleReport() models.AuditReport {
	return models.AuditReport{
		Legitimate: []models.ClassificationResult{{OrderID: "l1", Bucket: models.BucketLegitimate}},
		Suspicious: []models.ClassificationResult{{OrderID: "s1", Bucket: models.BucketSuspicious, Reasons: []string{"owning user is inactive"}}},
		Dummy: []models.ClassificationResult{
			{OrderID: "d1", OrderNumber: "DEMO-1", Bucket: models.BucketDummy, Reasons: []string{"order number has DEMO- prefix"}},
			{OrderID: "d2", OrderNumber: "TEST-2", Bucket: models.BucketDummy, Reasons: []string{"order number has TEST- prefix"}},
		},
	}
}

func TestCleanupStatus(t *testing.T) {
	testCases := []struct {
		testName string
		outcome  models.CleanupOutcome
		expected models.CleanupStatus
	}{
		{testName: "Пробный прогон", outcome: models.CleanupOutcome{DryRun: true}, expected: models.CleanupStatusDryRun},
		{testName: "Нечего удалять", outcome: models.CleanupOutcome{}, expected: models.CleanupStatusSuccess},
		{testName: "Все удалено", outcome: models.CleanupOutcome{Attempted: 2, Succeeded: 2}, expected: models.CleanupStatusSuccess},
		{testName: "Часть с ошибками", outcome: models.CleanupOutcome{Attempted: 2, Succeeded: 1, Failed: 1}, expected: models.CleanupStatusPartial},
		{testName: "Все с ошибками", outcome: models.CleanupOutcome{Attempted: 2, Failed: 2}, expected: models.CleanupStatusFailed},
		{testName: "Прерван по бюджету", outcome: models.CleanupOutcome{Attempted: 1, Succeeded: 1, Interrupted: true, NotStarted: 3}, expected: models.CleanupStatusInterrupted},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			assert.Equal(t, tc.expected, cleanupStatus(tc.outcome))
		})
	}
}

func TestAuditLogger_Record(t *testing.T) {
	logs := observeLogs(t)

	store := newFakeStore()
	auditLogger := NewAuditLogger(store, nil)
	report := sampleReport()
	startedAt := time.Now().Add(-time.Second)

	outcome := models.CleanupOutcome{
		Candidates: []models.DeletedOrder{{OrderID: "d1"}, {OrderID: "d2"}},
		Deleted:    []models.DeletedOrder{{OrderID: "d1", OrderNumber: "DEMO-1", Reasons: report.Dummy[0].Reasons}},
		Failures:   []models.DeletionFailure{{OrderID: "d2", Stage: models.StageItems, Error: "boom"}},
		Attempted:  2,
		Succeeded:  1,
		Failed:     1,
	}

	entry := auditLogger.Record(context.Background(), report, outcome, startedAt)

	_, err := uuid.Parse(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CleanupStatusPartial, entry.Status)
	assert.Equal(t, 4, entry.TotalAudited)
	assert.Equal(t, 1, entry.Legitimate)
	assert.Equal(t, 1, entry.Suspicious)
	assert.Equal(t, 2, entry.Dummy)
	assert.Equal(t, 2, entry.Candidates)
	assert.Equal(t, 1, entry.Deleted)
	assert.Equal(t, 1, entry.Failed)
	assert.Equal(t, outcome.Deleted, entry.DeletedOrders)
	assert.Equal(t, startedAt.UTC(), entry.RunAt)
	assert.GreaterOrEqual(t, entry.Duration, time.Second)

	require.Len(t, store.logs, 1)
	assert.Equal(t, entry, store.logs[0])

	finished := logs.FilterMessage("cleanup run finished").All()
	require.Len(t, finished, 1)
	assert.Contains(t, finished[0].ContextMap()["error"], "заказ d2 (этап items): boom", "ошибки удаления попадают в итоговую запись лога")
}

func TestAuditLogger_RecordWithoutFailures(t *testing.T) {
	logs := observeLogs(t)

	outcome := models.CleanupOutcome{
		Candidates: []models.DeletedOrder{{OrderID: "d1"}},
		Deleted:    []models.DeletedOrder{{OrderID: "d1"}},
		Attempted:  1,
		Succeeded:  1,
	}

	NewAuditLogger(newFakeStore(), nil).Record(context.Background(), sampleReport(), outcome, time.Now())

	finished := logs.FilterMessage("cleanup run finished").All()
	require.Len(t, finished, 1)
	assert.NotContains(t, finished[0].ContextMap(), "error")
}

func TestAuditLogger_DryRunIsNotPersisted(t *testing.T) {
	logs := observeLogs(t)

	store := newFakeStore()
	outcome := models.CleanupOutcome{
		DryRun:     true,
		Candidates: []models.DeletedOrder{{OrderID: "d1"}, {OrderID: "d2"}},
	}

	entry := NewAuditLogger(store, nil).Record(context.Background(), sampleReport(), outcome, time.Now())

	assert.Empty(t, store.logs)
	assert.Equal(t, models.CleanupStatusDryRun, entry.Status)
	assert.Equal(t, outcome.Candidates, entry.DeletedOrders)
	assert.Equal(t, 2, entry.Candidates)
	assert.Zero(t, entry.Deleted, "в пробном прогоне ничего не удаляется")

	finished := logs.FilterMessage("cleanup run finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, int64(0), finished[0].ContextMap()["deleted"])
	assert.Equal(t, int64(2), finished[0].ContextMap()["candidates"])
}

func TestAuditLogger_FallbackSink(t *testing.T) {
	logs := observeLogs(t)

	store := newFakeStore()
	store.insertErr = errStoreUnavailable

	fallbackCore, fallbackLogs := observer.New(zap.InfoLevel)
	auditLogger := NewAuditLogger(store, zap.New(fallbackCore))

	outcome := models.CleanupOutcome{
		Deleted:   []models.DeletedOrder{{OrderID: "d1"}},
		Attempted: 1,
		Succeeded: 1,
	}

	var entry models.CleanupLogEntry
	require.NotPanics(t, func() {
		entry = auditLogger.Record(context.Background(), sampleReport(), outcome, time.Now())
	})

	assert.Equal(t, models.CleanupStatusSuccess, entry.Status, "ошибка журнала не меняет результат очистки")
	assert.Equal(t, 1, logs.FilterMessage("cleanup log entry not persisted").Len())

	fallback := fallbackLogs.All()
	require.Len(t, fallback, 1)
	assert.Equal(t, errStoreUnavailable.Error(), fallback[0].ContextMap()["error"])
	assert.Contains(t, fallback[0].ContextMap(), "entry")
}

func TestAuditLogger_PersistsAfterCancellation(t *testing.T) {
	observeLogs(t)

	store := newFakeStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	NewAuditLogger(store, nil).Record(ctx, sampleReport(), models.CleanupOutcome{}, time.Now())
	assert.Len(t, store.logs, 1)
}
