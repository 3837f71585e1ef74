package services

import (
	"context"
	"testing"

	"github.com/Renal37/order-integrity/internal/database"
	"github.com/Renal37/order-integrity/internal/models"
	"github.com/Renal37/order-integrity/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func auditDummy(t *testing.T, store *fakeStore) []models.ClassificationResult {
	t.Helper()

	report, err := NewAuditService(store, rules.Production(), nil).Audit(context.Background())
	require.NoError(t, err)
	return report.Dummy
}

func TestExecuteCleanup_BatchBound(t *testing.T) {
	observeLogs(t)

	store := newFakeStore(dummyOrders(150)...)
	service := NewCleanupService(store, nil)

	outcome := service.ExecuteCleanup(context.Background(), auditDummy(t, store), 100, false)

	assert.Equal(t, 100, outcome.Attempted)
	assert.Equal(t, 100, outcome.Succeeded)
	assert.Equal(t, 0, outcome.Failed)
	assert.Len(t, outcome.Deleted, 100)
	assert.Equal(t, "dummy-000", outcome.Deleted[0].OrderID)
	assert.Equal(t, "dummy-099", outcome.Deleted[99].OrderID)

	remaining := auditDummy(t, store)
	assert.Len(t, remaining, 50, "остальные заказы будут удалены в следующем прогоне")
	assert.Equal(t, "dummy-100", remaining[0].OrderID)
}

func TestExecuteCleanup_BatchSizes(t *testing.T) {
	observeLogs(t)

	testCases := []struct {
		testName     string
		dummy        int
		maxBatchSize int
		expected     int
	}{
		{testName: "Пакет меньше лимита", dummy: 3, maxBatchSize: 10, expected: 3},
		{testName: "Пакет равен лимиту", dummy: 5, maxBatchSize: 5, expected: 5},
		{testName: "Нулевой лимит", dummy: 5, maxBatchSize: 0, expected: 0},
		{testName: "Отрицательный лимит", dummy: 5, maxBatchSize: -1, expected: 0},
		{testName: "Пустая категория", dummy: 0, maxBatchSize: 10, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			store := newFakeStore(dummyOrders(tc.dummy)...)
			outcome := NewCleanupService(store, nil).ExecuteCleanup(context.Background(), auditDummy(t, store), tc.maxBatchSize, false)

			assert.Equal(t, tc.expected, outcome.Succeeded)
			orders, _ := store.counts()
			assert.Equal(t, tc.dummy-tc.expected, orders)
		})
	}
}

func TestExecuteCleanup_DryRun(t *testing.T) {
	observeLogs(t)

	store := newFakeStore(append(dummyOrders(4), legitimateOrder("l1", "ORD-000100"))...)
	ordersBefore, itemsBefore := store.counts()
	dummy := auditDummy(t, store)

	dry := NewCleanupService(store, nil).ExecuteCleanup(context.Background(), dummy, 3, true)

	ordersAfter, itemsAfter := store.counts()
	assert.Equal(t, ordersBefore, ordersAfter)
	assert.Equal(t, itemsBefore, itemsAfter)
	assert.Empty(t, store.calls)

	assert.True(t, dry.DryRun)
	assert.Equal(t, 0, dry.Attempted)
	assert.Empty(t, dry.Deleted)
	require.Len(t, dry.Candidates, 3)

	executed := NewCleanupService(store, nil).ExecuteCleanup(context.Background(), dummy, 3, false)
	assert.Equal(t, dry.Candidates, executed.Deleted, "пробный прогон сообщает тех же кандидатов, что и настоящий")
}

func TestExecuteCleanup_ItemsBeforeOrder(t *testing.T) {
	observeLogs(t)

	store := newFakeStore(dummyOrders(2)...)
	NewCleanupService(store, nil).ExecuteCleanup(context.Background(), auditDummy(t, store), 10, false)

	assert.Equal(t, []string{
		"items:dummy-000", "order:dummy-000",
		"items:dummy-001", "order:dummy-001",
	}, store.calls)
}

func TestExecuteCleanup_FailuresDoNotAbortBatch(t *testing.T) {
	logs := observeLogs(t)

	store := newFakeStore(dummyOrders(4)...)
	store.itemsErr["dummy-000"] = errStoreUnavailable
	store.orderErr["dummy-002"] = errStoreUnavailable

	dummy := auditDummy(t, store)
	outcome := NewCleanupService(store, nil).ExecuteCleanup(context.Background(), dummy, 10, false)

	assert.Equal(t, 4, outcome.Attempted)
	assert.Equal(t, 2, outcome.Succeeded)
	assert.Equal(t, 2, outcome.Failed)

	require.Len(t, outcome.Failures, 2)
	assert.Equal(t, models.DeletionFailure{
		OrderID: "dummy-000",
		Stage:   models.StageItems,
		Error:   errStoreUnavailable.Error(),
	}, outcome.Failures[0])
	assert.Equal(t, models.DeletionFailure{
		OrderID: "dummy-002",
		Stage:   models.StageOrder,
		Partial: true,
		Error:   errStoreUnavailable.Error(),
	}, outcome.Failures[1])

	assert.Equal(t, 1, logs.FilterMessage("order deletion failed").FilterField(zap.Bool("partial", true)).Len())

	err := outcome.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dummy-000")
	assert.Contains(t, err.Error(), "dummy-002")

	// Синхронных повторов нет: каждый заказ удалялся один раз.
	assert.Equal(t, []string{
		"items:dummy-000",
		"items:dummy-001", "order:dummy-001",
		"items:dummy-002", "order:dummy-002",
		"items:dummy-003", "order:dummy-003",
	}, store.calls)

	remaining := auditDummy(t, store)
	assert.Len(t, remaining, 2, "заказы с ошибкой остаются тестовыми до следующего прогона")
}

func TestExecuteCleanup_OrderRowNotDeleted(t *testing.T) {
	observeLogs(t)

	store := newFakeStore()
	dummy := []models.ClassificationResult{{OrderID: "gone", OrderNumber: "DEMO-1", Bucket: models.BucketDummy, Reasons: []string{"x"}}}

	outcome := NewCleanupService(store, nil).ExecuteCleanup(context.Background(), dummy, 10, false)

	require.Len(t, outcome.Failures, 1)
	assert.Equal(t, models.StageOrder, outcome.Failures[0].Stage)
	assert.False(t, outcome.Failures[0].Partial)
	assert.Equal(t, ErrOrderNotDeleted.Error(), outcome.Failures[0].Error)
}

func TestExecuteCleanup_ConstraintViolation(t *testing.T) {
	observeLogs(t)

	store := newFakeStore(dummyOrders(1)...)
	dummy := auditDummy(t, store)

	// Позиции остаются на месте, поэтому удаление заказа упирается во внешний ключ.
	service := NewCleanupService(&skipItemsStore{store}, nil)
	outcome := service.ExecuteCleanup(context.Background(), dummy, 10, false)

	require.Len(t, outcome.Failures, 1)
	assert.Contains(t, outcome.Failures[0].Error, database.ErrConstraintViolation.Error())
	orders, items := store.counts()
	assert.Equal(t, 1, orders)
	assert.Equal(t, 2, items)
}

// skipItemsStore сообщает об удалении позиций, ничего не удаляя.
type skipItemsStore struct {
	*fakeStore
}

func (s *skipItemsStore) DeleteOrderItems(context.Context, string) (int64, error) {
	return 0, nil
}

func TestExecuteCleanup_Interrupted(t *testing.T) {
	observeLogs(t)

	store := newFakeStore(dummyOrders(5)...)
	dummy := auditDummy(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Бюджет истекает во время удаления второго заказа.
	store.afterDelete = func(orderID string) {
		if orderID == "dummy-001" {
			cancel()
		}
	}

	outcome := NewCleanupService(store, nil).ExecuteCleanup(ctx, dummy, 10, false)

	assert.True(t, outcome.Interrupted)
	assert.Equal(t, 2, outcome.Attempted)
	assert.Equal(t, 2, outcome.Succeeded)
	assert.Equal(t, 3, outcome.NotStarted)
	assert.Empty(t, outcome.Failures, "начатое удаление доводится до конца")
}

func TestExecuteCleanup_CancelledBeforeStart(t *testing.T) {
	observeLogs(t)

	store := newFakeStore(dummyOrders(3)...)
	dummy := auditDummy(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := NewCleanupService(store, nil).ExecuteCleanup(ctx, dummy, 2, false)

	assert.True(t, outcome.Interrupted)
	assert.Equal(t, 0, outcome.Attempted)
	assert.Equal(t, 2, outcome.NotStarted)
	assert.Empty(t, store.calls)
	assert.NoError(t, outcome.Err())
}
