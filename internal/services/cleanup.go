package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Renal37/order-integrity/internal/logger"
	"github.com/Renal37/order-integrity/internal/metrics"
	"github.com/Renal37/order-integrity/internal/models"
	"go.uber.org/zap"
)

var (
	ErrOrderNotDeleted = errors.New("строка заказа не удалена")
)

// DeletionError ошибка удаления одного заказа. Не прерывает пакет.
type DeletionError struct {
	OrderID string
	Stage   models.DeletionStage
	// Partial позиции удалены, строка заказа осталась.
	Partial bool
	Err     error
}

func (e *DeletionError) Error() string {
	if e.Partial {
		return fmt.Sprintf("частичное удаление заказа %s (этап %s): %s", e.OrderID, e.Stage, e.Err)
	}
	return fmt.Sprintf("ошибка удаления заказа %s (этап %s): %s", e.OrderID, e.Stage, e.Err)
}

func (e *DeletionError) Unwrap() error {
	return e.Err
}

// CleanupStorage операции удаления, необходимые очистке
type CleanupStorage interface {
	DeleteOrderItems(ctx context.Context, orderID string) (int64, error)
	DeleteOrder(ctx context.Context, orderID string) (int64, error)
}

// CleanupService удаляет тестовые заказы
type CleanupService struct {
	storage CleanupStorage
	metrics *metrics.IntegrityMetrics
}

func NewCleanupService(storage CleanupStorage, m *metrics.IntegrityMetrics) *CleanupService {
	return &CleanupService{storage: storage, metrics: m}
}

// ExecuteCleanup удаляет не более maxBatchSize заказов из категории Dummy, начиная с первых.
// Ошибка одного заказа фиксируется и не прерывает пакет; повторная попытка будет в следующем прогоне.
// Отмена ctx проверяется между заказами: начатое удаление доводится до конца.
func (c *CleanupService) ExecuteCleanup(ctx context.Context, dummy []models.ClassificationResult, maxBatchSize int, dryRun bool) models.CleanupOutcome {
	selected := selectBatch(dummy, maxBatchSize)

	outcome := models.CleanupOutcome{
		DryRun:     dryRun,
		Candidates: make([]models.DeletedOrder, 0, len(selected)),
		Deleted:    []models.DeletedOrder{},
		Failures:   []models.DeletionFailure{},
	}

	for _, result := range selected {
		outcome.Candidates = append(outcome.Candidates, deletedOrder(result))
	}

	if dryRun {
		logger.Log.Info("dry run, no orders deleted",
			zap.Int("candidates", len(selected)),
			zap.Int("dummy", len(dummy)),
		)
		return outcome
	}

	// Начатое удаление заказа не прерывается отменой ctx.
	opCtx := context.WithoutCancel(ctx)

	for i, result := range selected {
		if ctx.Err() != nil {
			outcome.Interrupted = true
			outcome.NotStarted = len(selected) - i
			logger.Log.Warn("cleanup interrupted",
				zap.Int("not_started", outcome.NotStarted),
				zap.Error(ctx.Err()),
			)
			break
		}

		outcome.Attempted++

		if err := c.deleteOrder(opCtx, result.OrderID); err != nil {
			var de *DeletionError
			if !errors.As(err, &de) {
				de = &DeletionError{OrderID: result.OrderID, Stage: models.StageOrder, Err: err}
			}

			outcome.Failed++
			outcome.Failures = append(outcome.Failures, models.DeletionFailure{
				OrderID: de.OrderID,
				Stage:   de.Stage,
				Partial: de.Partial,
				Error:   de.Err.Error(),
			})
			c.metrics.RecordDeletionFailure(string(de.Stage))

			log := logger.Log.Warn
			if de.Partial {
				log = logger.Log.Error
			}
			log("order deletion failed",
				zap.String("order_id", de.OrderID),
				zap.String("order_number", result.OrderNumber),
				zap.String("stage", string(de.Stage)),
				zap.Bool("partial", de.Partial),
				zap.Error(de.Err),
			)
			continue
		}

		outcome.Succeeded++
		outcome.Deleted = append(outcome.Deleted, deletedOrder(result))
		c.metrics.RecordDeleted()
	}

	return outcome
}

// deleteOrder удаляет позиции заказа, затем сам заказ.
func (c *CleanupService) deleteOrder(ctx context.Context, orderID string) error {
	items, err := c.storage.DeleteOrderItems(ctx, orderID)
	if err != nil {
		return &DeletionError{OrderID: orderID, Stage: models.StageItems, Err: err}
	}

	n, err := c.storage.DeleteOrder(ctx, orderID)
	if err == nil && n == 0 {
		err = ErrOrderNotDeleted
	}
	if err != nil {
		return &DeletionError{OrderID: orderID, Stage: models.StageOrder, Partial: items > 0, Err: err}
	}

	return nil
}

func selectBatch(dummy []models.ClassificationResult, maxBatchSize int) []models.ClassificationResult {
	if maxBatchSize <= 0 {
		return nil
	}
	if len(dummy) > maxBatchSize {
		return dummy[:maxBatchSize]
	}
	return dummy
}

func deletedOrder(result models.ClassificationResult) models.DeletedOrder {
	return models.DeletedOrder{
		OrderID:     result.OrderID,
		OrderNumber: result.OrderNumber,
		Reasons:     result.Reasons,
	}
}
