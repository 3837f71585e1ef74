package services

import (
	"context"
	"errors"

	"github.com/Renal37/order-integrity/internal/database"
	"github.com/Renal37/order-integrity/internal/logger"
	"github.com/Renal37/order-integrity/internal/metrics"
	"github.com/Renal37/order-integrity/internal/models"
	"github.com/Renal37/order-integrity/internal/rules"
	"go.uber.org/zap"
)

// Определяем ошибки, связанные с заказами
var (
	ErrOrderNotFound = errors.New("заказ не найден")
)

// OrderService представляет сервис чтения заказов пользователя
type OrderService struct {
	storage orderStorage // Хранилище данных для работы с заказами
	rules   *rules.RuleSet
	metrics *metrics.IntegrityMetrics
}

// Интерфейс хранилища для работы с заказами
type orderStorage interface {
	ListOrders(ctx context.Context, filter database.OrderFilter) ([]models.Order, error)
	FindOrder(ctx context.Context, number string) (*models.Order, error)
}

// NewOrderService создает новый экземпляр OrderService
func NewOrderService(storage orderStorage, rs *rules.RuleSet, m *metrics.IntegrityMetrics) *OrderService {
	return &OrderService{storage: storage, rules: rs, metrics: m}
}

// GetOrders возвращает видимые заказы пользователя в порядке создания.
// Тестовые заказы скрываются независимо от того, выполнялась ли очистка.
func (o *OrderService) GetOrders(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := o.storage.ListOrders(ctx, database.OrderFilter{UserID: userID})
	if err != nil {
		return []models.Order{}, err
	}

	visible := FilterVisible(orders, o.rules)

	if removed := len(orders) - len(visible); removed > 0 {
		o.metrics.RecordHidden(removed)
		logger.Log.Info("dummy orders removed from response",
			zap.String("user_id", userID),
			zap.Int("removed", removed),
			zap.Int("total", len(orders)),
		)
	}

	return visible, nil
}

// GetOrder возвращает заказ пользователя по номеру.
// Чужой и тестовый заказ неотличимы от отсутствующего.
func (o *OrderService) GetOrder(ctx context.Context, userID, number string) (*models.Order, error) {
	order, err := o.storage.FindOrder(ctx, number)
	if err != nil {
		return nil, err
	}

	if order == nil || order.UserID != userID {
		return nil, ErrOrderNotFound
	}

	if !IsVisible(*order, o.rules) {
		o.metrics.RecordHidden(1)
		logger.Log.Info("dummy order hidden from response",
			zap.String("user_id", userID),
			zap.String("order_number", number),
		)
		return nil, ErrOrderNotFound
	}

	return order, nil
}
