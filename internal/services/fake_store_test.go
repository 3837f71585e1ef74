package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Renal37/order-integrity/internal/database"
	"github.com/Renal37/order-integrity/internal/models"
	"github.com/Renal37/order-integrity/internal/utils"
	"github.com/shopspring/decimal"
)

// fakeStore хранилище в памяти, повторяющее поведение внешних ключей PostgreSQL.
type fakeStore struct {
	mu     sync.Mutex
	orders []models.Order
	logs   []models.CleanupLogEntry
	calls  []string

	listErr   error
	insertErr error
	itemsErr  map[string]error
	orderErr  map[string]error

	// afterDelete вызывается после успешного удаления заказа.
	afterDelete func(orderID string)
}

func newFakeStore(orders ...models.Order) *fakeStore {
	return &fakeStore{
		orders:   orders,
		itemsErr: map[string]error{},
		orderErr: map[string]error{},
	}
}

func (f *fakeStore) ListOrders(_ context.Context, filter database.OrderFilter) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}

	result := []models.Order{}
	for _, o := range f.orders {
		if filter.UserID != "" && o.UserID != filter.UserID {
			continue
		}
		if filter.Number != "" && o.Number != filter.Number {
			continue
		}
		result = append(result, o)
	}
	return result, nil
}

func (f *fakeStore) FindOrder(ctx context.Context, number string) (*models.Order, error) {
	orders, err := f.ListOrders(ctx, database.OrderFilter{Number: number})
	if err != nil || len(orders) == 0 {
		return nil, err
	}
	return &orders[0], nil
}

func (f *fakeStore) DeleteOrderItems(_ context.Context, orderID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, "items:"+orderID)
	if err := f.itemsErr[orderID]; err != nil {
		return 0, err
	}

	for i := range f.orders {
		if f.orders[i].ID == orderID {
			n := len(f.orders[i].Items)
			f.orders[i].Items = nil
			return int64(n), nil
		}
	}
	return 0, nil
}

func (f *fakeStore) DeleteOrder(_ context.Context, orderID string) (int64, error) {
	f.mu.Lock()

	f.calls = append(f.calls, "order:"+orderID)
	if err := f.orderErr[orderID]; err != nil {
		f.mu.Unlock()
		return 0, err
	}

	for i, o := range f.orders {
		if o.ID != orderID {
			continue
		}
		if len(o.Items) > 0 {
			f.mu.Unlock()
			return 0, fmt.Errorf("%w: order_items_order_id_fkey", database.ErrConstraintViolation)
		}
		f.orders = append(f.orders[:i], f.orders[i+1:]...)
		hook := f.afterDelete
		f.mu.Unlock()

		if hook != nil {
			hook(orderID)
		}
		return 1, nil
	}

	f.mu.Unlock()
	return 0, nil
}

func (f *fakeStore) InsertCleanupLog(_ context.Context, entry models.CleanupLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return f.insertErr
	}
	f.logs = append(f.logs, entry)
	return nil
}

func (f *fakeStore) FindCleanupLogs(_ context.Context, limit int) ([]models.CleanupLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := []models.CleanupLogEntry{}
	for i := len(f.logs) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, f.logs[i])
	}
	return result, nil
}

func (f *fakeStore) counts() (orders, items int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, o := range f.orders {
		orders++
		items += len(o.Items)
	}
	return orders, items
}

var errStoreUnavailable = errors.New("хранилище недоступно")

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// legitimateOrder заказ без единого признака тестовых данных.
func legitimateOrder(id, number string) models.Order {
	return models.Order{
		ID:            id,
		Number:        number,
		UserID:        "user-1",
		Status:        models.StatusConfirmed,
		Total:         decimal.NewFromInt(1800),
		PaymentMethod: models.PaymentCOD,
		CreatedAt:     utils.RFC3339Date{Time: baseTime},
		Items: []models.OrderItem{
			{ProductID: "product-1", SKU: "SHIRT-001", Quantity: 1, UnitPrice: decimal.NewFromInt(1800)},
		},
		Address: &models.Address{FullName: "Priya Sharma", Line1: "12 MG Road", City: "Pune", PostalCode: "411001"},
		User:    &models.User{ID: "user-1", Email: "priya@gmail.com", Name: "Priya", Active: true},
	}
}

// dummyOrder заказ с тестовым префиксом номера и двумя позициями.
func dummyOrder(id, number string) models.Order {
	order := legitimateOrder(id, number)
	order.Items = append(order.Items, models.OrderItem{
		ProductID: "product-2", SKU: "HAT-002", Quantity: 2, UnitPrice: decimal.NewFromInt(100),
	})
	return order
}

func dummyOrders(n int) []models.Order {
	orders := make([]models.Order, 0, n)
	for i := 0; i < n; i++ {
		orders = append(orders, dummyOrder(fmt.Sprintf("dummy-%03d", i), fmt.Sprintf("DEMO-%06d", i)))
	}
	return orders
}
