package database

import (
	"context"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/Renal37/order-integrity/internal/models"
	"github.com/Renal37/order-integrity/internal/utils"
	"github.com/shopspring/decimal"
)

// SQL-запросы для работы с заказами
const (
	// Пустой параметр означает отсутствие фильтра.
	SelectOrdersQuery = `
		SELECT
			o.id::text,
			o.order_number,
			o.user_id::text,
			o.status,
			o.total::text,
			o.payment_method,
			coalesce(o.notes, ''),
			o.created_at,
			u.email,
			u.name,
			u.is_active,
			u.is_admin,
			a.id IS NOT NULL,
			coalesce(a.full_name, ''),
			coalesce(a.line1, ''),
			coalesce(a.line2, ''),
			coalesce(a.city, ''),
			coalesce(a.state, ''),
			coalesce(a.postal_code, '')
		FROM
			orders o
			LEFT JOIN users u ON u.id = o.user_id
			LEFT JOIN addresses a ON a.id = o.address_id
		WHERE
			($1 = '' OR o.user_id::text = $1)
			AND ($2 = '' OR o.order_number = $2)
		ORDER BY
			o.created_at, o.id
	`
	SelectOrderItemsQuery = `
		SELECT
			oi.order_id::text,
			oi.product_id::text,
			p.sku,
			oi.quantity,
			oi.unit_price::text
		FROM
			order_items oi
			JOIN orders o ON o.id = oi.order_id
			LEFT JOIN products p ON p.id = oi.product_id
		WHERE
			($1 = '' OR o.user_id::text = $1)
			AND ($2 = '' OR o.order_number = $2)
		ORDER BY
			oi.order_id, oi.id
	`
	DeleteOrderItemsQuery = `
		DELETE FROM
			order_items
		WHERE
			order_id = $1
	`
	DeleteOrderQuery = `
		DELETE FROM
			orders
		WHERE
			id = $1
	`
)

// OrderFilter ограничивает выборку заказов. Пустой фильтр выбирает всю таблицу.
type OrderFilter struct {
	UserID string
	Number string
}

// OrderStatusDB статус заказа с преобразованием в/из базы данных
type OrderStatusDB struct {
	models.OrderStatus
}

// Scan реализация sql.Scanner
func (s *OrderStatusDB) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		return fmt.Errorf("статус заказа должен быть строкой, а не %T", value)
	}

	*s = OrderStatusDB{models.OrderStatus(strVal)}
	return nil
}

// Value реализация driver.Valuer
func (s OrderStatusDB) Value() (driver.Value, error) {
	return string(s.OrderStatus), nil
}

// OrderDB строка заказа вместе с пользователем и адресом
type OrderDB struct {
	ID            string
	Number        string
	UserID        string
	Status        OrderStatusDB
	Total         string
	PaymentMethod string
	Notes         string
	CreatedAt     time.Time

	UserEmail  *string
	UserName   *string
	UserActive *bool
	UserAdmin  *bool

	HasAddress bool
	Address    models.Address
}

// OrderItemDB строка позиции заказа; product_id и sku могут быть NULL
type OrderItemDB struct {
	OrderID   string
	ProductID *string
	SKU       *string
	Quantity  int
	UnitPrice string
}

func (row OrderDB) toModel() (models.Order, error) {
	total, err := decimal.NewFromString(row.Total)
	if err != nil {
		return models.Order{}, fmt.Errorf("некорректная сумма заказа %s: %w", row.ID, err)
	}

	order := models.Order{
		ID:            row.ID,
		Number:        row.Number,
		UserID:        row.UserID,
		Status:        row.Status.OrderStatus,
		Total:         total,
		PaymentMethod: models.PaymentMethod(row.PaymentMethod),
		Notes:         row.Notes,
		CreatedAt:     utils.RFC3339Date{Time: row.CreatedAt},
	}

	if row.UserEmail != nil {
		order.User = &models.User{
			ID:     row.UserID,
			Email:  *row.UserEmail,
			Name:   deref(row.UserName),
			Active: row.UserActive != nil && *row.UserActive,
			Admin:  row.UserAdmin != nil && *row.UserAdmin,
		}
	}

	if row.HasAddress {
		address := row.Address
		order.Address = &address
	}

	return order, nil
}

func (row OrderItemDB) toModel() (models.OrderItem, error) {
	price, err := decimal.NewFromString(row.UnitPrice)
	if err != nil {
		return models.OrderItem{}, fmt.Errorf("некорректная цена позиции заказа %s: %w", row.OrderID, err)
	}

	return models.OrderItem{
		ProductID: deref(row.ProductID),
		SKU:       deref(row.SKU),
		Quantity:  row.Quantity,
		UnitPrice: price,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ListOrders возвращает заказы с пользователем, адресом и позициями в порядке создания.
func (d *Database) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	rows, err := d.db.Query(ctx, SelectOrdersQuery, filter.UserID, filter.Number)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска заказов: %w", err)
	}
	defer rows.Close()

	var result []models.Order
	index := make(map[string]int)

	for rows.Next() {
		var row OrderDB
		if err := rows.Scan(
			&row.ID, &row.Number, &row.UserID, &row.Status, &row.Total, &row.PaymentMethod, &row.Notes, &row.CreatedAt,
			&row.UserEmail, &row.UserName, &row.UserActive, &row.UserAdmin,
			&row.HasAddress, &row.Address.FullName, &row.Address.Line1, &row.Address.Line2,
			&row.Address.City, &row.Address.State, &row.Address.PostalCode,
		); err != nil {
			return nil, fmt.Errorf("ошибка обработки строки с заказом: %w", err)
		}

		order, err := row.toModel()
		if err != nil {
			return nil, err
		}

		index[order.ID] = len(result)
		result = append(result, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации по строкам: %w", err)
	}

	if len(result) == 0 {
		return result, nil
	}

	if err := d.attachItems(ctx, filter, result, index); err != nil {
		return nil, err
	}

	return result, nil
}

func (d *Database) attachItems(ctx context.Context, filter OrderFilter, orders []models.Order, index map[string]int) error {
	rows, err := d.db.Query(ctx, SelectOrderItemsQuery, filter.UserID, filter.Number)
	if err != nil {
		return fmt.Errorf("ошибка поиска позиций заказов: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row OrderItemDB
		if err := rows.Scan(&row.OrderID, &row.ProductID, &row.SKU, &row.Quantity, &row.UnitPrice); err != nil {
			return fmt.Errorf("ошибка обработки строки с позицией заказа: %w", err)
		}

		// Заказ мог появиться между двумя запросами.
		i, ok := index[row.OrderID]
		if !ok {
			continue
		}

		item, err := row.toModel()
		if err != nil {
			return err
		}
		orders[i].Items = append(orders[i].Items, item)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("ошибка итерации по строкам: %w", err)
	}

	return nil
}

// FindOrder ищет заказ по номеру. Если заказ не найден, возвращает nil без ошибки.
func (d *Database) FindOrder(ctx context.Context, number string) (*models.Order, error) {
	if number == "" {
		return nil, nil
	}

	orders, err := d.ListOrders(ctx, OrderFilter{Number: number})
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return nil, nil
	}

	return &orders[0], nil
}

// DeleteOrderItems удаляет позиции заказа и возвращает количество удаленных строк.
func (d *Database) DeleteOrderItems(ctx context.Context, orderID string) (int64, error) {
	tag, err := d.db.Exec(ctx, DeleteOrderItemsQuery, orderID)
	if err != nil {
		return 0, fmt.Errorf("ошибка удаления позиций заказа %s: %w", orderID, mapPgError(err))
	}
	return tag.RowsAffected(), nil
}

// DeleteOrder удаляет строку заказа и возвращает количество удаленных строк.
func (d *Database) DeleteOrder(ctx context.Context, orderID string) (int64, error) {
	tag, err := d.db.Exec(ctx, DeleteOrderQuery, orderID)
	if err != nil {
		return 0, fmt.Errorf("ошибка удаления заказа %s: %w", orderID, mapPgError(err))
	}
	return tag.RowsAffected(), nil
}
