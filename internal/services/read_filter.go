package services

import (
	"github.com/Renal37/order-integrity/internal/models"
	"github.com/Renal37/order-integrity/internal/rules"
)

// IsVisible сообщает, можно ли показать заказ пользователю.
// Скрываются только тестовые заказы, подозрительные остаются видимыми.
func IsVisible(order models.Order, rs *rules.RuleSet) bool {
	return Classify(order, rs).Bucket != models.BucketDummy
}

// FilterVisible возвращает видимые заказы, сохраняя исходный порядок.
// Входной срез не изменяется.
func FilterVisible(orders []models.Order, rs *rules.RuleSet) []models.Order {
	result := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if IsVisible(order, rs) {
			result = append(result, order)
		}
	}
	return result
}
