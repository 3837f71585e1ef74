package services

import (
	"fmt"
	"strings"

	"github.com/Renal37/order-integrity/internal/models"
	"github.com/Renal37/order-integrity/internal/rules"
)

// dummyCheck проверка одной группы признаков тестовых данных.
// Возвращает причины срабатывания или nil.
type dummyCheck func(order models.Order, rs *rules.RuleSet) []string

// dummyChecks группы проверок в порядке их применения.
var dummyChecks = []dummyCheck{
	fieldCheck(rules.FieldOrderNumber, func(o models.Order) string { return o.Number }),
	fieldCheck(rules.FieldNotes, func(o models.Order) string { return o.Notes }),
	fieldCheck(rules.FieldUserEmail, userEmail),
	fieldCheck(rules.FieldAddress, addressText),
	checkNoItems,
	checkItems,
}

// Classify относит заказ к одной из категорий. Функция детерминирована и не имеет побочных эффектов.
// Отсутствующие необязательные поля не дают сигнала и не приводят к ошибке.
func Classify(order models.Order, rs *rules.RuleSet) models.ClassificationResult {
	result := models.ClassificationResult{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Bucket:      models.BucketLegitimate,
		Reasons:     []string{},
	}

	if !rs.Enabled() {
		return result
	}

	// Первая сработавшая группа завершает проверку: этого достаточно для удаления.
	for _, check := range dummyChecks {
		if reasons := check(order, rs); len(reasons) > 0 {
			result.Bucket = models.BucketDummy
			result.Reasons = reasons
			return result
		}
	}

	if reasons := suspiciousReasons(order, rs); len(reasons) > 0 {
		result.Bucket = models.BucketSuspicious
		result.Reasons = reasons
	}

	return result
}

func fieldCheck(field rules.Field, value func(models.Order) string) dummyCheck {
	return func(order models.Order, rs *rules.RuleSet) []string {
		var reasons []string
		for _, rule := range rs.Match(field, value(order)) {
			reasons = append(reasons, rule.Description)
		}
		return reasons
	}
}

func userEmail(order models.Order) string {
	if order.User == nil {
		return ""
	}
	return order.User.Email
}

func addressText(order models.Order) string {
	if order.Address == nil {
		return ""
	}

	a := order.Address
	parts := make([]string, 0, 6)
	for _, s := range []string{a.FullName, a.Line1, a.Line2, a.City, a.State, a.PostalCode} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func checkNoItems(order models.Order, _ *rules.RuleSet) []string {
	if len(order.Items) == 0 {
		return []string{"order has no line items"}
	}
	return nil
}

func checkItems(order models.Order, rs *rules.RuleSet) []string {
	var reasons []string
	for i, item := range order.Items {
		if item.ProductID == "" {
			reasons = append(reasons, fmt.Sprintf("line item %d has no product reference", i+1))
			continue
		}
		for _, rule := range rs.Match(rules.FieldProductSKU, item.SKU) {
			reasons = append(reasons, fmt.Sprintf("%s: %s", rule.Description, item.SKU))
		}
	}
	return reasons
}

func suspiciousReasons(order models.Order, rs *rules.RuleSet) []string {
	var reasons []string

	if order.Total.LessThan(rs.MinOrderTotal()) {
		reasons = append(reasons, fmt.Sprintf("order total %s is below minimum %s", order.Total, rs.MinOrderTotal()))
	}

	if order.PaymentMethod != "" && !rs.PaymentMethodAllowed(order.PaymentMethod) {
		reasons = append(reasons, fmt.Sprintf("payment method %s is not allowed", order.PaymentMethod))
	}

	if order.Status != "" && !rs.StatusValid(order.Status) {
		reasons = append(reasons, fmt.Sprintf("status %s is not valid", order.Status))
	}

	if order.User != nil && !order.User.Active {
		reasons = append(reasons, "owning user is inactive")
	}

	return reasons
}
