// Package rules содержит неизменяемые наборы правил, по которым классифицируются заказы.
package rules

import (
	"fmt"
	"regexp"

	"github.com/Renal37/order-integrity/internal/models"
	"github.com/shopspring/decimal"
)

// Field поле заказа, которое проверяет правило.
type Field string

const (
	FieldOrderNumber Field = "order_number"
	FieldNotes       Field = "notes"
	FieldUserEmail   Field = "user_email"
	FieldAddress     Field = "address"
	FieldProductSKU  Field = "product_sku"
)

// Fields перечисляет поля в порядке проверки классификатором.
var Fields = []Field{FieldOrderNumber, FieldNotes, FieldUserEmail, FieldAddress, FieldProductSKU}

func (f Field) valid() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

// Definition исходное (не скомпилированное) описание правила.
type Definition struct {
	Field       Field
	Pattern     string
	Description string
}

// Rule скомпилированное правило.
type Rule struct {
	Field       Field
	Description string
	pattern     *regexp.Regexp
}

// Match сообщает, совпадает ли значение с шаблоном правила.
func (r Rule) Match(value string) bool {
	return r.pattern.MatchString(value)
}

// Pattern возвращает исходный текст регулярного выражения.
func (r Rule) Pattern() string {
	return r.pattern.String()
}

// Profile профиль набора правил.
type Profile string

const (
	ProfileDisabled    Profile = "disabled"
	ProfileDevelopment Profile = "development"
	ProfileProduction  Profile = "production"
)

// RuleSet неизменяемый набор правил и порогов.
// После создания не модифицируется, поэтому может разделяться между горутинами без синхронизации.
type RuleSet struct {
	profile        Profile
	rules          map[Field][]Rule
	minOrderTotal  decimal.Decimal
	paymentMethods map[models.PaymentMethod]struct{}
	statuses       map[models.OrderStatus]struct{}
}

// thresholds скалярные пороги профиля.
type thresholds struct {
	minOrderTotal  decimal.Decimal
	paymentMethods []models.PaymentMethod
	statuses       []models.OrderStatus
}

func newRuleSet(profile Profile, defs []Definition, t thresholds) (*RuleSet, error) {
	rs := &RuleSet{
		profile:        profile,
		rules:          make(map[Field][]Rule, len(Fields)),
		minOrderTotal:  t.minOrderTotal,
		paymentMethods: make(map[models.PaymentMethod]struct{}, len(t.paymentMethods)),
		statuses:       make(map[models.OrderStatus]struct{}, len(t.statuses)),
	}

	for _, def := range defs {
		rule, err := compile(def)
		if err != nil {
			return nil, err
		}
		rs.rules[rule.Field] = append(rs.rules[rule.Field], rule)
	}

	for _, pm := range t.paymentMethods {
		rs.paymentMethods[pm] = struct{}{}
	}
	for _, s := range t.statuses {
		rs.statuses[s] = struct{}{}
	}

	return rs, nil
}

func compile(def Definition) (Rule, error) {
	if !def.Field.valid() {
		return Rule{}, &ConfigurationError{
			Field:   def.Field,
			Pattern: def.Pattern,
			Err:     fmt.Errorf("неизвестное поле %q", def.Field),
		}
	}

	if def.Pattern == "" {
		return Rule{}, &ConfigurationError{Field: def.Field, Err: errEmptyPattern}
	}

	re, err := regexp.Compile(def.Pattern)
	if err != nil {
		return Rule{}, &ConfigurationError{Field: def.Field, Pattern: def.Pattern, Err: err}
	}

	description := def.Description
	if description == "" {
		description = def.Pattern
	}

	return Rule{Field: def.Field, Description: description, pattern: re}, nil
}

// Profile возвращает профиль набора.
func (rs *RuleSet) Profile() Profile {
	return rs.profile
}

// Enabled false только для профиля Disabled: тогда любой заказ считается легитимным.
func (rs *RuleSet) Enabled() bool {
	return rs != nil && rs.profile != ProfileDisabled
}

// Rules возвращает копию правил для поля.
func (rs *RuleSet) Rules(field Field) []Rule {
	return append([]Rule(nil), rs.rules[field]...)
}

// Match возвращает все правила поля, совпавшие со значением. Пустое значение не совпадает ни с чем.
func (rs *RuleSet) Match(field Field, value string) []Rule {
	if value == "" {
		return nil
	}

	var matched []Rule
	for _, rule := range rs.rules[field] {
		if rule.Match(value) {
			matched = append(matched, rule)
		}
	}
	return matched
}

// MinOrderTotal минимальная допустимая сумма заказа.
func (rs *RuleSet) MinOrderTotal() decimal.Decimal {
	return rs.minOrderTotal
}

// PaymentMethodAllowed проверяет способ оплаты.
func (rs *RuleSet) PaymentMethodAllowed(pm models.PaymentMethod) bool {
	_, ok := rs.paymentMethods[pm]
	return ok
}

// StatusValid проверяет статус заказа.
func (rs *RuleSet) StatusValid(status models.OrderStatus) bool {
	_, ok := rs.statuses[status]
	return ok
}

// Size общее количество правил.
func (rs *RuleSet) Size() int {
	n := 0
	for _, r := range rs.rules {
		n += len(r)
	}
	return n
}
