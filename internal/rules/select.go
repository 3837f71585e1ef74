package rules

import (
	"fmt"
	"strings"

	"github.com/Renal37/order-integrity/internal/models"
	"github.com/shopspring/decimal"
)

// Environment окружение, в котором запущен процесс.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// ParseEnvironment приводит строку окружения к Environment. Все, что не development, считается production.
func ParseEnvironment(env string) Environment {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "development", "dev", "local":
		return EnvDevelopment
	default:
		return EnvProduction
	}
}

// Overrides явный перечень настроек, которые можно изменить поверх встроенного профиля.
// nil означает "не задано".
type Overrides struct {
	Enabled     *bool
	Strict      *bool
	BypassLocal *bool

	MinOrderTotal         *decimal.Decimal
	AllowedPaymentMethods []models.PaymentMethod
	ExtraRules            []Definition
}

func isSet(b *bool) bool {
	return b != nil && *b
}

func isUnset(b *bool) bool {
	return b != nil && !*b
}

// SelectRuleSet выбирает и собирает набор правил. Вызывается один раз при старте.
func SelectRuleSet(env Environment, overrides Overrides) (*RuleSet, error) {
	if isUnset(overrides.Enabled) {
		return Disabled(), nil
	}

	if isSet(overrides.BypassLocal) {
		if env == EnvProduction {
			return nil, &ConfigurationError{Err: ErrBypassInProduction}
		}
		return Disabled(), nil
	}

	profile, defs, t := ProfileDevelopment, developmentRules, developmentThresholds()
	if isSet(overrides.Strict) || env == EnvProduction {
		profile, defs, t = ProfileProduction, productionRules, productionThresholds()
	}

	if overrides.MinOrderTotal != nil {
		if overrides.MinOrderTotal.IsNegative() {
			return nil, &ConfigurationError{Err: fmt.Errorf("отрицательная минимальная сумма заказа %s", overrides.MinOrderTotal)}
		}
		t.minOrderTotal = *overrides.MinOrderTotal
	}

	if len(overrides.AllowedPaymentMethods) > 0 {
		t.paymentMethods = overrides.AllowedPaymentMethods
	}

	all := make([]Definition, 0, len(defs)+len(overrides.ExtraRules))
	all = append(all, defs...)
	all = append(all, overrides.ExtraRules...)

	return newRuleSet(profile, all, t)
}

// ParseDefinitions разбирает строку вида "поле:шаблон;поле:шаблон".
func ParseDefinitions(raw string) ([]Definition, error) {
	var defs []Definition

	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		field, pattern, ok := strings.Cut(part, ":")
		if !ok || strings.TrimSpace(pattern) == "" {
			return nil, &ConfigurationError{Pattern: part, Err: ErrMalformedRuleLiteral}
		}

		def := Definition{
			Field:   Field(strings.TrimSpace(field)),
			Pattern: strings.TrimSpace(pattern),
		}
		if _, err := compile(def); err != nil {
			return nil, err
		}

		defs = append(defs, def)
	}

	return defs, nil
}

// ParsePaymentMethods разбирает список способов оплаты через запятую.
func ParsePaymentMethods(raw string) []models.PaymentMethod {
	var result []models.PaymentMethod
	for _, pm := range strings.Split(raw, ",") {
		if pm = strings.ToUpper(strings.TrimSpace(pm)); pm != "" {
			result = append(result, models.PaymentMethod(pm))
		}
	}
	return result
}
