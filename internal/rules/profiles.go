package rules

import (
	"github.com/Renal37/order-integrity/internal/models"
	"github.com/shopspring/decimal"
)

const keywordPattern = `(?i)\b(demo|dummy|sample|placeholder|fake|for testing|for debugging)\b`

var productionRules = []Definition{
	{FieldOrderNumber, `(?i)^DEMO-`, "order number has DEMO- prefix"},
	{FieldOrderNumber, `(?i)^TEST-`, "order number has TEST- prefix"},
	{FieldOrderNumber, `(?i)^DUMMY-`, "order number has DUMMY- prefix"},
	{FieldOrderNumber, `(?i)^SAMPLE-`, "order number has SAMPLE- prefix"},
	{FieldOrderNumber, `(?i)^(ORD-)?(0+|123456|1234567890|111111|999999)$`, "order number is a placeholder sequence"},

	{FieldNotes, `(?i)\bdemo\b`, "notes mention demo"},
	{FieldNotes, `(?i)\bdummy\b`, "notes mention dummy"},
	{FieldNotes, `(?i)\bsample\b`, "notes mention sample"},
	{FieldNotes, `(?i)\bplaceholder\b`, "notes mention placeholder"},
	{FieldNotes, `(?i)\bfake\b`, "notes mention fake"},
	{FieldNotes, `(?i)\bfor testing\b`, "notes say for testing"},
	{FieldNotes, `(?i)\bfor debugging\b`, "notes say for debugging"},

	{FieldUserEmail, `(?i)^demo@`, "email local part is demo"},
	{FieldUserEmail, `(?i)^test@`, "email local part is test"},
	{FieldUserEmail, `(?i)^dummy@`, "email local part is dummy"},
	{FieldUserEmail, `(?i)^sample@`, "email local part is sample"},
	{FieldUserEmail, `(?i)^fake@`, "email local part is fake"},
	{FieldUserEmail, `(?i)@example\.`, "email domain is example.*"},
	{FieldUserEmail, `(?i)@test\.`, "email domain is test.*"},

	{FieldAddress, keywordPattern, "address contains a test-data keyword"},

	{FieldProductSKU, `(?i)^(DEMO|TEST|DUMMY|SAMPLE)[-_]`, "product SKU carries a demo marker"},
}

// В development видна значительная часть заведомо тестовых заказов, поэтому правил меньше.
var developmentRules = []Definition{
	{FieldOrderNumber, `(?i)^TEST-`, "order number has TEST- prefix"},
	{FieldOrderNumber, `(?i)^DUMMY-`, "order number has DUMMY- prefix"},

	{FieldNotes, `(?i)\bdummy\b`, "notes mention dummy"},
	{FieldNotes, `(?i)\bfor debugging\b`, "notes say for debugging"},

	{FieldUserEmail, `(?i)^dummy@`, "email local part is dummy"},

	{FieldProductSKU, `(?i)^(DUMMY|TEST)[-_]`, "product SKU carries a test marker"},
}

var allPaymentMethods = []models.PaymentMethod{
	models.PaymentCOD,
	models.PaymentCard,
	models.PaymentUPI,
	models.PaymentNetBanking,
	models.PaymentWallet,
}

var allStatuses = []models.OrderStatus{
	models.StatusPending,
	models.StatusConfirmed,
	models.StatusProcessing,
	models.StatusShipped,
	models.StatusDelivered,
	models.StatusCancelled,
	models.StatusReturned,
}

func productionThresholds() thresholds {
	return thresholds{
		minOrderTotal:  decimal.NewFromInt(100),
		paymentMethods: allPaymentMethods,
		statuses:       allStatuses,
	}
}

func developmentThresholds() thresholds {
	return thresholds{
		minOrderTotal:  decimal.Zero,
		paymentMethods: allPaymentMethods,
		statuses:       allStatuses,
	}
}

// Disabled возвращает пустой набор правил.
func Disabled() *RuleSet {
	rs, _ := newRuleSet(ProfileDisabled, nil, thresholds{})
	return rs
}

// Production возвращает строгий набор правил.
func Production() *RuleSet {
	rs, err := newRuleSet(ProfileProduction, productionRules, productionThresholds())
	if err != nil {
		panic(err)
	}
	return rs
}

// Development возвращает мягкий набор правил.
func Development() *RuleSet {
	rs, err := newRuleSet(ProfileDevelopment, developmentRules, developmentThresholds())
	if err != nil {
		panic(err)
	}
	return rs
}
