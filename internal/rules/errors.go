package rules

import (
	"errors"
	"fmt"
)

var (
	errEmptyPattern         = errors.New("пустой шаблон")
	ErrBypassInProduction   = errors.New("обход проверки заказов запрещен в production")
	ErrMalformedRuleLiteral = errors.New("ожидается формат поле:шаблон")
)

// ConfigurationError ошибка построения набора правил.
// Приложение не должно стартовать с некорректным набором правил.
type ConfigurationError struct {
	Field   Field
	Pattern string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Pattern == "" {
		return fmt.Sprintf("некорректная конфигурация правил (%s): %s", e.Field, e.Err)
	}
	return fmt.Sprintf("некорректная конфигурация правил (%s, %q): %s", e.Field, e.Pattern, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
