// Package config читает настройки сервиса из переменных окружения.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Renal37/order-integrity/internal/rules"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config настройки процесса.
type Config struct {
	Endpoint      string
	DSN           string
	LogLevel      string `validate:"oneof=debug info warn error dpanic panic fatal"`
	Env           string `validate:"required"`
	AuthSecretKey string

	Validation ValidationConfig
	Cleanup    CleanupConfig
}

// ValidationConfig настройки проверки заказов.
type ValidationConfig struct {
	Enabled        bool
	Strict         bool
	BypassLocal    bool
	MinOrderTotal  string
	PaymentMethods string
	ExtraRules     string
}

// CleanupConfig настройки планировщика очистки.
type CleanupConfig struct {
	SchedulerEnabled bool
	DryRun           bool
	Interval         time.Duration `validate:"gt=0"`
	StartupDelay     time.Duration `validate:"gte=0"`
	TimeBudget       time.Duration `validate:"gt=0"`
	MaxBatchSize     int           `validate:"gt=0"`
	FallbackLogPath  string        `validate:"required"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "error")
	v.SetDefault("env", "production")

	v.SetDefault("order_validation_enabled", true)
	v.SetDefault("order_validation_strict", false)
	v.SetDefault("order_validation_bypass_local", false)

	v.SetDefault("cleanup_scheduler_enabled", true)
	v.SetDefault("cleanup_dry_run", false)
	v.SetDefault("cleanup_interval", "1h")
	v.SetDefault("cleanup_startup_delay", "30s")
	v.SetDefault("cleanup_time_budget", "5m")
	v.SetDefault("cleanup_max_batch_size", 100)
	v.SetDefault("cleanup_fallback_log", "logs/cleanup-fallback.log")
}

// Load читает конфигурацию из окружения. Ключи совпадают с именами переменных в нижнем регистре.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	for _, key := range []string{
		"run_address", "database_uri", "auth_secret_key",
		"order_validation_min_total", "order_validation_payment_methods", "order_validation_extra_rules",
	} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("ошибка привязки переменной %s: %w", key, err)
		}
	}

	interval, err := getDuration(v, "cleanup_interval")
	if err != nil {
		return Config{}, err
	}
	startupDelay, err := getDuration(v, "cleanup_startup_delay")
	if err != nil {
		return Config{}, err
	}
	timeBudget, err := getDuration(v, "cleanup_time_budget")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Endpoint:      v.GetString("run_address"),
		DSN:           v.GetString("database_uri"),
		LogLevel:      v.GetString("log_level"),
		Env:           v.GetString("env"),
		AuthSecretKey: v.GetString("auth_secret_key"),
		Validation: ValidationConfig{
			Enabled:        v.GetBool("order_validation_enabled"),
			Strict:         v.GetBool("order_validation_strict"),
			BypassLocal:    v.GetBool("order_validation_bypass_local"),
			MinOrderTotal:  v.GetString("order_validation_min_total"),
			PaymentMethods: v.GetString("order_validation_payment_methods"),
			ExtraRules:     v.GetString("order_validation_extra_rules"),
		},
		Cleanup: CleanupConfig{
			SchedulerEnabled: v.GetBool("cleanup_scheduler_enabled"),
			DryRun:           v.GetBool("cleanup_dry_run"),
			Interval:         interval,
			StartupDelay:     startupDelay,
			TimeBudget:       timeBudget,
			MaxBatchSize:     v.GetInt("cleanup_max_batch_size"),
			FallbackLogPath:  v.GetString("cleanup_fallback_log"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("некорректная конфигурация: %w", err)
	}

	return cfg, nil
}

// getDuration читает длительность строго в формате time.ParseDuration.
// Число без единицы измерения отклоняется, иначе "3600" превратилось бы в наносекунды.
func getDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность %s=%q, нужна единица измерения (например, 1h): %w",
			strings.ToUpper(key), raw, err)
	}

	return d, nil
}

// Environment окружение для выбора набора правил.
func (c Config) Environment() rules.Environment {
	return rules.ParseEnvironment(c.Env)
}

// RuleOverrides переводит настройки проверки в явную структуру переопределений.
func (c Config) RuleOverrides() (rules.Overrides, error) {
	enabled, strict, bypass := c.Validation.Enabled, c.Validation.Strict, c.Validation.BypassLocal

	overrides := rules.Overrides{
		Enabled:               &enabled,
		Strict:                &strict,
		BypassLocal:           &bypass,
		AllowedPaymentMethods: rules.ParsePaymentMethods(c.Validation.PaymentMethods),
	}

	if c.Validation.MinOrderTotal != "" {
		minTotal, err := decimal.NewFromString(c.Validation.MinOrderTotal)
		if err != nil {
			return rules.Overrides{}, &rules.ConfigurationError{
				Err: fmt.Errorf("некорректная минимальная сумма %q: %w", c.Validation.MinOrderTotal, err),
			}
		}
		overrides.MinOrderTotal = &minTotal
	}

	extra, err := rules.ParseDefinitions(c.Validation.ExtraRules)
	if err != nil {
		return rules.Overrides{}, err
	}
	overrides.ExtraRules = extra

	return overrides, nil
}

// RuleSet выбирает набор правил по окружению и переопределениям.
func (c Config) RuleSet() (*rules.RuleSet, error) {
	overrides, err := c.RuleOverrides()
	if err != nil {
		return nil, err
	}
	return rules.SelectRuleSet(c.Environment(), overrides)
}
