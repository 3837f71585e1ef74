package main

import (
	"context"
	"log"
	"time"

	router "github.com/Renal37/order-integrity/internal/app"
	"github.com/Renal37/order-integrity/internal/database"
	"github.com/Renal37/order-integrity/internal/logger"
	"github.com/Renal37/order-integrity/internal/metrics"
	"github.com/Renal37/order-integrity/internal/services"
	"github.com/Renal37/order-integrity/internal/utils"
	"go.uber.org/zap"
)

const stopGrace = 5 * time.Second

func main() {
	config, err := NewConfig()
	if err != nil {
		log.Fatalf("Config wasn't loaded due to %s", err)
	}

	if err := logger.Initialize(config.LogLevel, config.Env); err != nil {
		log.Fatalf("Logger wasn't initialized due to %s", err)
	}

	// Некорректный набор правил не должен молча превращаться в отключенную проверку.
	ruleSet, err := config.RuleSet()
	if err != nil {
		log.Fatalf("Order validation rules weren't built due to %s", err)
	}

	ctx, stop := utils.HandleTerminationProcess(context.Background())
	defer stop()

	db, err := database.New(ctx, config.DSN)
	if err != nil {
		log.Fatalf("Database wasn't initialized due to %s", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Migrations weren't run due to %s", err)
	}

	integrityMetrics := metrics.NewIntegrityMetrics()

	fallback := logger.NewFileLogger(logger.FileConfig{
		Path:       config.Cleanup.FallbackLogPath,
		MaxSizeMB:  10,
		MaxBackups: 5,
		MaxAgeDays: 30,
	})
	defer fallback.Sync() //nolint:errcheck

	logger.Log.Info("order validation rules selected",
		zap.String("profile", string(ruleSet.Profile())),
		zap.Int("rules", ruleSet.Size()),
	)

	if config.Cleanup.SchedulerEnabled {
		integrity := services.NewIntegrity(db, ruleSet, fallback, integrityMetrics, services.IntegrityConfig{
			MaxBatchSize: config.Cleanup.MaxBatchSize,
			TimeBudget:   config.Cleanup.TimeBudget,
		})

		scheduler := services.NewCleanupScheduler(integrity.Runner(config.Cleanup.DryRun), integrityMetrics)
		if err := scheduler.Start(ctx, config.Cleanup.Interval, config.Cleanup.StartupDelay); err != nil {
			log.Fatalf("Cleanup scheduler wasn't started due to %s", err)
		}

		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), config.Cleanup.TimeBudget+stopGrace)
			defer cancel()

			if err := scheduler.Stop(stopCtx); err != nil {
				logger.Log.Warn("cleanup scheduler stopped with error", zap.Error(err))
			}
		}()
	}

	err = router.New(
		router.Config{Endpoint: config.Endpoint, MetricsHandler: integrityMetrics.Handler()},
		services.NewAuthService(db),
		services.NewJWTService(config.AuthSecretKey),
		services.NewOrderService(db, ruleSet, integrityMetrics),
		services.NewCleanupLogService(db),
	).Run(ctx)
	if err != nil {
		logger.Log.Error("http server stopped with error", zap.Error(err))
	}
}
