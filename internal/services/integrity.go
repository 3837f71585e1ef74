package services

import (
	"context"
	"time"

	"github.com/Renal37/order-integrity/internal/metrics"
	"github.com/Renal37/order-integrity/internal/models"
	"github.com/Renal37/order-integrity/internal/rules"
	"go.uber.org/zap"
)

// IntegrityConfig параметры цикла очистки
type IntegrityConfig struct {
	MaxBatchSize int
	TimeBudget   time.Duration // 0 означает отсутствие ограничения.
}

// IntegrityService выполняет цикл аудит, очистка, журнал.
type IntegrityService struct {
	audit   *AuditService
	cleanup *CleanupService
	log     *AuditLogger
	metrics *metrics.IntegrityMetrics
	cfg     IntegrityConfig
}

func NewIntegrityService(audit *AuditService, cleanup *CleanupService, log *AuditLogger, m *metrics.IntegrityMetrics, cfg IntegrityConfig) *IntegrityService {
	return &IntegrityService{audit: audit, cleanup: cleanup, log: log, metrics: m, cfg: cfg}
}

// IntegrityStore хранилище, достаточное для полного цикла
type IntegrityStore interface {
	AuditStorage
	CleanupStorage
	CleanupLogStorage
}

// NewIntegrity собирает цикл поверх одного хранилища.
func NewIntegrity(store IntegrityStore, rs *rules.RuleSet, fallback *zap.Logger, m *metrics.IntegrityMetrics, cfg IntegrityConfig) *IntegrityService {
	return NewIntegrityService(
		NewAuditService(store, rs, m),
		NewCleanupService(store, m),
		NewAuditLogger(store, fallback),
		m,
		cfg,
	)
}

// RunCycle выполняет один цикл. Ошибка возвращается только если не удалось загрузить заказы.
func (s *IntegrityService) RunCycle(ctx context.Context, dryRun bool) (models.CleanupLogEntry, error) {
	startedAt := time.Now()

	report, err := s.audit.Audit(ctx)
	if err != nil {
		s.metrics.RecordCycle(string(models.CleanupStatusFailed), time.Since(startedAt))
		return models.CleanupLogEntry{}, err
	}

	cleanupCtx := ctx
	if s.cfg.TimeBudget > 0 {
		var cancel context.CancelFunc
		cleanupCtx, cancel = context.WithTimeout(ctx, s.cfg.TimeBudget-time.Since(startedAt))
		defer cancel()
	}

	outcome := s.cleanup.ExecuteCleanup(cleanupCtx, report.Dummy, s.cfg.MaxBatchSize, dryRun)
	entry := s.log.Record(ctx, report, outcome, startedAt)

	s.metrics.RecordCycle(string(entry.Status), entry.Duration)

	return entry, nil
}

// Runner возвращает цикл в виде RunFunc для планировщика.
func (s *IntegrityService) Runner(dryRun bool) RunFunc {
	return func(ctx context.Context) error {
		_, err := s.RunCycle(ctx, dryRun)
		return err
	}
}
