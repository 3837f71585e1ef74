package services

import (
	"context"
	"time"

	"github.com/Renal37/order-integrity/internal/logger"
	"github.com/Renal37/order-integrity/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const persistTimeout = 5 * time.Second

// CleanupLogStorage постоянное хранилище журнала очистки
type CleanupLogStorage interface {
	InsertCleanupLog(ctx context.Context, entry models.CleanupLogEntry) error
}

// AuditLogger формирует и сохраняет записи журнала очистки.
type AuditLogger struct {
	storage  CleanupLogStorage
	fallback *zap.Logger // Резервный приемник, если запись не удалось сохранить.
}

// NewAuditLogger создает AuditLogger. fallback может быть nil.
func NewAuditLogger(storage CleanupLogStorage, fallback *zap.Logger) *AuditLogger {
	if fallback == nil {
		fallback = zap.NewNop()
	}
	return &AuditLogger{storage: storage, fallback: fallback}
}

// Record формирует запись о прогоне и сохраняет ее.
// Пробный прогон только логируется. Ошибка сохранения уходит в резервный приемник и не возвращается.
func (l *AuditLogger) Record(ctx context.Context, report models.AuditReport, outcome models.CleanupOutcome, startedAt time.Time) models.CleanupLogEntry {
	entry := NewCleanupLogEntry(report, outcome, startedAt)

	fields := []zap.Field{
		zap.String("run_id", entry.ID),
		zap.String("status", string(entry.Status)),
		zap.Bool("dry_run", entry.DryRun),
		zap.Int("total_audited", entry.TotalAudited),
		zap.Int("legitimate", entry.Legitimate),
		zap.Int("suspicious", entry.Suspicious),
		zap.Int("dummy", entry.Dummy),
		zap.Int("candidates", entry.Candidates),
		zap.Int("deleted", entry.Deleted),
		zap.Int("failed", entry.Failed),
		zap.Duration("duration", entry.Duration),
	}
	if err := outcome.Err(); err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.Log.Info("cleanup run finished", fields...)

	if entry.DryRun {
		return entry
	}

	// Запись сохраняется даже после истечения бюджета или остановки.
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err := l.storage.InsertCleanupLog(persistCtx, entry); err != nil {
		logger.Log.Error("cleanup log entry not persisted", zap.String("run_id", entry.ID), zap.Error(err))
		l.fallback.Error("cleanup log entry not persisted",
			zap.Any("entry", entry),
			zap.Error(err),
		)
	}

	return entry
}

// NewCleanupLogEntry собирает запись журнала из результатов аудита и очистки.
// Для пробного прогона в DeletedOrders попадают кандидаты на удаление, а Deleted остается нулевым.
func NewCleanupLogEntry(report models.AuditReport, outcome models.CleanupOutcome, startedAt time.Time) models.CleanupLogEntry {
	deleted := outcome.Deleted
	if outcome.DryRun {
		deleted = outcome.Candidates
	}

	return models.CleanupLogEntry{
		ID:            uuid.NewString(),
		RunAt:         startedAt.UTC(),
		DryRun:        outcome.DryRun,
		Status:        cleanupStatus(outcome),
		TotalAudited:  report.Total(),
		Legitimate:    len(report.Legitimate),
		Suspicious:    len(report.Suspicious),
		Dummy:         len(report.Dummy),
		Candidates:    len(outcome.Candidates),
		Deleted:       len(outcome.Deleted),
		Failed:        outcome.Failed,
		DeletedOrders: deleted,
		Failures:      outcome.Failures,
		Duration:      time.Since(startedAt),
	}
}

func cleanupStatus(outcome models.CleanupOutcome) models.CleanupStatus {
	switch {
	case outcome.DryRun:
		return models.CleanupStatusDryRun
	case outcome.Interrupted:
		return models.CleanupStatusInterrupted
	case outcome.Failed > 0 && outcome.Succeeded > 0:
		return models.CleanupStatusPartial
	case outcome.Failed > 0:
		return models.CleanupStatusFailed
	default:
		return models.CleanupStatusSuccess
	}
}
