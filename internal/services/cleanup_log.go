package services

import (
	"context"

	"github.com/Renal37/order-integrity/internal/models"
)

const (
	DefaultCleanupLogLimit = 20
	MaxCleanupLogLimit     = 200
)

type cleanupLogReader interface {
	FindCleanupLogs(ctx context.Context, limit int) ([]models.CleanupLogEntry, error)
}

// CleanupLogService история прогонов очистки для администраторов
type CleanupLogService struct {
	storage cleanupLogReader
}

func NewCleanupLogService(storage cleanupLogReader) *CleanupLogService {
	return &CleanupLogService{storage: storage}
}

// GetCleanupLogs возвращает последние записи журнала, новые первыми.
// Неположительный лимит заменяется значением по умолчанию, слишком большой ограничивается сверху.
func (s *CleanupLogService) GetCleanupLogs(ctx context.Context, limit int) ([]models.CleanupLogEntry, error) {
	switch {
	case limit <= 0:
		limit = DefaultCleanupLogLimit
	case limit > MaxCleanupLogLimit:
		limit = MaxCleanupLogLimit
	}

	return s.storage.FindCleanupLogs(ctx, limit)
}
