package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Renal37/order-integrity/internal/models"
)

const (
	InsertCleanupLogQuery = `
		INSERT INTO
			cleanup_logs (
				id, run_at, dry_run, status, total_audited, legitimate, suspicious, dummy,
				candidates, deleted, failed, deleted_orders, failures, duration_ms
			)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	SelectCleanupLogsQuery = `
		SELECT
			id::text,
			run_at,
			dry_run,
			status,
			total_audited,
			legitimate,
			suspicious,
			dummy,
			candidates,
			deleted,
			failed,
			deleted_orders,
			failures,
			duration_ms
		FROM
			cleanup_logs
		ORDER BY
			run_at DESC
		LIMIT $1
	`
)

// CleanupLogDB строка журнала очистки
type CleanupLogDB struct {
	models.CleanupLogEntry
	DeletedOrdersJSON []byte
	FailuresJSON      []byte
	DurationMs        int64
}

// InsertCleanupLog сохраняет запись журнала очистки
func (d *Database) InsertCleanupLog(ctx context.Context, entry models.CleanupLogEntry) error {
	deleted := entry.DeletedOrders
	if deleted == nil {
		deleted = []models.DeletedOrder{}
	}
	deletedJSON, err := json.Marshal(deleted)
	if err != nil {
		return fmt.Errorf("ошибка сериализации удаленных заказов: %w", err)
	}

	failures := entry.Failures
	if failures == nil {
		failures = []models.DeletionFailure{}
	}
	failuresJSON, err := json.Marshal(failures)
	if err != nil {
		return fmt.Errorf("ошибка сериализации ошибок удаления: %w", err)
	}

	if _, err := d.db.Exec(ctx, InsertCleanupLogQuery,
		entry.ID, entry.RunAt, entry.DryRun, string(entry.Status), entry.TotalAudited,
		entry.Legitimate, entry.Suspicious, entry.Dummy, entry.Candidates, entry.Deleted, entry.Failed,
		deletedJSON, failuresJSON, entry.Duration.Milliseconds(),
	); err != nil {
		return fmt.Errorf("ошибка при сохранении журнала очистки: %w", err)
	}

	return nil
}

// FindCleanupLogs возвращает последние записи журнала очистки, новые первыми
func (d *Database) FindCleanupLogs(ctx context.Context, limit int) ([]models.CleanupLogEntry, error) {
	rows, err := d.db.Query(ctx, SelectCleanupLogsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска журнала очистки: %w", err)
	}
	defer rows.Close()

	result := make([]models.CleanupLogEntry, 0)
	for rows.Next() {
		var row CleanupLogDB
		var status string
		if err := rows.Scan(
			&row.ID, &row.RunAt, &row.DryRun, &status, &row.TotalAudited,
			&row.Legitimate, &row.Suspicious, &row.Dummy, &row.Candidates, &row.Deleted, &row.Failed,
			&row.DeletedOrdersJSON, &row.FailuresJSON, &row.DurationMs,
		); err != nil {
			return nil, fmt.Errorf("ошибка обработки строки журнала очистки: %w", err)
		}

		row.Status = models.CleanupStatus(status)
		row.Duration = time.Duration(row.DurationMs) * time.Millisecond

		if err := json.Unmarshal(row.DeletedOrdersJSON, &row.DeletedOrders); err != nil {
			return nil, fmt.Errorf("ошибка разбора удаленных заказов: %w", err)
		}
		if err := json.Unmarshal(row.FailuresJSON, &row.Failures); err != nil {
			return nil, fmt.Errorf("ошибка разбора ошибок удаления: %w", err)
		}

		result = append(result, row.CleanupLogEntry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации по строкам: %w", err)
	}

	return result, nil
}
