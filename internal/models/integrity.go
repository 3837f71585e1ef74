package models

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Bucket итоговая категория заказа по результатам классификации.
type Bucket string

const (
	BucketLegitimate Bucket = "LEGITIMATE"
	BucketSuspicious Bucket = "SUSPICIOUS"
	BucketDummy      Bucket = "DUMMY"
)

// ClassificationResult результат классификации одного заказа.
type ClassificationResult struct {
	OrderID     string   `json:"order_id"`
	OrderNumber string   `json:"order_number"`
	Bucket      Bucket   `json:"bucket"`
	Reasons     []string `json:"reasons"`
}

// AuditReport результат одного прохода аудита по всем заказам.
type AuditReport struct {
	Legitimate []ClassificationResult
	Suspicious []ClassificationResult
	Dummy      []ClassificationResult
}

// Total возвращает количество проверенных заказов.
func (r AuditReport) Total() int {
	return len(r.Legitimate) + len(r.Suspicious) + len(r.Dummy)
}

// DeletionStage этап удаления заказа, на котором произошла ошибка.
type DeletionStage string

const (
	StageItems DeletionStage = "items"
	StageOrder DeletionStage = "order"
)

// DeletedOrder удаленный (или предназначенный к удалению) заказ.
type DeletedOrder struct {
	OrderID     string   `json:"order_id"`
	OrderNumber string   `json:"order_number"`
	Reasons     []string `json:"reasons"`
}

// DeletionFailure ошибка удаления одного заказа.
// Partial означает, что позиции удалены, а строка заказа осталась.
type DeletionFailure struct {
	OrderID string        `json:"order_id"`
	Stage   DeletionStage `json:"stage"`
	Partial bool          `json:"partial"`
	Error   string        `json:"error"`
}

// CleanupOutcome результат выполнения очистки.
type CleanupOutcome struct {
	DryRun      bool
	Candidates  []DeletedOrder
	Deleted     []DeletedOrder
	Failures    []DeletionFailure
	Attempted   int
	Succeeded   int
	Failed      int
	NotStarted  int
	Interrupted bool
}

// Err объединяет ошибки удаления в одну. nil, если ошибок не было.
func (o CleanupOutcome) Err() error {
	var result *multierror.Error
	for _, f := range o.Failures {
		result = multierror.Append(result, fmt.Errorf("заказ %s (этап %s): %s", f.OrderID, f.Stage, f.Error))
	}
	return result.ErrorOrNil()
}

// CleanupStatus итоговый статус прогона очистки.
type CleanupStatus string

const (
	CleanupStatusSuccess     CleanupStatus = "SUCCESS"
	CleanupStatusPartial     CleanupStatus = "PARTIAL"
	CleanupStatusFailed      CleanupStatus = "FAILED"
	CleanupStatusDryRun      CleanupStatus = "DRY_RUN"
	CleanupStatusInterrupted CleanupStatus = "INTERRUPTED"
)

// CleanupLogEntry запись журнала очистки.
// В пробном прогоне Deleted равен нулю, а DeletedOrders перечисляет кандидатов на удаление.
type CleanupLogEntry struct {
	ID            string            `json:"id"`
	RunAt         time.Time         `json:"run_at"`
	DryRun        bool              `json:"dry_run"`
	Status        CleanupStatus     `json:"status"`
	TotalAudited  int               `json:"total_audited"`
	Legitimate    int               `json:"legitimate"`
	Suspicious    int               `json:"suspicious"`
	Dummy         int               `json:"dummy"`
	Candidates    int               `json:"candidates"`
	Deleted       int               `json:"deleted"`
	Failed        int               `json:"failed"`
	DeletedOrders []DeletedOrder    `json:"deleted_orders"`
	Failures      []DeletionFailure `json:"failures"`
	Duration      time.Duration     `json:"duration"`
}
