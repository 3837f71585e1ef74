package services

import (
	"context"
	"fmt"

	"github.com/Renal37/order-integrity/internal/database"
	"github.com/Renal37/order-integrity/internal/logger"
	"github.com/Renal37/order-integrity/internal/metrics"
	"github.com/Renal37/order-integrity/internal/models"
	"github.com/Renal37/order-integrity/internal/rules"
	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"
)

// AuditStorage источник заказов для аудита
type AuditStorage interface {
	ListOrders(ctx context.Context, filter database.OrderFilter) ([]models.Order, error)
}

// AuditService загружает все заказы и раскладывает их по категориям
type AuditService struct {
	storage AuditStorage
	rules   *rules.RuleSet
	metrics *metrics.IntegrityMetrics
}

func NewAuditService(storage AuditStorage, rs *rules.RuleSet, m *metrics.IntegrityMetrics) *AuditService {
	return &AuditService{storage: storage, rules: rs, metrics: m}
}

// Audit выполняет один проход аудита по всем заказам.
func (a *AuditService) Audit(ctx context.Context) (models.AuditReport, error) {
	orders, err := a.storage.ListOrders(ctx, database.OrderFilter{})
	if err != nil {
		return models.AuditReport{}, fmt.Errorf("ошибка загрузки заказов для аудита: %w", err)
	}

	report := AuditOrders(orders, a.rules)

	a.metrics.RecordAudit(map[string]int{
		string(models.BucketLegitimate): len(report.Legitimate),
		string(models.BucketSuspicious): len(report.Suspicious),
		string(models.BucketDummy):      len(report.Dummy),
	})

	logger.Log.Info("audit completed",
		zap.String("profile", string(a.rules.Profile())),
		zap.Int("total", report.Total()),
		zap.Int("legitimate", len(report.Legitimate)),
		zap.Int("suspicious", len(report.Suspicious)),
		zap.Int("dummy", len(report.Dummy)),
	)

	return report, nil
}

// AuditOrders классифицирует заказы и раскладывает результаты по категориям.
// Порядок внутри каждой категории совпадает с порядком входного среза.
func AuditOrders(orders []models.Order, rs *rules.RuleSet) models.AuditReport {
	results := iter.Map(orders, func(order *models.Order) models.ClassificationResult {
		return Classify(*order, rs)
	})

	report := models.AuditReport{
		Legitimate: []models.ClassificationResult{},
		Suspicious: []models.ClassificationResult{},
		Dummy:      []models.ClassificationResult{},
	}

	for _, result := range results {
		switch result.Bucket {
		case models.BucketDummy:
			report.Dummy = append(report.Dummy, result)
		case models.BucketSuspicious:
			report.Suspicious = append(report.Suspicious, result)
		default:
			report.Legitimate = append(report.Legitimate, result)
		}
	}

	return report
}
