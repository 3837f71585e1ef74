package router

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Renal37/order-integrity/internal/middlewares"
	"github.com/Renal37/order-integrity/internal/models"
)

// GetCleanupLogs возвращает историю прогонов очистки, новые записи первыми.
// Необязательный параметр limit ограничивает количество записей.
func GetCleanupLogs(w http.ResponseWriter, r *http.Request) {
	cleanupLogService := middlewares.GetServiceFromContext[models.CleanupLogService](w, r, middlewares.CleanupLogServiceKey)
	if cleanupLogService == nil {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "Параметр limit должен быть положительным числом", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	logs, err := (*cleanupLogService).GetCleanupLogs(r.Context(), limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Произошла ошибка при получении журнала очистки: %s", err.Error()), http.StatusInternalServerError)
		return
	}

	middlewares.EncodeJSONResponse(w, logs)
}
