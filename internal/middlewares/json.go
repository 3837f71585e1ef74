package middlewares

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// EncodeJSONResponse кодирует данные в формат JSON и отправляет их в ответе со статусом 200.
func EncodeJSONResponse[Model any](w http.ResponseWriter, data Model) {
	resp, err := json.Marshal(data)
	if err != nil {
		// Возврат ошибки, если не удалось закодировать данные.
		http.Error(w, fmt.Sprintf("Ошибка при кодировании JSON-ответа: %s", err.Error()), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// Заголовки уже отправлены, ошибку записи вернуть клиенту нельзя.
	_, _ = w.Write(resp)
}
