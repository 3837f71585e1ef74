package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Renal37/order-integrity/internal/middlewares"
	"github.com/Renal37/order-integrity/internal/models"
	"github.com/Renal37/order-integrity/internal/services"
	"github.com/go-chi/chi/v5"
)

// GetOrders обрабатывает HTTP-запрос на получение списка заказов пользователя.
// Метод извлекает пользователя из контекста, получает видимые заказы и возвращает их в формате JSON.
func GetOrders(w http.ResponseWriter, r *http.Request) {
	// Получаем сервис заказа из контекста запроса.
	orderService := middlewares.GetServiceFromContext[models.OrderService](w, r, middlewares.OrderServiceKey)
	if orderService == nil {
		return
	}

	// Получаем информацию о текущем пользователе из контекста запроса.
	user := middlewares.GetUserFromContext(w, r)
	if user == nil {
		return
	}

	// Пытаемся получить список заказов пользователя.
	orders, err := (*orderService).GetOrders(r.Context(), user.ID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Произошла ошибка при получении заказов: %s", err.Error()), http.StatusInternalServerError)
		return
	}

	// Если у пользователя нет заказов, возвращаем статус "Нет контента".
	if len(orders) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	// Кодируем список заказов в формат JSON и отправляем в ответе.
	middlewares.EncodeJSONResponse(w, orders)
}

// GetOrder обрабатывает HTTP-запрос на получение одного заказа по номеру.
// Отсутствующий, чужой и тестовый заказ одинаково возвращают 404.
func GetOrder(w http.ResponseWriter, r *http.Request) {
	orderService := middlewares.GetServiceFromContext[models.OrderService](w, r, middlewares.OrderServiceKey)
	if orderService == nil {
		return
	}

	user := middlewares.GetUserFromContext(w, r)
	if user == nil {
		return
	}

	number := chi.URLParam(r, "number")

	order, err := (*orderService).GetOrder(r.Context(), user.ID, number)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			http.Error(w, "Заказ не найден", http.StatusNotFound)
			return
		}

		http.Error(w, fmt.Sprintf("Произошла ошибка при получении заказа: %s", err.Error()), http.StatusInternalServerError)
		return
	}

	middlewares.EncodeJSONResponse(w, order)
}
