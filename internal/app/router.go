package router

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Renal37/order-integrity/internal/logger"
	"github.com/Renal37/order-integrity/internal/middlewares"
	"github.com/Renal37/order-integrity/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type Config struct {
	// Endpoint адрес и порт, на которых сервер будет слушать входящие запросы.
	Endpoint string
	// MetricsHandler отдает метрики Prometheus. Если nil, маршрут /metrics не регистрируется.
	MetricsHandler http.Handler
}

type Router struct {
	config            Config
	authService       models.AuthService
	jwtService        models.JWTService
	orderService      models.OrderService
	cleanupLogService models.CleanupLogService
}

// New создает новый экземпляр Router с заданными зависимостями.
func New(
	config Config,
	authService models.AuthService,
	jwtService models.JWTService,
	orderService models.OrderService,
	cleanupLogService models.CleanupLogService,
) *Router {
	return &Router{
		config:            config,
		authService:       authService,
		jwtService:        jwtService,
		orderService:      orderService,
		cleanupLogService: cleanupLogService,
	}
}

// get возвращает настроенный роутер.
func (router *Router) get() chi.Router {
	r := chi.NewRouter()

	// Настройка промежуточного ПО (middleware) для роутера.
	r.Use(
		// Инжектор сервисов для предоставления сервисов в обработчиках.
		middlewares.ServiceInjectorMiddleware(
			router.authService,
			router.jwtService,
			router.orderService,
			router.cleanupLogService,
		),
		// Логгер для регистрации запросов.
		logger.RequestLogger,
		// Middleware для проверки аутентификации, исключая указанные пути.
		middlewares.AuthMiddleware().WithExcludedPaths(
			"/metrics",
		).Middleware,
	)

	if router.config.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", router.config.MetricsHandler)
	}

	// Заказы пользователя. Тестовые заказы скрываются сервисом заказов.
	r.Route("/api/user", func(r chi.Router) {
		// Получение списка заказов.
		r.Get("/orders", GetOrders)
		// Получение заказа по номеру.
		r.Get("/orders/{number}", GetOrder)
	})

	// Служебные маршруты администраторов.
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middlewares.AdminOnly)

		// История прогонов очистки.
		r.Get("/cleanup-logs", GetCleanupLogs)
	})

	return r
}

// Run запускает HTTP сервер на заданном endpoint и принимает запросы до отмены ctx.
func (router *Router) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    router.config.Endpoint,
		Handler: router.get(),
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("http server shutdown failed", zap.Error(err))
		}
	}()

	logger.Log.Info("http server started", zap.String("endpoint", router.config.Endpoint))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
