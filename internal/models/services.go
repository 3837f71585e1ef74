package models

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

//go:generate mockgen -destination=mocks/mock_auth.go . AuthService
type AuthService interface {
	GetUser(ctx context.Context, email string) (*User, error)
}

//go:generate mockgen -destination=mocks/mock_jwt.go . JWTService
type JWTService interface {
	ValidateToken(token string) (*jwt.Token, error)
}

//go:generate mockgen -destination=mocks/mock_order.go . OrderService
type OrderService interface {
	GetOrders(ctx context.Context, userID string) ([]Order, error)

	GetOrder(ctx context.Context, userID, number string) (*Order, error)
}

//go:generate mockgen -destination=mocks/mock_cleanup_log.go . CleanupLogService
type CleanupLogService interface {
	GetCleanupLogs(ctx context.Context, limit int) ([]CleanupLogEntry, error)
}
