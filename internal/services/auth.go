package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Renal37/order-integrity/internal/database"
	"github.com/Renal37/order-integrity/internal/models"
)

// Определение пользовательских ошибок
var (
	ErrUserIsNotExist = errors.New("пользователь не существует")
)

// AuthService находит пользователя, от имени которого выполняется запрос
type AuthService struct {
	storage AuthStorage
}

// AuthStorage определяет интерфейс для взаимодействия с хранилищем данных пользователей
type AuthStorage interface {
	FindUser(ctx context.Context, email string) (*database.UserDB, error) // Поиск пользователя по email
}

// NewAuthService создает новый экземпляр AuthService с заданным хранилищем
func NewAuthService(storage AuthStorage) *AuthService {
	return &AuthService{storage: storage}
}

// GetUser возвращает информацию о пользователе по email
func (auth *AuthService) GetUser(ctx context.Context, email string) (*models.User, error) {
	user, err := auth.storage.FindUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("ошибка при поиске пользователя: %w", err)
	}

	if user == nil {
		return nil, ErrUserIsNotExist
	}

	return &user.User, nil
}
