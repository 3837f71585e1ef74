package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/Renal37/order-integrity/internal/models"
	"github.com/jackc/pgx/v5"
)

const (
	SelectUserQuery = `
        SELECT
            id::text,
            email,
            name,
            is_active,
            is_admin
        FROM
            users
        WHERE
            email = $1
    `
)

type UserDB struct {
	models.User
}

// FindUser находит пользователя в базе данных по email
func (d *Database) FindUser(ctx context.Context, email string) (*UserDB, error) {
	user := &UserDB{}

	if err := d.db.QueryRow(ctx, SelectUserQuery, email).Scan(
		&user.ID, &user.Email, &user.Name, &user.Active, &user.Admin,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}
	return user, nil
}
