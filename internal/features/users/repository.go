// Package users — repository.go отвечает за чтение таблицы users.
// Каждая функция выполняет один SQL-запрос и возвращает результат или ошибку.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shaxe.ru/shaxe-backend/internal/common"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetByID возвращает пользователя по ID.
// Если не найден — ошибка, оборачивающая common.ErrUserNotFound.
func (r *Repository) GetByID(ctx context.Context, userID int64) (*User, error) {
	query := `
		SELECT id, username, is_verified, date_of_birth, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var u User
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&u.ID, &u.Username, &u.IsVerified, &u.DateOfBirth,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user_id=%d: %w", userID, common.ErrUserNotFound)
		}
		return nil, fmt.Errorf("ошибка чтения пользователя (user_id=%d): %w", userID, err)
	}
	return &u, nil
}

// IsVerified проверяет, прошёл ли пользователь верификацию.
// Несуществующий пользователь считается неверифицированным.
func (r *Repository) IsVerified(ctx context.Context, userID int64) (bool, error) {
	query := `SELECT COALESCE((SELECT is_verified FROM users WHERE id = $1), FALSE)`
	var verified bool
	err := r.db.QueryRow(ctx, query, userID).Scan(&verified)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки верификации (user_id=%d): %w", userID, err)
	}
	return verified, nil
}

// Exists проверяет, что пользователь есть в базе.
func (r *Repository) Exists(ctx context.Context, userID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, userID).Scan(&exists)
	return exists, err
}
