// Package bans — repository.go выполняет операции с таблицей user_bans.
package bans

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// LatestLevel возвращает уровень последнего (по created_at) бана пользователя.
// Если банов не было — 0.
func (r *Repository) LatestLevel(ctx context.Context, userID int64) (int, error) {
	query := `
		SELECT ban_level FROM user_bans
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var level int
	err := r.db.QueryRow(ctx, query, userID).Scan(&level)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("ошибка чтения уровня бана (user_id=%d): %w", userID, err)
	}
	return level, nil
}

// Insert добавляет новую запись бана. Прошлые записи не трогаются —
// полная история нужна для аудита и расчёта следующей эскалации.
func (r *Repository) Insert(ctx context.Context, b *Ban) error {
	query := `
		INSERT INTO user_bans (user_id, ban_level, ban_end_time, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, b.UserID, b.BanLevel, b.BanEndTime, b.Reason).
		Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка записи бана (user_id=%d): %w", b.UserID, err)
	}
	return nil
}

// ActiveBan возвращает действующий бан пользователя (ban_end_time в будущем).
// При нескольких действующих банах побеждает самый поздний ban_end_time.
// Если действующего бана нет — (nil, nil).
func (r *Repository) ActiveBan(ctx context.Context, userID int64) (*Ban, error) {
	query := `
		SELECT id, user_id, ban_level, ban_end_time, reason, created_at
		FROM user_bans
		WHERE user_id = $1 AND ban_end_time > NOW()
		ORDER BY ban_end_time DESC
		LIMIT 1
	`
	var b Ban
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&b.ID, &b.UserID, &b.BanLevel, &b.BanEndTime, &b.Reason, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка чтения действующего бана (user_id=%d): %w", userID, err)
	}
	return &b, nil
}

// History возвращает всю историю банов пользователя, свежие первыми.
func (r *Repository) History(ctx context.Context, userID int64) ([]*Ban, error) {
	query := `
		SELECT id, user_id, ban_level, ban_end_time, reason, created_at
		FROM user_bans
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения истории банов (user_id=%d): %w", userID, err)
	}
	defer rows.Close()

	var bansList []*Ban
	for rows.Next() {
		var b Ban
		if err := rows.Scan(&b.ID, &b.UserID, &b.BanLevel, &b.BanEndTime, &b.Reason, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования бана: %w", err)
		}
		bansList = append(bansList, &b)
	}
	return bansList, rows.Err()
}
