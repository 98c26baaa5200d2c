// Package posts — repository.go выполняет операции с таблицей posts.
package posts

import (
	"context"
	"errors"
	"fmt"
	"time"

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

// GetByID возвращает пост по ID.
// Если не найден — ошибка, оборачивающая common.ErrPostNotFound.
func (r *Repository) GetByID(ctx context.Context, postID int64) (*Post, error) {
	query := `
		SELECT id, user_id, content, is_adult_content, is_shielded, shield_expires_at,
		       is_banned, created_at, updated_at
		FROM posts
		WHERE id = $1
	`
	var p Post
	err := r.db.QueryRow(ctx, query, postID).Scan(
		&p.ID, &p.UserID, &p.Content, &p.IsAdultContent,
		&p.IsShielded, &p.ShieldExpires, &p.IsBanned,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("post_id=%d: %w", postID, common.ErrPostNotFound)
		}
		return nil, fmt.Errorf("ошибка чтения поста (post_id=%d): %w", postID, err)
	}
	return &p, nil
}

// SetShield включает щит поста до указанного времени.
// Вызывается из транзакции экономики (points), поэтому принимает pgx.Tx.
func SetShield(ctx context.Context, tx pgx.Tx, postID int64, until time.Time) error {
	query := `
		UPDATE posts
		SET is_shielded = TRUE, shield_expires_at = $2, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := tx.Exec(ctx, query, postID, until)
	if err != nil {
		return fmt.Errorf("ошибка установки щита (post_id=%d): %w", postID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post_id=%d: %w", postID, common.ErrPostNotFound)
	}
	return nil
}

// ClearExpiredShields сбрасывает флаг щита у постов с истёкшим сроком.
// Листинги и так фильтруют по shield_expires_at, джоб лишь держит флаг честным.
func (r *Repository) ClearExpiredShields(ctx context.Context) (int64, error) {
	query := `
		UPDATE posts
		SET is_shielded = FALSE, updated_at = NOW()
		WHERE is_shielded = TRUE AND shield_expires_at <= NOW()
	`
	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("ошибка сброса истёкших щитов: %w", err)
	}
	return tag.RowsAffected(), nil
}
