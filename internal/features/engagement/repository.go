// Package engagement — repository.go выполняет операции с таблицей engagement.
// Идемпотентность вставки обеспечивается уникальным индексом
// (post_id, user_id, kind) на стороне БД, без блокировок в приложении.
package engagement

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shaxe.ru/shaxe-backend/internal/features/trending"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// AddReaction вставляет реакцию, если её ещё нет.
// Дубликат — успешный no-op: возвращается (nil, nil), не ошибка.
// Проигравший из двух конкурентных вызовов тоже получает (nil, nil) —
// конфликт разрешает уникальный индекс.
func (r *Repository) AddReaction(ctx context.Context, postID, userID int64, kind Kind) (*Reaction, error) {
	query := `
		INSERT INTO engagement (post_id, user_id, kind)
		VALUES ($1, $2, $3)
		ON CONFLICT (post_id, user_id, kind) DO NOTHING
		RETURNING id, post_id, user_id, kind, created_at
	`
	var re Reaction
	err := r.db.QueryRow(ctx, query, postID, userID, kind).Scan(
		&re.ID, &re.PostID, &re.UserID, &re.Kind, &re.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Конфликт: запись уже существует
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка добавления реакции (post_id=%d): %w", postID, err)
	}
	return &re, nil
}

// RemoveReaction удаляет реакцию, если она есть.
// Отсутствующая реакция — успешный no-op: (nil, nil).
func (r *Repository) RemoveReaction(ctx context.Context, postID, userID int64, kind Kind) (*Reaction, error) {
	query := `
		DELETE FROM engagement
		WHERE post_id = $1 AND user_id = $2 AND kind = $3
		RETURNING id, post_id, user_id, kind, created_at
	`
	var re Reaction
	err := r.db.QueryRow(ctx, query, postID, userID, kind).Scan(
		&re.ID, &re.PostID, &re.UserID, &re.Kind, &re.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка удаления реакции (post_id=%d): %w", postID, err)
	}
	return &re, nil
}

// Stats возвращает агрегированные счётчики реакций поста одним запросом.
// Один снапшот на мутацию: trending и sentiment-пересчёт получают
// ОДНИ И ТЕ ЖЕ числа и не могут разойтись между собой.
func (r *Repository) Stats(ctx context.Context, postID int64) (*Stats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE kind = 'like')       AS likes,
			COUNT(*) FILTER (WHERE kind = 'dislike')    AS dislikes,
			COUNT(*) FILTER (WHERE kind = 'share')      AS shares,
			COUNT(*) FILTER (WHERE kind = 'shame')      AS shames,
			COUNT(*) FILTER (WHERE kind = 'favorite')   AS favorites,
			COUNT(*) FILTER (WHERE kind = 'shaxe_view') AS shaxe_views,
			COUNT(DISTINCT user_id)                     AS unique_engagers,
			COUNT(DISTINCT user_id) FILTER (WHERE kind IN ('like','dislike','share','shame')) AS scoring_engagers,
			COUNT(*) FILTER (WHERE kind IN ('like','dislike','share','shame'))                AS scoring_total
		FROM engagement
		WHERE post_id = $1
	`
	var st Stats
	err := r.db.QueryRow(ctx, query, postID).Scan(
		&st.Likes, &st.Dislikes, &st.Shares, &st.Shames,
		&st.Favorites, &st.ShaxeViews,
		&st.UniqueEngagers, &st.ScoringEngagers, &st.ScoringTotal,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка агрегации реакций (post_id=%d): %w", postID, err)
	}
	return &st, nil
}

// ScoringCounts возвращает счётчики в виде, который потребляет trending.
// Используется read-путём трендов для расчёта балла "на лету".
func (r *Repository) ScoringCounts(ctx context.Context, postID int64) (trending.Counts, error) {
	st, err := r.Stats(ctx, postID)
	if err != nil {
		return trending.Counts{}, err
	}
	return st.ToScoringCounts(), nil
}

// UserKinds возвращает список типов реакций пользователя на пост.
func (r *Repository) UserKinds(ctx context.Context, postID, userID int64) ([]Kind, error) {
	query := `
		SELECT kind FROM engagement
		WHERE post_id = $1 AND user_id = $2
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, postID, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения реакций пользователя (post_id=%d): %w", postID, err)
	}
	defer rows.Close()

	var kinds []Kind
	for rows.Next() {
		var k Kind
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("ошибка сканирования реакции: %w", err)
		}
		kinds = append(kinds, k)
	}
	return kinds, rows.Err()
}
