// Package trending — repository.go выполняет операции с таблицами
// trending_cache, hall_of_fame и hall_of_shame.
package trending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Upsert записывает снапшот поста (insert-or-update одной командой —
// конкурентные пересчёты одного поста не могут переплестись в
// полузаписанную строку, побеждает последний писатель).
// GREATEST по calculated_at держит его монотонно неубывающим.
func (r *Repository) Upsert(ctx context.Context, s *Snapshot) error {
	query := `
		INSERT INTO trending_cache
			(post_id, trending_score, engagement_count, unique_engagers, net_sentiment, time_decayed_score, calculated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (post_id) DO UPDATE
		SET trending_score     = EXCLUDED.trending_score,
		    engagement_count   = EXCLUDED.engagement_count,
		    unique_engagers    = EXCLUDED.unique_engagers,
		    net_sentiment      = EXCLUDED.net_sentiment,
		    time_decayed_score = EXCLUDED.time_decayed_score,
		    calculated_at      = GREATEST(trending_cache.calculated_at, EXCLUDED.calculated_at)
	`
	_, err := r.db.Exec(ctx, query,
		s.PostID, s.TrendingScore, s.EngagementCount,
		s.UniqueEngagers, s.NetSentiment, s.TimeDecayedScore, s.CalculatedAt,
	)
	if err != nil {
		return fmt.Errorf("ошибка записи снапшота (post_id=%d): %w", s.PostID, err)
	}
	return nil
}

// Get возвращает снапшот поста или (nil, nil), если его ещё не считали.
func (r *Repository) Get(ctx context.Context, postID int64) (*Snapshot, error) {
	query := `
		SELECT post_id, trending_score, engagement_count, unique_engagers,
		       net_sentiment, time_decayed_score, calculated_at
		FROM trending_cache
		WHERE post_id = $1
	`
	var s Snapshot
	err := r.db.QueryRow(ctx, query, postID).Scan(
		&s.PostID, &s.TrendingScore, &s.EngagementCount, &s.UniqueEngagers,
		&s.NetSentiment, &s.TimeDecayedScore, &s.CalculatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка чтения снапшота (post_id=%d): %w", postID, err)
	}
	return &s, nil
}

// List возвращает трендовый листинг: посты периода по убыванию балла.
// Исключаются забаненные посты и посты под действующим щитом
// (истёкший щит снова показывается — явного "снять щит" не существует).
func (r *Repository) List(ctx context.Context, since *time.Time, limit, offset int) ([]*ListedPost, error) {
	query := `
		SELECT p.id, p.user_id, p.content, p.is_adult_content, p.created_at,
		       u.username, u.is_verified,
		       COALESCE(tc.trending_score, 0) AS trending_score,
		       COUNT(e.id) FILTER (WHERE e.kind = 'like')    AS likes,
		       COUNT(e.id) FILTER (WHERE e.kind = 'dislike') AS dislikes,
		       COUNT(e.id) FILTER (WHERE e.kind = 'share')   AS shares,
		       COUNT(e.id) FILTER (WHERE e.kind = 'shame')   AS shames
		FROM posts p
		JOIN users u ON p.user_id = u.id
		LEFT JOIN trending_cache tc ON p.id = tc.post_id
		LEFT JOIN engagement e ON p.id = e.post_id
		WHERE p.is_banned = FALSE
		  AND (p.is_shielded = FALSE OR p.shield_expires_at <= NOW())
		  AND ($1::timestamp IS NULL OR p.created_at >= $1)
		GROUP BY p.id, p.user_id, p.content, p.is_adult_content, p.created_at,
		         u.username, u.is_verified, tc.trending_score
		ORDER BY COALESCE(tc.trending_score, 0) DESC, p.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, since, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка листинга трендов: %w", err)
	}
	defer rows.Close()

	var list []*ListedPost
	for rows.Next() {
		var lp ListedPost
		if err := rows.Scan(
			&lp.PostID, &lp.UserID, &lp.Content, &lp.IsAdultContent, &lp.CreatedAt,
			&lp.Username, &lp.AuthorVerified, &lp.TrendingScore,
			&lp.Likes, &lp.Dislikes, &lp.Shares, &lp.Shames,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования листинга: %w", err)
		}
		list = append(list, &lp)
	}
	return list, rows.Err()
}

// PruneBefore удаляет снапшоты, не пересчитывавшиеся с cutoff.
// Кеш производный — потерянная строка пересчитается на первой же мутации.
func (r *Repository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM trending_cache WHERE calculated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки trending_cache: %w", err)
	}
	return tag.RowsAffected(), nil
}

// hallTables защищает от подстановки произвольного имени таблицы.
var hallTables = map[string]string{
	"fame":  "hall_of_fame",
	"shame": "hall_of_shame",
}

// RecordHall записывает в зал славы (order DESC) или позора (order ASC)
// лучшие/худшие посты периода на текущую дату.
func (r *Repository) RecordHall(ctx context.Context, hall string, period Period, since *time.Time, limit int) (int64, error) {
	table, ok := hallTables[hall]
	if !ok {
		return 0, fmt.Errorf("неизвестный зал: %q", hall)
	}
	order := "DESC"
	if hall == "shame" {
		order = "ASC"
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (post_id, user_id, trending_score, period, date_recorded)
		SELECT p.id, p.user_id, tc.trending_score, $1, CURRENT_DATE
		FROM trending_cache tc
		JOIN posts p ON tc.post_id = p.id
		WHERE p.is_banned = FALSE
		  AND ($2::timestamp IS NULL OR p.created_at >= $2)
		ORDER BY tc.trending_score %s
		LIMIT $3
		ON CONFLICT (post_id, period, date_recorded) DO NOTHING
	`, table, order)

	tag, err := r.db.Exec(ctx, query, period, since, limit)
	if err != nil {
		return 0, fmt.Errorf("ошибка записи в %s: %w", table, err)
	}
	return tag.RowsAffected(), nil
}

// ListHall возвращает записи зала славы/позора за период, свежие первыми.
func (r *Repository) ListHall(ctx context.Context, hall string, period Period, limit, offset int) ([]*HallEntry, error) {
	table, ok := hallTables[hall]
	if !ok {
		return nil, fmt.Errorf("неизвестный зал: %q", hall)
	}
	order := "DESC"
	if hall == "shame" {
		order = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT h.post_id, h.user_id, p.content, u.username,
		       h.trending_score, h.date_recorded, p.created_at
		FROM %s h
		JOIN posts p ON h.post_id = p.id
		JOIN users u ON h.user_id = u.id
		WHERE h.period = $1
		ORDER BY h.trending_score %s, h.date_recorded DESC
		LIMIT $2 OFFSET $3
	`, table, order)

	rows, err := r.db.Query(ctx, query, period, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения %s: %w", table, err)
	}
	defer rows.Close()

	var entries []*HallEntry
	for rows.Next() {
		var h HallEntry
		if err := rows.Scan(
			&h.PostID, &h.UserID, &h.Content, &h.Username,
			&h.TrendingScore, &h.DateRecorded, &h.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи зала: %w", err)
		}
		entries = append(entries, &h)
	}
	return entries, rows.Err()
}
