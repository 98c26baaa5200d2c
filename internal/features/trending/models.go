// Package trending вычисляет трендовые баллы постов и решает,
// когда токсичное вовлечение должно банить автора.
// models.go описывает снапшот кеша, периоды выборки и строки листингов.
package trending

import (
	"fmt"
	"time"

	"shaxe.ru/shaxe-backend/internal/common"
)

// Snapshot — материализованный снапшот трендового балла поста.
// Одна строка на пост, upsert по post_id. Производные данные:
// полностью пересчитываются из реакций, источником правды не являются.
type Snapshot struct {
	PostID           int64     `db:"post_id" json:"post_id"`
	TrendingScore    float64   `db:"trending_score" json:"trending_score"`
	EngagementCount  int       `db:"engagement_count" json:"engagement_count"`
	UniqueEngagers   int       `db:"unique_engagers" json:"unique_engagers"`
	NetSentiment     int       `db:"net_sentiment" json:"net_sentiment"`
	TimeDecayedScore float64   `db:"time_decayed_score" json:"time_decayed_score"`
	CalculatedAt     time.Time `db:"calculated_at" json:"calculated_at"`
}

// Period — период выборки листингов.
type Period string

const (
	PeriodDay     Period = "day"
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodYear    Period = "year"
	PeriodAllTime Period = "all-time"
)

// ParsePeriod валидирует строковый период.
// Неизвестное значение — ошибка валидации, а не тихий дефолт.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear, PeriodAllTime:
		return Period(s), nil
	default:
		return "", fmt.Errorf("%q: %w", s, common.ErrInvalidPeriod)
	}
}

// Since возвращает нижнюю границу created_at для периода.
// Для all-time границы нет — возвращается nil.
func (p Period) Since(now time.Time) *time.Time {
	var d time.Duration
	switch p {
	case PeriodDay:
		d = 24 * time.Hour
	case PeriodWeek:
		d = 7 * 24 * time.Hour
	case PeriodMonth:
		d = 30 * 24 * time.Hour
	case PeriodYear:
		d = 365 * 24 * time.Hour
	default:
		return nil
	}
	t := now.Add(-d)
	return &t
}

// ListedPost — строка трендового листинга: пост + автор + счётчики.
type ListedPost struct {
	PostID         int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Content        string    `json:"content"`
	IsAdultContent bool      `json:"is_adult_content"`
	CreatedAt      time.Time `json:"created_at"`
	Username       string    `json:"username"`
	AuthorVerified bool      `json:"author_verified"`
	TrendingScore  float64   `json:"trending_score"`
	Likes          int       `json:"likes"`
	Dislikes       int       `json:"dislikes"`
	Shares         int       `json:"shares"`
	Shames         int       `json:"shames"`
}

// HallEntry — запись зала славы или зала позора.
// Append-only: ежедневный джоб фиксирует лучшие/худшие посты периода.
type HallEntry struct {
	PostID        int64     `json:"post_id"`
	UserID        int64     `json:"user_id"`
	Content       string    `json:"content"`
	Username      string    `json:"username"`
	TrendingScore float64   `json:"trending_score"`
	DateRecorded  time.Time `json:"date_recorded"`
	CreatedAt     time.Time `json:"created_at"`
}
