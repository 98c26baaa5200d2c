// Package engagement реализует хранилище реакций — единственный
// источник правды для трендов и экономики очков.
// models.go описывает реакцию и агрегированную статистику поста.
package engagement

import (
	"time"

	"shaxe.ru/shaxe-backend/internal/features/points"
	"shaxe.ru/shaxe-backend/internal/features/trending"
)

// Kind — тип реакции на пост.
type Kind string

const (
	KindLike      Kind = "like"
	KindDislike   Kind = "dislike"
	KindShare     Kind = "share"
	KindShame     Kind = "shame"
	KindShaxe     Kind = "shaxe"    // Реакция для неверифицированных, в тренды не идёт
	KindFavorite  Kind = "favorite"
	KindShaxeView Kind = "shaxe_view"
)

// validKinds — все допустимые типы реакций.
var validKinds = map[Kind]bool{
	KindLike:      true,
	KindDislike:   true,
	KindShare:     true,
	KindShame:     true,
	KindShaxe:     true,
	KindFavorite:  true,
	KindShaxeView: true,
}

// scoringKinds — типы, участвующие в расчёте трендов и автобана.
var scoringKinds = map[Kind]bool{
	KindLike:    true,
	KindDislike: true,
	KindShare:   true,
	KindShame:   true,
}

// Valid сообщает, известен ли такой тип реакции.
func (k Kind) Valid() bool { return validKinds[k] }

// Scoring сообщает, учитывается ли реакция в trending-расчётах.
func (k Kind) Scoring() bool { return scoringKinds[k] }

// Reaction — одна реакция пользователя на пост.
// Инвариант уникальности: не больше одной записи на (post_id, user_id, kind).
// Повторная отправка — no-op, не ошибка.
type Reaction struct {
	ID        int64     `db:"id"`
	PostID    int64     `db:"post_id"`
	UserID    int64     `db:"user_id"`
	Kind      Kind      `db:"kind"`
	CreatedAt time.Time `db:"created_at"`
}

// Stats — агрегированные счётчики реакций поста.
// Все поля по умолчанию 0; отсутствие строк в БД не превращается в NULL.
type Stats struct {
	Likes      int `json:"likes"`
	Dislikes   int `json:"dislikes"`
	Shares     int `json:"shares"`
	Shames     int `json:"shames"`
	Favorites  int `json:"favorites"`
	ShaxeViews int `json:"shaxe_views"`
	// UniqueEngagers — уникальные пользователи по ВСЕМ типам реакций.
	UniqueEngagers int `json:"unique_engagers"`
	// ScoringEngagers — уникальные пользователи по scoring-типам
	// (like/dislike/share/shame). Именно это значение видит trending.
	ScoringEngagers int `json:"-"`
	// ScoringTotal — общее число scoring-реакций.
	ScoringTotal int `json:"-"`
}

// ToScoringCounts переводит статистику в счётчики trending-движка.
func (s *Stats) ToScoringCounts() trending.Counts {
	return trending.Counts{
		Likes:          s.Likes,
		Dislikes:       s.Dislikes,
		Shares:         s.Shares,
		Shames:         s.Shames,
		UniqueEngagers: s.ScoringEngagers,
		Total:          s.ScoringTotal,
	}
}

// ToSentimentCounts переводит статистику в счётчики sentiment-пересчёта.
// В отличие от трендов здесь участвуют и favorites.
func (s *Stats) ToSentimentCounts() points.SentimentCounts {
	return points.SentimentCounts{
		Likes:     s.Likes,
		Dislikes:  s.Dislikes,
		Shares:    s.Shares,
		Shames:    s.Shames,
		Favorites: s.Favorites,
	}
}
