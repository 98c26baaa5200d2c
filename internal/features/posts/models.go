// Package posts — внешний коллаборатор ядра: сам контент.
// models.go описывает структуру поста. Ядро читает пост почти всегда
// как read-only; меняются только поля щита (is_shielded / shield_expires_at).
package posts

import "time"

// Post представляет один пост платформы.
type Post struct {
	ID             int64      `db:"id"`
	UserID         int64      `db:"user_id"` // Автор поста
	Content        string     `db:"content"`
	IsAdultContent bool       `db:"is_adult_content"`
	IsShielded     bool       `db:"is_shielded"`       // Пост "под щитом" — скрыт из листингов
	ShieldExpires  *time.Time `db:"shield_expires_at"` // Когда щит спадает
	IsBanned       bool       `db:"is_banned"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// ShieldActive сообщает, действует ли щит на момент now.
// Щит с истёкшим сроком считается снятым, даже если флаг ещё не сброшен.
func (p *Post) ShieldActive(now time.Time) bool {
	return p.IsShielded && p.ShieldExpires != nil && p.ShieldExpires.After(now)
}
