// Package bans реализует эскалацию банов за токсичное вовлечение.
// models.go описывает запись бана. История банов append-only:
// записи никогда не изменяются и не удаляются.
package bans

import "time"

// Ban — одна запись в истории банов пользователя.
// "Текущий бан" = самая свежая запись с ban_end_time в будущем.
type Ban struct {
	ID         int64     `db:"id"`
	UserID     int64     `db:"user_id"`
	BanLevel   int       `db:"ban_level"`    // Уровень 1..MaxLevel, только растёт
	BanEndTime time.Time `db:"ban_end_time"` // Когда бан истекает
	Reason     string    `db:"reason"`
	CreatedAt  time.Time `db:"created_at"`
}

// ReasonNegativeEngagement — причина автобана от trending-движка.
const ReasonNegativeEngagement = "Negative engagement on post"
