// Package notifications публикует доменные события в redis pub/sub.
// Подписчики (фронтовый push-шлюз, телеграм-мост) живут в отдельных
// сервисах; здесь только отправка. Всё best-effort: потерянное
// событие — это недоставленное уведомление, не сломанная транзакция.
package notifications

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	channelTrending = "shaxe:events:trending"
	channelShield   = "shaxe:events:shield"
)

// Publisher шлёт события в redis. Нулевой клиент = уведомления
// выключены, все методы превращаются в no-op.
type Publisher struct {
	rdb *redis.Client
}

// NewPublisher создаёт издателя событий.
func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

type trendingEvent struct {
	PostID int64     `json:"post_id"`
	Score  float64   `json:"score"`
	At     time.Time `json:"at"`
}

type shieldEvent struct {
	PostID int64     `json:"post_id"`
	UserID int64     `json:"user_id"`
	Until  time.Time `json:"until"`
	At     time.Time `json:"at"`
}

// PostTrending публикует событие "пост набрал трендовый балл".
func (p *Publisher) PostTrending(ctx context.Context, postID int64, score float64) {
	if p == nil || p.rdb == nil {
		return
	}
	p.publish(ctx, channelTrending, trendingEvent{
		PostID: postID,
		Score:  score,
		At:     time.Now(),
	})
}

// PostShielded публикует событие "на пост поставлен щит".
func (p *Publisher) PostShielded(ctx context.Context, postID, userID int64, until time.Time) {
	if p == nil || p.rdb == nil {
		return
	}
	p.publish(ctx, channelShield, shieldEvent{
		PostID: postID,
		UserID: userID,
		Until:  until,
		At:     time.Now(),
	})
}

func (p *Publisher) publish(ctx context.Context, channel string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).WithField("channel", channel).Error("Не удалось сериализовать событие")
		return
	}
	if err := p.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		log.WithError(err).WithField("channel", channel).Warn("Не удалось опубликовать событие")
	}
}
