// Package bans — service.go содержит бизнес-логику лестницы банов.
package bans

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

// Store — операции с историей банов, нужные сервису.
// Реализуется Repository; в тестах подменяется фейком.
type Store interface {
	LatestLevel(ctx context.Context, userID int64) (int, error)
	Insert(ctx context.Context, b *Ban) error
	ActiveBan(ctx context.Context, userID int64) (*Ban, error)
	History(ctx context.Context, userID int64) ([]*Ban, error)
}

// Service управляет эскалацией и проверкой банов.
type Service struct {
	repo  Store
	clock clockwork.Clock
}

// NewService создаёт сервис банов.
func NewService(repo Store, clock clockwork.Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

// Escalate выдаёт пользователю следующий по лестнице бан.
// Уровень = min(уровень последнего бана + 1, MaxLevel), длительность по таблице.
// Всегда добавляет новую запись, историю не переписывает.
func (s *Service) Escalate(ctx context.Context, userID int64, reason string) (*Ban, error) {
	currentLevel, err := s.repo.LatestLevel(ctx, userID)
	if err != nil {
		return nil, err
	}

	level := NextLevel(currentLevel)
	ban := &Ban{
		UserID:     userID,
		BanLevel:   level,
		BanEndTime: s.clock.Now().Add(Duration(level)),
		Reason:     reason,
	}

	if err := s.repo.Insert(ctx, ban); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id":   userID,
		"ban_level": level,
		"until":     ban.BanEndTime,
		"reason":    reason,
	}).Warn("Выдан бан")

	return ban, nil
}

// IsBanned проверяет, действует ли сейчас бан на пользователя.
// Возвращает флаг и время окончания бана (nil, если бана нет).
func (s *Service) IsBanned(ctx context.Context, userID int64) (bool, *time.Time, error) {
	ban, err := s.repo.ActiveBan(ctx, userID)
	if err != nil {
		return false, nil, err
	}
	if ban == nil {
		return false, nil, nil
	}
	return true, &ban.BanEndTime, nil
}

// History возвращает полную историю банов пользователя (для аудита).
func (s *Service) History(ctx context.Context, userID int64) ([]*Ban, error) {
	return s.repo.History(ctx, userID)
}
