// Package trending — service.go содержит бизнес-логику пересчёта,
// выдачи баллов и листингов. Пересчёт синхронный: его запускает
// мутация реакции, фоновых инкрементов нет — каждый раз всё
// выводится заново из сырых реакций.
package trending

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"shaxe.ru/shaxe-backend/internal/config"
	"shaxe.ru/shaxe-backend/internal/features/bans"
	"shaxe.ru/shaxe-backend/internal/features/posts"
)

// SnapshotStore — операции с кешем снапшотов и залами.
// Реализуется Repository; в тестах подменяется фейком.
type SnapshotStore interface {
	Upsert(ctx context.Context, s *Snapshot) error
	Get(ctx context.Context, postID int64) (*Snapshot, error)
	List(ctx context.Context, since *time.Time, limit, offset int) ([]*ListedPost, error)
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
	RecordHall(ctx context.Context, hall string, period Period, since *time.Time, limit int) (int64, error)
	ListHall(ctx context.Context, hall string, period Period, limit, offset int) ([]*HallEntry, error)
}

// Escalator выдаёт следующий бан по лестнице. Реализуется bans.Service.
type Escalator interface {
	Escalate(ctx context.Context, userID int64, reason string) (*bans.Ban, error)
}

// PostReader читает пост. Реализуется posts.Repository.
type PostReader interface {
	GetByID(ctx context.Context, postID int64) (*posts.Post, error)
}

// CountsReader отдаёт scoring-счётчики поста. Реализуется engagement.Repository.
type CountsReader interface {
	ScoringCounts(ctx context.Context, postID int64) (Counts, error)
}

// Notifier отправляет событие "пост в тренде". Best-effort, без ошибок.
type Notifier interface {
	PostTrending(ctx context.Context, postID int64, score float64)
}

// Service управляет трендовым движком.
type Service struct {
	repo      SnapshotStore
	postsRepo PostReader
	counts    CountsReader
	escalator Escalator
	notifier  Notifier
	rdb       *redis.Client // nil = кеш листингов выключен
	clock     clockwork.Clock
	cfg       *config.Config
}

// NewService создаёт трендовый сервис.
func NewService(
	repo SnapshotStore,
	postsRepo PostReader,
	counts CountsReader,
	escalator Escalator,
	notifier Notifier,
	rdb *redis.Client,
	clock clockwork.Clock,
	cfg *config.Config,
) *Service {
	return &Service{
		repo:      repo,
		postsRepo: postsRepo,
		counts:    counts,
		escalator: escalator,
		notifier:  notifier,
		rdb:       rdb,
		clock:     clock,
		cfg:       cfg,
	}
}

// Refresh пересчитывает и upsert-ит снапшот поста по свежему снапшоту
// счётчиков. Вызывается после КАЖДОЙ успешной мутации реакции.
//
// Побочный эффект: если счётчики пересекли порог токсичности —
// эскалируется бан автора. Проверка выполняется при каждом пересчёте,
// не только при первом пересечении порога.
func (s *Service) Refresh(ctx context.Context, post *posts.Post, c Counts) error {
	now := s.clock.Now()
	score := Score(c, post.CreatedAt, now)

	snap := &Snapshot{
		PostID:           post.ID,
		TrendingScore:    score,
		EngagementCount:  c.Total,
		UniqueEngagers:   c.UniqueEngagers,
		NetSentiment:     BaseEngagement(c),
		TimeDecayedScore: score,
		CalculatedAt:     now,
	}
	if err := s.repo.Upsert(ctx, snap); err != nil {
		return err
	}

	if ShouldAutoBan(c, s.cfg.TrendingBanToxicity, s.cfg.TrendingBanMinEngagers) {
		if _, err := s.escalator.Escalate(ctx, post.UserID, bans.ReasonNegativeEngagement); err != nil {
			return fmt.Errorf("эскалация бана (user_id=%d): %w", post.UserID, err)
		}
	}

	if s.notifier != nil && score >= s.cfg.TrendingNotifyScore {
		s.notifier.PostTrending(ctx, post.ID, score)
	}

	return nil
}

// Get возвращает снапшот поста. Если кеша нет — балл считается на лету
// по текущим счётчикам и НЕ сохраняется: читающий трафик не оставляет
// побочных эффектов, кеш пишет только путь мутаций.
func (s *Service) Get(ctx context.Context, postID int64) (*Snapshot, bool, error) {
	snap, err := s.repo.Get(ctx, postID)
	if err != nil {
		return nil, false, err
	}
	if snap != nil {
		return snap, true, nil
	}

	post, err := s.postsRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, false, err
	}
	c, err := s.counts.ScoringCounts(ctx, postID)
	if err != nil {
		return nil, false, err
	}

	now := s.clock.Now()
	score := Score(c, post.CreatedAt, now)
	return &Snapshot{
		PostID:           postID,
		TrendingScore:    score,
		EngagementCount:  c.Total,
		UniqueEngagers:   c.UniqueEngagers,
		NetSentiment:     BaseEngagement(c),
		TimeDecayedScore: score,
		CalculatedAt:     now,
	}, false, nil
}

// List возвращает трендовый листинг периода. Результат кешируется
// в redis на короткий TTL; недоступный redis не ломает запрос.
func (s *Service) List(ctx context.Context, period Period, limit, offset int) ([]*ListedPost, error) {
	cacheKey := fmt.Sprintf("trending:list:%s:%d:%d", period, limit, offset)

	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var cached []*ListedPost
			if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
				return cached, nil
			}
		}
	}

	list, err := s.repo.List(ctx, period.Since(s.clock.Now()), limit, offset)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if raw, jsonErr := json.Marshal(list); jsonErr == nil {
			if err := s.rdb.Set(ctx, cacheKey, raw, s.cfg.TrendingListCacheTTL).Err(); err != nil {
				log.WithError(err).Debug("Не удалось закешировать листинг трендов")
			}
		}
	}

	return list, nil
}

// HallOfFame возвращает зал славы за период.
func (s *Service) HallOfFame(ctx context.Context, period Period, limit, offset int) ([]*HallEntry, error) {
	return s.repo.ListHall(ctx, "fame", period, limit, offset)
}

// HallOfShame возвращает зал позора за период.
func (s *Service) HallOfShame(ctx context.Context, period Period, limit, offset int) ([]*HallEntry, error) {
	return s.repo.ListHall(ctx, "shame", period, limit, offset)
}

// RecordHalls фиксирует залы славы и позора по всем периодам.
// Запускается ежедневным джобом.
func (s *Service) RecordHalls(ctx context.Context) error {
	now := s.clock.Now()
	for _, period := range []Period{PeriodDay, PeriodWeek, PeriodMonth, PeriodYear} {
		for _, hall := range []string{"fame", "shame"} {
			n, err := s.repo.RecordHall(ctx, hall, period, period.Since(now), s.cfg.HallOfFameSize)
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{
				"hall":   hall,
				"period": period,
				"rows":   n,
			}).Debug("Зал обновлён")
		}
	}
	return nil
}

// PruneStale удаляет давно не пересчитывавшиеся снапшоты.
// Запускается ежедневным джобом.
func (s *Service) PruneStale(ctx context.Context) (int64, error) {
	cutoff := s.clock.Now().Add(-s.cfg.TrendingCacheMaxAge)
	return s.repo.PruneBefore(ctx, cutoff)
}
