package engagement

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"shaxe.ru/shaxe-backend/internal/common"
	"shaxe.ru/shaxe-backend/internal/features/points"
	"shaxe.ru/shaxe-backend/internal/features/posts"
	"shaxe.ru/shaxe-backend/internal/features/trending"
)

// Store — операции с таблицей реакций. Реализуется Repository.
type Store interface {
	AddReaction(ctx context.Context, postID, userID int64, kind Kind) (*Reaction, error)
	RemoveReaction(ctx context.Context, postID, userID int64, kind Kind) (*Reaction, error)
	Stats(ctx context.Context, postID int64) (*Stats, error)
	UserKinds(ctx context.Context, postID, userID int64) ([]Kind, error)
}

// PostReader читает пост. Реализуется posts.Repository.
type PostReader interface {
	GetByID(ctx context.Context, postID int64) (*posts.Post, error)
}

// BanChecker сообщает, забанен ли пользователь. Реализуется bans.Service.
type BanChecker interface {
	IsBanned(ctx context.Context, userID int64) (bool, *time.Time, error)
}

// UserGate отвечает на вопросы о пользователе: верифицирован ли он
// и совершеннолетний ли. Реализуется users.Service.
type UserGate interface {
	IsVerified(ctx context.Context, userID int64) (bool, error)
	IsAdult(ctx context.Context, userID int64) (bool, error)
}

// TrendingRefresher пересчитывает трендовый снапшот поста.
type TrendingRefresher interface {
	Refresh(ctx context.Context, post *posts.Post, c trending.Counts) error
}

// SentimentAdjuster пересчитывает бонус/штраф автора поста.
type SentimentAdjuster interface {
	Adjust(ctx context.Context, ownerID, postID int64, counts points.SentimentCounts) error
}

// ReactionAwarder начисляет очки реагирующему.
type ReactionAwarder interface {
	AwardForReaction(ctx context.Context, userID int64, kind string) error
}

// Service — ядро цикла реакций. Каждая успешная мутация реакции
// тянет за собой три побочных эффекта на ОДНОМ снимке счётчиков:
// пересчёт трендового балла, sentiment-пересчёт очков автора
// и (только при добавлении) начисление очков реагирующему.
type Service struct {
	repo     Store
	posts    PostReader
	bans     BanChecker
	users    UserGate
	trending TrendingRefresher
	rewarder SentimentAdjuster
	awarder  ReactionAwarder
}

// NewService создаёт сервис реакций.
func NewService(
	repo Store,
	postsRepo PostReader,
	bansSvc BanChecker,
	users UserGate,
	trendingSvc TrendingRefresher,
	rewarder SentimentAdjuster,
	awarder ReactionAwarder,
) *Service {
	return &Service{
		repo:     repo,
		posts:    postsRepo,
		bans:     bansSvc,
		users:    users,
		trending: trendingSvc,
		rewarder: rewarder,
		awarder:  awarder,
	}
}

// React добавляет реакцию пользователя на пост.
//
// Повторная реакция того же вида — идемпотентный no-op: ничего не
// пишется, пересчёты не запускаются, очки не начисляются.
// Ошибки пересчётов логируются, но НЕ откатывают реакцию: реакция
// уже в БД, следующая мутация поста пересчитает всё заново.
func (s *Service) React(ctx context.Context, postID, userID int64, kind Kind) (*Reaction, error) {
	if !kind.Valid() {
		return nil, common.ErrInvalidKind
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	banned, _, err := s.bans.IsBanned(ctx, userID)
	if err != nil {
		return nil, err
	}
	if banned {
		return nil, common.ErrBanned
	}

	// Реагировать на взрослый контент могут только совершеннолетние.
	// Без даты рождения пользователь считается несовершеннолетним.
	if post.IsAdultContent {
		adult, err := s.users.IsAdult(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !adult {
			return nil, common.ErrAdultsOnly
		}
	}

	// Реакции, влияющие на балл и экономику, доступны только
	// верифицированным. Просмотры и избранное — всем.
	if kind.Scoring() {
		verified, err := s.users.IsVerified(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !verified {
			return nil, common.ErrNotVerified
		}
	}

	reaction, err := s.repo.AddReaction(ctx, postID, userID, kind)
	if err != nil {
		return nil, err
	}
	if reaction == nil {
		// Дубликат
		return nil, nil
	}

	s.recompute(ctx, post)

	if err := s.awarder.AwardForReaction(ctx, userID, string(kind)); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"post_id": postID,
			"user_id": userID,
			"kind":    kind,
		}).Error("Не удалось начислить очки за реакцию")
	}

	return reaction, nil
}

// Unreact убирает реакцию пользователя. Снятие несуществующей
// реакции — no-op. Очки за реакцию НЕ отзываются, но трендовый балл
// и sentiment автора пересчитываются по новым счётчикам.
func (s *Service) Unreact(ctx context.Context, postID, userID int64, kind Kind) error {
	if !kind.Valid() {
		return common.ErrInvalidKind
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	removed, err := s.repo.RemoveReaction(ctx, postID, userID, kind)
	if err != nil {
		return err
	}
	if removed == nil {
		return nil
	}

	s.recompute(ctx, post)
	return nil
}

// recompute читает счётчики ОДИН раз и скармливает один и тот же
// снимок и трендовому движку, и sentiment-пересчёту, чтобы оба
// видели согласованное состояние поста.
func (s *Service) recompute(ctx context.Context, post *posts.Post) {
	stats, err := s.repo.Stats(ctx, post.ID)
	if err != nil {
		log.WithError(err).WithField("post_id", post.ID).Error("Не удалось прочитать счётчики реакций")
		return
	}

	if err := s.trending.Refresh(ctx, post, stats.ToScoringCounts()); err != nil {
		log.WithError(err).WithField("post_id", post.ID).Error("Не удалось пересчитать трендовый балл")
	}

	if err := s.rewarder.Adjust(ctx, post.UserID, post.ID, stats.ToSentimentCounts()); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"post_id":  post.ID,
			"owner_id": post.UserID,
		}).Error("Не удалось пересчитать очки автора")
	}
}

// Stats возвращает счётчики реакций поста.
func (s *Service) Stats(ctx context.Context, postID int64) (*Stats, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.repo.Stats(ctx, postID)
}

// UserKinds возвращает виды реакций пользователя на пост.
func (s *Service) UserKinds(ctx context.Context, postID, userID int64) ([]Kind, error) {
	return s.repo.UserKinds(ctx, postID, userID)
}
