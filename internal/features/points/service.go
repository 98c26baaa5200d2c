package points

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"

	"shaxe.ru/shaxe-backend/internal/common"
	"shaxe.ru/shaxe-backend/internal/config"
	"shaxe.ru/shaxe-backend/internal/features/posts"
)

// Ledger — минимальный контракт счёта, который нужен сервису и Rewarder.
type Ledger interface {
	GetOrCreateAccount(ctx context.Context, userID int64) (*Account, error)
	Earn(ctx context.Context, userID int64, amount int64, txType, description string) error
	Spend(ctx context.Context, userID int64, amount int64, txType, description string) error
	Transfer(ctx context.Context, fromUserID, toUserID, amount int64) error
	Shield(ctx context.Context, userID, postID, amount int64, until time.Time) error
	Transactions(ctx context.Context, userID int64, limit int) ([]*Transaction, error)
}

// UserChecker отвечает на вопросы о пользователе: существует ли он
// и верифицирован ли. Реализуется users.Service.
type UserChecker interface {
	IsVerified(ctx context.Context, userID int64) (bool, error)
	Exists(ctx context.Context, userID int64) (bool, error)
}

// PostReader читает пост. Реализуется posts.Repository.
type PostReader interface {
	GetByID(ctx context.Context, postID int64) (*posts.Post, error)
}

// ShieldNotifier уведомляет автора поста о поставленном щите.
type ShieldNotifier interface {
	PostShielded(ctx context.Context, postID, userID int64, until time.Time)
}

// Service — бизнес-логика экономики очков.
type Service struct {
	ledger   Ledger
	users    UserChecker
	posts    PostReader
	notifier ShieldNotifier
	clock    clockwork.Clock
	cfg      *config.Config
}

// NewService создаёт сервис очков.
func NewService(ledger Ledger, users UserChecker, postsRepo PostReader, notifier ShieldNotifier, clock clockwork.Clock, cfg *config.Config) *Service {
	return &Service{ledger: ledger, users: users, posts: postsRepo, notifier: notifier, clock: clock, cfg: cfg}
}

// GetBalance возвращает счёт пользователя, создавая его при первом обращении.
func (s *Service) GetBalance(ctx context.Context, userID int64) (*Account, error) {
	account, err := s.ledger.GetOrCreateAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !account.Consistent() {
		// Счёт разошёлся с журналом — сигнал о ручной правке БД или баге
		log.WithFields(log.Fields{
			"user_id": userID,
			"balance": account.Balance,
			"earned":  account.TotalEarned,
			"spent":   account.TotalSpent,
		}).Warn("Нарушен учётный инвариант счёта")
	}
	return account, nil
}

// AwardForReaction начисляет очки за реакцию на пост.
// Начисление получают только верифицированные пользователи;
// неизвестные виды реакций стоят 0 и журнал не засоряют.
func (s *Service) AwardForReaction(ctx context.Context, userID int64, kind string) error {
	amount := PointsForReaction(kind)
	if amount == 0 {
		return nil
	}

	verified, err := s.users.IsVerified(ctx, userID)
	if err != nil {
		return err
	}
	if !verified {
		return nil
	}

	txType := TxTypeEngagementPrefix + kind
	return s.ledger.Earn(ctx, userID, amount, txType, fmt.Sprintf("Очки за реакцию %s", kind))
}

// Transfer переводит очки между пользователями.
// Получатель обязан существовать: иначе перевод в никуда завёл бы
// счёт-сироту под несуществующим user_id.
func (s *Service) Transfer(ctx context.Context, fromUserID, toUserID, amount int64) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	if fromUserID == toUserID {
		return common.ErrSelfTransfer
	}

	exists, err := s.users.Exists(ctx, toUserID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("получатель user_id=%d: %w", toUserID, common.ErrUserNotFound)
	}

	return s.ledger.Transfer(ctx, fromUserID, toUserID, amount)
}

// Purchase зачисляет купленный пакет очков. Доступно только
// верифицированным пользователям.
func (s *Service) Purchase(ctx context.Context, userID int64, productID string) (*Account, error) {
	verified, err := s.users.IsVerified(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, common.ErrNotVerified
	}

	amount := PointsForProduct(productID)
	if amount == 0 {
		return nil, fmt.Errorf("%s: %w", productID, common.ErrUnknownProduct)
	}

	if err := s.ledger.Earn(ctx, userID, amount, TxTypePurchase, fmt.Sprintf("Покупка пакета %s", productID)); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"product": productID,
		"amount":  amount,
	}).Info("Пакет очков зачислен")

	return s.ledger.GetOrCreateAccount(ctx, userID)
}

// ShieldPost ставит щит на пост за очки: пока щит активен, пост
// не попадает в трендовые выдачи. Доступно только верифицированным.
// Повторный щит поверх ещё действующего отклоняется — иначе очки
// списались бы без продления.
func (s *Service) ShieldPost(ctx context.Context, userID, postID int64) (time.Time, error) {
	verified, err := s.users.IsVerified(ctx, userID)
	if err != nil {
		return time.Time{}, err
	}
	if !verified {
		return time.Time{}, common.ErrNotVerified
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return time.Time{}, err
	}

	now := s.clock.Now()
	if post.ShieldActive(now) {
		return time.Time{}, common.ErrAlreadyShielded
	}

	until := now.Add(s.cfg.ShieldDuration)
	cost := s.cfg.ShieldDefaultCost

	if err := s.ledger.Shield(ctx, userID, postID, cost, until); err != nil {
		return time.Time{}, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"post_id": postID,
		"until":   until,
	}).Info("Щит поставлен")

	if s.notifier != nil {
		s.notifier.PostShielded(ctx, postID, userID, until)
	}

	return until, nil
}

// Transactions возвращает историю транзакций пользователя.
func (s *Service) Transactions(ctx context.Context, userID int64, limit int) ([]*Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.ledger.Transactions(ctx, userID, limit)
}
