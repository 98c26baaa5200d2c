package points

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"shaxe.ru/shaxe-backend/internal/common"
	"shaxe.ru/shaxe-backend/internal/config"
)

// Rewarder пересчитывает очки автора поста по текущему настроению
// аудитории. Вызывается после каждой добавленной или убранной реакции.
//
// net = (лайки + шары + избранное) − (дизлайки + позор):
//   - net > 0: бонус net/3
//   - net < порога (по умолчанию −5): штраф |net|/5
//   - между ними: ничего
//
// Пересчёт не инкрементальный: бонус и штраф считаются от полного
// снимка счётчиков, поэтому повторный вызов с теми же счётчиками
// начислит ту же сумму ещё раз. Так вела себя экономика исходного
// продукта, и на неё завязаны ожидания пользователей.
type Rewarder struct {
	ledger Ledger
	cfg    *config.Config
}

// NewRewarder создаёт пересчётчик очков настроения.
func NewRewarder(ledger Ledger, cfg *config.Config) *Rewarder {
	return &Rewarder{ledger: ledger, cfg: cfg}
}

// Adjust применяет бонус или штраф автору поста по счётчикам реакций.
func (r *Rewarder) Adjust(ctx context.Context, ownerID, postID int64, counts SentimentCounts) error {
	net := counts.Net()

	switch {
	case net > 0:
		bonus := int64(net / r.cfg.SentimentBonusDivisor)
		if bonus == 0 {
			return nil
		}
		err := r.ledger.Earn(ctx, ownerID, bonus, TxTypeSentimentBonus,
			fmt.Sprintf("Бонус за настроение поста %d", postID))
		if err != nil {
			return fmt.Errorf("ошибка начисления бонуса: %w", err)
		}
		log.WithFields(log.Fields{
			"user_id": ownerID,
			"post_id": postID,
			"bonus":   bonus,
		}).Debug("Бонус за позитивные реакции")

	case net < r.cfg.SentimentPenaltyFloor:
		penalty := int64(-net / r.cfg.SentimentPenaltyDivisor)
		if penalty == 0 {
			return nil
		}
		err := r.ledger.Spend(ctx, ownerID, penalty, TxTypeSentimentPenalty,
			fmt.Sprintf("Штраф за настроение поста %d", postID))
		if err != nil {
			// Уходить в минус нельзя: при пустом счёте штраф просто сгорает
			if errors.Is(err, common.ErrInsufficientBalance) {
				log.WithFields(log.Fields{
					"user_id": ownerID,
					"post_id": postID,
					"penalty": penalty,
				}).Debug("Штраф пропущен: недостаточно очков")
				return nil
			}
			return fmt.Errorf("ошибка списания штрафа: %w", err)
		}
		log.WithFields(log.Fields{
			"user_id": ownerID,
			"post_id": postID,
			"penalty": penalty,
		}).Debug("Штраф за негативные реакции")
	}

	return nil
}
