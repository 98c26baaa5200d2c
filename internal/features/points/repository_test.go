package points

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shaxe.ru/shaxe-backend/internal/common"
)

func TestCheckAfford(t *testing.T) {
	t.Run("ровно хватает", func(t *testing.T) {
		assert.NoError(t, checkAfford(100, 100))
	})

	t.Run("с запасом", func(t *testing.T) {
		assert.NoError(t, checkAfford(101, 100))
	})

	t.Run("не хватает одного очка", func(t *testing.T) {
		err := checkAfford(99, 100)
		require.ErrorIs(t, err, common.ErrInsufficientBalance)
		// Сообщение называет обе суммы — его видит клиент
		assert.Contains(t, err.Error(), "нужно 100")
		assert.Contains(t, err.Error(), "есть 99")
	})

	t.Run("пустой счёт", func(t *testing.T) {
		assert.ErrorIs(t, checkAfford(0, 1), common.ErrInsufficientBalance)
	})

	t.Run("нулевое списание проходит всегда", func(t *testing.T) {
		assert.NoError(t, checkAfford(0, 0))
	})
}

func TestAccountConsistent(t *testing.T) {
	t.Run("свежий счёт со стартовым балансом", func(t *testing.T) {
		// Стартовые 100 засчитаны и в balance, и в total_earned
		a := &Account{Balance: 100, TotalEarned: 100, TotalSpent: 0}
		assert.True(t, a.Consistent())
	})

	t.Run("после начислений и списаний", func(t *testing.T) {
		// 100 стартовых + 5 заработано − 30 потрачено
		a := &Account{Balance: 75, TotalEarned: 105, TotalSpent: 30}
		assert.True(t, a.Consistent())
	})

	t.Run("баланс разошёлся с журналом", func(t *testing.T) {
		a := &Account{Balance: 80, TotalEarned: 105, TotalSpent: 30}
		assert.False(t, a.Consistent())
	})

	t.Run("отрицательный баланс недопустим", func(t *testing.T) {
		a := &Account{Balance: -10, TotalEarned: 20, TotalSpent: 30}
		assert.False(t, a.Consistent())
	})
}
