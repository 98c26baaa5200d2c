package points

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shaxe.ru/shaxe-backend/internal/common"
	"shaxe.ru/shaxe-backend/internal/config"
	"shaxe.ru/shaxe-backend/internal/features/posts"
)

type fakeVerifier struct {
	verified bool
	missing  bool // Exists отвечает "нет" для любого пользователя
}

func (f *fakeVerifier) IsVerified(_ context.Context, _ int64) (bool, error) {
	return f.verified, nil
}

func (f *fakeVerifier) Exists(_ context.Context, _ int64) (bool, error) {
	return !f.missing, nil
}

type fakePostReader struct {
	post *posts.Post
	err  error
}

func (f *fakePostReader) GetByID(_ context.Context, _ int64) (*posts.Post, error) {
	return f.post, f.err
}

func plainPost() *fakePostReader {
	return &fakePostReader{post: &posts.Post{ID: 77, UserID: 10}}
}

type fakeShieldNotifier struct {
	calls int
}

func (f *fakeShieldNotifier) PostShielded(_ context.Context, _, _ int64, _ time.Time) {
	f.calls++
}

func serviceConfig() *config.Config {
	return &config.Config{
		PointsInitialBalance: 100,
		ShieldDuration:       24 * time.Hour,
		ShieldDefaultCost:    100,
	}
}

func TestPointsForReaction(t *testing.T) {
	tests := []struct {
		kind string
		want int64
	}{
		{"like", 1},
		{"dislike", 1},
		{"shame", 1},
		{"favorite", 1},
		{"share", 2},
		{"shaxe", 0},
		{"shaxe_view", 0},
		{"garbage", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PointsForReaction(tt.kind), tt.kind)
	}
}

func TestAwardForReaction(t *testing.T) {
	clock := clockwork.NewFakeClock()

	t.Run("верифицированный получает очки", func(t *testing.T) {
		ledger := &fakeLedger{}
		svc := NewService(ledger, &fakeVerifier{verified: true}, plainPost(), nil, clock, serviceConfig())

		require.NoError(t, svc.AwardForReaction(context.Background(), 5, "share"))

		require.Len(t, ledger.calls, 1)
		assert.Equal(t, "earn", ledger.calls[0].op)
		assert.Equal(t, int64(2), ledger.calls[0].amount)
		assert.Equal(t, "engagement_share", ledger.calls[0].txType)
	})

	t.Run("неверифицированный не получает ничего", func(t *testing.T) {
		ledger := &fakeLedger{}
		svc := NewService(ledger, &fakeVerifier{verified: false}, plainPost(), nil, clock, serviceConfig())

		require.NoError(t, svc.AwardForReaction(context.Background(), 5, "like"))
		assert.Empty(t, ledger.calls)
	})

	t.Run("неоплачиваемый вид — no-op", func(t *testing.T) {
		ledger := &fakeLedger{}
		svc := NewService(ledger, &fakeVerifier{verified: true}, plainPost(), nil, clock, serviceConfig())

		require.NoError(t, svc.AwardForReaction(context.Background(), 5, "shaxe_view"))
		assert.Empty(t, ledger.calls)
	})
}

func TestTransferValidation(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ledger := &fakeLedger{}
	svc := NewService(ledger, &fakeVerifier{verified: true}, plainPost(), nil, clock, serviceConfig())

	assert.ErrorIs(t, svc.Transfer(context.Background(), 1, 2, 0), common.ErrInvalidAmount)
	assert.ErrorIs(t, svc.Transfer(context.Background(), 1, 2, -5), common.ErrInvalidAmount)
	assert.ErrorIs(t, svc.Transfer(context.Background(), 1, 1, 10), common.ErrSelfTransfer)
	assert.Empty(t, ledger.calls)

	require.NoError(t, svc.Transfer(context.Background(), 1, 2, 10))
	require.Len(t, ledger.calls, 1)
}

func TestTransferToMissingUser(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ledger := &fakeLedger{}
	svc := NewService(ledger, &fakeVerifier{verified: true, missing: true}, plainPost(), nil, clock, serviceConfig())

	err := svc.Transfer(context.Background(), 1, 2, 10)
	assert.ErrorIs(t, err, common.ErrUserNotFound)
	// Счёт-сирота под несуществующим получателем не создаётся
	assert.Empty(t, ledger.calls)
}

func TestPurchase(t *testing.T) {
	clock := clockwork.NewFakeClock()

	t.Run("известный продукт", func(t *testing.T) {
		ledger := &fakeLedger{}
		svc := NewService(ledger, &fakeVerifier{verified: true}, plainPost(), nil, clock, serviceConfig())

		_, err := svc.Purchase(context.Background(), 5, "points.medium")
		require.NoError(t, err)

		require.Len(t, ledger.calls, 1)
		assert.Equal(t, int64(550), ledger.calls[0].amount)
		assert.Equal(t, TxTypePurchase, ledger.calls[0].txType)
	})

	t.Run("неизвестный продукт", func(t *testing.T) {
		ledger := &fakeLedger{}
		svc := NewService(ledger, &fakeVerifier{verified: true}, plainPost(), nil, clock, serviceConfig())

		_, err := svc.Purchase(context.Background(), 5, "points.gigantic")
		assert.ErrorIs(t, err, common.ErrUnknownProduct)
		assert.Empty(t, ledger.calls)
	})

	t.Run("неверифицированному нельзя", func(t *testing.T) {
		ledger := &fakeLedger{}
		svc := NewService(ledger, &fakeVerifier{verified: false}, plainPost(), nil, clock, serviceConfig())

		_, err := svc.Purchase(context.Background(), 5, "points.small")
		assert.ErrorIs(t, err, common.ErrNotVerified)
	})
}

func TestShieldPost(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC))

	t.Run("щит на сутки за дефолтную цену", func(t *testing.T) {
		ledger := &fakeLedger{}
		notifier := &fakeShieldNotifier{}
		svc := NewService(ledger, &fakeVerifier{verified: true}, plainPost(), notifier, clock, serviceConfig())

		until, err := svc.ShieldPost(context.Background(), 5, 77)
		require.NoError(t, err)

		assert.Equal(t, clock.Now().Add(24*time.Hour), until)
		require.Len(t, ledger.calls, 1)
		assert.Equal(t, "shield", ledger.calls[0].op)
		assert.Equal(t, int64(100), ledger.calls[0].amount)
		assert.Equal(t, 1, notifier.calls)
	})

	t.Run("неверифицированному нельзя", func(t *testing.T) {
		ledger := &fakeLedger{}
		svc := NewService(ledger, &fakeVerifier{verified: false}, plainPost(), nil, clock, serviceConfig())

		_, err := svc.ShieldPost(context.Background(), 5, 77)
		assert.ErrorIs(t, err, common.ErrNotVerified)
		assert.Empty(t, ledger.calls)
	})

	t.Run("пост не найден — очки не списываются", func(t *testing.T) {
		ledger := &fakeLedger{}
		reader := &fakePostReader{err: common.ErrPostNotFound}
		svc := NewService(ledger, &fakeVerifier{verified: true}, reader, nil, clock, serviceConfig())

		_, err := svc.ShieldPost(context.Background(), 5, 77)
		assert.ErrorIs(t, err, common.ErrPostNotFound)
		assert.Empty(t, ledger.calls)
	})

	t.Run("повторный щит поверх действующего отклоняется", func(t *testing.T) {
		ledger := &fakeLedger{}
		expires := clock.Now().Add(6 * time.Hour)
		reader := &fakePostReader{post: &posts.Post{ID: 77, IsShielded: true, ShieldExpires: &expires}}
		svc := NewService(ledger, &fakeVerifier{verified: true}, reader, nil, clock, serviceConfig())

		_, err := svc.ShieldPost(context.Background(), 5, 77)
		assert.ErrorIs(t, err, common.ErrAlreadyShielded)
		assert.Empty(t, ledger.calls)
	})

	t.Run("истёкший щит можно ставить заново", func(t *testing.T) {
		ledger := &fakeLedger{}
		expired := clock.Now().Add(-time.Hour)
		reader := &fakePostReader{post: &posts.Post{ID: 77, IsShielded: true, ShieldExpires: &expired}}
		svc := NewService(ledger, &fakeVerifier{verified: true}, reader, nil, clock, serviceConfig())

		_, err := svc.ShieldPost(context.Background(), 5, 77)
		require.NoError(t, err)
		require.Len(t, ledger.calls, 1)
	})
}
