package bans

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	latest int
	bans   []*Ban
	active *Ban
}

func (f *fakeStore) LatestLevel(_ context.Context, _ int64) (int, error) { return f.latest, nil }

func (f *fakeStore) Insert(_ context.Context, b *Ban) error {
	f.bans = append(f.bans, b)
	f.latest = b.BanLevel
	return nil
}

func (f *fakeStore) ActiveBan(_ context.Context, _ int64) (*Ban, error) { return f.active, nil }

func (f *fakeStore) History(_ context.Context, _ int64) ([]*Ban, error) { return f.bans, nil }

func TestEscalateFirstBan(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))
	store := &fakeStore{}
	svc := NewService(store, clock)

	ban, err := svc.Escalate(context.Background(), 42, ReasonNegativeEngagement)
	require.NoError(t, err)

	assert.Equal(t, 1, ban.BanLevel)
	assert.Equal(t, clock.Now().Add(24*time.Hour), ban.BanEndTime)
	assert.Equal(t, ReasonNegativeEngagement, ban.Reason)
	require.Len(t, store.bans, 1)
}

func TestEscalateClimbsLadder(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))
	store := &fakeStore{}
	svc := NewService(store, clock)

	// Десять эскалаций подряд: уровни растут до 7 и там остаются
	wantLevels := []int{1, 2, 3, 4, 5, 6, 7, 7, 7, 7}
	for i, want := range wantLevels {
		ban, err := svc.Escalate(context.Background(), 42, ReasonNegativeEngagement)
		require.NoError(t, err)
		assert.Equal(t, want, ban.BanLevel, "эскалация #%d", i+1)
	}

	// История append-only: все десять записей на месте
	assert.Len(t, store.bans, 10)
	last := store.bans[len(store.bans)-1]
	assert.Equal(t, clock.Now().Add(365*24*time.Hour), last.BanEndTime)
}

func TestIsBanned(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))

	t.Run("без активного бана", func(t *testing.T) {
		svc := NewService(&fakeStore{}, clock)
		banned, until, err := svc.IsBanned(context.Background(), 42)
		require.NoError(t, err)
		assert.False(t, banned)
		assert.Nil(t, until)
	})

	t.Run("с активным баном", func(t *testing.T) {
		end := clock.Now().Add(48 * time.Hour)
		svc := NewService(&fakeStore{active: &Ban{UserID: 42, BanLevel: 2, BanEndTime: end}}, clock)
		banned, until, err := svc.IsBanned(context.Background(), 42)
		require.NoError(t, err)
		assert.True(t, banned)
		require.NotNil(t, until)
		assert.Equal(t, end, *until)
	})
}
