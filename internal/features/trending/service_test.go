package trending

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shaxe.ru/shaxe-backend/internal/config"
	"shaxe.ru/shaxe-backend/internal/features/bans"
	"shaxe.ru/shaxe-backend/internal/features/posts"
)

type fakeStore struct {
	snapshots map[int64]*Snapshot
	upserts   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{snapshots: make(map[int64]*Snapshot)}
}

func (f *fakeStore) Upsert(_ context.Context, s *Snapshot) error {
	f.upserts++
	f.snapshots[s.PostID] = s
	return nil
}

func (f *fakeStore) Get(_ context.Context, postID int64) (*Snapshot, error) {
	return f.snapshots[postID], nil
}

func (f *fakeStore) List(_ context.Context, _ *time.Time, _, _ int) ([]*ListedPost, error) {
	return nil, nil
}

func (f *fakeStore) PruneBefore(_ context.Context, _ time.Time) (int64, error) { return 0, nil }

func (f *fakeStore) RecordHall(_ context.Context, _ string, _ Period, _ *time.Time, _ int) (int64, error) {
	return 0, nil
}

func (f *fakeStore) ListHall(_ context.Context, _ string, _ Period, _, _ int) ([]*HallEntry, error) {
	return nil, nil
}

type fakeEscalator struct {
	calls   int
	userIDs []int64
}

func (f *fakeEscalator) Escalate(_ context.Context, userID int64, _ string) (*bans.Ban, error) {
	f.calls++
	f.userIDs = append(f.userIDs, userID)
	return &bans.Ban{UserID: userID, BanLevel: 1}, nil
}

type fakePostReader struct {
	post *posts.Post
}

func (f *fakePostReader) GetByID(_ context.Context, _ int64) (*posts.Post, error) {
	return f.post, nil
}

type fakeCountsReader struct {
	counts Counts
}

func (f *fakeCountsReader) ScoringCounts(_ context.Context, _ int64) (Counts, error) {
	return f.counts, nil
}

func testConfig() *config.Config {
	return &config.Config{
		TrendingBanToxicity:    0.70,
		TrendingBanMinEngagers: 10,
		TrendingNotifyScore:    50,
		TrendingCacheMaxAge:    720 * time.Hour,
		HallOfFameSize:         10,
	}
}

func newTestService(store *fakeStore, esc *fakeEscalator, pr *fakePostReader, cr *fakeCountsReader, clock clockwork.Clock) *Service {
	return NewService(store, pr, cr, esc, nil, nil, clock, testConfig())
}

func TestRefreshUpsertsSnapshot(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC))
	store := newFakeStore()
	esc := &fakeEscalator{}
	post := &posts.Post{ID: 1, UserID: 42, CreatedAt: clock.Now().Add(-2 * time.Hour)}
	svc := newTestService(store, esc, &fakePostReader{post: post}, &fakeCountsReader{}, clock)

	c := Counts{Likes: 4, Shares: 1, UniqueEngagers: 5, Total: 5}
	require.NoError(t, svc.Refresh(context.Background(), post, c))

	snap := store.snapshots[1]
	require.NotNil(t, snap)
	assert.Equal(t, int64(1), snap.PostID)
	assert.Equal(t, 5, snap.UniqueEngagers)
	assert.Equal(t, 5, snap.NetSentiment)
	assert.Equal(t, clock.Now(), snap.CalculatedAt)
	assert.InDelta(t, Score(c, post.CreatedAt, clock.Now()), snap.TrendingScore, 1e-9)
	assert.Zero(t, esc.calls)
}

func TestRefreshEscalatesToxicPost(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC))
	store := newFakeStore()
	esc := &fakeEscalator{}
	post := &posts.Post{ID: 7, UserID: 99, CreatedAt: clock.Now().Add(-time.Hour)}
	svc := newTestService(store, esc, &fakePostReader{post: post}, &fakeCountsReader{}, clock)

	// 8 негативных из 10 при 10 участниках — за порогом
	toxic := Counts{Likes: 2, Dislikes: 6, Shames: 2, UniqueEngagers: 10, Total: 10}
	require.NoError(t, svc.Refresh(context.Background(), post, toxic))

	require.Equal(t, 1, esc.calls)
	assert.Equal(t, []int64{99}, esc.userIDs)
	// Снапшот записан ДО эскалации
	assert.NotNil(t, store.snapshots[7])
}

func TestRefreshBelowMinEngagersDoesNotEscalate(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC))
	store := newFakeStore()
	esc := &fakeEscalator{}
	post := &posts.Post{ID: 7, UserID: 99, CreatedAt: clock.Now().Add(-time.Hour)}
	svc := newTestService(store, esc, &fakePostReader{post: post}, &fakeCountsReader{}, clock)

	// Токсичность 100%, но всего 9 участников
	toxic := Counts{Dislikes: 9, UniqueEngagers: 9, Total: 9}
	require.NoError(t, svc.Refresh(context.Background(), post, toxic))

	assert.Zero(t, esc.calls)
}

func TestGetComputesOnDemandWithoutPersisting(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC))
	store := newFakeStore()
	esc := &fakeEscalator{}
	post := &posts.Post{ID: 3, UserID: 5, CreatedAt: clock.Now().Add(-time.Hour)}
	// Токсичные счётчики: Get всё равно не должен банить
	counts := &fakeCountsReader{counts: Counts{Dislikes: 20, UniqueEngagers: 20, Total: 20}}
	svc := newTestService(store, esc, &fakePostReader{post: post}, counts, clock)

	snap, cached, err := svc.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, cached)
	require.NotNil(t, snap)
	assert.Equal(t, 20, snap.UniqueEngagers)

	// Чтение не оставило следов: ни кеша, ни бана
	assert.Zero(t, store.upserts)
	assert.Zero(t, esc.calls)
}

func TestGetReturnsCachedSnapshot(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC))
	store := newFakeStore()
	cached := &Snapshot{PostID: 3, TrendingScore: 12.5, CalculatedAt: clock.Now()}
	store.snapshots[3] = cached
	svc := newTestService(store, &fakeEscalator{}, &fakePostReader{}, &fakeCountsReader{}, clock)

	snap, fromCache, err := svc.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, cached, snap)
}
