package trending

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shaxe.ru/shaxe-backend/internal/common"
)

func TestBaseEngagement(t *testing.T) {
	tests := []struct {
		name   string
		counts Counts
		want   int
	}{
		{"пусто", Counts{}, 0},
		{"только позитив", Counts{Likes: 3, Shares: 2}, 5},
		{"только негатив", Counts{Dislikes: 4, Shames: 1}, -5},
		{"смешанные", Counts{Likes: 10, Shares: 2, Dislikes: 3, Shames: 4}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BaseEngagement(tt.counts))
		})
	}
}

func TestToxicityRatio(t *testing.T) {
	tests := []struct {
		name   string
		counts Counts
		want   float64
	}{
		{"без реакций — ноль, не деление на ноль", Counts{}, 0},
		{"чистый позитив", Counts{Likes: 5, Shares: 5}, 0},
		{"чистый негатив", Counts{Dislikes: 3, Shames: 2}, 1},
		{"7 из 10 негативных", Counts{Likes: 3, Dislikes: 5, Shames: 2}, 0.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ToxicityRatio(tt.counts), 1e-9)
		})
	}
}

func TestTimeDecay(t *testing.T) {
	assert.InDelta(t, 1.0, TimeDecay(0), 1e-9)
	assert.InDelta(t, math.Exp(-1), TimeDecay(24), 1e-9)
	// Затухание монотонно убывает, но нуля не достигает
	assert.Less(t, TimeDecay(48), TimeDecay(24))
	assert.Greater(t, TimeDecay(1000), 0.0)
}

func TestScore(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	t.Run("свежий пост без затухания", func(t *testing.T) {
		// base = 2, возраст 0ч, 1 участник: 2 · 1 · ln(2)
		c := Counts{Likes: 2, UniqueEngagers: 1, Total: 2}
		got := Score(c, now, now)
		assert.InDelta(t, 2*math.Log(2), got, 1e-9)
	})

	t.Run("суточное затухание", func(t *testing.T) {
		c := Counts{Likes: 2, UniqueEngagers: 1, Total: 2}
		got := Score(c, now.Add(-24*time.Hour), now)
		assert.InDelta(t, 2*math.Exp(-1)*math.Log(2), got, 1e-9)
	})

	t.Run("без уникальных участников балл нулевой", func(t *testing.T) {
		c := Counts{Likes: 100, UniqueEngagers: 0, Total: 100}
		assert.Zero(t, Score(c, now.Add(-time.Hour), now))
	})

	t.Run("негативный пост уходит в минус", func(t *testing.T) {
		c := Counts{Dislikes: 5, UniqueEngagers: 5, Total: 5}
		assert.Negative(t, Score(c, now, now))
	})
}

func TestShouldAutoBan(t *testing.T) {
	tests := []struct {
		name   string
		counts Counts
		want   bool
	}{
		{
			"порог и участники достигнуты",
			Counts{Dislikes: 5, Shames: 2, Likes: 3, UniqueEngagers: 10},
			true,
		},
		{
			"токсичность ровно на пороге",
			Counts{Dislikes: 7, Likes: 3, UniqueEngagers: 10},
			true,
		},
		{
			"токсично, но участников мало",
			Counts{Dislikes: 7, Likes: 3, UniqueEngagers: 9},
			false,
		},
		{
			"участников достаточно, но не токсично",
			Counts{Likes: 8, Dislikes: 2, UniqueEngagers: 15},
			false,
		},
		{
			"пустой пост не банится",
			Counts{},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldAutoBan(tt.counts, 0.70, 10))
		})
	}
}

func TestParsePeriod(t *testing.T) {
	for _, valid := range []string{"day", "week", "month", "year", "all-time"} {
		p, err := ParsePeriod(valid)
		require.NoError(t, err)
		assert.Equal(t, Period(valid), p)
	}

	for _, invalid := range []string{"", "hour", "decade", "DAY", "all"} {
		_, err := ParsePeriod(invalid)
		assert.ErrorIs(t, err, common.ErrInvalidPeriod, invalid)
	}
}

func TestPeriodSince(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	since := PeriodDay.Since(now)
	require.NotNil(t, since)
	assert.Equal(t, now.Add(-24*time.Hour), *since)

	since = PeriodWeek.Since(now)
	require.NotNil(t, since)
	assert.Equal(t, now.Add(-7*24*time.Hour), *since)

	assert.Nil(t, PeriodAllTime.Since(now))
}
