// Package trending — scorer.go содержит чистую математику трендового балла.
// Все функции работают над снапшотом счётчиков и не ходят в БД,
// поэтому тестируются без живого хранилища.
package trending

import (
	"math"
	"time"
)

// Counts — снапшот scoring-счётчиков поста на момент пересчёта.
// Учитываются только like/dislike/share/shame; shaxe и favorites
// в тренды не попадают.
type Counts struct {
	Likes    int
	Dislikes int
	Shares   int
	Shames   int
	// UniqueEngagers — уникальные пользователи по scoring-реакциям.
	UniqueEngagers int
	// Total — общее число scoring-реакций.
	Total int
}

// BaseEngagement = (лайки + шеры) − (дизлайки + шеймы).
// Может быть отрицательным.
func BaseEngagement(c Counts) int {
	return (c.Likes + c.Shares) - (c.Dislikes + c.Shames)
}

// ToxicityRatio — доля негативных реакций среди scoring-реакций.
// Знаменатель не меньше 1, чтобы пост без реакций не делил на ноль.
func ToxicityRatio(c Counts) float64 {
	total := c.Likes + c.Shares + c.Dislikes + c.Shames
	if total < 1 {
		total = 1
	}
	return float64(c.Dislikes+c.Shames) / float64(total)
}

// TimeDecay — экспоненциальное затухание по возрасту поста в часах.
// e^(-hours/24): балл падает вдвое примерно каждые 16.6 часов,
// стремится к нулю, но нуля не достигает.
func TimeDecay(hoursOld float64) float64 {
	return math.Exp(-hoursOld / 24)
}

// Score вычисляет трендовый балл поста:
//
//	score = baseEngagement · timeDecay · ln(1 + uniqueEngagers)
//
// ln(1+0) = 0, поэтому пост без уникальных участников всегда получает 0 —
// голые счётчики без живых людей не трендят.
func Score(c Counts, createdAt, now time.Time) float64 {
	hoursOld := now.Sub(createdAt).Hours()
	return float64(BaseEngagement(c)) * TimeDecay(hoursOld) * math.Log(1+float64(c.UniqueEngagers))
}

// ShouldAutoBan решает, пересёк ли пост порог токсичного вовлечения.
// Срабатывает на КАЖДОМ пересчёте с подходящими счётчиками, не только
// на первом пересечении порога.
func ShouldAutoBan(c Counts, toxicityThreshold float64, minEngagers int) bool {
	return ToxicityRatio(c) >= toxicityThreshold && c.UniqueEngagers >= minEngagers
}
