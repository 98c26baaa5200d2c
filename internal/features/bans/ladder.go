// Package bans — ladder.go содержит чистую логику лестницы банов:
// вычисление следующего уровня и длительности по уровню.
package bans

import "time"

// MaxLevel — максимальный уровень бана. Дальше лестница не растёт.
const MaxLevel = 7

// durations — длительность бана по уровню.
//
// Таблица:
//
//	Уровень 1: 24 часа
//	Уровень 2: 72 часа
//	Уровень 3: 1 неделя
//	Уровень 4: 2 недели
//	Уровень 5: 30 дней
//	Уровень 6: 180 дней
//	Уровень 7: 365 дней
var durations = map[int]time.Duration{
	1: 24 * time.Hour,
	2: 72 * time.Hour,
	3: 7 * 24 * time.Hour,
	4: 14 * 24 * time.Hour,
	5: 30 * 24 * time.Hour,
	6: 180 * 24 * time.Hour,
	7: 365 * 24 * time.Hour,
}

// NextLevel вычисляет уровень следующего бана.
// Лестница только эскалирует: уровень никогда не опускается
// и не превышает MaxLevel.
func NextLevel(currentLevel int) int {
	next := currentLevel + 1
	if next > MaxLevel {
		return MaxLevel
	}
	return next
}

// Duration возвращает длительность бана для уровня.
// Неизвестный уровень (вне 1..MaxLevel) получает длительность уровня 1.
// Fallback намеренно сохранён для совместимости, хотя он может молча
// занизить срок при кривом уровне из БД.
func Duration(level int) time.Duration {
	if d, ok := durations[level]; ok {
		return d
	}
	return durations[1]
}
