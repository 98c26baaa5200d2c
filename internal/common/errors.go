// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях сервера.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отдавать клиенту понятный статус и сообщение.
package common

import "errors"

// Ошибки валидации (отклоняются ДО любых изменений в БД)
var (
	// ErrInvalidKind — неизвестный тип реакции
	ErrInvalidKind = errors.New("неизвестный тип реакции")
	// ErrInvalidPeriod — неизвестный период выборки (day/week/month/year/all-time)
	ErrInvalidPeriod = errors.New("неизвестный период")
	// ErrInvalidAmount — некорректная сумма (ноль или отрицательная)
	ErrInvalidAmount = errors.New("сумма должна быть положительной")
	// ErrUnknownProduct — неизвестный productId при покупке очков
	ErrUnknownProduct = errors.New("неизвестный продукт")
	// ErrSelfTransfer — попытка перевести очки самому себе
	ErrSelfTransfer = errors.New("нельзя переводить очки самому себе")
)

// Ошибки экономики очков
var (
	// ErrInsufficientBalance — недостаточно очков на счёте
	ErrInsufficientBalance = errors.New("недостаточно очков на счёте")
	// ErrAlreadyShielded — на посте уже стоит действующий щит
	ErrAlreadyShielded = errors.New("на посте уже стоит щит")
)

// Ошибки "не найдено"
var (
	// ErrPostNotFound — пост не найден в базе
	ErrPostNotFound = errors.New("пост не найден")
	// ErrUserNotFound — пользователь не найден в базе
	ErrUserNotFound = errors.New("пользователь не найден")
)

// Ошибки гейтов действий
var (
	// ErrNotVerified — действие доступно только верифицированным пользователям
	ErrNotVerified = errors.New("действие доступно только верифицированным пользователям")
	// ErrBanned — пользователь забанен и не может совершать действия
	ErrBanned = errors.New("пользователь забанен")
	// ErrNotAdmin — неверный админский пароль
	ErrNotAdmin = errors.New("нет прав администратора")
	// ErrAdultsOnly — контент доступен только совершеннолетним
	ErrAdultsOnly = errors.New("контент доступен только совершеннолетним")
)
