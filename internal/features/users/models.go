// Package users — внешний коллаборатор ядра: идентичность и верификация.
// models.go описывает структуру пользователя.
package users

import "time"

// User представляет пользователя платформы.
// Ядро читает только is_verified и date_of_birth; остальное
// (авторизация, KYC-документы) живёт в другом слое.
type User struct {
	ID          int64      `db:"id"`
	Username    string     `db:"username"`
	IsVerified  bool       `db:"is_verified"`    // Прошёл ли KYC-верификацию
	DateOfBirth *time.Time `db:"date_of_birth"` // Может отсутствовать до верификации
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// AdultAge — возраст, с которого доступен взрослый контент.
const AdultAge = 18
