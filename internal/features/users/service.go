// Package users — service.go содержит бизнес-логику вокруг идентичности:
// проверка верификации и возрастной гейт для взрослого контента.
package users

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// Service предоставляет ядру ответы на два вопроса:
// верифицирован ли пользователь и совершеннолетний ли он.
type Service struct {
	repo  *Repository
	clock clockwork.Clock
}

// NewService создаёт сервис пользователей.
func NewService(repo *Repository, clock clockwork.Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

// IsVerified проверяет, прошёл ли пользователь KYC-верификацию.
func (s *Service) IsVerified(ctx context.Context, userID int64) (bool, error) {
	return s.repo.IsVerified(ctx, userID)
}

// Exists проверяет, что пользователь есть в базе.
func (s *Service) Exists(ctx context.Context, userID int64) (bool, error) {
	return s.repo.Exists(ctx, userID)
}

// DateOfBirth возвращает дату рождения пользователя (nil, если не указана).
func (s *Service) DateOfBirth(ctx context.Context, userID int64) (*time.Time, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.DateOfBirth, nil
}

// IsAdult проверяет, что пользователю есть AdultAge лет.
// Без даты рождения пользователь считается несовершеннолетним.
func (s *Service) IsAdult(ctx context.Context, userID int64) (bool, error) {
	dob, err := s.DateOfBirth(ctx, userID)
	if err != nil {
		return false, err
	}
	if dob == nil {
		return false, nil
	}
	return Age(*dob, s.clock.Now()) >= AdultAge, nil
}

// Age вычисляет полное количество лет между датой рождения и now.
func Age(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	// День рождения в этом году ещё не наступил — минус год
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}
