// Package points — repository.go выполняет все операции с таблицами
// points, point_transactions и shield_history.
// Все денежные операции выполняются в транзакциях БД: мутация баланса
// и запись в журнал либо происходят вместе, либо не происходят вовсе.
// Баланс сериализуется по счёту через SELECT ... FOR UPDATE.
package points

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shaxe.ru/shaxe-backend/internal/common"
	"shaxe.ru/shaxe-backend/internal/features/posts"
)

// Repository предоставляет методы для работы со счетами и транзакциями.
type Repository struct {
	db             *pgxpool.Pool
	initialBalance int64 // Стартовый баланс лениво создаваемого счёта
}

// NewRepository создаёт репозиторий очков.
func NewRepository(db *pgxpool.Pool, initialBalance int64) *Repository {
	return &Repository{db: db, initialBalance: initialBalance}
}

// ensureAccount создаёт счёт, если его ещё нет.
// Стартовый баланс засчитывается и в balance, и в total_earned,
// чтобы инвариант balance = total_earned − total_spent держался с рождения.
func (r *Repository) ensureAccount(ctx context.Context, tx pgx.Tx, userID int64) error {
	query := `
		INSERT INTO points (user_id, balance, total_earned, total_spent)
		VALUES ($1, $2, $2, 0)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := tx.Exec(ctx, query, userID, r.initialBalance); err != nil {
		return fmt.Errorf("ошибка создания счёта (user_id=%d): %w", userID, err)
	}
	return nil
}

// checkAfford решает, можно ли списать amount со счёта с балансом balance.
// Все пути списания (Spend, Transfer, Shield) проходят через эту проверку
// ДО мутаций: при нехватке средств транзакция откатывается целиком,
// и ни баланс, ни счётчики, ни журнал не меняются.
func checkAfford(balance, amount int64) error {
	if balance < amount {
		return fmt.Errorf("нужно %d, есть %d: %w", amount, balance, common.ErrInsufficientBalance)
	}
	return nil
}

// GetOrCreateAccount возвращает счёт пользователя, лениво создавая его.
func (r *Repository) GetOrCreateAccount(ctx context.Context, userID int64) (*Account, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := r.ensureAccount(ctx, tx, userID); err != nil {
		return nil, err
	}

	var a Account
	err = tx.QueryRow(ctx, `
		SELECT id, user_id, balance, total_earned, total_spent, created_at, updated_at
		FROM points
		WHERE user_id = $1
	`, userID).Scan(
		&a.ID, &a.UserID, &a.Balance, &a.TotalEarned, &a.TotalSpent,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения счёта (user_id=%d): %w", userID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return &a, nil
}

// Earn начисляет очки на счёт пользователя.
//
// Параметры:
//   - userID: кому начислить
//   - amount: сколько (положительное число)
//   - txType: тип транзакции (engagement_like, post_sentiment_bonus, purchase, ...)
//   - description: описание для журнала
func (r *Repository) Earn(ctx context.Context, userID int64, amount int64, txType, description string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := r.ensureAccount(ctx, tx, userID); err != nil {
		return err
	}

	// Обновляем баланс и total_earned
	_, err = tx.Exec(ctx, `
		UPDATE points
		SET balance = balance + $2, total_earned = total_earned + $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("ошибка начисления: %w", err)
	}

	// Записываем транзакцию в журнал
	_, err = tx.Exec(ctx, `
		INSERT INTO point_transactions (to_user_id, amount, transaction_type, description)
		VALUES ($1, $2, $3, $4)
	`, userID, amount, txType, description)
	if err != nil {
		return fmt.Errorf("ошибка записи транзакции: %w", err)
	}

	return tx.Commit(ctx)
}

// Spend списывает очки со счёта пользователя.
// При нехватке средств возвращает common.ErrInsufficientBalance,
// не изменив ни баланс, ни журнал.
func (r *Repository) Spend(ctx context.Context, userID int64, amount int64, txType, description string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := r.ensureAccount(ctx, tx, userID); err != nil {
		return err
	}

	// Проверяем баланс перед списанием (с блокировкой строки FOR UPDATE)
	var currentBalance int64
	err = tx.QueryRow(ctx, `
		SELECT balance FROM points WHERE user_id = $1 FOR UPDATE
	`, userID).Scan(&currentBalance)
	if err != nil {
		return fmt.Errorf("ошибка получения баланса: %w", err)
	}

	if err := checkAfford(currentBalance, amount); err != nil {
		return err
	}

	// Списываем
	_, err = tx.Exec(ctx, `
		UPDATE points
		SET balance = balance - $2, total_spent = total_spent + $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("ошибка списания: %w", err)
	}

	// Записываем транзакцию
	_, err = tx.Exec(ctx, `
		INSERT INTO point_transactions (from_user_id, amount, transaction_type, description)
		VALUES ($1, $2, $3, $4)
	`, userID, amount, txType, description)
	if err != nil {
		return fmt.Errorf("ошибка записи транзакции: %w", err)
	}

	return tx.Commit(ctx)
}

// Transfer переводит очки от одного пользователя к другому.
// Атомарная операция: либо оба баланса обновятся, либо ни одного.
func (r *Repository) Transfer(ctx context.Context, fromUserID, toUserID, amount int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := r.ensureAccount(ctx, tx, fromUserID); err != nil {
		return err
	}
	if err := r.ensureAccount(ctx, tx, toUserID); err != nil {
		return err
	}

	// Блокируем строку отправителя и проверяем баланс
	var senderBalance int64
	err = tx.QueryRow(ctx, `
		SELECT balance FROM points WHERE user_id = $1 FOR UPDATE
	`, fromUserID).Scan(&senderBalance)
	if err != nil {
		return fmt.Errorf("отправитель не найден: %w", err)
	}

	if err := checkAfford(senderBalance, amount); err != nil {
		return err
	}

	// Списываем у отправителя
	_, err = tx.Exec(ctx, `
		UPDATE points
		SET balance = balance - $2, total_spent = total_spent + $2, updated_at = NOW()
		WHERE user_id = $1
	`, fromUserID, amount)
	if err != nil {
		return fmt.Errorf("ошибка списания у отправителя: %w", err)
	}

	// Начисляем получателю
	_, err = tx.Exec(ctx, `
		UPDATE points
		SET balance = balance + $2, total_earned = total_earned + $2, updated_at = NOW()
		WHERE user_id = $1
	`, toUserID, amount)
	if err != nil {
		return fmt.Errorf("ошибка начисления получателю: %w", err)
	}

	// Одна запись журнала с обеими сторонами перевода
	_, err = tx.Exec(ctx, `
		INSERT INTO point_transactions (from_user_id, to_user_id, amount, transaction_type, description)
		VALUES ($1, $2, $3, 'transfer', $4)
	`, fromUserID, toUserID, amount, fmt.Sprintf("Перевод %d очков", amount))
	if err != nil {
		return fmt.Errorf("ошибка записи транзакции: %w", err)
	}

	return tx.Commit(ctx)
}

// Shield списывает очки на щит поста: одна транзакция БД накрывает
// списание, запись в историю щитов, включение щита на посте и журнал.
func (r *Repository) Shield(ctx context.Context, userID, postID, amount int64, until time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := r.ensureAccount(ctx, tx, userID); err != nil {
		return err
	}

	var currentBalance int64
	err = tx.QueryRow(ctx, `
		SELECT balance FROM points WHERE user_id = $1 FOR UPDATE
	`, userID).Scan(&currentBalance)
	if err != nil {
		return fmt.Errorf("ошибка получения баланса: %w", err)
	}

	if err := checkAfford(currentBalance, amount); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE points
		SET balance = balance - $2, total_spent = total_spent + $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("ошибка списания: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO shield_history (post_id, user_id, points_used, shield_end_time)
		VALUES ($1, $2, $3, $4)
	`, postID, userID, amount, until)
	if err != nil {
		return fmt.Errorf("ошибка записи истории щитов: %w", err)
	}

	if err := posts.SetShield(ctx, tx, postID, until); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO point_transactions (from_user_id, amount, transaction_type, description)
		VALUES ($1, $2, 'shield', $3)
	`, userID, amount, fmt.Sprintf("Щит поста %d на %s", postID, until.Format("02.01.2006 15:04")))
	if err != nil {
		return fmt.Errorf("ошибка записи транзакции: %w", err)
	}

	return tx.Commit(ctx)
}

// Transactions возвращает последние N транзакций пользователя,
// входящие и исходящие, свежие первыми.
func (r *Repository) Transactions(ctx context.Context, userID int64, limit int) ([]*Transaction, error) {
	query := `
		SELECT id, from_user_id, to_user_id, amount, transaction_type, description, created_at
		FROM point_transactions
		WHERE from_user_id = $1 OR to_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения транзакций: %w", err)
	}
	defer rows.Close()

	var transactions []*Transaction
	for rows.Next() {
		var t Transaction
		err := rows.Scan(
			&t.ID, &t.FromUserID, &t.ToUserID,
			&t.Amount, &t.TransactionType, &t.Description, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования транзакции: %w", err)
		}
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}
