// Package points управляет виртуальной валютой «Shaxe points».
// models.go описывает структуры для счетов и транзакций.
package points

import "time"

// Account представляет счёт пользователя.
// Инвариант: balance = total_earned − total_spent в любой момент,
// баланс никогда не уходит в минус. Счёт создаётся лениво при первом
// обращении со стартовым балансом из конфигурации.
type Account struct {
	ID          int64     `db:"id" json:"-"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Balance     int64     `db:"balance" json:"balance"`
	TotalEarned int64     `db:"total_earned" json:"total_earned"`
	TotalSpent  int64     `db:"total_spent" json:"total_spent"`
	CreatedAt   time.Time `db:"created_at" json:"-"`
	UpdatedAt   time.Time `db:"updated_at" json:"-"`
}

// Consistent проверяет учётный инвариант счёта:
// balance = total_earned − total_spent и баланс не в минусе.
// Стартовый баланс при создании счёта засчитывается в total_earned,
// поэтому инвариант держится с первой секунды жизни счёта.
func (a *Account) Consistent() bool {
	return a.Balance >= 0 && a.Balance == a.TotalEarned-a.TotalSpent
}

// Transaction представляет одну операцию с очками.
// Append-only журнал аудита: записи не изменяются и не удаляются.
// Каждая мутация баланса порождает ровно одну запись
// (перевод — одну запись с обеими сторонами).
type Transaction struct {
	ID              int64     `db:"id" json:"id"`
	FromUserID      *int64    `db:"from_user_id" json:"from_user_id,omitempty"` // nil для системных начислений
	ToUserID        *int64    `db:"to_user_id" json:"to_user_id,omitempty"`     // nil для системных списаний
	Amount          int64     `db:"amount" json:"amount"`                       // Всегда положительная
	TransactionType string    `db:"transaction_type" json:"transaction_type"`
	Description     string    `db:"description" json:"description"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// Типы транзакций.
const (
	TxTypeTransfer         = "transfer"               // Перевод между пользователями
	TxTypePurchase         = "purchase"               // Покупка очков за деньги
	TxTypeShield           = "shield"                 // Трата на щит поста
	TxTypeSentimentBonus   = "post_sentiment_bonus"   // Бонус автору за позитивный sentiment
	TxTypeSentimentPenalty = "post_sentiment_penalty" // Штраф автору за негативный sentiment
	// Начисления за реакции пишутся как "engagement_<kind>", напр. engagement_like.
	TxTypeEngagementPrefix = "engagement_"
)

// reactionPoints — сколько очков получает РЕАГИРУЮЩИЙ за реакцию.
// Начисляется только верифицированным пользователям.
var reactionPoints = map[string]int64{
	"like":     1,
	"dislike":  1,
	"share":    2,
	"shame":    1,
	"favorite": 1,
}

// PointsForReaction возвращает начисление за тип реакции.
// Неизвестный или неоплачиваемый тип (shaxe, shaxe_view) — 0.
func PointsForReaction(kind string) int64 {
	return reactionPoints[kind]
}

// productPoints — маппинг productId покупки на число очков.
var productPoints = map[string]int64{
	"points.small":  100,
	"points.medium": 550,
	"points.large":  1200,
}

// PointsForProduct возвращает число очков за продукт (0 = неизвестный).
func PointsForProduct(productID string) int64 {
	return productPoints[productID]
}

// SentimentCounts — снапшот счётчиков для sentiment-пересчёта.
// Позитив: лайки, шеры, favorites. Негатив: дизлайки, шеймы.
type SentimentCounts struct {
	Likes     int
	Dislikes  int
	Shares    int
	Shames    int
	Favorites int
}

// Net возвращает net sentiment = позитив − негатив.
func (c SentimentCounts) Net() int {
	return (c.Likes + c.Shares + c.Favorites) - (c.Dislikes + c.Shames)
}
