// Package config загружает конфигурацию сервера из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- HTTP ---
	HTTPAddr            string        `envconfig:"HTTP_ADDR" default:":8080"`
	HTTPShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`

	// --- Database ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose), а для локалки переопределяй DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"shaxe"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"shaxe"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Redis (кеш листингов + события) ---
	// Пустой адрес = redis выключен, сервер работает без кеша и уведомлений.
	RedisAddr     string `envconfig:"REDIS_ADDR" default:""`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Europe/Moscow"`

	// --- Admin ---
	// bcrypt-хеш пароля для админских эндпоинтов (история банов).
	// Пустое значение = админские маршруты отключены.
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH" default:""`

	// --- Trending / автобан ---
	// Порог токсичности: доля негативных реакций, при которой пост
	// считается токсичным (0.70 = 70%).
	TrendingBanToxicity float64 `envconfig:"TRENDING_BAN_TOXICITY" default:"0.70"`
	// Минимум уникальных участников, чтобы автобан вообще рассматривался.
	TrendingBanMinEngagers int `envconfig:"TRENDING_BAN_MIN_ENGAGERS" default:"10"`
	// Балл, выше которого отправляется событие "пост в тренде".
	TrendingNotifyScore float64 `envconfig:"TRENDING_NOTIFY_SCORE" default:"50"`
	// TTL кеша листингов в redis.
	TrendingListCacheTTL time.Duration `envconfig:"TRENDING_LIST_CACHE_TTL" default:"60s"`
	// Снапшоты старше этого возраста вычищаются ежедневным джобом.
	TrendingCacheMaxAge time.Duration `envconfig:"TRENDING_CACHE_MAX_AGE" default:"720h"`
	// Сколько постов записывается в залы славы/позора за один прогон.
	HallOfFameSize int `envconfig:"HALL_OF_FAME_SIZE" default:"10"`

	// --- Sentiment (бонусы/штрафы владельцу поста) ---
	SentimentBonusDivisor   int `envconfig:"SENTIMENT_BONUS_DIVISOR" default:"3"`
	SentimentPenaltyDivisor int `envconfig:"SENTIMENT_PENALTY_DIVISOR" default:"5"`
	// Штраф применяется только когда net sentiment СТРОГО ниже этого порога.
	SentimentPenaltyFloor int `envconfig:"SENTIMENT_PENALTY_FLOOR" default:"-5"`

	// --- Points ---
	PointsInitialBalance int64 `envconfig:"POINTS_INITIAL_BALANCE" default:"100"`

	// --- Shield ---
	ShieldDuration    time.Duration `envconfig:"SHIELD_DURATION" default:"24h"`
	ShieldDefaultCost int64         `envconfig:"SHIELD_DEFAULT_COST" default:"100"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"60"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) Validate() error {
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if c.TrendingBanToxicity <= 0 || c.TrendingBanToxicity > 1 {
		return fmt.Errorf("TRENDING_BAN_TOXICITY должен быть в (0, 1]")
	}
	if c.TrendingBanMinEngagers <= 0 {
		return fmt.Errorf("TRENDING_BAN_MIN_ENGAGERS должен быть > 0")
	}
	if c.SentimentBonusDivisor <= 0 || c.SentimentPenaltyDivisor <= 0 {
		return fmt.Errorf("делители sentiment должны быть > 0")
	}
	if c.SentimentPenaltyFloor > 0 {
		return fmt.Errorf("SENTIMENT_PENALTY_FLOOR должен быть <= 0")
	}
	if c.PointsInitialBalance < 0 {
		return fmt.Errorf("POINTS_INITIAL_BALANCE не может быть отрицательным")
	}
	if c.ShieldDefaultCost <= 0 {
		return fmt.Errorf("SHIELD_DEFAULT_COST должен быть > 0")
	}
	if c.RateLimitRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS должен быть > 0")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
