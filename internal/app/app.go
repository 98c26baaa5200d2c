// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, redis-клиент, репозитории,
// сервисы, обработчики и собирает всё в один объект App.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"shaxe.ru/shaxe-backend/internal/config"
	"shaxe.ru/shaxe-backend/internal/db/postgres"
	"shaxe.ru/shaxe-backend/internal/features/bans"
	"shaxe.ru/shaxe-backend/internal/features/engagement"
	"shaxe.ru/shaxe-backend/internal/features/points"
	"shaxe.ru/shaxe-backend/internal/features/posts"
	"shaxe.ru/shaxe-backend/internal/features/trending"
	"shaxe.ru/shaxe-backend/internal/features/users"
	"shaxe.ru/shaxe-backend/internal/httpapi"
	"shaxe.ru/shaxe-backend/internal/jobs"
	"shaxe.ru/shaxe-backend/internal/notifications"
)

// App содержит все компоненты приложения.
type App struct {
	Server    *httpapi.Server
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	Redis     *redis.Client // nil = redis выключен
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Redis (опционально) ===
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("ошибка подключения к redis: %w", err)
		}
		log.Infof("Redis подключен (%s)", cfg.RedisAddr)
	} else {
		log.Warn("REDIS_ADDR пуст — кеш листингов и события выключены")
	}

	clock := clockwork.NewRealClock()
	notifier := notifications.NewPublisher(rdb)

	// === 3. Репозитории ===
	usersRepo := users.NewRepository(pool)
	postsRepo := posts.NewRepository(pool)
	engagementRepo := engagement.NewRepository(pool)
	trendingRepo := trending.NewRepository(pool)
	bansRepo := bans.NewRepository(pool)
	pointsRepo := points.NewRepository(pool, cfg.PointsInitialBalance)

	// === 4. Сервисы ===
	usersService := users.NewService(usersRepo, clock)
	bansService := bans.NewService(bansRepo, clock)
	pointsService := points.NewService(pointsRepo, usersService, postsRepo, notifier, clock, cfg)
	rewarder := points.NewRewarder(pointsRepo, cfg)
	trendingService := trending.NewService(
		trendingRepo, postsRepo, engagementRepo,
		bansService, notifier, rdb, clock, cfg,
	)
	engagementService := engagement.NewService(
		engagementRepo, postsRepo, bansService, usersService,
		trendingService, rewarder, pointsService,
	)

	// === 5. Обработчики ===
	handlers := httpapi.Handlers{
		Engagement: engagement.NewHandlers(engagementService),
		Trending:   trending.NewHandlers(trendingService),
		Points:     points.NewHandlers(pointsService),
		Bans:       bans.NewHandlers(bansService),
	}

	// === 6. HTTP-сервер и планировщик ===
	server := httpapi.NewServer(cfg, handlers)
	scheduler := jobs.NewScheduler(cfg.AppTimezone, postsRepo, trendingService)

	return &App{
		Server:    server,
		Scheduler: scheduler,
		DB:        pool,
		Redis:     rdb,
	}, nil
}

// Close освобождает внешние ресурсы приложения.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.WithError(err).Warn("Ошибка закрытия redis")
		}
	}
	a.DB.Close()
}

// runMigrations выполняет все SQL-миграции.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.EnsureMigrationsTable(ctx, pool); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Users},
		{2, migration002Posts},
		{3, migration003Engagement},
		{4, migration004Trending},
		{5, migration005Bans},
		{6, migration006Points},
	}

	for _, m := range migrations {
		if err := postgres.ApplyMigration(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}

	return nil
}

// SQL-миграции встроены в код для упрощения деплоя.

var migration001Users = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    username VARCHAR(255) UNIQUE NOT NULL,
    is_verified BOOLEAN DEFAULT FALSE,
    date_of_birth DATE,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
`

var migration002Posts = `
CREATE TABLE IF NOT EXISTS posts (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id),
    content TEXT NOT NULL,
    is_adult_content BOOLEAN DEFAULT FALSE,
    is_shielded BOOLEAN DEFAULT FALSE,
    shield_expires_at TIMESTAMP,
    is_banned BOOLEAN DEFAULT FALSE,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id);
CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at DESC);
`

var migration003Engagement = `
CREATE TABLE IF NOT EXISTS engagement (
    id BIGSERIAL PRIMARY KEY,
    post_id BIGINT NOT NULL REFERENCES posts(id),
    user_id BIGINT NOT NULL REFERENCES users(id),
    kind VARCHAR(32) NOT NULL,
    created_at TIMESTAMP DEFAULT NOW(),
    UNIQUE(post_id, user_id, kind)
);
CREATE INDEX IF NOT EXISTS idx_engagement_post_id ON engagement(post_id);
CREATE INDEX IF NOT EXISTS idx_engagement_user_id ON engagement(user_id);
`

var migration004Trending = `
CREATE TABLE IF NOT EXISTS trending_cache (
    post_id BIGINT PRIMARY KEY REFERENCES posts(id),
    trending_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    engagement_count INTEGER NOT NULL DEFAULT 0,
    unique_engagers INTEGER NOT NULL DEFAULT 0,
    net_sentiment INTEGER NOT NULL DEFAULT 0,
    time_decayed_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    calculated_at TIMESTAMP NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_trending_cache_score ON trending_cache(trending_score DESC);
CREATE INDEX IF NOT EXISTS idx_trending_cache_calculated_at ON trending_cache(calculated_at);
CREATE TABLE IF NOT EXISTS hall_of_fame (
    id BIGSERIAL PRIMARY KEY,
    post_id BIGINT NOT NULL REFERENCES posts(id),
    user_id BIGINT NOT NULL REFERENCES users(id),
    trending_score DOUBLE PRECISION NOT NULL,
    period VARCHAR(16) NOT NULL,
    date_recorded DATE NOT NULL DEFAULT CURRENT_DATE,
    created_at TIMESTAMP DEFAULT NOW(),
    UNIQUE(post_id, period, date_recorded)
);
CREATE TABLE IF NOT EXISTS hall_of_shame (
    id BIGSERIAL PRIMARY KEY,
    post_id BIGINT NOT NULL REFERENCES posts(id),
    user_id BIGINT NOT NULL REFERENCES users(id),
    trending_score DOUBLE PRECISION NOT NULL,
    period VARCHAR(16) NOT NULL,
    date_recorded DATE NOT NULL DEFAULT CURRENT_DATE,
    created_at TIMESTAMP DEFAULT NOW(),
    UNIQUE(post_id, period, date_recorded)
);
`

var migration005Bans = `
CREATE TABLE IF NOT EXISTS user_bans (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id),
    ban_level INTEGER NOT NULL,
    ban_end_time TIMESTAMP NOT NULL,
    reason TEXT,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_user_bans_user_id ON user_bans(user_id);
CREATE INDEX IF NOT EXISTS idx_user_bans_end_time ON user_bans(ban_end_time DESC);
`

var migration006Points = `
CREATE TABLE IF NOT EXISTS points (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT UNIQUE NOT NULL REFERENCES users(id),
    balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
    total_earned BIGINT NOT NULL DEFAULT 0,
    total_spent BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS point_transactions (
    id BIGSERIAL PRIMARY KEY,
    from_user_id BIGINT REFERENCES users(id),
    to_user_id BIGINT REFERENCES users(id),
    amount BIGINT NOT NULL CHECK (amount > 0),
    transaction_type VARCHAR(50) NOT NULL,
    description TEXT,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_point_transactions_from_user ON point_transactions(from_user_id);
CREATE INDEX IF NOT EXISTS idx_point_transactions_to_user ON point_transactions(to_user_id);
CREATE INDEX IF NOT EXISTS idx_point_transactions_created_at ON point_transactions(created_at DESC);
CREATE TABLE IF NOT EXISTS shield_history (
    id BIGSERIAL PRIMARY KEY,
    post_id BIGINT NOT NULL REFERENCES posts(id),
    user_id BIGINT NOT NULL REFERENCES users(id),
    points_used BIGINT NOT NULL,
    shield_end_time TIMESTAMP NOT NULL,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_shield_history_post_id ON shield_history(post_id);
`
