// Package httpapi собирает HTTP-сервер: маршруты, middleware,
// graceful shutdown. Бизнес-логики здесь нет, только проводка.
package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"shaxe.ru/shaxe-backend/internal/config"
	"shaxe.ru/shaxe-backend/internal/features/bans"
	"shaxe.ru/shaxe-backend/internal/features/engagement"
	"shaxe.ru/shaxe-backend/internal/features/points"
	"shaxe.ru/shaxe-backend/internal/features/trending"
)

// Handlers — все обработчики, которые сервер умеет маршрутизировать.
type Handlers struct {
	Engagement *engagement.Handlers
	Trending   *trending.Handlers
	Points     *points.Handlers
	Bans       *bans.Handlers
}

// Server оборачивает http.Server с настроенным роутером.
type Server struct {
	srv *http.Server
	rl  *RateLimiter
}

// NewServer собирает роутер и HTTP-сервер.
func NewServer(cfg *config.Config, h Handlers) *Server {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	rl := NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)

	router := gin.New()
	router.Use(Recovery(), RequestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Публичные чтения: листинги и залы доступны без аутентификации
	public := api.Group("")
	public.Use(RateLimit(rl))
	{
		public.GET("/trending", h.Trending.List)
		public.GET("/hall-of-fame", h.Trending.HallOfFame)
		public.GET("/hall-of-shame", h.Trending.HallOfShame)
		public.GET("/posts/:id/score", h.Trending.Score)
		public.GET("/posts/:id/reactions", h.Engagement.Stats)
	}

	// Всё, что пишет или читает личное, требует пользователя
	authed := api.Group("")
	authed.Use(RequireUser(), RateLimit(rl))
	{
		authed.POST("/posts/:id/reactions", h.Engagement.React)
		authed.DELETE("/posts/:id/reactions/:kind", h.Engagement.Unreact)
		authed.GET("/posts/:id/reactions/mine", h.Engagement.UserKinds)
		authed.POST("/posts/:id/shield", h.Points.Shield)

		authed.GET("/points/balance", h.Points.Balance)
		authed.POST("/points/transfer", h.Points.Transfer)
		authed.POST("/points/purchase", h.Points.Purchase)
		authed.GET("/points/transactions", h.Points.Transactions)

		authed.GET("/bans/me", h.Bans.MyStatus)
	}

	admin := api.Group("/admin")
	admin.Use(AdminGate(cfg.AdminPasswordHash))
	{
		admin.GET("/users/:id/bans", h.Bans.History)
	}

	return &Server{
		srv: &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: router,
		},
		rl: rl,
	}
}

// Run блокируется до остановки сервера.
func (s *Server) Run() error {
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown мягко гасит сервер: дожидается активных запросов
// в пределах дедлайна ctx и останавливает rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rl.Close()
	return s.srv.Shutdown(ctx)
}
