// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: ежечасное снятие истёкших
// щитов, ежедневная чистка старых снапшотов и фиксация залов.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// ShieldCleaner снимает истёкшие щиты с постов.
type ShieldCleaner interface {
	ClearExpiredShields(ctx context.Context) (int64, error)
}

// TrendingMaintainer — ежедневное обслуживание трендового кеша.
type TrendingMaintainer interface {
	PruneStale(ctx context.Context) (int64, error)
	RecordHalls(ctx context.Context) error
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron     *cron.Cron
	shields  ShieldCleaner
	trending TrendingMaintainer
}

// NewScheduler создаёт планировщик задач в заданном часовом поясе.
func NewScheduler(timezone string, shields ShieldCleaner, trending TrendingMaintainer) *Scheduler {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.WithError(err).Warnf("Не удалось загрузить %s, используем UTC", timezone)
		loc = time.UTC
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		shields:  shields,
		trending: trending,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	// Снятие истёкших щитов каждый час
	s.cron.AddFunc("0 * * * *", func() {
		log.Debug("[CRON] Снятие истёкших щитов")
		n, err := s.shields.ClearExpiredShields(ctx)
		if err != nil {
			log.WithError(err).Error("[CRON] Ошибка снятия щитов")
			return
		}
		if n > 0 {
			log.WithField("count", n).Info("[CRON] Щиты сняты")
		}
	})

	// Ежедневное обслуживание в 03:00: чистка кеша и запись залов
	s.cron.AddFunc("0 3 * * *", func() {
		log.Info("[CRON] Ежедневное обслуживание трендов")
		if n, err := s.trending.PruneStale(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка чистки снапшотов")
		} else if n > 0 {
			log.WithField("count", n).Info("[CRON] Старые снапшоты удалены")
		}
		if err := s.trending.RecordHalls(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка записи залов")
		}
	})

	s.cron.Start()
	log.Info("Планировщик задач запущен")
}

// Stop останавливает планировщик, дождавшись активных задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
