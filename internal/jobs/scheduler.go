// Package jobs содержит фоновые задачи сервиса, запускаемые по cron
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// defaultJobTimeout ограничение на один прогон задачи
const defaultJobTimeout = time.Minute

// Scheduler запускает фоновые задачи по расписанию
type Scheduler struct {
	cron    *cron.Cron
	expirer HoldExpirer
	holdTTL time.Duration
	timeout time.Duration
	logger  Logger
}

// NewScheduler создает планировщик и регистрирует задачи
// schedule - cron выражение с секундами, например "0 */5 * * * *"
func NewScheduler(expirer HoldExpirer, schedule string, holdTTL time.Duration, logger Logger) (*Scheduler, error) {
	// UTC и точность до секунд
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	s := &Scheduler{
		cron:    c,
		expirer: expirer,
		holdTTL: holdTTL,
		timeout: defaultJobTimeout,
		logger:  logger,
	}

	if _, err := s.cron.AddFunc(schedule, s.ExpireHolds); err != nil {
		return nil, fmt.Errorf("jobs: register ExpireHolds with schedule %q: %w", schedule, err)
	}

	logger.Info("Jobs: ExpireHolds registered: schedule=%s, hold_ttl=%s", schedule, holdTTL)
	return s, nil
}

// ExpireHolds освобождает единицы товара, занятые неподтвержденными бронями старше holdTTL
func (s *Scheduler) ExpireHolds() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.expirer.ExpireStaleHolds(ctx, s.holdTTL)
	if err != nil {
		s.logger.Error("Jobs: ExpireHolds failed: %v", err)
		return
	}
	if n > 0 {
		s.logger.Info("Jobs: ExpireHolds expired %d bookings", n)
	}
}

// Start запускает планировщик
func (s *Scheduler) Start() {
	s.logger.Info("Jobs: starting cron scheduler")
	s.cron.Start()
}

// Stop останавливает планировщик и ждет завершения текущих задач
func (s *Scheduler) Stop(ctx context.Context) {
	s.logger.Info("Jobs: stopping cron scheduler")
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Jobs: cron scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("Jobs: cron scheduler stop timed out: %v", ctx.Err())
	}
}
