package scheduler

import (
	"context"
	"fmt"

	"BullBearPK/internal/usecase"
	applogger "BullBearPK/pkg/logger"
	"BullBearPK/pkg/queue"

	"github.com/robfig/cron/v3"
)

// Scheduler enqueues periodic background work. Currently one schedule: a
// per-symbol news refresh so pipeline runs read warm local history.
type Scheduler struct {
	cron    *cron.Cron
	publish queue.QueueService
	symbols []string
	log     *applogger.Logger
}

func New(publish queue.QueueService, symbols []string, log *applogger.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		publish: publish,
		symbols: symbols,
		log:     log,
	}
}

// Start registers the refresh schedule and starts the cron loop.
func (s *Scheduler) Start(schedule string) error {
	if schedule == "" {
		schedule = "@every 30m"
	}
	if _, err := s.cron.AddFunc(schedule, s.refreshNews); err != nil {
		return fmt.Errorf("schedule news refresh: %w", err)
	}
	s.cron.Start()
	s.log.Info("scheduler started",
		applogger.String("schedule", schedule),
		applogger.Int("symbols", len(s.symbols)))
	return nil
}

func (s *Scheduler) refreshNews() {
	ctx := context.Background()
	for _, symbol := range s.symbols {
		payload := usecase.NewsRefreshPayload{Symbol: symbol, Limit: 20}
		if err := s.publish.PublishMessage(ctx, usecase.NewsRefreshType, payload); err != nil {
			s.log.Warn("news refresh enqueue failed",
				applogger.String("symbol", symbol),
				applogger.Error(err))
		}
	}
}

// Stop halts the cron loop, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
