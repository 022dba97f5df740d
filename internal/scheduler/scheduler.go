package scheduler

import (
	"context"
	"log/slog"
	"time"

	"mention_tracker/internal/domain"
)

// Collector defines the interface for collection runs.
type Collector interface {
	Collect(ctx context.Context) (*domain.RunStats, error)
}

type Scheduler struct {
	collector  Collector
	interval   time.Duration
	runTimeout time.Duration
	logger     *slog.Logger
}

func NewScheduler(collector Collector, interval, runTimeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		collector:  collector,
		interval:   interval,
		runTimeout: runTimeout,
		logger:     logger,
	}
}

// Start runs one collection immediately. With a positive interval it keeps
// collecting on that interval until ctx is canceled; otherwise it returns
// after the first run with that run's result.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return s.runCollect(ctx)
	}

	s.logger.Info("scheduler started", "interval", s.interval)

	if err := s.runCollect(ctx); err != nil {
		s.logger.Error("collection failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := s.runCollect(ctx); err != nil {
				s.logger.Error("collection failed", "error", err)
			}
		}
	}
}

func (s *Scheduler) runCollect(ctx context.Context) error {
	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	_, err := s.collector.Collect(runCtx)
	return err
}
