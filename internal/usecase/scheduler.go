package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/osegonte/football-dashboard/internal/platform/logging"
)

// Scheduler triggers a pipeline run immediately and then at a fixed
// interval. A tick that lands while a run is still in flight is
// skipped, not queued.
type Scheduler struct {
	pipeline *PipelineService
	interval time.Duration
	logger   *logging.Logger
}

func NewScheduler(pipeline *PipelineService, interval time.Duration, logger *logging.Logger) *Scheduler {
	if interval <= 0 {
		interval = 12 * time.Hour
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Scheduler{
		pipeline: pipeline,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.trigger(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) trigger(ctx context.Context) {
	if _, err := s.pipeline.RunOnce(ctx); err != nil {
		if errors.Is(err, ErrRunInProgress) {
			s.logger.InfoContext(ctx, "scheduled run skipped, previous run still in flight")
			return
		}
		s.logger.ErrorContext(ctx, "scheduled run failed", "error", err)
	}
}
