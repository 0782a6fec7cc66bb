package warmup

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/guttosm/forecastpulse/internal/logger"
)

// Scheduler runs warm-up passes on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	ctx      context.Context
	loader   Loader
	pruner   Pruner
	parallel int
	running  atomic.Bool
	log      zerolog.Logger
}

// NewScheduler registers a warm-up job for spec (standard 5-field cron or a
// descriptor such as "@every 30m"). The job runs with ctx until Stop.
func NewScheduler(ctx context.Context, spec string, loader Loader, pruner Pruner, parallel int) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		ctx:      ctx,
		loader:   loader,
		pruner:   pruner,
		parallel: parallel,
		log:      logger.Component("warmup"),
	}
	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return nil, fmt.Errorf("register warmup %q: %w", spec, err)
	}
	return s, nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("warmup scheduler started")
}

// Stop stops the scheduler and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("warmup scheduler stopped")
}

// runOnce skips a tick if the previous pass is still running.
func (s *Scheduler) runOnce() {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn().Msg("warmup still running, skipping tick")
		return
	}
	defer s.running.Store(false)

	if _, err := Run(s.ctx, s.loader, s.pruner, s.parallel); err != nil {
		s.log.Error().Err(err).Msg("scheduled warmup finished with errors")
	}
}
