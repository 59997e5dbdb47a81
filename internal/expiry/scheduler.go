package expiry

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultSchedule runs the sweep hourly.
const DefaultSchedule = "@every 1h"

// Sweeper runs one expiry sweep.
type Sweeper interface {
	Sweep(ctx context.Context) (Summary, error)
}

// Scheduler runs a Sweeper on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	timeout time.Duration
	logger  zerolog.Logger
}

// NewScheduler registers sweeper under spec, a standard cron expression or
// descriptor such as "@every 1h".
func NewScheduler(spec string, sweeper Sweeper, logger zerolog.Logger) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultSchedule
	}

	s := &Scheduler{
		cron:    cron.New(),
		sweeper: sweeper,
		timeout: time.Minute,
		logger:  logger.With().Str("component", "expiry-scheduler").Logger(),
	}

	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("failed to schedule expiry sweep %q: %w", spec, err)
	}

	s.logger.Info().Str("schedule", spec).Msg("expiry sweep scheduled")
	return s, nil
}

// Start begins running sweeps in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for a running sweep, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn().Msg("expiry sweep still running at shutdown")
	}
}

// RunNow performs one sweep synchronously.
func (s *Scheduler) RunNow() {
	s.run()
}

func (s *Scheduler) run() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Msg("expiry sweep panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	summary, err := s.sweeper.Sweep(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("expiry sweep failed")
		return
	}

	s.logger.Info().
		Int("total_products", summary.TotalProducts).
		Int("expired", len(summary.Expired)).
		Int("expiring_today", len(summary.ExpiringToday)).
		Int("expiring_soon", len(summary.ExpiringSoon)).
		Dur("duration", time.Since(start)).
		Msg("expiry sweep completed")
}
