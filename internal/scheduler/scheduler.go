// Package scheduler keeps the rate cache warm by refreshing it on a cron
// schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"gitlab.com/yelinaung/fxrates/internal/logger"
	"gitlab.com/yelinaung/fxrates/internal/metrics"
	"gitlab.com/yelinaung/fxrates/internal/models"
)

const (
	// JobName labels the refresh job in metrics and logs.
	JobName = "refresh_rates"
	// RefreshTimeout is the maximum time a single refresh can take.
	RefreshTimeout = 2 * time.Minute
)

// Refresher reloads the current rates.
type Refresher interface {
	Refresh(ctx context.Context) ([]models.Rate, error)
}

// Scheduler runs Refresher on a cron schedule. Failures are logged and
// counted, never fatal.
type Scheduler struct {
	spec      string
	refresher Refresher
	cron      *cron.Cron
}

// New validates spec (a five-field cron expression or a descriptor such as
// "@every 10m") and creates a Scheduler.
func New(spec string, refresher Refresher) (*Scheduler, error) {
	s := &Scheduler{
		spec:      spec,
		refresher: refresher,
		cron:      cron.New(),
	}
	if _, err := s.cron.AddFunc(spec, func() { _ = s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return s, nil
}

// Run refreshes once immediately, then on every tick until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	logger.Log.Info().Str("schedule", s.spec).Msg("Refresh scheduler started")

	_ = s.RunOnce(ctx)

	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()

	logger.Log.Info().Msg("Refresh scheduler stopped")
}

// RunOnce performs one refresh.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, RefreshTimeout)
	defer cancel()

	started := time.Now()
	rates, err := s.refresher.Refresh(ctx)
	metrics.UpdateJobMetrics(JobName, started, err)
	if err != nil {
		logger.Log.Error().Err(err).Str("job", JobName).Msg("Scheduled refresh failed")
		return err
	}

	logger.Log.Debug().
		Str("job", JobName).
		Int("currencies", len(rates)).
		Dur("duration", time.Since(started)).
		Msg("Scheduled refresh completed")
	return nil
}
