package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"loghistory-backend/config"
	"loghistory-backend/internal/service"
)

// NewScheduler registers a periodic snapshot refresh. It returns nil when no
// schedule is configured.
func NewScheduler(lc fx.Lifecycle, cfg *config.Config, svc service.LogHistoryService) (*cron.Cron, error) {
	schedule := cfg.Refresh.Schedule
	if schedule == "" {
		log.Info().Msg("No refresh schedule configured, snapshot is refreshed on demand only")
		return nil, nil
	}

	c, err := New(schedule, func() {
		svc.Refresh(context.Background())
	})
	if err != nil {
		log.Error().Err(err).Str("schedule", schedule).Msg("Failed to add cron job")
		return nil, err
	}
	log.Info().Str("schedule", schedule).Msg("Scheduled log snapshot refresh")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msg("Starting cron scheduler")
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Stopping cron scheduler...")
			stopCtx := c.Stop()
			select {
			case <-stopCtx.Done():
				log.Info().Msg("Cron scheduler stopped gracefully.")
				return nil
			case <-ctx.Done():
				log.Error().Msg("Context cancelled while waiting for cron scheduler to stop.")
				return ctx.Err()
			}
		},
	})
	return c, nil
}

// New builds an unstarted cron running job on schedule. Schedules take an
// optional leading seconds field and descriptors such as @every 5m.
func New(schedule string, job func()) (*cron.Cron, error) {
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c := cron.New(cron.WithParser(parser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(schedule, job); err != nil {
		return nil, err
	}
	return c, nil
}
