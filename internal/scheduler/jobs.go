package scheduler

import (
	"context"
	"swgoh-tracker/internal/config"
	"swgoh-tracker/internal/constants"
	"swgoh-tracker/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// RefreshJob refreshes the catalog, reloads medal rules and then every
// tracked guild that went stale. The steps run in order because players
// reference catalog rows.
func RefreshJob(cfg *config.Config, catalog *service.CatalogService, medals *service.MedalService, guilds *service.GuildService, logger zerolog.Logger) Job {
	return Job{
		Name:     "refresh",
		Interval: cfg.RefreshInterval,
		Run: func(ctx context.Context) error {
			if _, err := catalog.RefreshCatalog(ctx); err != nil {
				return err
			}
			if cfg.MedalRulesPath != "" {
				if err := medals.LoadRules(ctx, cfg.MedalRulesPath); err != nil {
					logger.Error().Err(err).Str("path", cfg.MedalRulesPath).Msg("failed to load medal rules")
				}
			}
			for _, code := range cfg.TrackedAllyCodes {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if _, err := guilds.RefreshIfStale(ctx, code); err != nil {
					logger.Error().Err(err).Int("ally_code", code).Msg("failed to refresh guild")
				}
			}
			return nil
		},
	}
}

func SnapshotJob(history *service.GPHistoryService) Job {
	return Job{
		Name:     "gp_snapshot",
		Interval: constants.GPSnapshotInterval,
		Run:      history.SnapshotTracked,
	}
}

func Register(
	lc fx.Lifecycle,
	cfg *config.Config,
	catalog *service.CatalogService,
	medals *service.MedalService,
	guilds *service.GuildService,
	history *service.GPHistoryService,
	logger zerolog.Logger,
) *Scheduler {
	s := New(constants.SchedulerStartupWait, logger)
	s.Add(RefreshJob(cfg, catalog, medals, guilds, logger))
	if len(cfg.TrackedGuildIDs) > 0 {
		s.Add(SnapshotJob(history))
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.Start()
			return nil
		},
		OnStop: s.Stop,
	})
	return s
}
