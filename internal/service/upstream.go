package service

import (
	"context"
	"errors"
	"swgoh-tracker/internal/api"
	"swgoh-tracker/internal/batch"
	"swgoh-tracker/internal/config"

	"github.com/rs/zerolog"
)

var ErrInvalidPlayerData = errors.New("invalid player data")

// Upstream is the part of the game data API the services consume.
// *api.SwgohClient implements it.
type Upstream interface {
	GetUnitList(ctx context.Context) ([]api.UnitData, error)
	GetSkillList(ctx context.Context) ([]api.SkillData, error)
	GetAbilityList(ctx context.Context) ([]api.AbilityData, error)
	GetGearList(ctx context.Context) ([]api.GearData, error)
	GetCategoryList(ctx context.Context) ([]api.CategoryData, error)
	GetGuild(ctx context.Context, allyCode int) (*api.GuildData, error)
	GetPlayers(ctx context.Context, allyCodes []int) ([]api.PlayerData, error)
}

var _ Upstream = (*api.SwgohClient)(nil)

type PlayerDownloader = batch.Downloader[api.PlayerData]

// NewPlayerDownloader fetches player records in adaptive batches, matching
// records to requests by ally code.
func NewPlayerDownloader(client Upstream, cfg *config.Config, logger zerolog.Logger) *PlayerDownloader {
	return batch.NewDownloader[api.PlayerData](
		client.GetPlayers,
		func(p api.PlayerData) int { return p.AllyCode },
		batch.Options{
			InitialBatchSize: cfg.BatchInitialSize,
			MaxWorkers:       cfg.BatchMaxWorkers,
			MaxErrors:        cfg.BatchMaxErrors,
		},
		logger.With().Str("component", "player_downloader").Logger(),
	)
}
