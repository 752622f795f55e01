package service

import (
	"context"
	"errors"
	"fmt"
	"swgoh-tracker/internal/constants"
	"swgoh-tracker/internal/domain"
	"swgoh-tracker/internal/repository"

	"github.com/rs/zerolog"
)

var ErrInconsistentRollup = errors.New("guild rollup differs from the sum of its players")

type StatsService struct {
	stats   *repository.StatsRepository
	guilds  *repository.GuildRepository
	players *repository.PlayerRepository
	logger  zerolog.Logger
}

func NewStatsService(stats *repository.StatsRepository, guilds *repository.GuildRepository, players *repository.PlayerRepository, logger zerolog.Logger) *StatsService {
	return &StatsService{stats: stats, guilds: guilds, players: players, logger: logger}
}

// GuildStats returns the guild rollup along with each member's rollup.
func (s *StatsService) GuildStats(ctx context.Context, guildAPIID string) (*domain.GuildStats, []domain.PlayerStats, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	guild, err := s.guilds.GetByAPIID(ctx, guildAPIID)
	if err != nil {
		return nil, nil, err
	}
	return s.stats.GuildBreakdown(ctx, guild.ID)
}

func (s *StatsService) PlayerStats(ctx context.Context, allyCode int) (*domain.PlayerStats, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	player, err := s.players.GetByAllyCode(ctx, allyCode)
	if err != nil {
		return nil, err
	}
	return s.stats.PlayerStats(ctx, player.ID)
}

// PlayerUnits returns the player's units keyed by unit api id, optionally
// restricted to unitAPIIDs.
func (s *StatsService) PlayerUnits(ctx context.Context, allyCode int, unitAPIIDs []string) (map[string]domain.PlayerUnitStats, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	player, err := s.players.GetByAllyCode(ctx, allyCode)
	if err != nil {
		return nil, err
	}
	return s.players.ListUnits(ctx, player.ID, unitAPIIDs)
}

// CheckConsistency verifies that every guild statistic equals the sum of the
// same statistic over the guild's players.
func (s *StatsService) CheckConsistency(ctx context.Context, guildAPIID string) error {
	guild, players, err := s.GuildStats(ctx, guildAPIID)
	if err != nil {
		return err
	}

	var sum domain.Rollup
	for _, p := range players {
		sum.Add(p.Rollup)
	}
	if guild.PlayerCount != int64(len(players)) {
		return fmt.Errorf("%w: guild %s counts %d players, found %d",
			ErrInconsistentRollup, guildAPIID, guild.PlayerCount, len(players))
	}
	if diff := guild.Rollup.Diff(sum); len(diff) > 0 {
		s.logger.Error().
			Str("guild_api_id", guildAPIID).
			Strs("fields", diff).
			Msg("guild rollup is inconsistent")
		return fmt.Errorf("%w: guild %s fields %v", ErrInconsistentRollup, guildAPIID, diff)
	}
	return nil
}
