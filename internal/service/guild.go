package service

import (
	"context"
	"errors"
	"fmt"
	"swgoh-tracker/internal/config"
	"swgoh-tracker/internal/constants"
	"swgoh-tracker/internal/domain"
	"swgoh-tracker/internal/repository"

	"github.com/rs/zerolog"
)

type GuildService struct {
	client  Upstream
	guilds  *repository.GuildRepository
	players *repository.PlayerRepository
	ingest  *PlayerService
	cfg     *config.Config
	logger  zerolog.Logger
}

func NewGuildService(client Upstream, guilds *repository.GuildRepository, players *repository.PlayerRepository, ingest *PlayerService, cfg *config.Config, logger zerolog.Logger) *GuildService {
	return &GuildService{
		client:  client,
		guilds:  guilds,
		players: players,
		ingest:  ingest,
		cfg:     cfg,
		logger:  logger,
	}
}

type GuildRefreshReport struct {
	Guild   domain.Guild
	Stored  int
	Failed  int
	Removed int
}

// RefreshGuild refreshes the guild of allyCode and its whole roster. A player
// that fails to store keeps its previous data. Players absent from the fresh
// roster are removed only once the roster download succeeded; until then the
// guild row is left untouched.
func (s *GuildService) RefreshGuild(ctx context.Context, allyCode int) (*GuildRefreshReport, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.GuildRefreshTimeout)
	defer cancel()

	s.logger.Info().Int("ally_code", allyCode).Msg("refreshing guild")

	data, err := s.client.GetGuild(ctx, allyCode)
	if err != nil {
		s.logger.Error().Err(err).Int("ally_code", allyCode).Msg("failed to fetch guild")
		return nil, fmt.Errorf("failed to fetch guild: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("guild of %d: %w", allyCode, domain.ErrNotFound)
	}

	allyCodes := make([]int, 0, len(data.Roster))
	for _, m := range data.Roster {
		allyCodes = append(allyCodes, m.AllyCode)
	}

	records, stats, err := s.ingest.Download(ctx, allyCodes)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("guild_api_id", data.ID).
			Int("members", len(allyCodes)).
			Msg("failed to download guild roster, guild unchanged")
		return nil, fmt.Errorf("failed to download roster of guild %s: %w", data.ID, err)
	}

	guild, err := s.guilds.Upsert(ctx, normalizeGuild(data))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert guild %s: %w", data.ID, err)
	}

	report := &GuildRefreshReport{Guild: *guild}
	members := make([]string, 0, len(data.Roster)+len(records))
	for _, m := range data.Roster {
		if m.ID != "" {
			members = append(members, m.ID)
		}
	}
	for _, raw := range records {
		members = append(members, raw.ID)
		if _, err := s.ingest.Store(ctx, raw, &guild.ID); err != nil {
			s.logger.Error().
				Err(err).
				Int("ally_code", raw.AllyCode).
				Str("guild_api_id", guild.APIID).
				Msg("failed to store player, skipping")
			report.Failed++
			continue
		}
		report.Stored++
	}

	report.Removed, err = s.guilds.PruneMembers(ctx, guild.ID, members)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile members of guild %s: %w", guild.APIID, err)
	}

	s.logger.Info().
		Str("guild_api_id", guild.APIID).
		Str("name", guild.Name).
		Int("stored", report.Stored).
		Int("failed", report.Failed).
		Int("removed", report.Removed).
		Int("attempts", stats.Attempts).
		Int("errors", stats.Errors).
		Msg("guild refreshed")
	return report, nil
}

// RefreshGuildOnly upserts the guild row of allyCode without touching its
// members.
func (s *GuildService) RefreshGuildOnly(ctx context.Context, allyCode int) (*domain.Guild, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()
	return refreshGuildOnly(ctx, s.client, s.guilds, allyCode)
}

// RefreshIfStale refreshes the guild of allyCode when the player is unknown,
// unguilded, or the guild is older than the configured staleness window. It
// returns nil when nothing needed refreshing.
func (s *GuildService) RefreshIfStale(ctx context.Context, allyCode int) (*GuildRefreshReport, error) {
	stale := true
	player, err := s.players.GetByAllyCode(ctx, allyCode)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return nil, err
	case player.GuildID != nil:
		stale, err = s.guilds.IsStale(ctx, *player.GuildID, s.cfg.StaleAfter)
		if err != nil {
			return nil, err
		}
	}

	if !stale {
		s.logger.Debug().Int("ally_code", allyCode).Msg("guild is fresh, skipping")
		return nil, nil
	}
	return s.RefreshGuild(ctx, allyCode)
}
