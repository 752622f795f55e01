package service

import (
	"context"
	"errors"
	"fmt"
	"swgoh-tracker/internal/api"
	"swgoh-tracker/internal/batch"
	"swgoh-tracker/internal/constants"
	"swgoh-tracker/internal/domain"
	"swgoh-tracker/internal/repository"
	"time"

	"github.com/rs/zerolog"
)

type PlayerService struct {
	client     Upstream
	downloader *PlayerDownloader
	players    *repository.PlayerRepository
	guilds     *repository.GuildRepository
	logger     zerolog.Logger
}

func NewPlayerService(client Upstream, downloader *PlayerDownloader, players *repository.PlayerRepository, guilds *repository.GuildRepository, logger zerolog.Logger) *PlayerService {
	return &PlayerService{
		client:     client,
		downloader: downloader,
		players:    players,
		guilds:     guilds,
		logger:     logger,
	}
}

// Store normalizes one upstream record and replaces the stored player with
// it. On error the previously stored player is left untouched.
func (s *PlayerService) Store(ctx context.Context, raw api.PlayerData, guildID *int64) (*domain.Player, error) {
	snap, err := NormalizePlayer(raw, guildID)
	if err != nil {
		return nil, err
	}
	player, err := s.players.Replace(ctx, snap)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().
		Int("ally_code", player.AllyCode).
		Str("player_api_id", player.APIID).
		Int("units", len(snap.Units)).
		Msg("player stored")
	return player, nil
}

// Download fetches the given players through the batch downloader. Either
// every requested player is returned or an error is.
func (s *PlayerService) Download(ctx context.Context, allyCodes []int) ([]api.PlayerData, batch.Stats, error) {
	return s.downloader.Download(ctx, allyCodes)
}

// RefreshPlayer downloads and stores one player. When the player belongs to
// a guild, the guild row is refreshed too but its members are not.
func (s *PlayerService) RefreshPlayer(ctx context.Context, allyCode int) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	s.logger.Info().Int("ally_code", allyCode).Msg("refreshing player")

	records, err := s.client.GetPlayers(ctx, []int{allyCode})
	if err != nil {
		s.logger.Error().Err(err).Int("ally_code", allyCode).Msg("failed to fetch player")
		return nil, fmt.Errorf("failed to fetch player: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("player %d: %w", allyCode, domain.ErrNotFound)
	}

	guildID, err := s.attachGuild(ctx, records[0], make(map[string]*int64))
	if err != nil {
		return nil, err
	}
	player, err := s.Store(ctx, records[0], guildID)
	if err != nil {
		s.logger.Error().Err(err).Int("ally_code", allyCode).Msg("failed to store player")
		return nil, fmt.Errorf("failed to store player %d: %w", allyCode, err)
	}

	s.logger.Info().Int("ally_code", allyCode).Str("name", player.Name).Msg("player refreshed")
	return player, nil
}

// RefreshPlayers downloads and stores several players, each attached to its
// own guild. Players that fail to store are logged and skipped.
func (s *PlayerService) RefreshPlayers(ctx context.Context, allyCodes []int) ([]domain.Player, error) {
	records, stats, err := s.Download(ctx, allyCodes)
	if err != nil {
		s.logger.Error().Err(err).Int("players", len(allyCodes)).Msg("failed to download players")
		return nil, fmt.Errorf("failed to download players: %w", err)
	}
	s.logger.Debug().
		Int("attempts", stats.Attempts).
		Int("errors", stats.Errors).
		Msg("players downloaded")

	guildCache := make(map[string]*int64)
	stored := make([]domain.Player, 0, len(records))
	for _, raw := range records {
		guildID, err := s.attachGuild(ctx, raw, guildCache)
		if err != nil {
			s.logger.Error().Err(err).Int("ally_code", raw.AllyCode).Msg("failed to refresh guild of player, skipping")
			continue
		}
		player, err := s.Store(ctx, raw, guildID)
		if err != nil {
			s.logger.Error().Err(err).Int("ally_code", raw.AllyCode).Msg("failed to store player, skipping")
			continue
		}
		stored = append(stored, *player)
	}
	return stored, nil
}

// EnsurePlayers returns the requested players, downloading only those unknown
// or stored longer ago than maxAge. A negative maxAge accepts any age.
func (s *PlayerService) EnsurePlayers(ctx context.Context, allyCodes []int, maxAge time.Duration) ([]domain.Player, error) {
	var missing []int
	fresh := make([]domain.Player, 0, len(allyCodes))
	for _, code := range allyCodes {
		refresh, err := s.players.ShouldRefresh(ctx, code, maxAge)
		if err != nil {
			return nil, err
		}
		if refresh {
			missing = append(missing, code)
			continue
		}
		player, err := s.players.GetByAllyCode(ctx, code)
		if err != nil {
			return nil, err
		}
		fresh = append(fresh, *player)
	}

	s.logger.Debug().
		Int("fresh", len(fresh)).
		Int("missing", len(missing)).
		Msg("ensuring players")

	if len(missing) == 0 {
		return fresh, nil
	}
	refreshed, err := s.RefreshPlayers(ctx, missing)
	if err != nil {
		return nil, err
	}
	return append(fresh, refreshed...), nil
}

func (s *PlayerService) attachGuild(ctx context.Context, raw api.PlayerData, cache map[string]*int64) (*int64, error) {
	if raw.GuildRefID == "" {
		return nil, nil
	}
	if id, ok := cache[raw.GuildRefID]; ok {
		return id, nil
	}
	guild, err := refreshGuildOnly(ctx, s.client, s.guilds, raw.AllyCode)
	if errors.Is(err, domain.ErrNotFound) {
		cache[raw.GuildRefID] = nil
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cache[raw.GuildRefID] = &guild.ID
	return &guild.ID, nil
}

// refreshGuildOnly upserts the guild of allyCode without touching members.
func refreshGuildOnly(ctx context.Context, client Upstream, repo *repository.GuildRepository, allyCode int) (*domain.Guild, error) {
	data, err := client.GetGuild(ctx, allyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild of %d: %w", allyCode, err)
	}
	if data == nil {
		return nil, fmt.Errorf("guild of %d: %w", allyCode, domain.ErrNotFound)
	}
	guild, err := repo.Upsert(ctx, normalizeGuild(data))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert guild %s: %w", data.ID, err)
	}
	return guild, nil
}
