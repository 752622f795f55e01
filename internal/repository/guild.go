package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"swgoh-tracker/internal/db"
	"swgoh-tracker/internal/domain"
	"time"

	"github.com/rs/zerolog"
)

type GuildRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
	now     func() time.Time
}

func NewGuildRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *GuildRepository {
	return &GuildRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Upsert stores the guild keyed by api id and stamps last_updated.
func (r *GuildRepository) Upsert(ctx context.Context, guild domain.Guild) (*domain.Guild, error) {
	row, err := r.queries.UpsertGuild(ctx, db.UpsertGuildParams{
		ApiID:       guild.APIID,
		Name:        guild.Name,
		Gp:          guild.GP,
		LastUpdated: r.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert guild %s: %w", guild.APIID, err)
	}
	return guildFromRow(row), nil
}

func (r *GuildRepository) GetByAPIID(ctx context.Context, apiID string) (*domain.Guild, error) {
	row, err := r.queries.GetGuildByApiID(ctx, apiID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("guild %s: %w", apiID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return guildFromRow(row), nil
}

func (r *GuildRepository) Get(ctx context.Context, id int64) (*domain.Guild, error) {
	row, err := r.queries.GetGuildByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("guild %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return guildFromRow(row), nil
}

func (r *GuildRepository) ListPlayers(ctx context.Context, guildID int64) ([]domain.Player, error) {
	rows, err := r.queries.ListPlayersByGuild(ctx, guildID)
	if err != nil {
		return nil, err
	}
	players := make([]domain.Player, len(rows))
	for i, p := range rows {
		players[i] = playerFromRow(p)
	}
	return players, nil
}

// PruneMembers deletes every player attached to the guild whose api id is not
// in members. Their units, zetas, gear and mods cascade.
func (r *GuildRepository) PruneMembers(ctx context.Context, guildID int64, members []string) (int, error) {
	keep := make(map[string]struct{}, len(members))
	for _, m := range members {
		keep[m] = struct{}{}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	current, err := qtx.ListPlayersByGuild(ctx, guildID)
	if err != nil {
		return 0, fmt.Errorf("failed to list guild players: %w", err)
	}

	removed := 0
	for _, p := range current {
		if _, ok := keep[p.ApiID]; ok {
			continue
		}
		if err := qtx.DeletePlayer(ctx, p.ID); err != nil {
			return 0, fmt.Errorf("failed to delete player %s: %w", p.ApiID, err)
		}
		r.logger.Info().
			Str("player_api_id", p.ApiID).
			Int64("ally_code", p.AllyCode).
			Int64("guild_id", guildID).
			Msg("removing player who left the guild")
		removed++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit guild membership: %w", err)
	}
	return removed, nil
}

// IsStale reports whether the guild should be refreshed: it is unknown or
// older than ttl.
func (r *GuildRepository) IsStale(ctx context.Context, guildID int64, ttl time.Duration) (bool, error) {
	guild, err := r.Get(ctx, guildID)
	if errors.Is(err, domain.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	since := r.now().Sub(guild.LastUpdated)
	r.logger.Debug().
		Str("guild_api_id", guild.APIID).
		Time("last_updated", guild.LastUpdated).
		Dur("since", since).
		Dur("ttl", ttl).
		Msg("checking guild staleness")
	return since > ttl, nil
}
