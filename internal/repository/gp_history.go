package repository

import (
	"context"
	"database/sql"
	"fmt"
	"swgoh-tracker/internal/constants"
	"swgoh-tracker/internal/db"
	"swgoh-tracker/internal/domain"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type GPHistoryRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
	now     func() time.Time
}

func NewGPHistoryRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *GPHistoryRepository {
	return &GPHistoryRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SnapshotGuild copies the current gp of every unit owned by the guild's
// players into the history table. All rows share one timestamp.
func (r *GPHistoryRepository) SnapshotGuild(ctx context.Context, guildAPIID string) (int, error) {
	rows, err := r.queries.ListGuildUnitGp(ctx, guildAPIID)
	if err != nil {
		return 0, fmt.Errorf("failed to list guild unit gp: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	createdAt := r.now()

	for i := 0; i < len(rows); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(rows))

		for _, row := range rows[i:end] {
			id, err := gonanoid.New()
			if err != nil {
				return 0, fmt.Errorf("failed to generate snapshot id: %w", err)
			}
			if err := qtx.InsertGpSnapshot(ctx, db.InsertGpSnapshotParams{
				ID:          id,
				UnitID:      row.UnitID,
				PlayerApiID: row.PlayerApiID,
				Gp:          row.Gp,
				CreatedAt:   createdAt,
			}); err != nil {
				return 0, fmt.Errorf("failed to insert gp snapshot: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit gp snapshots: %w", err)
	}

	r.logger.Info().
		Str("guild_api_id", guildAPIID).
		Int("rows", len(rows)).
		Time("created_at", createdAt).
		Msg("gp snapshot stored")
	return len(rows), nil
}

func (r *GPHistoryRepository) ListByPlayer(ctx context.Context, playerAPIID string) ([]domain.GPSnapshot, error) {
	rows, err := r.queries.ListGpSnapshotsByPlayer(ctx, playerAPIID)
	if err != nil {
		return nil, err
	}
	result := make([]domain.GPSnapshot, len(rows))
	for i, row := range rows {
		result[i] = domain.GPSnapshot{
			ID:          row.ID,
			UnitID:      row.UnitID,
			PlayerAPIID: row.PlayerApiID,
			GP:          row.Gp,
			CreatedAt:   row.CreatedAt,
		}
	}
	return result, nil
}
