package service

import (
	"context"
	"fmt"
	"swgoh-tracker/internal/config"
	"swgoh-tracker/internal/domain"
	"swgoh-tracker/internal/repository"

	"github.com/rs/zerolog"
)

type GPHistoryService struct {
	repo   *repository.GPHistoryRepository
	cfg    *config.Config
	logger zerolog.Logger
}

func NewGPHistoryService(repo *repository.GPHistoryRepository, cfg *config.Config, logger zerolog.Logger) *GPHistoryService {
	return &GPHistoryService{repo: repo, cfg: cfg, logger: logger}
}

func (s *GPHistoryService) Snapshot(ctx context.Context, guildAPIID string) (int, error) {
	n, err := s.repo.SnapshotGuild(ctx, guildAPIID)
	if err != nil {
		return 0, fmt.Errorf("failed to snapshot guild %s: %w", guildAPIID, err)
	}
	s.logger.Info().Str("guild_api_id", guildAPIID).Int("units", n).Msg("gp snapshot taken")
	return n, nil
}

// SnapshotTracked snapshots every configured guild. A failing guild does not
// stop the others; the first error is returned.
func (s *GPHistoryService) SnapshotTracked(ctx context.Context) error {
	var first error
	for _, id := range s.cfg.TrackedGuildIDs {
		if _, err := s.Snapshot(ctx, id); err != nil {
			s.logger.Error().Err(err).Str("guild_api_id", id).Msg("gp snapshot failed")
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func (s *GPHistoryService) History(ctx context.Context, playerAPIID string) ([]domain.GPSnapshot, error) {
	return s.repo.ListByPlayer(ctx, playerAPIID)
}
