package service

import (
	"context"
	"fmt"
	"os"
	"swgoh-tracker/internal/domain"
	"swgoh-tracker/internal/repository"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type MedalService struct {
	medals  *repository.MedalRepository
	players *repository.PlayerRepository
	logger  zerolog.Logger
}

func NewMedalService(medals *repository.MedalRepository, players *repository.PlayerRepository, logger zerolog.Logger) *MedalService {
	return &MedalService{medals: medals, players: players, logger: logger}
}

type medalFile struct {
	Units []domain.UnitMedalRules `yaml:"units"`
}

// ParseRules decodes a medal rule document.
func ParseRules(data []byte) ([]domain.UnitMedalRules, error) {
	var f medalFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse medal rules: %w", err)
	}
	return f.Units, nil
}

// LoadRules reads the YAML rule file at path and replaces the stored rules.
func (s *MedalService) LoadRules(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read medal rules: %w", err)
	}
	rules, err := ParseRules(data)
	if err != nil {
		return err
	}
	if err := s.medals.ReplaceRules(ctx, rules); err != nil {
		return fmt.Errorf("failed to store medal rules: %w", err)
	}
	s.logger.Info().Str("path", path).Int("units", len(rules)).Msg("medal rules loaded")
	return nil
}

func (s *MedalService) ListMedaledUnits(ctx context.Context) ([]domain.MedaledUnit, error) {
	return s.medals.ListMedaledUnits(ctx)
}

// PlayerMedals counts, for every medaled unit, how many of its rules the
// player's copy of that unit satisfies. Units the player lacks earn nothing.
func (s *MedalService) PlayerMedals(ctx context.Context, allyCode int) ([]domain.PlayerUnitMedals, error) {
	player, err := s.players.GetByAllyCode(ctx, allyCode)
	if err != nil {
		return nil, err
	}
	medaled, err := s.medals.ListMedaledUnits(ctx)
	if err != nil {
		return nil, err
	}

	unitIDs := make([]string, len(medaled))
	for i, m := range medaled {
		unitIDs[i] = m.Unit.APIID
	}
	owned, err := s.players.ListUnits(ctx, player.ID, unitIDs)
	if err != nil {
		return nil, err
	}
	zetas, err := s.players.ZetaSkills(ctx, player.ID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.PlayerUnitMedals, 0, len(medaled))
	for _, m := range medaled {
		medals := domain.PlayerUnitMedals{
			UnitAPIID: m.Unit.APIID,
			UnitName:  m.Unit.Name,
			Total:     len(m.StatRules) + len(m.ZetaRules),
		}
		pu, ok := owned[m.Unit.APIID]
		if ok {
			medals.Earned = earnedMedals(m, &pu.PlayerUnit, zetas[pu.ID])
		}
		result = append(result, medals)
	}
	return result, nil
}

func earnedMedals(m domain.MedaledUnit, pu *domain.PlayerUnit, zetaSkills []int64) int {
	unlocked := make(map[int64]struct{}, len(zetaSkills))
	for _, id := range zetaSkills {
		unlocked[id] = struct{}{}
	}

	earned := 0
	for _, r := range m.StatRules {
		if r.Satisfied(pu) {
			earned++
		}
	}
	for _, r := range m.ZetaRules {
		if _, ok := unlocked[r.SkillID]; ok {
			earned++
		}
	}
	return earned
}
