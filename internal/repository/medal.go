package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"swgoh-tracker/internal/constants"
	"swgoh-tracker/internal/db"
	"swgoh-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type MedalRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewMedalRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *MedalRepository {
	return &MedalRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// ReplaceRules swaps the stat and zeta rules of every unit in sets, one
// transaction for all of them. Units not mentioned keep their rules.
func (r *MedalRepository) ReplaceRules(ctx context.Context, sets []domain.UnitMedalRules) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	skills, err := qtx.ListSkills(ctx)
	if err != nil {
		return fmt.Errorf("failed to load skills: %w", err)
	}
	skillIDs := make(map[string]db.ListSkillsRow, len(skills))
	for _, s := range skills {
		skillIDs[s.ApiID] = s
	}

	for _, set := range sets {
		unit, err := qtx.GetUnitByApiID(ctx, set.UnitAPIID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: unit %s", domain.ErrMissingReference, set.UnitAPIID)
		}
		if err != nil {
			return err
		}

		if err := qtx.DeleteStatMedalRulesByUnit(ctx, unit.ID); err != nil {
			return fmt.Errorf("failed to clear stat rules of %s: %w", set.UnitAPIID, err)
		}
		if err := qtx.DeleteZetaMedalRulesByUnit(ctx, unit.ID); err != nil {
			return fmt.Errorf("failed to clear zeta rules of %s: %w", set.UnitAPIID, err)
		}

		for _, s := range set.Stats {
			if !domain.IsMedalStat(s.Stat) {
				return fmt.Errorf("unit %s: unsupported medal stat %q", set.UnitAPIID, s.Stat)
			}
			if err := qtx.InsertStatMedalRule(ctx, db.InsertStatMedalRuleParams{
				UnitID: unit.ID,
				Stat:   s.Stat,
				Value:  s.Value,
			}); err != nil {
				return fmt.Errorf("failed to insert stat rule %s for %s: %w", s.Stat, set.UnitAPIID, err)
			}
		}

		for _, z := range set.Zetas {
			skill, ok := skillIDs[z]
			if !ok {
				return fmt.Errorf("%w: skill %s", domain.ErrMissingReference, z)
			}
			if skill.UnitID != unit.ID {
				return fmt.Errorf("unit %s: skill %s belongs to %s", set.UnitAPIID, z, skill.UnitApiID)
			}
			if err := qtx.InsertZetaMedalRule(ctx, db.InsertZetaMedalRuleParams{
				UnitID:  unit.ID,
				SkillID: skill.ID,
			}); err != nil {
				return fmt.Errorf("failed to insert zeta rule %s for %s: %w", z, set.UnitAPIID, err)
			}
		}

		if set.RuleCount() != constants.MedalRuleCount {
			r.logger.Warn().
				Str("unit_api_id", set.UnitAPIID).
				Int("rules", set.RuleCount()).
				Msg("unit will not be medaled")
		}
	}

	return tx.Commit()
}

// ListMedaledUnits returns units with exactly the medal rule count, along
// with their rules.
func (r *MedalRepository) ListMedaledUnits(ctx context.Context) ([]domain.MedaledUnit, error) {
	units, err := r.queries.ListMedaledUnits(ctx, constants.MedalRuleCount)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, nil
	}

	statRules, err := r.queries.ListStatMedalRules(ctx)
	if err != nil {
		return nil, err
	}
	zetaRules, err := r.queries.ListZetaMedalRules(ctx)
	if err != nil {
		return nil, err
	}

	stats := make(map[int64][]domain.StatMedalRule)
	for _, s := range statRules {
		stats[s.UnitID] = append(stats[s.UnitID], domain.StatMedalRule{
			ID:     s.ID,
			UnitID: s.UnitID,
			Stat:   s.Stat,
			Value:  s.Value,
		})
	}
	zetas := make(map[int64][]domain.ZetaMedalRule)
	for _, z := range zetaRules {
		zetas[z.UnitID] = append(zetas[z.UnitID], domain.ZetaMedalRule{
			ID:      z.ID,
			UnitID:  z.UnitID,
			SkillID: z.SkillID,
		})
	}

	result := make([]domain.MedaledUnit, len(units))
	for i, u := range units {
		result[i] = domain.MedaledUnit{
			Unit:      domain.Unit{ID: u.ID, APIID: u.ApiID, Name: u.Name},
			StatRules: stats[u.ID],
			ZetaRules: zetas[u.ID],
		}
	}
	return result, nil
}
