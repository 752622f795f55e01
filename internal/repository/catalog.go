package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"swgoh-tracker/internal/db"
	"swgoh-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type CatalogRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewCatalogRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *CatalogRepository {
	return &CatalogRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// GameData is a full catalog refresh. Skills reference their unit by api id.
type GameData struct {
	Categories []domain.Category
	Units      []domain.Unit
	Skills     []domain.Skill
}

// ReplaceGameData upserts categories, units and skills in one transaction and
// deletes units missing from data together with their skills. It returns the
// number of units removed.
func (r *CatalogRepository) ReplaceGameData(ctx context.Context, data GameData) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	categoryIDs := make(map[string]int64, len(data.Categories))
	for _, c := range data.Categories {
		id, err := qtx.UpsertCategory(ctx, db.UpsertCategoryParams{ApiID: c.APIID, Name: c.Name})
		if err != nil {
			return 0, fmt.Errorf("failed to upsert category %s: %w", c.APIID, err)
		}
		categoryIDs[c.APIID] = id
	}

	unitIDs := make(map[string]int64, len(data.Units))
	for _, u := range data.Units {
		id, err := qtx.UpsertUnit(ctx, db.UpsertUnitParams{ApiID: u.APIID, Name: u.Name})
		if err != nil {
			return 0, fmt.Errorf("failed to upsert unit %s: %w", u.APIID, err)
		}
		unitIDs[u.APIID] = id

		if err := qtx.DeleteUnitCategoriesByUnit(ctx, id); err != nil {
			return 0, fmt.Errorf("failed to clear categories of unit %s: %w", u.APIID, err)
		}
		for _, cat := range u.Categories {
			catID, ok := categoryIDs[cat]
			if !ok {
				// hidden categories are not part of the refresh
				continue
			}
			if err := qtx.AddUnitCategory(ctx, db.AddUnitCategoryParams{UnitID: id, CategoryID: catID}); err != nil {
				return 0, fmt.Errorf("failed to link unit %s to %s: %w", u.APIID, cat, err)
			}
		}
	}

	for _, s := range data.Skills {
		unitID, ok := unitIDs[s.UnitAPIID]
		if !ok {
			return 0, fmt.Errorf("%w: unit %s for skill %s", domain.ErrMissingReference, s.UnitAPIID, s.APIID)
		}
		if _, err := qtx.UpsertSkill(ctx, db.UpsertSkillParams{
			ApiID:  s.APIID,
			Name:   s.Name,
			UnitID: unitID,
			IsZeta: s.IsZeta,
		}); err != nil {
			return 0, fmt.Errorf("failed to upsert skill %s: %w", s.APIID, err)
		}
	}

	existing, err := qtx.ListUnits(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list units: %w", err)
	}
	removed := 0
	for _, u := range existing {
		if _, ok := unitIDs[u.ApiID]; ok {
			continue
		}
		if err := qtx.DeleteSkillsByUnit(ctx, u.ID); err != nil {
			return 0, fmt.Errorf("failed to delete skills of stale unit %s: %w", u.ApiID, err)
		}
		if err := qtx.DeleteUnit(ctx, u.ID); err != nil {
			return 0, fmt.Errorf("failed to delete stale unit %s: %w", u.ApiID, err)
		}
		removed++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit game data: %w", err)
	}

	r.logger.Info().
		Int("categories", len(data.Categories)).
		Int("units", len(data.Units)).
		Int("skills", len(data.Skills)).
		Int("removed_units", removed).
		Msg("game data stored")
	return removed, nil
}

// ReplaceGears upserts gears and deletes those missing from the list.
func (r *CatalogRepository) ReplaceGears(ctx context.Context, gears []domain.Gear) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	keep := make(map[string]struct{}, len(gears))
	for _, g := range gears {
		if _, err := qtx.UpsertGear(ctx, db.UpsertGearParams{
			ApiID:          g.APIID,
			Name:           g.Name,
			Tier:           int64(g.Tier),
			RequiredRarity: int64(g.RequiredRarity),
			RequiredLevel:  int64(g.RequiredLevel),
			IsLeftHandG12:  g.IsLeftHandG12,
			IsRightHandG12: g.IsRightHandG12,
		}); err != nil {
			return 0, fmt.Errorf("failed to upsert gear %s: %w", g.APIID, err)
		}
		keep[g.APIID] = struct{}{}
	}

	existing, err := qtx.ListGears(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list gears: %w", err)
	}
	removed := 0
	for _, g := range existing {
		if _, ok := keep[g.ApiID]; ok {
			continue
		}
		if err := qtx.DeleteGear(ctx, g.ID); err != nil {
			return 0, fmt.Errorf("failed to delete stale gear %s: %w", g.ApiID, err)
		}
		removed++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit gears: %w", err)
	}
	r.logger.Info().Int("gears", len(gears)).Int("removed", removed).Msg("gears stored")
	return removed, nil
}

func (r *CatalogRepository) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	units, err := r.queries.ListUnits(ctx)
	if err != nil {
		return nil, err
	}
	links, err := r.queries.ListUnitCategoryApiIDs(ctx)
	if err != nil {
		return nil, err
	}

	categories := make(map[int64][]string)
	for _, l := range links {
		categories[l.UnitID] = append(categories[l.UnitID], l.CategoryApiID)
	}

	result := make([]domain.Unit, len(units))
	for i, u := range units {
		result[i] = domain.Unit{
			ID:         u.ID,
			APIID:      u.ApiID,
			Name:       u.Name,
			Categories: categories[u.ID],
		}
	}
	return result, nil
}

func (r *CatalogRepository) GetUnit(ctx context.Context, apiID string) (*domain.Unit, error) {
	u, err := r.queries.GetUnitByApiID(ctx, apiID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("unit %s: %w", apiID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &domain.Unit{ID: u.ID, APIID: u.ApiID, Name: u.Name}, nil
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.queries.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Category, len(rows))
	for i, c := range rows {
		result[i] = domain.Category{ID: c.ID, APIID: c.ApiID, Name: c.Name}
	}
	return result, nil
}

func (r *CatalogRepository) ListSkills(ctx context.Context) ([]domain.Skill, error) {
	rows, err := r.queries.ListSkills(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Skill, len(rows))
	for i, s := range rows {
		result[i] = domain.Skill{
			ID:        s.ID,
			APIID:     s.ApiID,
			Name:      s.Name,
			UnitID:    s.UnitID,
			UnitAPIID: s.UnitApiID,
			IsZeta:    s.IsZeta,
		}
	}
	return result, nil
}

func (r *CatalogRepository) ListGears(ctx context.Context) ([]domain.Gear, error) {
	rows, err := r.queries.ListGears(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Gear, len(rows))
	for i, g := range rows {
		result[i] = domain.Gear{
			ID:             g.ID,
			APIID:          g.ApiID,
			Name:           g.Name,
			Tier:           int(g.Tier),
			RequiredRarity: int(g.RequiredRarity),
			RequiredLevel:  int(g.RequiredLevel),
			IsLeftHandG12:  g.IsLeftHandG12,
			IsRightHandG12: g.IsRightHandG12,
		}
	}
	return result, nil
}
