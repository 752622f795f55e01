package service

import (
	"context"
	"fmt"
	"swgoh-tracker/internal/api"
	"swgoh-tracker/internal/constants"
	"swgoh-tracker/internal/domain"
	"swgoh-tracker/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type CatalogService struct {
	client Upstream
	repo   *repository.CatalogRepository
	logger zerolog.Logger
}

func NewCatalogService(client Upstream, repo *repository.CatalogRepository, logger zerolog.Logger) *CatalogService {
	return &CatalogService{client: client, repo: repo, logger: logger}
}

type CatalogReport struct {
	Units        int
	Skills       int
	Categories   int
	Gears        int
	RemovedUnits int
	RemovedGears int
}

// RefreshCatalog downloads the game catalog and replaces the stored one.
func (s *CatalogService) RefreshCatalog(ctx context.Context) (*CatalogReport, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.GuildRefreshTimeout)
	defer cancel()

	var (
		units      []api.UnitData
		skills     []api.SkillData
		abilities  []api.AbilityData
		categories []api.CategoryData
		gears      []api.GearData
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		units, err = s.client.GetUnitList(gctx)
		return err
	})
	g.Go(func() (err error) {
		skills, err = s.client.GetSkillList(gctx)
		return err
	})
	g.Go(func() (err error) {
		abilities, err = s.client.GetAbilityList(gctx)
		return err
	})
	g.Go(func() (err error) {
		categories, err = s.client.GetCategoryList(gctx)
		return err
	})
	g.Go(func() (err error) {
		gears, err = s.client.GetGearList(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("failed to download catalog")
		return nil, fmt.Errorf("failed to download catalog: %w", err)
	}

	data, err := BuildGameData(units, skills, abilities, categories)
	if err != nil {
		return nil, err
	}

	removedUnits, err := s.repo.ReplaceGameData(ctx, data)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to store game data")
		return nil, fmt.Errorf("failed to store game data: %w", err)
	}

	gearRows := make([]domain.Gear, 0, len(gears))
	for _, gd := range gears {
		gearRows = append(gearRows, normalizeGear(gd))
	}
	removedGears, err := s.repo.ReplaceGears(ctx, gearRows)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to store gears")
		return nil, fmt.Errorf("failed to store gears: %w", err)
	}

	report := &CatalogReport{
		Units:        len(data.Units),
		Skills:       len(data.Skills),
		Categories:   len(data.Categories),
		Gears:        len(gearRows),
		RemovedUnits: removedUnits,
		RemovedGears: removedGears,
	}
	s.logger.Info().
		Int("units", report.Units).
		Int("skills", report.Skills).
		Int("gears", report.Gears).
		Int("removed_units", removedUnits).
		Int("removed_gears", removedGears).
		Msg("catalog refreshed")
	return report, nil
}

// BuildGameData joins the upstream lists into catalog rows. Each unit owns the
// skills it references and a skill is named after its ability.
func BuildGameData(units []api.UnitData, skills []api.SkillData, abilities []api.AbilityData, categories []api.CategoryData) (repository.GameData, error) {
	skillByID := make(map[string]api.SkillData, len(skills))
	for _, sk := range skills {
		skillByID[sk.ID] = sk
	}
	abilityByID := make(map[string]api.AbilityData, len(abilities))
	for _, a := range abilities {
		abilityByID[a.ID] = a
	}

	var data repository.GameData
	for _, c := range categories {
		data.Categories = append(data.Categories, domain.Category{APIID: c.ID, Name: c.DescKey})
	}
	for _, u := range units {
		if u.CombatType != constants.CharacterCombat {
			continue
		}
		data.Units = append(data.Units, domain.Unit{
			APIID:      u.BaseID,
			Name:       u.NameKey,
			Categories: u.CategoryIDList,
		})
		for _, ref := range u.SkillReferenceList {
			sk, ok := skillByID[ref.SkillID]
			if !ok {
				return repository.GameData{}, fmt.Errorf("%w: skill %s of unit %s", domain.ErrMissingReference, ref.SkillID, u.BaseID)
			}
			ability, ok := abilityByID[sk.AbilityReference]
			if !ok {
				return repository.GameData{}, fmt.Errorf("%w: ability %s of skill %s", domain.ErrMissingReference, sk.AbilityReference, sk.ID)
			}
			data.Skills = append(data.Skills, domain.Skill{
				APIID:     sk.ID,
				Name:      ability.NameKey,
				UnitAPIID: u.BaseID,
				IsZeta:    sk.IsZeta,
			})
		}
	}
	return data, nil
}
