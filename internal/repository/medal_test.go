package repository

import (
	"context"
	"testing"

	"swgoh-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rexRules() domain.UnitMedalRules {
	return domain.UnitMedalRules{
		UnitAPIID: "CT7567",
		Stats: []domain.StatRuleConfig{
			{Stat: "gear", Value: 12},
			{Stat: "rarity", Value: 7},
			{Stat: "speed", Value: 250},
			{Stat: "health", Value: 40000},
			{Stat: "mod_speed", Value: 80},
		},
		Zetas: []string{"leaderskill_CT7567", "uniqueskill_CT7567"},
	}
}

func TestMedalRules_OnlySevenRuleUnitsAreMedaled(t *testing.T) {
	r := newTestRepos(t)
	seedCatalog(t, r)
	ctx := context.Background()

	partial := domain.UnitMedalRules{
		UnitAPIID: "GENERALGRIEVOUS",
		Stats:     []domain.StatRuleConfig{{Stat: "speed", Value: 200}},
	}
	require.NoError(t, r.medals.ReplaceRules(ctx, []domain.UnitMedalRules{rexRules(), partial}))

	units, err := r.medals.ListMedaledUnits(ctx)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "CT7567", units[0].Unit.APIID)
	assert.Len(t, units[0].StatRules, 5)
	assert.Len(t, units[0].ZetaRules, 2)
}

func TestMedalRules_ReplaceOverwrites(t *testing.T) {
	r := newTestRepos(t)
	seedCatalog(t, r)
	ctx := context.Background()

	require.NoError(t, r.medals.ReplaceRules(ctx, []domain.UnitMedalRules{rexRules()}))

	fewer := rexRules()
	fewer.Stats = fewer.Stats[:2]
	require.NoError(t, r.medals.ReplaceRules(ctx, []domain.UnitMedalRules{fewer}))

	units, err := r.medals.ListMedaledUnits(ctx)
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestMedalRules_Validation(t *testing.T) {
	r := newTestRepos(t)
	seedCatalog(t, r)
	ctx := context.Background()

	badStat := rexRules()
	badStat.Stats[0].Stat = "armor_shred"
	assert.Error(t, r.medals.ReplaceRules(ctx, []domain.UnitMedalRules{badStat}))

	foreignZeta := rexRules()
	foreignZeta.Zetas = []string{"uniqueskill_GRIEVOUS01"}
	assert.Error(t, r.medals.ReplaceRules(ctx, []domain.UnitMedalRules{foreignZeta}))

	unknownUnit := rexRules()
	unknownUnit.UnitAPIID = "NOPE"
	assert.ErrorIs(t, r.medals.ReplaceRules(ctx, []domain.UnitMedalRules{unknownUnit}), domain.ErrMissingReference)
}
