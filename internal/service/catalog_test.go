package service

import (
	"context"
	"swgoh-tracker/internal/api"
	"swgoh-tracker/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshCatalog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	units, err := env.catalogRepo.ListUnits(ctx)
	require.NoError(t, err)
	require.Len(t, units, 3)
	_, err = env.catalogRepo.GetUnit(ctx, "HOUNDSTOOTH")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	byID := make(map[string]domain.Unit)
	for _, u := range units {
		byID[u.APIID] = u
	}
	assert.ElementsMatch(t, []string{"affiliation_separatist"}, byID["GENERALGRIEVOUS"].Categories)

	skills, err := env.catalogRepo.ListSkills(ctx)
	require.NoError(t, err)
	names := make(map[string]domain.Skill)
	for _, s := range skills {
		names[s.APIID] = s
	}
	assert.Equal(t, "Fire at Will", names["leaderskill_CT7567"].Name)
	assert.Equal(t, "CT7567", names["leaderskill_CT7567"].UnitAPIID)
	assert.True(t, names["uniqueskill_GRIEVOUS01"].IsZeta)
	assert.False(t, names["basicskill_CT7567"].IsZeta)

	gears, err := env.catalogRepo.ListGears(ctx)
	require.NoError(t, err)
	gearByID := make(map[string]domain.Gear)
	for _, g := range gears {
		gearByID[g.APIID] = g
	}
	assert.True(t, gearByID["158"].IsLeftHandG12)
	assert.True(t, gearByID["166"].IsRightHandG12)
	assert.True(t, gearByID["G12Finisher_CT7567_A"].IsRightHandG12)
	assert.False(t, gearByID["001"].IsLeftHandG12 || gearByID["001"].IsRightHandG12)
}

func TestRefreshCatalog_RemovesStaleEntries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.upstream.units = env.upstream.units[:2]
	env.upstream.gears = env.upstream.gears[:3]

	report, err := env.catalog.RefreshCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.RemovedUnits)
	assert.Equal(t, 1, report.RemovedGears)

	_, err = env.catalogRepo.GetUnit(ctx, "HANSOLO")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBuildGameData_SkipsShips(t *testing.T) {
	units := []api.UnitData{
		{BaseID: "CT7567", CombatType: 1},
		{BaseID: "HOUNDSTOOTH", CombatType: 2, SkillReferenceList: []api.SkillRefData{{SkillID: "unknown"}}},
	}
	data, err := BuildGameData(units, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, data.Units, 1)
	assert.Equal(t, "CT7567", data.Units[0].APIID)
	assert.Empty(t, data.Skills)
}

func TestBuildGameData_MissingSkill(t *testing.T) {
	units := []api.UnitData{{BaseID: "CT7567", CombatType: 1, SkillReferenceList: []api.SkillRefData{{SkillID: "nope"}}}}
	_, err := BuildGameData(units, nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrMissingReference)
}
