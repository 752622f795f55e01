package repository

import (
	"context"
	"testing"
	"time"

	"swgoh-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func richPlayer(guild *domain.Guild) *domain.PlayerSnapshot {
	rex := unitSnap("CT7567", 13, 7, 25000)
	rex.ZetaSkillAPIIDs = []string{"leaderskill_CT7567", "uniqueskill_CT7567"}
	rex.Mods = []domain.Mod{
		speedMod("rex-0", 0, 6, 21),
		speedMod("rex-1", 1, 5, 0),
		speedMod("rex-2", 2, 5, 12),
	}

	gg := unitSnap("GENERALGRIEVOUS", 12, 7, 22000)
	gg.GearAPIIDs = []string{"158", "166", "001"}
	gg.ZetaSkillAPIIDs = []string{"uniqueskill_GRIEVOUS01"}

	return playerSnap("P1", 123456789, guild, rex, gg)
}

func TestReplace_StoresGraph(t *testing.T) {
	r := newTestRepos(t)
	seedCatalog(t, r)
	ctx := context.Background()

	p := storePlayer(t, r, richPlayer(nil))
	assert.NotZero(t, p.ID)
	assert.Nil(t, p.GuildID)

	counts, err := r.players.CountRows(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlayerRowCounts{PlayerUnits: 2, Zetas: 3, PlayerUnitGears: 3, Mods: 3}, counts)

	mod, err := r.players.GetMod(ctx, "rex-0")
	require.NoError(t, err)
	assert.Equal(t, int64(21), mod.Speed)
	assert.Equal(t, domain.ModSetSpeed, mod.Set)
	require.NotNil(t, mod.PlayerUnitID)

	units, err := r.players.ListUnits(ctx, p.ID, nil)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, int64(33), units["CT7567"].ModSpeedNoSet)
	assert.Equal(t, int64(2), units["CT7567"].ZetaCount)
	assert.Equal(t, 123456789, units["GENERALGRIEVOUS"].PlayerAllyCode)

	only, err := r.players.ListUnits(ctx, p.ID, []string{"GENERALGRIEVOUS"})
	require.NoError(t, err)
	assert.Len(t, only, 1)
	assert.Contains(t, only, "GENERALGRIEVOUS")
}

func TestReplace_IsIdempotentAndTouchesLastUpdated(t *testing.T) {
	r := newTestRepos(t)
	seedCatalog(t, r)
	ctx := context.Background()
	r.players.now = steppingClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	first := storePlayer(t, r, richPlayer(nil))
	before, err := r.players.CountRows(ctx, first.ID)
	require.NoError(t, err)

	second := storePlayer(t, r, richPlayer(nil))
	after, err := r.players.CountRows(ctx, second.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, before, after)

	stored, err := r.players.GetByAllyCode(ctx, 123456789)
	require.NoError(t, err)
	assert.True(t, stored.LastUpdated.After(first.LastUpdated))
}

func TestReplace_RollsBackOnMissingReference(t *testing.T) {
	r := newTestRepos(t)
	seedCatalog(t, r)
	ctx := context.Background()

	p := storePlayer(t, r, richPlayer(nil))
	before, err := r.players.CountRows(ctx, p.ID)
	require.NoError(t, err)

	bad := richPlayer(nil)
	bad.Player.Name = "Renamed"
	bad.Units = append(bad.Units, unitSnap("UNKNOWN_UNIT", 5, 3, 100))

	_, err = r.players.Replace(ctx, bad)
	require.ErrorIs(t, err, domain.ErrMissingReference)

	after, err := r.players.CountRows(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	stored, err := r.players.GetByAPIID(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, "Player P1", stored.Name)
	assert.True(t, p.LastUpdated.Equal(stored.LastUpdated))
}

func TestReplace_RollsBackOnMissingGearAndSkill(t *testing.T) {
	r := newTestRepos(t)
	seedCatalog(t, r)
	ctx := context.Background()

	noGear := richPlayer(nil)
	noGear.Units[1].GearAPIIDs = []string{"999"}
	_, err := r.players.Replace(ctx, noGear)
	assert.ErrorIs(t, err, domain.ErrMissingReference)

	noSkill := richPlayer(nil)
	noSkill.Units[0].ZetaSkillAPIIDs = []string{"nope"}
	_, err = r.players.Replace(ctx, noSkill)
	assert.ErrorIs(t, err, domain.ErrMissingReference)

	_, err = r.players.GetByAPIID(ctx, "P1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReplace_DropsUnitsMissingFromSnapshot(t *testing.T) {
	r := newTestRepos(t)
	seedCatalog(t, r)
	ctx := context.Background()

	p := storePlayer(t, r, richPlayer(nil))

	smaller := richPlayer(nil)
	smaller.Units = smaller.Units[1:]
	storePlayer(t, r, smaller)

	counts, err := r.players.CountRows(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlayerRowCounts{PlayerUnits: 1, Zetas: 1, PlayerUnitGears: 3, Mods: 0}, counts)

	_, err = r.players.GetMod(ctx, "rex-0")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShouldRefresh(t *testing.T) {
	r := newTestRepos(t)
	seedCatalog(t, r)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r.players.now = func() time.Time { return now }

	refresh, err := r.players.ShouldRefresh(ctx, 123456789, time.Hour)
	require.NoError(t, err)
	assert.True(t, refresh)

	storePlayer(t, r, richPlayer(nil))

	refresh, err = r.players.ShouldRefresh(ctx, 123456789, time.Hour)
	require.NoError(t, err)
	assert.False(t, refresh)

	now = now.Add(2 * time.Hour)
	refresh, err = r.players.ShouldRefresh(ctx, 123456789, time.Hour)
	require.NoError(t, err)
	assert.True(t, refresh)

	refresh, err = r.players.ShouldRefresh(ctx, 123456789, -1)
	require.NoError(t, err)
	assert.False(t, refresh)
}
