package service

import (
	"swgoh-tracker/internal/api"
	"swgoh-tracker/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePlayer_SkipsShipsAndDefaultsStats(t *testing.T) {
	char := rawUnit("CT7567", 12, 20000, "158", "166")
	char.GP = nil
	ship := rawUnit("HOUNDSTOOTH", 0, 50000)
	ship.CombatType = 2

	guildID := int64(7)
	snap, err := NormalizePlayer(rawPlayer("p1", 111111111, char, ship), &guildID)
	require.NoError(t, err)

	assert.Equal(t, "p1", snap.Player.APIID)
	assert.Equal(t, int64(3000000), snap.Player.GP)
	assert.Equal(t, int64(2000000), snap.Player.GPChar)
	assert.Equal(t, int64(1000000), snap.Player.GPShip)
	require.NotNil(t, snap.Player.GuildID)
	assert.Equal(t, guildID, *snap.Player.GuildID)

	require.Len(t, snap.Units, 1)
	u := snap.Units[0]
	assert.Equal(t, "CT7567", u.UnitAPIID)
	assert.Equal(t, int64(0), u.PlayerUnit.GP)
	assert.Equal(t, int64(180), u.PlayerUnit.Speed)
	assert.Equal(t, int64(40000), u.PlayerUnit.Health)
	assert.InDelta(t, 0.5, u.PlayerUnit.Potency, 1e-9)
	assert.Equal(t, int64(60), u.PlayerUnit.ModSpeed)
	assert.Zero(t, u.PlayerUnit.Protection)
	assert.Zero(t, u.PlayerUnit.Tenacity)
	assert.Zero(t, u.PlayerUnit.ModCriticalAvoidance)
	assert.Equal(t, 2, u.PlayerUnit.EquippedCount)
	assert.Equal(t, []string{"158", "166"}, u.GearAPIIDs)
}

func TestNormalizePlayer_ZetaRequiresMaxTier(t *testing.T) {
	u := rawUnit("CT7567", 13, 30000)
	u.Skills = []api.RosterSkill{
		{ID: "leaderskill_CT7567", Tier: 8, IsZeta: true},
		{ID: "uniqueskill_CT7567", Tier: 7, IsZeta: true},
		{ID: "basicskill_CT7567", Tier: 8, IsZeta: false},
	}

	snap, err := NormalizePlayer(rawPlayer("p1", 111111111, u), nil)
	require.NoError(t, err)
	require.Len(t, snap.Units, 1)
	assert.Equal(t, []string{"leaderskill_CT7567"}, snap.Units[0].ZetaSkillAPIIDs)
	assert.Nil(t, snap.Player.GuildID)
}

func TestNormalizePlayer_InvalidRecord(t *testing.T) {
	raw := rawPlayer("p1", 111111111)
	raw.Stats = raw.Stats[:2]
	_, err := NormalizePlayer(raw, nil)
	assert.ErrorIs(t, err, ErrInvalidPlayerData)

	_, err = NormalizePlayer(rawPlayer("", 111111111), nil)
	assert.ErrorIs(t, err, ErrInvalidPlayerData)
}

func TestNormalizeMod(t *testing.T) {
	raw := api.RosterMod{
		ID:          "mod-1",
		Set:         7,
		Slot:        2,
		Level:       15,
		Pips:        6,
		Tier:        5,
		PrimaryStat: api.ModStat{UnitStat: 17, Value: 24},
		SecondaryStat: []api.ModStat{
			{UnitStat: 5, Value: 17},
			{UnitStat: 1, Value: 512},
			{UnitStat: 53, Value: 2.5},
			{UnitStat: 41, Value: 40},
		},
	}

	mod, err := NormalizeMod(raw)
	require.NoError(t, err)

	assert.Equal(t, domain.ModSetPotency, mod.Set)
	assert.Equal(t, 1, mod.Slot)
	assert.Equal(t, 6, mod.Pips)
	assert.InDelta(t, 0.24, mod.Potency, 1e-9)
	assert.Equal(t, int64(17), mod.Speed)
	assert.Equal(t, int64(512), mod.Health)
	assert.InDelta(t, 0.025, mod.CriticalChance, 1e-9)
	assert.Equal(t, int64(40), mod.Offense)

	assert.Zero(t, mod.Protection)
	assert.Zero(t, mod.ProtectionPercent)
	assert.Zero(t, mod.HealthPercent)
	assert.Zero(t, mod.OffensePercent)
	assert.Zero(t, mod.Defense)
	assert.Zero(t, mod.DefensePercent)
	assert.Zero(t, mod.CriticalDamage)
	assert.Zero(t, mod.Tenacity)
	assert.Zero(t, mod.CriticalAvoidance)
	assert.Zero(t, mod.Accuracy)
}

func TestNormalizeMod_Errors(t *testing.T) {
	raw := rawSpeedMod("mod-1", 1, 5, 10)
	raw.SecondaryStat = append(raw.SecondaryStat, api.ModStat{UnitStat: 99, Value: 1})
	_, err := NormalizeMod(raw)
	assert.ErrorIs(t, err, domain.ErrUnknownStatCode)

	raw = rawSpeedMod("mod-2", 1, 5, 10)
	raw.Set = 9
	_, err = NormalizeMod(raw)
	assert.ErrorIs(t, err, domain.ErrUnknownModSet)
}

func TestNormalizePlayer_UnknownStatCodeIsFatal(t *testing.T) {
	u := rawUnit("CT7567", 12, 20000)
	bad := rawSpeedMod("mod-1", 1, 5, 10)
	bad.PrimaryStat.UnitStat = 1000
	u.Mods = []api.RosterMod{bad}

	_, err := NormalizePlayer(rawPlayer("p1", 111111111, u), nil)
	assert.ErrorIs(t, err, domain.ErrUnknownStatCode)
}

func TestClassifyGear(t *testing.T) {
	tests := []struct {
		apiID string
		left  bool
		right bool
	}{
		{"158", true, false},
		{"165", true, false},
		{"166", false, true},
		{"171", false, true},
		{"172", false, false},
		{"157", false, false},
		{"G12Finisher_CT7567_A", false, true},
		{"G12Salvage_001", false, false},
		{"001", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.apiID, func(t *testing.T) {
			left, right := ClassifyGear(tt.apiID)
			assert.Equal(t, tt.left, left)
			assert.Equal(t, tt.right, right)
		})
	}
}
