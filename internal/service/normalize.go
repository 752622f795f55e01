package service

import (
	"fmt"
	"strconv"
	"strings"
	"swgoh-tracker/internal/api"
	"swgoh-tracker/internal/constants"
	"swgoh-tracker/internal/domain"
)

var (
	leftHandG12GearIDs  = map[int]bool{158: true, 159: true, 160: true, 161: true, 162: true, 163: true, 164: true, 165: true}
	rightHandG12GearIDs = map[int]bool{166: true, 167: true, 168: true, 169: true, 170: true, 171: true}
)

const g12FinisherPrefix = "G12Finisher"

// ClassifyGear reports whether a gear api id is one of the left or right hand
// G12 pieces. Non-numeric ids only match by prefix.
func ClassifyGear(apiID string) (left, right bool) {
	id, err := strconv.Atoi(apiID)
	if err != nil {
		id = 0
	}
	left = leftHandG12GearIDs[id]
	right = rightHandG12GearIDs[id] || strings.HasPrefix(apiID, g12FinisherPrefix)
	return left, right
}

func normalizeGear(g api.GearData) domain.Gear {
	left, right := ClassifyGear(g.ID)
	return domain.Gear{
		APIID:          g.ID,
		Name:           g.NameKey,
		Tier:           g.Tier,
		RequiredRarity: g.RequiredRarity,
		RequiredLevel:  g.RequiredLevel,
		IsLeftHandG12:  left,
		IsRightHandG12: right,
	}
}

func normalizeGuild(g *api.GuildData) domain.Guild {
	return domain.Guild{
		APIID: g.ID,
		Name:  g.Name,
		GP:    g.GP,
	}
}

// NormalizePlayer converts one upstream player record into a snapshot ready
// to be stored. Ships are skipped. Stats missing from the record default to
// zero, but an unknown mod stat code or mod set is an error.
func NormalizePlayer(raw api.PlayerData, guildID *int64) (*domain.PlayerSnapshot, error) {
	if raw.ID == "" {
		return nil, fmt.Errorf("%w: missing player id for ally code %d", ErrInvalidPlayerData, raw.AllyCode)
	}
	if len(raw.Stats) < 3 {
		return nil, fmt.Errorf("%w: player %s has %d summary stats", ErrInvalidPlayerData, raw.ID, len(raw.Stats))
	}

	snap := &domain.PlayerSnapshot{
		Player: domain.Player{
			APIID:    raw.ID,
			GuildID:  guildID,
			AllyCode: raw.AllyCode,
			Name:     raw.Name,
			Level:    raw.Level,
			GP:       raw.Stats[0].Value,
			GPChar:   raw.Stats[1].Value,
			GPShip:   raw.Stats[2].Value,
		},
	}

	for _, u := range raw.Roster {
		if u.CombatType != constants.CharacterCombat {
			continue
		}
		unit, err := normalizeRosterUnit(u)
		if err != nil {
			return nil, fmt.Errorf("player %s unit %s: %w", raw.ID, u.DefID, err)
		}
		snap.Units = append(snap.Units, unit)
	}
	return snap, nil
}

func normalizeRosterUnit(u api.RosterUnit) (domain.UnitSnapshot, error) {
	final := u.Stats.Final
	mods := u.Stats.Mods

	pu := domain.PlayerUnit{
		Rarity:        u.Rarity,
		Level:         u.Level,
		Gear:          u.Gear,
		EquippedCount: len(u.Equipped),

		Speed:                 statInt(final, "Speed"),
		Health:                statInt(final, "Health"),
		Protection:            statInt(final, "Protection"),
		PhysicalDamage:        statInt(final, "Physical Damage"),
		PhysicalCritChance:    final["Physical Critical Chance"],
		SpecialDamage:         statInt(final, "Special Damage"),
		SpecialCritChance:     final["Special Critical Chance"],
		CritDamage:            final["Critical Damage"],
		Potency:               final["Potency"],
		Tenacity:              final["Tenacity"],
		Armor:                 final["Armor"],
		Resistance:            final["Resistance"],
		ArmorPenetration:      statInt(final, "Armor Penetration"),
		ResistancePenetration: statInt(final, "Resistance Penetration"),
		HealthSteal:           final["Health Steal"],
		Accuracy:              final["Accuracy"],

		ModSpeed:              statInt(mods, "Speed"),
		ModHealth:             statInt(mods, "Health"),
		ModProtection:         statInt(mods, "Protection"),
		ModPhysicalDamage:     statInt(mods, "Physical Damage"),
		ModSpecialDamage:      statInt(mods, "Special Damage"),
		ModPhysicalCritChance: mods["Physical Critical Chance"],
		ModSpecialCritChance:  mods["Special Critical Chance"],
		ModCritDamage:         mods["Critical Damage"],
		ModPotency:            mods["Potency"],
		ModTenacity:           mods["Tenacity"],
		ModArmor:              mods["Armor"],
		ModResistance:         mods["Resistance"],
		ModCriticalAvoidance:  mods["Critical Avoidance"],
		ModAccuracy:           mods["Accuracy"],
	}
	if u.GP != nil {
		pu.GP = *u.GP
	}

	snap := domain.UnitSnapshot{
		UnitAPIID:  u.DefID,
		PlayerUnit: pu,
	}

	for _, s := range u.Skills {
		if s.IsZeta && s.Tier == constants.MaxZetaTier {
			snap.ZetaSkillAPIIDs = append(snap.ZetaSkillAPIIDs, s.ID)
		}
	}
	for _, e := range u.Equipped {
		snap.GearAPIIDs = append(snap.GearAPIIDs, e.EquipmentID)
	}
	for _, m := range u.Mods {
		mod, err := NormalizeMod(m)
		if err != nil {
			return domain.UnitSnapshot{}, err
		}
		snap.Mods = append(snap.Mods, mod)
	}
	return snap, nil
}

// NormalizeMod converts an upstream mod. Upstream slots are 1-based.
func NormalizeMod(m api.RosterMod) (domain.Mod, error) {
	mod := domain.Mod{
		APIID: m.ID,
		Set:   domain.ModSet(m.Set),
		Slot:  m.Slot - 1,
		Level: m.Level,
		Pips:  m.Pips,
		Tier:  m.Tier,
	}
	if !mod.Set.Valid() {
		return domain.Mod{}, fmt.Errorf("mod %s: %w: %d", m.ID, domain.ErrUnknownModSet, m.Set)
	}

	if err := mod.ApplyStat(m.PrimaryStat.UnitStat, m.PrimaryStat.Value); err != nil {
		return domain.Mod{}, fmt.Errorf("mod %s primary: %w", m.ID, err)
	}
	for _, s := range m.SecondaryStat {
		if err := mod.ApplyStat(s.UnitStat, s.Value); err != nil {
			return domain.Mod{}, fmt.Errorf("mod %s secondary: %w", m.ID, err)
		}
	}
	return mod, nil
}

func statInt(stats map[string]float64, key string) int64 {
	return int64(stats[key])
}
