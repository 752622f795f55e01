package repository

import (
	"database/sql"
	"swgoh-tracker/internal/db"
	"swgoh-tracker/internal/domain"
)

func guildFromRow(g db.Guild) *domain.Guild {
	return &domain.Guild{
		ID:          g.ID,
		APIID:       g.ApiID,
		Name:        g.Name,
		GP:          g.Gp,
		LastUpdated: g.LastUpdated,
	}
}

func playerFromRow(p db.Player) domain.Player {
	player := domain.Player{
		ID:          p.ID,
		APIID:       p.ApiID,
		AllyCode:    int(p.AllyCode),
		Name:        p.Name,
		Level:       int(p.Level),
		GP:          p.Gp,
		GPChar:      p.GpChar,
		GPShip:      p.GpShip,
		LastUpdated: p.LastUpdated,
	}
	if p.GuildID.Valid {
		id := p.GuildID.Int64
		player.GuildID = &id
	}
	return player
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func playerUnitFromRow(pu db.PlayerUnit) domain.PlayerUnit {
	return domain.PlayerUnit{
		ID:            pu.ID,
		PlayerID:      pu.PlayerID,
		UnitID:        pu.UnitID,
		GP:            pu.Gp,
		Rarity:        int(pu.Rarity),
		Level:         int(pu.Level),
		Gear:          int(pu.Gear),
		EquippedCount: int(pu.EquippedCount),

		Speed:                 pu.Speed,
		Health:                pu.Health,
		Protection:            pu.Protection,
		PhysicalDamage:        pu.PhysicalDamage,
		PhysicalCritChance:    pu.PhysicalCritChance,
		SpecialDamage:         pu.SpecialDamage,
		SpecialCritChance:     pu.SpecialCritChance,
		CritDamage:            pu.CritDamage,
		Potency:               pu.Potency,
		Tenacity:              pu.Tenacity,
		Armor:                 pu.Armor,
		Resistance:            pu.Resistance,
		ArmorPenetration:      pu.ArmorPenetration,
		ResistancePenetration: pu.ResistancePenetration,
		HealthSteal:           pu.HealthSteal,
		Accuracy:              pu.Accuracy,

		ModSpeed:              pu.ModSpeed,
		ModHealth:             pu.ModHealth,
		ModProtection:         pu.ModProtection,
		ModPhysicalDamage:     pu.ModPhysicalDamage,
		ModSpecialDamage:      pu.ModSpecialDamage,
		ModPhysicalCritChance: pu.ModPhysicalCritChance,
		ModSpecialCritChance:  pu.ModSpecialCritChance,
		ModCritDamage:         pu.ModCritDamage,
		ModPotency:            pu.ModPotency,
		ModTenacity:           pu.ModTenacity,
		ModArmor:              pu.ModArmor,
		ModResistance:         pu.ModResistance,
		ModCriticalAvoidance:  pu.ModCriticalAvoidance,
		ModAccuracy:           pu.ModAccuracy,

		LastUpdated: pu.LastUpdated,
	}
}

func playerUnitParams(pu domain.PlayerUnit) db.InsertPlayerUnitParams {
	return db.InsertPlayerUnitParams{
		PlayerID:      pu.PlayerID,
		UnitID:        pu.UnitID,
		Gp:            pu.GP,
		Rarity:        int64(pu.Rarity),
		Level:         int64(pu.Level),
		Gear:          int64(pu.Gear),
		EquippedCount: int64(pu.EquippedCount),

		Speed:                 pu.Speed,
		Health:                pu.Health,
		Protection:            pu.Protection,
		PhysicalDamage:        pu.PhysicalDamage,
		PhysicalCritChance:    pu.PhysicalCritChance,
		SpecialDamage:         pu.SpecialDamage,
		SpecialCritChance:     pu.SpecialCritChance,
		CritDamage:            pu.CritDamage,
		Potency:               pu.Potency,
		Tenacity:              pu.Tenacity,
		Armor:                 pu.Armor,
		Resistance:            pu.Resistance,
		ArmorPenetration:      pu.ArmorPenetration,
		ResistancePenetration: pu.ResistancePenetration,
		HealthSteal:           pu.HealthSteal,
		Accuracy:              pu.Accuracy,

		ModSpeed:              pu.ModSpeed,
		ModHealth:             pu.ModHealth,
		ModProtection:         pu.ModProtection,
		ModPhysicalDamage:     pu.ModPhysicalDamage,
		ModSpecialDamage:      pu.ModSpecialDamage,
		ModPhysicalCritChance: pu.ModPhysicalCritChance,
		ModSpecialCritChance:  pu.ModSpecialCritChance,
		ModCritDamage:         pu.ModCritDamage,
		ModPotency:            pu.ModPotency,
		ModTenacity:           pu.ModTenacity,
		ModArmor:              pu.ModArmor,
		ModResistance:         pu.ModResistance,
		ModCriticalAvoidance:  pu.ModCriticalAvoidance,
		ModAccuracy:           pu.ModAccuracy,

		LastUpdated: pu.LastUpdated,
	}
}

func modParams(m domain.Mod, playerUnitID int64) db.InsertModParams {
	return db.InsertModParams{
		ApiID:             m.APIID,
		PlayerUnitID:      sql.NullInt64{Int64: playerUnitID, Valid: true},
		ModSet:            int64(m.Set),
		Slot:              int64(m.Slot),
		Level:             int64(m.Level),
		Pips:              int64(m.Pips),
		Tier:              int64(m.Tier),
		Speed:             m.Speed,
		Health:            m.Health,
		HealthPercent:     m.HealthPercent,
		Protection:        m.Protection,
		ProtectionPercent: m.ProtectionPercent,
		Offense:           m.Offense,
		OffensePercent:    m.OffensePercent,
		Defense:           m.Defense,
		DefensePercent:    m.DefensePercent,
		CriticalChance:    m.CriticalChance,
		CriticalDamage:    m.CriticalDamage,
		Potency:           m.Potency,
		Tenacity:          m.Tenacity,
		CriticalAvoidance: m.CriticalAvoidance,
		Accuracy:          m.Accuracy,
	}
}

func modFromRow(m db.Mod) domain.Mod {
	mod := domain.Mod{
		ID:                m.ID,
		APIID:             m.ApiID,
		Set:               domain.ModSet(m.ModSet),
		Slot:              int(m.Slot),
		Level:             int(m.Level),
		Pips:              int(m.Pips),
		Tier:              int(m.Tier),
		Speed:             m.Speed,
		Health:            m.Health,
		HealthPercent:     m.HealthPercent,
		Protection:        m.Protection,
		ProtectionPercent: m.ProtectionPercent,
		Offense:           m.Offense,
		OffensePercent:    m.OffensePercent,
		Defense:           m.Defense,
		DefensePercent:    m.DefensePercent,
		CriticalChance:    m.CriticalChance,
		CriticalDamage:    m.CriticalDamage,
		Potency:           m.Potency,
		Tenacity:          m.Tenacity,
		CriticalAvoidance: m.CriticalAvoidance,
		Accuracy:          m.Accuracy,
	}
	if m.PlayerUnitID.Valid {
		id := m.PlayerUnitID.Int64
		mod.PlayerUnitID = &id
	}
	return mod
}
