package db

import (
	"context"
	"database/sql"
	"time"
)

const upsertGuild = `
INSERT INTO guilds (api_id, name, gp, last_updated) VALUES (?, ?, ?, ?)
ON CONFLICT(api_id) DO UPDATE SET
    name = excluded.name,
    gp = excluded.gp,
    last_updated = excluded.last_updated
RETURNING id, api_id, name, gp, last_updated
`

type UpsertGuildParams struct {
	ApiID       string
	Name        string
	Gp          int64
	LastUpdated time.Time
}

func (q *Queries) UpsertGuild(ctx context.Context, arg UpsertGuildParams) (Guild, error) {
	row := q.db.QueryRowContext(ctx, upsertGuild, arg.ApiID, arg.Name, arg.Gp, arg.LastUpdated)
	var i Guild
	err := row.Scan(&i.ID, &i.ApiID, &i.Name, &i.Gp, &i.LastUpdated)
	return i, err
}

const getGuildByApiID = `
SELECT id, api_id, name, gp, last_updated FROM guilds WHERE api_id = ?
`

func (q *Queries) GetGuildByApiID(ctx context.Context, apiID string) (Guild, error) {
	row := q.db.QueryRowContext(ctx, getGuildByApiID, apiID)
	var i Guild
	err := row.Scan(&i.ID, &i.ApiID, &i.Name, &i.Gp, &i.LastUpdated)
	return i, err
}

const getGuildByID = `
SELECT id, api_id, name, gp, last_updated FROM guilds WHERE id = ?
`

func (q *Queries) GetGuildByID(ctx context.Context, id int64) (Guild, error) {
	row := q.db.QueryRowContext(ctx, getGuildByID, id)
	var i Guild
	err := row.Scan(&i.ID, &i.ApiID, &i.Name, &i.Gp, &i.LastUpdated)
	return i, err
}

const upsertPlayer = `
INSERT INTO players (api_id, guild_id, ally_code, name, level, gp, gp_char, gp_ship, last_updated)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(api_id) DO UPDATE SET
    guild_id = excluded.guild_id,
    ally_code = excluded.ally_code,
    name = excluded.name,
    level = excluded.level,
    gp = excluded.gp,
    gp_char = excluded.gp_char,
    gp_ship = excluded.gp_ship,
    last_updated = excluded.last_updated
RETURNING id
`

type UpsertPlayerParams struct {
	ApiID       string
	GuildID     sql.NullInt64
	AllyCode    int64
	Name        string
	Level       int64
	Gp          int64
	GpChar      int64
	GpShip      int64
	LastUpdated time.Time
}

func (q *Queries) UpsertPlayer(ctx context.Context, arg UpsertPlayerParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, upsertPlayer,
		arg.ApiID,
		arg.GuildID,
		arg.AllyCode,
		arg.Name,
		arg.Level,
		arg.Gp,
		arg.GpChar,
		arg.GpShip,
		arg.LastUpdated,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const playerColumns = `id, api_id, guild_id, ally_code, name, level, gp, gp_char, gp_ship, last_updated`

func scanPlayer(scan func(dest ...any) error) (Player, error) {
	var i Player
	err := scan(
		&i.ID,
		&i.ApiID,
		&i.GuildID,
		&i.AllyCode,
		&i.Name,
		&i.Level,
		&i.Gp,
		&i.GpChar,
		&i.GpShip,
		&i.LastUpdated,
	)
	return i, err
}

const getPlayerByAllyCode = `
SELECT ` + playerColumns + ` FROM players WHERE ally_code = ? ORDER BY last_updated DESC LIMIT 1
`

func (q *Queries) GetPlayerByAllyCode(ctx context.Context, allyCode int64) (Player, error) {
	row := q.db.QueryRowContext(ctx, getPlayerByAllyCode, allyCode)
	return scanPlayer(row.Scan)
}

const getPlayerByApiID = `
SELECT ` + playerColumns + ` FROM players WHERE api_id = ?
`

func (q *Queries) GetPlayerByApiID(ctx context.Context, apiID string) (Player, error) {
	row := q.db.QueryRowContext(ctx, getPlayerByApiID, apiID)
	return scanPlayer(row.Scan)
}

const listPlayersByGuild = `
SELECT ` + playerColumns + ` FROM players WHERE guild_id = ? ORDER BY name
`

func (q *Queries) ListPlayersByGuild(ctx context.Context, guildID int64) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, listPlayersByGuild, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Player
	for rows.Next() {
		i, err := scanPlayer(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deletePlayer = `
DELETE FROM players WHERE id = ?
`

func (q *Queries) DeletePlayer(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deletePlayer, id)
	return err
}

const deletePlayerUnitsByPlayer = `
DELETE FROM player_units WHERE player_id = ?
`

func (q *Queries) DeletePlayerUnitsByPlayer(ctx context.Context, playerID int64) error {
	_, err := q.db.ExecContext(ctx, deletePlayerUnitsByPlayer, playerID)
	return err
}

const insertPlayerUnit = `
INSERT INTO player_units (
    player_id, unit_id, gp, rarity, level, gear, equipped_count,
    speed, health, protection, physical_damage, physical_crit_chance,
    special_damage, special_crit_chance, crit_damage, potency, tenacity,
    armor, resistance, armor_penetration, resistance_penetration, health_steal, accuracy,
    mod_speed, mod_health, mod_protection, mod_physical_damage, mod_special_damage,
    mod_physical_crit_chance, mod_special_crit_chance, mod_crit_damage, mod_potency,
    mod_tenacity, mod_armor, mod_resistance, mod_critical_avoidance, mod_accuracy,
    last_updated
) VALUES (
    ?, ?, ?, ?, ?, ?, ?,
    ?, ?, ?, ?, ?,
    ?, ?, ?, ?, ?,
    ?, ?, ?, ?, ?, ?,
    ?, ?, ?, ?, ?,
    ?, ?, ?, ?,
    ?, ?, ?, ?, ?,
    ?
)
RETURNING id
`

type InsertPlayerUnitParams = PlayerUnit

func (q *Queries) InsertPlayerUnit(ctx context.Context, arg InsertPlayerUnitParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertPlayerUnit,
		arg.PlayerID,
		arg.UnitID,
		arg.Gp,
		arg.Rarity,
		arg.Level,
		arg.Gear,
		arg.EquippedCount,
		arg.Speed,
		arg.Health,
		arg.Protection,
		arg.PhysicalDamage,
		arg.PhysicalCritChance,
		arg.SpecialDamage,
		arg.SpecialCritChance,
		arg.CritDamage,
		arg.Potency,
		arg.Tenacity,
		arg.Armor,
		arg.Resistance,
		arg.ArmorPenetration,
		arg.ResistancePenetration,
		arg.HealthSteal,
		arg.Accuracy,
		arg.ModSpeed,
		arg.ModHealth,
		arg.ModProtection,
		arg.ModPhysicalDamage,
		arg.ModSpecialDamage,
		arg.ModPhysicalCritChance,
		arg.ModSpecialCritChance,
		arg.ModCritDamage,
		arg.ModPotency,
		arg.ModTenacity,
		arg.ModArmor,
		arg.ModResistance,
		arg.ModCriticalAvoidance,
		arg.ModAccuracy,
		arg.LastUpdated,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listPlayerUnitsByPlayer = `
SELECT
    pu.id, pu.player_id, pu.unit_id, pu.gp, pu.rarity, pu.level, pu.gear, pu.equipped_count,
    pu.speed, pu.health, pu.protection, pu.physical_damage, pu.physical_crit_chance,
    pu.special_damage, pu.special_crit_chance, pu.crit_damage, pu.potency, pu.tenacity,
    pu.armor, pu.resistance, pu.armor_penetration, pu.resistance_penetration, pu.health_steal, pu.accuracy,
    pu.mod_speed, pu.mod_health, pu.mod_protection, pu.mod_physical_damage, pu.mod_special_damage,
    pu.mod_physical_crit_chance, pu.mod_special_crit_chance, pu.mod_crit_damage, pu.mod_potency,
    pu.mod_tenacity, pu.mod_armor, pu.mod_resistance, pu.mod_critical_avoidance, pu.mod_accuracy,
    pu.last_updated,
    u.api_id, u.name, p.name, p.ally_code,
    (SELECT COALESCE(SUM(m.speed), 0) FROM mods m WHERE m.player_unit_id = pu.id) AS mod_speed_no_set,
    (SELECT COUNT(*) FROM zetas z WHERE z.player_unit_id = pu.id) AS zeta_count
FROM player_units pu
JOIN units u ON u.id = pu.unit_id
JOIN players p ON p.id = pu.player_id
WHERE pu.player_id = ?
ORDER BY u.api_id
`

type ListPlayerUnitsByPlayerRow struct {
	PlayerUnit     PlayerUnit
	UnitApiID      string
	UnitName       string
	PlayerName     string
	PlayerAllyCode int64
	ModSpeedNoSet  int64
	ZetaCount      int64
}

func (q *Queries) ListPlayerUnitsByPlayer(ctx context.Context, playerID int64) ([]ListPlayerUnitsByPlayerRow, error) {
	rows, err := q.db.QueryContext(ctx, listPlayerUnitsByPlayer, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListPlayerUnitsByPlayerRow
	for rows.Next() {
		var i ListPlayerUnitsByPlayerRow
		pu := &i.PlayerUnit
		if err := rows.Scan(
			&pu.ID,
			&pu.PlayerID,
			&pu.UnitID,
			&pu.Gp,
			&pu.Rarity,
			&pu.Level,
			&pu.Gear,
			&pu.EquippedCount,
			&pu.Speed,
			&pu.Health,
			&pu.Protection,
			&pu.PhysicalDamage,
			&pu.PhysicalCritChance,
			&pu.SpecialDamage,
			&pu.SpecialCritChance,
			&pu.CritDamage,
			&pu.Potency,
			&pu.Tenacity,
			&pu.Armor,
			&pu.Resistance,
			&pu.ArmorPenetration,
			&pu.ResistancePenetration,
			&pu.HealthSteal,
			&pu.Accuracy,
			&pu.ModSpeed,
			&pu.ModHealth,
			&pu.ModProtection,
			&pu.ModPhysicalDamage,
			&pu.ModSpecialDamage,
			&pu.ModPhysicalCritChance,
			&pu.ModSpecialCritChance,
			&pu.ModCritDamage,
			&pu.ModPotency,
			&pu.ModTenacity,
			&pu.ModArmor,
			&pu.ModResistance,
			&pu.ModCriticalAvoidance,
			&pu.ModAccuracy,
			&pu.LastUpdated,
			&i.UnitApiID,
			&i.UnitName,
			&i.PlayerName,
			&i.PlayerAllyCode,
			&i.ModSpeedNoSet,
			&i.ZetaCount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertZeta = `
INSERT INTO zetas (player_unit_id, skill_id) VALUES (?, ?)
`

type InsertZetaParams struct {
	PlayerUnitID int64
	SkillID      int64
}

func (q *Queries) InsertZeta(ctx context.Context, arg InsertZetaParams) error {
	_, err := q.db.ExecContext(ctx, insertZeta, arg.PlayerUnitID, arg.SkillID)
	return err
}

const listZetaSkillsByPlayer = `
SELECT z.player_unit_id, z.skill_id
FROM zetas z
JOIN player_units pu ON pu.id = z.player_unit_id
WHERE pu.player_id = ?
`

type ListZetaSkillsByPlayerRow struct {
	PlayerUnitID int64
	SkillID      int64
}

func (q *Queries) ListZetaSkillsByPlayer(ctx context.Context, playerID int64) ([]ListZetaSkillsByPlayerRow, error) {
	rows, err := q.db.QueryContext(ctx, listZetaSkillsByPlayer, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListZetaSkillsByPlayerRow
	for rows.Next() {
		var i ListZetaSkillsByPlayerRow
		if err := rows.Scan(&i.PlayerUnitID, &i.SkillID); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertPlayerUnitGear = `
INSERT INTO player_unit_gears (player_unit_id, gear_id) VALUES (?, ?)
`

type InsertPlayerUnitGearParams struct {
	PlayerUnitID int64
	GearID       int64
}

func (q *Queries) InsertPlayerUnitGear(ctx context.Context, arg InsertPlayerUnitGearParams) error {
	_, err := q.db.ExecContext(ctx, insertPlayerUnitGear, arg.PlayerUnitID, arg.GearID)
	return err
}

const insertMod = `
INSERT INTO mods (
    api_id, player_unit_id, mod_set, slot, level, pips, tier,
    speed, health, health_percent, protection, protection_percent,
    offense, offense_percent, defense, defense_percent,
    critical_chance, critical_damage, potency, tenacity, critical_avoidance, accuracy
) VALUES (
    ?, ?, ?, ?, ?, ?, ?,
    ?, ?, ?, ?, ?,
    ?, ?, ?, ?,
    ?, ?, ?, ?, ?, ?
)
`

type InsertModParams = Mod

func (q *Queries) InsertMod(ctx context.Context, arg InsertModParams) error {
	_, err := q.db.ExecContext(ctx, insertMod,
		arg.ApiID,
		arg.PlayerUnitID,
		arg.ModSet,
		arg.Slot,
		arg.Level,
		arg.Pips,
		arg.Tier,
		arg.Speed,
		arg.Health,
		arg.HealthPercent,
		arg.Protection,
		arg.ProtectionPercent,
		arg.Offense,
		arg.OffensePercent,
		arg.Defense,
		arg.DefensePercent,
		arg.CriticalChance,
		arg.CriticalDamage,
		arg.Potency,
		arg.Tenacity,
		arg.CriticalAvoidance,
		arg.Accuracy,
	)
	return err
}

const getModByApiID = `
SELECT
    id, api_id, player_unit_id, mod_set, slot, level, pips, tier,
    speed, health, health_percent, protection, protection_percent,
    offense, offense_percent, defense, defense_percent,
    critical_chance, critical_damage, potency, tenacity, critical_avoidance, accuracy
FROM mods WHERE api_id = ?
`

func (q *Queries) GetModByApiID(ctx context.Context, apiID string) (Mod, error) {
	row := q.db.QueryRowContext(ctx, getModByApiID, apiID)
	var i Mod
	err := row.Scan(
		&i.ID,
		&i.ApiID,
		&i.PlayerUnitID,
		&i.ModSet,
		&i.Slot,
		&i.Level,
		&i.Pips,
		&i.Tier,
		&i.Speed,
		&i.Health,
		&i.HealthPercent,
		&i.Protection,
		&i.ProtectionPercent,
		&i.Offense,
		&i.OffensePercent,
		&i.Defense,
		&i.DefensePercent,
		&i.CriticalChance,
		&i.CriticalDamage,
		&i.Potency,
		&i.Tenacity,
		&i.CriticalAvoidance,
		&i.Accuracy,
	)
	return i, err
}

const countPlayerRows = `
SELECT
    (SELECT COUNT(*) FROM player_units pu WHERE pu.player_id = ?1),
    (SELECT COUNT(*) FROM zetas z JOIN player_units pu ON pu.id = z.player_unit_id WHERE pu.player_id = ?1),
    (SELECT COUNT(*) FROM player_unit_gears g JOIN player_units pu ON pu.id = g.player_unit_id WHERE pu.player_id = ?1),
    (SELECT COUNT(*) FROM mods m JOIN player_units pu ON pu.id = m.player_unit_id WHERE pu.player_id = ?1)
`

type CountPlayerRowsRow struct {
	PlayerUnits     int64
	Zetas           int64
	PlayerUnitGears int64
	Mods            int64
}

func (q *Queries) CountPlayerRows(ctx context.Context, playerID int64) (CountPlayerRowsRow, error) {
	row := q.db.QueryRowContext(ctx, countPlayerRows, playerID)
	var i CountPlayerRowsRow
	err := row.Scan(&i.PlayerUnits, &i.Zetas, &i.PlayerUnitGears, &i.Mods)
	return i, err
}
