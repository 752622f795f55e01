package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"swgoh-tracker/internal/config"
	"swgoh-tracker/internal/constants"
	"swgoh-tracker/internal/db"
	"swgoh-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type statSource int

const (
	fromUnits statSource = iota
	fromPlayers
)

// rollupStat is one independent correlated aggregate. query is a scalar
// subquery whose %s is replaced by the predicate tying its rows to the owning
// player or guild.
type rollupStat struct {
	name   string
	source statSource
	query  string
	field  func(r *domain.Rollup) *int64
}

const (
	countUnits = `SELECT COUNT(*) FROM player_units pu WHERE %s`
	countZetas = `SELECT COUNT(*) FROM zetas z JOIN player_units pu ON pu.id = z.player_unit_id WHERE %s`
	countGears = `SELECT COUNT(*) FROM player_unit_gears pug
        JOIN player_units pu ON pu.id = pug.player_unit_id
        JOIN gears ge ON ge.id = pug.gear_id WHERE %s`
	countMods   = `SELECT COUNT(*) FROM mods m JOIN player_units pu ON pu.id = m.player_unit_id WHERE %s`
	sumModSpeed = `SELECT COALESCE(SUM(m.speed), 0) FROM mods m JOIN player_units pu ON pu.id = m.player_unit_id WHERE %s`
	sumFaction  = `SELECT COALESCE(SUM(pu.gp), 0) FROM player_units pu WHERE %s AND pu.unit_id IN (
        SELECT uc.unit_id FROM unit_categories uc JOIN categories c ON c.id = uc.category_id WHERE c.api_id = `
)

var notArrow = fmt.Sprintf(" AND m.slot <> %d", domain.ArrowSlot)

var rollupStats = []rollupStat{
	{"gp", fromPlayers, `SELECT COALESCE(SUM(pl.gp), 0) FROM players pl WHERE %s`, func(r *domain.Rollup) *int64 { return &r.GP }},
	{"gp_char", fromPlayers, `SELECT COALESCE(SUM(pl.gp_char), 0) FROM players pl WHERE %s`, func(r *domain.Rollup) *int64 { return &r.GPChar }},
	{"gp_ship", fromPlayers, `SELECT COALESCE(SUM(pl.gp_ship), 0) FROM players pl WHERE %s`, func(r *domain.Rollup) *int64 { return &r.GPShip }},

	{"unit_count", fromUnits, countUnits, func(r *domain.Rollup) *int64 { return &r.UnitCount }},
	{"seven_star_unit_count", fromUnits, countUnits + ` AND pu.rarity = 7`, func(r *domain.Rollup) *int64 { return &r.SevenStarUnitCount }},
	{"g13_unit_count", fromUnits, countUnits + ` AND pu.gear = 13`, func(r *domain.Rollup) *int64 { return &r.G13UnitCount }},
	{"g12_unit_count", fromUnits, countUnits + ` AND pu.gear = 12`, func(r *domain.Rollup) *int64 { return &r.G12UnitCount }},
	{"g11_unit_count", fromUnits, countUnits + ` AND pu.gear = 11`, func(r *domain.Rollup) *int64 { return &r.G11UnitCount }},
	{"g10_unit_count", fromUnits, countUnits + ` AND pu.gear = 10`, func(r *domain.Rollup) *int64 { return &r.G10UnitCount }},
	{"zeta_count", fromUnits, countZetas, func(r *domain.Rollup) *int64 { return &r.ZetaCount }},

	{"g12_gear_count", fromUnits, countGears + ` AND (ge.is_left_hand_g12 OR ge.is_right_hand_g12)`, func(r *domain.Rollup) *int64 { return &r.G12GearCount }},
	{"left_hand_g12_gear_count_g12_only", fromUnits, countGears + ` AND ge.is_left_hand_g12`, func(r *domain.Rollup) *int64 { return &r.LeftHandG12GearCountOnly }},
	{"right_hand_g12_gear_count_g12_only", fromUnits, countGears + ` AND ge.is_right_hand_g12`, func(r *domain.Rollup) *int64 { return &r.RightHandG12GearCountOnly }},

	{"mod_count", fromUnits, countMods, func(r *domain.Rollup) *int64 { return &r.ModCount }},
	{"mod_count_6dot", fromUnits, countMods + ` AND m.pips >= 6`, func(r *domain.Rollup) *int64 { return &r.ModCount6Dot }},
	{"mod_count_speed_25", fromUnits, countMods + ` AND m.speed >= 25` + notArrow, func(r *domain.Rollup) *int64 { return &r.ModCountSpeed25 }},
	{"mod_count_speed_20", fromUnits, countMods + ` AND m.speed >= 20 AND m.speed < 25` + notArrow, func(r *domain.Rollup) *int64 { return &r.ModCountSpeed20 }},
	{"mod_count_speed_15", fromUnits, countMods + ` AND m.speed >= 15 AND m.speed < 20` + notArrow, func(r *domain.Rollup) *int64 { return &r.ModCountSpeed15 }},
	{"mod_count_speed_10", fromUnits, countMods + ` AND m.speed >= 10 AND m.speed < 15` + notArrow, func(r *domain.Rollup) *int64 { return &r.ModCountSpeed10 }},
	{"mod_total_speed_15plus", fromUnits, sumModSpeed + ` AND m.speed >= 15` + notArrow, func(r *domain.Rollup) *int64 { return &r.ModTotalSpeed15Plus }},

	{"faction_a_gp", fromUnits, sumFaction + `@faction_a)`, func(r *domain.Rollup) *int64 { return &r.FactionAGP }},
	{"faction_b_gp", fromUnits, sumFaction + `@faction_b)`, func(r *domain.Rollup) *int64 { return &r.FactionBGP }},
}

// owner binds the rollup subqueries to the outer row.
type owner struct {
	units   string
	players string
}

var (
	playerOwner = owner{
		units:   "pu.player_id = p.id",
		players: "pl.id = p.id",
	}
	guildOwner = owner{
		units:   "pu.player_id IN (SELECT id FROM players WHERE guild_id = g.id)",
		players: "pl.guild_id = g.id",
	}
)

func rollupColumns(o owner) string {
	cols := make([]string, len(rollupStats))
	for i, s := range rollupStats {
		pred := o.units
		if s.source == fromPlayers {
			pred = o.players
		}
		cols[i] = "(" + fmt.Sprintf(s.query, pred) + ") AS " + s.name
	}
	return strings.Join(cols, ",\n    ")
}

var (
	playerStatsQuery = `SELECT
    p.id, p.api_id, p.guild_id, p.ally_code, p.name, p.level, p.gp, p.gp_char, p.gp_ship, p.last_updated,
    ` + rollupColumns(playerOwner) + `
FROM players p
WHERE %s
ORDER BY p.name, p.id`

	guildStatsQuery = `SELECT
    g.id, g.api_id, g.name, g.gp, g.last_updated,
    (SELECT COUNT(*) FROM players pl WHERE pl.guild_id = g.id) AS player_count,
    ` + rollupColumns(guildOwner) + `
FROM guilds g
WHERE g.id = @guild_id`
)

func rollupDest(r *domain.Rollup) []any {
	dest := make([]any, len(rollupStats))
	for i, s := range rollupStats {
		dest[i] = s.field(r)
	}
	return dest
}

// finishRollup applies the corrections that are not plain aggregates. A gear
// 13 unit has completed both G12 sides plus extra pieces.
func finishRollup(r *domain.Rollup) {
	r.LeftHandG12GearCount = r.LeftHandG12GearCountOnly + constants.G13GearBonusPerSide*r.G13UnitCount
	r.RightHandG12GearCount = r.RightHandG12GearCountOnly + constants.G13GearBonusPerSide*r.G13UnitCount
}

type StatsRepository struct {
	queries  *db.Queries
	db       *sql.DB
	logger   zerolog.Logger
	factionA string
	factionB string
}

func NewStatsRepository(sqlDB *sql.DB, queries *db.Queries, cfg *config.Config, logger zerolog.Logger) *StatsRepository {
	return &StatsRepository{
		queries:  queries,
		db:       sqlDB,
		logger:   logger,
		factionA: cfg.FactionACategory,
		factionB: cfg.FactionBCategory,
	}
}

func (r *StatsRepository) factionArgs() []any {
	return []any{
		sql.Named("faction_a", r.factionA),
		sql.Named("faction_b", r.factionB),
	}
}

func (r *StatsRepository) queryPlayerStats(ctx context.Context, q db.DBTX, where string, args ...any) ([]domain.PlayerStats, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf(playerStatsQuery, where), append(args, r.factionArgs()...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query player stats: %w", err)
	}
	defer rows.Close()

	var items []domain.PlayerStats
	for rows.Next() {
		var (
			p  db.Player
			ps domain.PlayerStats
		)
		dest := append([]any{
			&p.ID, &p.ApiID, &p.GuildID, &p.AllyCode, &p.Name, &p.Level,
			&p.Gp, &p.GpChar, &p.GpShip, &p.LastUpdated,
		}, rollupDest(&ps.Rollup)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan player stats: %w", err)
		}
		ps.Player = playerFromRow(p)
		finishRollup(&ps.Rollup)
		items = append(items, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *StatsRepository) queryGuildStats(ctx context.Context, q db.DBTX, guildID int64) (*domain.GuildStats, error) {
	var (
		g  db.Guild
		gs domain.GuildStats
	)
	dest := append([]any{
		&g.ID, &g.ApiID, &g.Name, &g.Gp, &g.LastUpdated, &gs.PlayerCount,
	}, rollupDest(&gs.Rollup)...)

	args := append([]any{sql.Named("guild_id", guildID)}, r.factionArgs()...)
	err := q.QueryRowContext(ctx, guildStatsQuery, args...).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("guild %d: %w", guildID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query guild stats: %w", err)
	}
	gs.Guild = *guildFromRow(g)
	finishRollup(&gs.Rollup)
	return &gs, nil
}

func (r *StatsRepository) PlayerStats(ctx context.Context, playerID int64) (*domain.PlayerStats, error) {
	items, err := r.queryPlayerStats(ctx, r.queries.DB(), "p.id = @player_id", sql.Named("player_id", playerID))
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("player %d: %w", playerID, domain.ErrNotFound)
	}
	return &items[0], nil
}

func (r *StatsRepository) GuildPlayerStats(ctx context.Context, guildID int64) ([]domain.PlayerStats, error) {
	return r.queryPlayerStats(ctx, r.queries.DB(), "p.guild_id = @guild_id", sql.Named("guild_id", guildID))
}

func (r *StatsRepository) GuildStats(ctx context.Context, guildID int64) (*domain.GuildStats, error) {
	return r.queryGuildStats(ctx, r.queries.DB(), guildID)
}

// GuildBreakdown reads the guild rollup and every member's rollup from the
// same transaction so the two views describe one state.
func (r *StatsRepository) GuildBreakdown(ctx context.Context, guildID int64) (*domain.GuildStats, []domain.PlayerStats, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	guild, err := r.queryGuildStats(ctx, tx, guildID)
	if err != nil {
		return nil, nil, err
	}
	players, err := r.queryPlayerStats(ctx, tx, "p.guild_id = @guild_id", sql.Named("guild_id", guildID))
	if err != nil {
		return nil, nil, err
	}
	return guild, players, tx.Commit()
}

// RollupNames lists the aggregated statistics in query order.
func RollupNames() []string {
	names := make([]string, len(rollupStats))
	for i, s := range rollupStats {
		names[i] = s.name
	}
	return names
}
