package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"swgoh-tracker/internal/db"
	"swgoh-tracker/internal/domain"
	"time"

	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
	now     func() time.Time
}

func NewPlayerRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// references resolves catalog api ids to row ids within one transaction.
type references struct {
	units  map[string]int64
	skills map[string]int64
	gears  map[string]int64
}

func loadReferences(ctx context.Context, q *db.Queries) (*references, error) {
	units, err := q.ListUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load units: %w", err)
	}
	skills, err := q.ListSkills(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}
	gears, err := q.ListGears(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load gears: %w", err)
	}

	refs := &references{
		units:  make(map[string]int64, len(units)),
		skills: make(map[string]int64, len(skills)),
		gears:  make(map[string]int64, len(gears)),
	}
	for _, u := range units {
		refs.units[u.ApiID] = u.ID
	}
	for _, s := range skills {
		refs.skills[s.ApiID] = s.ID
	}
	for _, g := range gears {
		refs.gears[g.ApiID] = g.ID
	}
	return refs, nil
}

// Replace stores snap as the player's complete state in one transaction: the
// player row is upserted and stamped, all previous units are deleted and the
// snapshot's units, zetas, gear and mods are inserted. On any error nothing
// changes.
func (r *PlayerRepository) Replace(ctx context.Context, snap *domain.PlayerSnapshot) (*domain.Player, error) {
	p := snap.Player

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	refs, err := loadReferences(ctx, qtx)
	if err != nil {
		return nil, err
	}

	now := r.now()
	playerID, err := qtx.UpsertPlayer(ctx, db.UpsertPlayerParams{
		ApiID:       p.APIID,
		GuildID:     nullInt64(p.GuildID),
		AllyCode:    int64(p.AllyCode),
		Name:        p.Name,
		Level:       int64(p.Level),
		Gp:          p.GP,
		GpChar:      p.GPChar,
		GpShip:      p.GPShip,
		LastUpdated: now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert player %s: %w", p.APIID, err)
	}

	if err := qtx.DeletePlayerUnitsByPlayer(ctx, playerID); err != nil {
		return nil, fmt.Errorf("failed to delete units of player %s: %w", p.APIID, err)
	}

	var zetaCount, gearCount, modCount int
	for _, u := range snap.Units {
		unitID, ok := refs.units[u.UnitAPIID]
		if !ok {
			return nil, fmt.Errorf("%w: unit %s", domain.ErrMissingReference, u.UnitAPIID)
		}

		pu := u.PlayerUnit
		pu.PlayerID = playerID
		pu.UnitID = unitID
		pu.LastUpdated = now
		puID, err := qtx.InsertPlayerUnit(ctx, playerUnitParams(pu))
		if err != nil {
			return nil, fmt.Errorf("failed to insert unit %s: %w", u.UnitAPIID, err)
		}

		for _, skill := range u.ZetaSkillAPIIDs {
			skillID, ok := refs.skills[skill]
			if !ok {
				return nil, fmt.Errorf("%w: skill %s", domain.ErrMissingReference, skill)
			}
			if err := qtx.InsertZeta(ctx, db.InsertZetaParams{PlayerUnitID: puID, SkillID: skillID}); err != nil {
				return nil, fmt.Errorf("failed to insert zeta %s: %w", skill, err)
			}
			zetaCount++
		}

		for _, gear := range u.GearAPIIDs {
			gearID, ok := refs.gears[gear]
			if !ok {
				return nil, fmt.Errorf("%w: gear %s", domain.ErrMissingReference, gear)
			}
			if err := qtx.InsertPlayerUnitGear(ctx, db.InsertPlayerUnitGearParams{PlayerUnitID: puID, GearID: gearID}); err != nil {
				return nil, fmt.Errorf("failed to insert gear %s: %w", gear, err)
			}
			gearCount++
		}

		for _, mod := range u.Mods {
			if err := qtx.InsertMod(ctx, modParams(mod, puID)); err != nil {
				return nil, fmt.Errorf("failed to insert mod %s: %w", mod.APIID, err)
			}
			modCount++
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit player %s: %w", p.APIID, err)
	}

	r.logger.Debug().
		Str("player_api_id", p.APIID).
		Int("ally_code", p.AllyCode).
		Int("units", len(snap.Units)).
		Int("zetas", zetaCount).
		Int("gears", gearCount).
		Int("mods", modCount).
		Msg("player replaced")

	stored := p
	stored.ID = playerID
	stored.LastUpdated = now
	return &stored, nil
}

func (r *PlayerRepository) GetByAllyCode(ctx context.Context, allyCode int) (*domain.Player, error) {
	row, err := r.queries.GetPlayerByAllyCode(ctx, int64(allyCode))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %d: %w", allyCode, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	p := playerFromRow(row)
	return &p, nil
}

func (r *PlayerRepository) GetByAPIID(ctx context.Context, apiID string) (*domain.Player, error) {
	row, err := r.queries.GetPlayerByApiID(ctx, apiID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %s: %w", apiID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	p := playerFromRow(row)
	return &p, nil
}

// ShouldRefresh reports whether the player is unknown or was last stored
// longer ago than ttl. A negative ttl accepts any age.
func (r *PlayerRepository) ShouldRefresh(ctx context.Context, allyCode int, ttl time.Duration) (bool, error) {
	player, err := r.GetByAllyCode(ctx, allyCode)
	if errors.Is(err, domain.ErrNotFound) {
		r.logger.Debug().Int("ally_code", allyCode).Msg("player not found, should refresh")
		return true, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Int("ally_code", allyCode).Msg("failed to get player")
		return false, err
	}
	if ttl < 0 {
		return false, nil
	}

	since := r.now().Sub(player.LastUpdated)
	shouldRefresh := since > ttl
	r.logger.Debug().
		Int("ally_code", allyCode).
		Time("last_updated", player.LastUpdated).
		Dur("time_since", since).
		Dur("ttl", ttl).
		Bool("should_refresh", shouldRefresh).
		Msg("checking if player should refresh")

	return shouldRefresh, nil
}

func (r *PlayerRepository) CountRows(ctx context.Context, playerID int64) (domain.PlayerRowCounts, error) {
	row, err := r.queries.CountPlayerRows(ctx, playerID)
	if err != nil {
		return domain.PlayerRowCounts{}, err
	}
	return domain.PlayerRowCounts{
		PlayerUnits:     row.PlayerUnits,
		Zetas:           row.Zetas,
		PlayerUnitGears: row.PlayerUnitGears,
		Mods:            row.Mods,
	}, nil
}

// ListUnits returns the player's units annotated with unit identity, mod
// speed and zeta count, keyed by unit api id. When unitAPIIDs is non-empty
// only those units are returned.
func (r *PlayerRepository) ListUnits(ctx context.Context, playerID int64, unitAPIIDs []string) (map[string]domain.PlayerUnitStats, error) {
	rows, err := r.queries.ListPlayerUnitsByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	var only map[string]struct{}
	if len(unitAPIIDs) > 0 {
		only = make(map[string]struct{}, len(unitAPIIDs))
		for _, id := range unitAPIIDs {
			only[id] = struct{}{}
		}
	}

	result := make(map[string]domain.PlayerUnitStats, len(rows))
	for _, row := range rows {
		if only != nil {
			if _, ok := only[row.UnitApiID]; !ok {
				continue
			}
		}
		result[row.UnitApiID] = domain.PlayerUnitStats{
			PlayerUnit:     playerUnitFromRow(row.PlayerUnit),
			UnitAPIID:      row.UnitApiID,
			UnitName:       row.UnitName,
			PlayerName:     row.PlayerName,
			PlayerAllyCode: int(row.PlayerAllyCode),
			ModSpeedNoSet:  row.ModSpeedNoSet,
			ZetaCount:      row.ZetaCount,
		}
	}
	return result, nil
}

// ZetaSkills returns the zeta skill ids unlocked on each of the player's units,
// keyed by player unit id.
func (r *PlayerRepository) ZetaSkills(ctx context.Context, playerID int64) (map[int64][]int64, error) {
	rows, err := r.queries.ListZetaSkillsByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	result := make(map[int64][]int64)
	for _, row := range rows {
		result[row.PlayerUnitID] = append(result[row.PlayerUnitID], row.SkillID)
	}
	return result, nil
}

func (r *PlayerRepository) GetMod(ctx context.Context, apiID string) (*domain.Mod, error) {
	row, err := r.queries.GetModByApiID(ctx, apiID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("mod %s: %w", apiID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	m := modFromRow(row)
	return &m, nil
}
