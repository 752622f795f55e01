package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"swgoh-tracker/internal/config"
	"swgoh-tracker/internal/database"
	"swgoh-tracker/internal/db"
	"swgoh-tracker/internal/domain"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type testRepos struct {
	sqlDB   *sql.DB
	catalog *CatalogRepository
	guilds  *GuildRepository
	players *PlayerRepository
	stats   *StatsRepository
	history *GPHistoryRepository
	medals  *MedalRepository
}

func newTestRepos(t *testing.T) *testRepos {
	t.Helper()
	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	queries := db.New(sqlDB)
	logger := zerolog.Nop()
	cfg := &config.Config{
		FactionACategory: "affiliation_separatist",
		FactionBCategory: "affiliation_republic",
	}
	return &testRepos{
		sqlDB:   sqlDB,
		catalog: NewCatalogRepository(sqlDB, queries, logger),
		guilds:  NewGuildRepository(sqlDB, queries, logger),
		players: NewPlayerRepository(sqlDB, queries, logger),
		stats:   NewStatsRepository(sqlDB, queries, cfg, logger),
		history: NewGPHistoryRepository(sqlDB, queries, logger),
		medals:  NewMedalRepository(sqlDB, queries, logger),
	}
}

var testGameData = GameData{
	Categories: []domain.Category{
		{APIID: "affiliation_separatist", Name: "Separatist"},
		{APIID: "affiliation_republic", Name: "Galactic Republic"},
		{APIID: "role_attacker", Name: "Attacker"},
	},
	Units: []domain.Unit{
		{APIID: "CT7567", Name: "CT-7567 \"Rex\"", Categories: []string{"affiliation_republic"}},
		{APIID: "GENERALGRIEVOUS", Name: "General Grievous", Categories: []string{"affiliation_separatist", "role_attacker"}},
		{APIID: "B1BATTLEDROIDV2", Name: "B1 Battle Droid", Categories: []string{"affiliation_separatist"}},
		{APIID: "DARTHVADER", Name: "Darth Vader", Categories: []string{"role_attacker"}},
	},
	Skills: []domain.Skill{
		{APIID: "leaderskill_CT7567", Name: "Fire at Will", UnitAPIID: "CT7567", IsZeta: true},
		{APIID: "uniqueskill_CT7567", Name: "Brothers in Arms", UnitAPIID: "CT7567", IsZeta: true},
		{APIID: "uniqueskill_GRIEVOUS01", Name: "Daunting Presence", UnitAPIID: "GENERALGRIEVOUS", IsZeta: true},
		{APIID: "basicskill_DARTHVADER", Name: "Terrifying Swing", UnitAPIID: "DARTHVADER", IsZeta: false},
	},
}

var testGears = []domain.Gear{
	{APIID: "158", Name: "Left A", Tier: 12, IsLeftHandG12: true},
	{APIID: "159", Name: "Left B", Tier: 12, IsLeftHandG12: true},
	{APIID: "166", Name: "Right A", Tier: 12, IsRightHandG12: true},
	{APIID: "G12Finisher_CT7567_A", Name: "Right B", Tier: 12, IsRightHandG12: true},
	{APIID: "001", Name: "Mk 1 Stun Gun", Tier: 1},
}

func seedCatalog(t *testing.T, r *testRepos) {
	t.Helper()
	ctx := context.Background()
	_, err := r.catalog.ReplaceGameData(ctx, testGameData)
	require.NoError(t, err)
	_, err = r.catalog.ReplaceGears(ctx, testGears)
	require.NoError(t, err)
}

func seedGuild(t *testing.T, r *testRepos, apiID string) *domain.Guild {
	t.Helper()
	g, err := r.guilds.Upsert(context.Background(), domain.Guild{APIID: apiID, Name: "Guild " + apiID, GP: 100})
	require.NoError(t, err)
	return g
}

func unitSnap(unitAPIID string, gear, rarity int, gp int64) domain.UnitSnapshot {
	return domain.UnitSnapshot{
		UnitAPIID: unitAPIID,
		PlayerUnit: domain.PlayerUnit{
			GP:     gp,
			Rarity: rarity,
			Level:  85,
			Gear:   gear,
			Speed:  150,
			Health: 30000,
		},
	}
}

func speedMod(apiID string, slot, pips int, speed int64) domain.Mod {
	return domain.Mod{
		APIID: apiID,
		Set:   domain.ModSetSpeed,
		Slot:  slot,
		Level: 15,
		Pips:  pips,
		Tier:  5,
		Speed: speed,
	}
}

func playerSnap(apiID string, allyCode int, guild *domain.Guild, units ...domain.UnitSnapshot) *domain.PlayerSnapshot {
	p := domain.Player{
		APIID:    apiID,
		AllyCode: allyCode,
		Name:     "Player " + apiID,
		Level:    85,
		GP:       int64(allyCode % 1000),
		GPChar:   int64(allyCode % 700),
		GPShip:   int64(allyCode%1000 - allyCode%700),
	}
	if guild != nil {
		id := guild.ID
		p.GuildID = &id
	}
	return &domain.PlayerSnapshot{Player: p, Units: units}
}

func storePlayer(t *testing.T, r *testRepos, snap *domain.PlayerSnapshot) *domain.Player {
	t.Helper()
	p, err := r.players.Replace(context.Background(), snap)
	require.NoError(t, err)
	return p
}

// steppingClock returns a clock that advances one second per call.
func steppingClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Second)
	}
}

func modID(prefix string, i int) string {
	return fmt.Sprintf("%s-%02d", prefix, i)
}
