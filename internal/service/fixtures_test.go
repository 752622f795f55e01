package service

import (
	"context"
	"path/filepath"
	"swgoh-tracker/internal/api"
	"swgoh-tracker/internal/config"
	"swgoh-tracker/internal/database"
	"swgoh-tracker/internal/db"
	"swgoh-tracker/internal/repository"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeUpstream struct {
	mu sync.Mutex

	units      []api.UnitData
	skills     []api.SkillData
	abilities  []api.AbilityData
	gears      []api.GearData
	categories []api.CategoryData

	guilds  map[int]*api.GuildData
	players map[int]api.PlayerData

	playerErr   error
	playerCalls int
	guildCalls  int
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		units: []api.UnitData{
			{BaseID: "CT7567", NameKey: "CT-7567 \"Rex\"", CombatType: 1,
				CategoryIDList:     []string{"affiliation_republic"},
				SkillReferenceList: []api.SkillRefData{{SkillID: "leaderskill_CT7567"}, {SkillID: "basicskill_CT7567"}}},
			{BaseID: "GENERALGRIEVOUS", NameKey: "General Grievous", CombatType: 1,
				CategoryIDList:     []string{"affiliation_separatist", "selftag_hidden"},
				SkillReferenceList: []api.SkillRefData{{SkillID: "uniqueskill_GRIEVOUS01"}}},
			{BaseID: "HANSOLO", NameKey: "Han Solo", CombatType: 1,
				CategoryIDList: []string{"affiliation_rebels"}},
			{BaseID: "HOUNDSTOOTH", NameKey: "Hound's Tooth", CombatType: 2,
				SkillReferenceList: []api.SkillRefData{{SkillID: "shipskill_HOUNDSTOOTH"}}},
		},
		skills: []api.SkillData{
			{ID: "leaderskill_CT7567", AbilityReference: "leaderability_CT7567", IsZeta: true},
			{ID: "basicskill_CT7567", AbilityReference: "basicability_CT7567"},
			{ID: "uniqueskill_GRIEVOUS01", AbilityReference: "uniqueability_GRIEVOUS01", IsZeta: true},
		},
		abilities: []api.AbilityData{
			{ID: "leaderability_CT7567", NameKey: "Fire at Will"},
			{ID: "basicability_CT7567", NameKey: "Suppressive Fire"},
			{ID: "uniqueability_GRIEVOUS01", NameKey: "Daunting Presence"},
		},
		gears: []api.GearData{
			{ID: "158", NameKey: "Left A", Tier: 12},
			{ID: "166", NameKey: "Right A", Tier: 12},
			{ID: "G12Finisher_CT7567_A", NameKey: "Right B", Tier: 12},
			{ID: "001", NameKey: "Mk 1 Stun Gun", Tier: 1},
		},
		categories: []api.CategoryData{
			{ID: "affiliation_republic", DescKey: "Galactic Republic"},
			{ID: "affiliation_separatist", DescKey: "Separatist"},
		},
		guilds:  make(map[int]*api.GuildData),
		players: make(map[int]api.PlayerData),
	}
}

func (f *fakeUpstream) GetUnitList(context.Context) ([]api.UnitData, error) { return f.units, nil }
func (f *fakeUpstream) GetSkillList(context.Context) ([]api.SkillData, error) {
	return f.skills, nil
}
func (f *fakeUpstream) GetAbilityList(context.Context) ([]api.AbilityData, error) {
	return f.abilities, nil
}
func (f *fakeUpstream) GetGearList(context.Context) ([]api.GearData, error) { return f.gears, nil }
func (f *fakeUpstream) GetCategoryList(context.Context) ([]api.CategoryData, error) {
	return f.categories, nil
}

func (f *fakeUpstream) GetGuild(_ context.Context, allyCode int) (*api.GuildData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.guildCalls++
	return f.guilds[allyCode], nil
}

func (f *fakeUpstream) GetPlayers(_ context.Context, allyCodes []int) ([]api.PlayerData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playerCalls++
	if f.playerErr != nil {
		return nil, f.playerErr
	}
	var out []api.PlayerData
	for _, code := range allyCodes {
		if p, ok := f.players[code]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// addGuild registers a guild whose roster is the given players, reachable
// from every member's ally code.
func (f *fakeUpstream) addGuild(id string, players ...api.PlayerData) {
	g := &api.GuildData{ID: id, Name: "Guild " + id, GP: 1000}
	for _, p := range players {
		p.GuildRefID = id
		f.players[p.AllyCode] = p
		g.Roster = append(g.Roster, api.GuildMember{ID: p.ID, AllyCode: p.AllyCode, Name: p.Name})
	}
	for _, p := range players {
		f.guilds[p.AllyCode] = g
	}
}

func (f *fakeUpstream) calls() (players, guilds int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playerCalls, f.guildCalls
}

type testEnv struct {
	upstream *fakeUpstream
	cfg      *config.Config

	catalogRepo *repository.CatalogRepository
	guildRepo   *repository.GuildRepository
	playerRepo  *repository.PlayerRepository

	catalog *CatalogService
	players *PlayerService
	guilds  *GuildService
	stats   *StatsService
	medals  *MedalService
	history *GPHistoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	logger := zerolog.Nop()
	queries := db.New(sqlDB)
	cfg := &config.Config{
		StaleAfter:       4 * time.Hour,
		FactionACategory: "affiliation_separatist",
		FactionBCategory: "affiliation_republic",
		BatchInitialSize: 5,
		BatchMaxWorkers:  5,
		BatchMaxErrors:   2,
	}
	up := newFakeUpstream()

	catalogRepo := repository.NewCatalogRepository(sqlDB, queries, logger)
	guildRepo := repository.NewGuildRepository(sqlDB, queries, logger)
	playerRepo := repository.NewPlayerRepository(sqlDB, queries, logger)
	statsRepo := repository.NewStatsRepository(sqlDB, queries, cfg, logger)
	medalRepo := repository.NewMedalRepository(sqlDB, queries, logger)
	historyRepo := repository.NewGPHistoryRepository(sqlDB, queries, logger)

	players := NewPlayerService(up, NewPlayerDownloader(up, cfg, logger), playerRepo, guildRepo, logger)
	env := &testEnv{
		upstream:    up,
		cfg:         cfg,
		catalogRepo: catalogRepo,
		guildRepo:   guildRepo,
		playerRepo:  playerRepo,
		catalog:     NewCatalogService(up, catalogRepo, logger),
		players:     players,
		guilds:      NewGuildService(up, guildRepo, playerRepo, players, cfg, logger),
		stats:       NewStatsService(statsRepo, guildRepo, playerRepo, logger),
		medals:      NewMedalService(medalRepo, playerRepo, logger),
		history:     NewGPHistoryService(historyRepo, cfg, logger),
	}

	_, err = env.catalog.RefreshCatalog(context.Background())
	require.NoError(t, err)
	return env
}

func int64Ptr(v int64) *int64 { return &v }

func rawPlayer(id string, allyCode int, units ...api.RosterUnit) api.PlayerData {
	return api.PlayerData{
		ID:       id,
		AllyCode: allyCode,
		Name:     "Player " + id,
		Level:    85,
		Stats: []api.PlayerStat{
			{NameKey: "STAT_GALACTIC_POWER_ACQUIRED_NAME", Index: 1, Value: 3000000},
			{NameKey: "STAT_CHARACTER_GALACTIC_POWER_ACQUIRED_NAME", Index: 2, Value: 2000000},
			{NameKey: "STAT_SHIP_GALACTIC_POWER_ACQUIRED_NAME", Index: 3, Value: 1000000},
		},
		Roster: units,
	}
}

func rawUnit(defID string, gear int, gp int64, equipped ...string) api.RosterUnit {
	u := api.RosterUnit{
		ID:         defID + "-instance",
		DefID:      defID,
		CombatType: 1,
		GP:         int64Ptr(gp),
		Rarity:     7,
		Level:      85,
		Gear:       gear,
		Stats: api.RosterUnitStats{
			Final: map[string]float64{"Speed": 180, "Health": 40000, "Potency": 0.5},
			Mods:  map[string]float64{"Speed": 60},
		},
	}
	for i, e := range equipped {
		u.Equipped = append(u.Equipped, api.EquippedGear{EquipmentID: e, Slot: i})
	}
	return u
}

func rawSpeedMod(id string, slot, pips int, speed float64) api.RosterMod {
	return api.RosterMod{
		ID:            id,
		Set:           4,
		Slot:          slot,
		Level:         15,
		Pips:          pips,
		Tier:          5,
		PrimaryStat:   api.ModStat{UnitStat: 48, Value: 5.88},
		SecondaryStat: []api.ModStat{{UnitStat: 5, Value: speed}},
	}
}
