package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"swgoh-tracker/internal/api"
	"swgoh-tracker/internal/batch"
	"swgoh-tracker/internal/domain"
	"swgoh-tracker/internal/service"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	refreshErr error
}

func (f *fakeBackend) GuildStats(_ context.Context, guildAPIID string) (*domain.GuildStats, []domain.PlayerStats, error) {
	if guildAPIID != "G1" {
		return nil, nil, fmt.Errorf("guild %s: %w", guildAPIID, domain.ErrNotFound)
	}
	players := []domain.PlayerStats{
		{Player: domain.Player{APIID: "a", AllyCode: 111111111}, Rollup: domain.Rollup{UnitCount: 2, LeftHandG12GearCount: 3}},
		{Player: domain.Player{APIID: "b", AllyCode: 222222222}, Rollup: domain.Rollup{UnitCount: 1, LeftHandG12GearCount: 4}},
	}
	guild := &domain.GuildStats{
		Guild:       domain.Guild{APIID: "G1", Name: "Guild G1"},
		PlayerCount: 2,
		Rollup:      domain.Rollup{UnitCount: 3, LeftHandG12GearCount: 7},
	}
	return guild, players, nil
}

func (f *fakeBackend) PlayerStats(_ context.Context, allyCode int) (*domain.PlayerStats, error) {
	return &domain.PlayerStats{Player: domain.Player{AllyCode: allyCode}, Rollup: domain.Rollup{ZetaCount: 5}}, nil
}

func (f *fakeBackend) PlayerUnits(_ context.Context, _ int, unitAPIIDs []string) (map[string]domain.PlayerUnitStats, error) {
	out := make(map[string]domain.PlayerUnitStats)
	for _, id := range unitAPIIDs {
		out[id] = domain.PlayerUnitStats{UnitAPIID: id, ZetaCount: 1}
	}
	return out, nil
}

func (f *fakeBackend) RefreshGuild(_ context.Context, _ int) (*service.GuildRefreshReport, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return &service.GuildRefreshReport{Guild: domain.Guild{APIID: "G1"}, Stored: 3, Failed: 1}, nil
}

func (f *fakeBackend) RefreshPlayer(_ context.Context, allyCode int) (*domain.Player, error) {
	return nil, fmt.Errorf("player %d: %w", allyCode, domain.ErrNotFound)
}

func (f *fakeBackend) ListMedaledUnits(context.Context) ([]domain.MedaledUnit, error) {
	return []domain.MedaledUnit{{
		Unit:      domain.Unit{APIID: "GENERALGRIEVOUS"},
		StatRules: []domain.StatMedalRule{{Stat: "speed", Value: 200}},
		ZetaRules: []domain.ZetaMedalRule{{SkillID: 1}},
	}}, nil
}

func (f *fakeBackend) PlayerMedals(context.Context, int) ([]domain.PlayerUnitMedals, error) {
	return []domain.PlayerUnitMedals{{UnitAPIID: "GENERALGRIEVOUS", Earned: 4, Total: 7}}, nil
}

func newTestServer(t *testing.T, backend *fakeBackend) string {
	t.Helper()
	s := &TrackerServer{stats: backend, guilds: backend, players: backend, medals: backend}
	path, handler := NewHandler(s)

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

func call[Req, Res any](t *testing.T, baseURL, procedure string, msg *Req) (*Res, error) {
	t.Helper()
	client := connect.NewClient[Req, Res](http.DefaultClient, baseURL+procedure, connect.WithCodec(jsonCodec{}))
	resp, err := client.CallUnary(context.Background(), connect.NewRequest(msg))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func TestGetGuildStats(t *testing.T) {
	url := newTestServer(t, &fakeBackend{})

	resp, err := call[GuildStatsRequest, GuildStatsResponse](t, url, GetGuildStatsProcedure, &GuildStatsRequest{GuildID: "G1"})
	require.NoError(t, err)
	assert.Equal(t, "G1", resp.Guild.APIID)
	assert.Equal(t, int64(2), resp.PlayerCount)
	assert.Equal(t, int64(7), resp.Stats.LeftHandG12GearCount)
	require.Len(t, resp.Players, 2)
	assert.Equal(t, int64(3), resp.Players[0].Stats.LeftHandG12GearCount)

	_, err = call[GuildStatsRequest, GuildStatsResponse](t, url, GetGuildStatsProcedure, &GuildStatsRequest{GuildID: "nope"})
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	_, err = call[GuildStatsRequest, GuildStatsResponse](t, url, GetGuildStatsProcedure, &GuildStatsRequest{})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestGetPlayerStats_ParsesAllyCode(t *testing.T) {
	backend := &fakeBackend{}
	url := newTestServer(t, backend)

	resp, err := call[AllyCodeRequest, PlayerStatsResponse](t, url, GetPlayerStatsProcedure, &AllyCodeRequest{AllyCode: "123-456-789"})
	require.NoError(t, err)
	assert.Equal(t, 123456789, resp.Player.AllyCode)
	assert.Equal(t, int64(5), resp.Stats.ZetaCount)

	_, err = call[AllyCodeRequest, PlayerStatsResponse](t, url, GetPlayerStatsProcedure, &AllyCodeRequest{AllyCode: "abc"})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = call[AllyCodeRequest, PlayerStatsResponse](t, url, GetPlayerStatsProcedure, &AllyCodeRequest{})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestGetPlayerUnits(t *testing.T) {
	url := newTestServer(t, &fakeBackend{})

	resp, err := call[PlayerUnitsRequest, PlayerUnitsResponse](t, url, GetPlayerUnitsProcedure,
		&PlayerUnitsRequest{AllyCode: "111111111", Units: []string{"CT7567"}})
	require.NoError(t, err)
	require.Contains(t, resp.Units, "CT7567")
	assert.Equal(t, int64(1), resp.Units["CT7567"].ZetaCount)
}

func TestRefreshGuild_ErrorCodes(t *testing.T) {
	backend := &fakeBackend{}
	url := newTestServer(t, backend)

	resp, err := call[AllyCodeRequest, RefreshGuildResponse](t, url, RefreshGuildProcedure, &AllyCodeRequest{AllyCode: "111111111"})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Stored)
	assert.Equal(t, 1, resp.Failed)

	backend.refreshErr = fmt.Errorf("failed to download roster: %w",
		&batch.BatchError{Errors: 6, Remaining: 10, Last: &api.APIError{Endpoint: "/swgoh/players", StatusCode: 503}})
	_, err = call[AllyCodeRequest, RefreshGuildResponse](t, url, RefreshGuildProcedure, &AllyCodeRequest{AllyCode: "111111111"})
	assert.Equal(t, connect.CodeUnavailable, connect.CodeOf(err))

	backend.refreshErr = &api.AuthenticationError{StatusCode: 401}
	_, err = call[AllyCodeRequest, RefreshGuildResponse](t, url, RefreshGuildProcedure, &AllyCodeRequest{AllyCode: "111111111"})
	assert.Equal(t, connect.CodeInternal, connect.CodeOf(err))
}

func TestRefreshPlayer_NotFound(t *testing.T) {
	url := newTestServer(t, &fakeBackend{})

	_, err := call[AllyCodeRequest, PlayerResponse](t, url, RefreshPlayerProcedure, &AllyCodeRequest{AllyCode: "999999999"})
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestMedals(t *testing.T) {
	url := newTestServer(t, &fakeBackend{})

	units, err := call[ListMedaledUnitsRequest, ListMedaledUnitsResponse](t, url, ListMedaledUnitsProcedure, &ListMedaledUnitsRequest{})
	require.NoError(t, err)
	require.Len(t, units.Units, 1)
	assert.Equal(t, 1, units.Units[0].ZetaRules)
	assert.Equal(t, []StatRule{{Stat: "speed", Value: 200}}, units.Units[0].StatRules)

	medals, err := call[AllyCodeRequest, PlayerMedalsResponse](t, url, GetPlayerMedalsProcedure, &AllyCodeRequest{AllyCode: "111111111"})
	require.NoError(t, err)
	require.Len(t, medals.Units, 1)
	assert.Equal(t, 4, medals.Units[0].Earned)
	assert.Equal(t, 7, medals.Units[0].Total)
}
