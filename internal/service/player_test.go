package service

import (
	"context"
	"swgoh-tracker/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshPlayer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, b, c := scenarioPlayers()
	env.upstream.addGuild("G1", a, b, c)

	player, err := env.players.RefreshPlayer(ctx, a.AllyCode)
	require.NoError(t, err)
	require.NotNil(t, player.GuildID)

	guild, err := env.guildRepo.GetByAPIID(ctx, "G1")
	require.NoError(t, err)
	assert.Equal(t, guild.ID, *player.GuildID)

	// only the requested player is stored
	_, err = env.playerRepo.GetByAllyCode(ctx, b.AllyCode)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	rows, err := env.playerRepo.CountRows(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlayerRowCounts{PlayerUnits: 1, Zetas: 1, Mods: 1}, rows)
}

func TestRefreshPlayer_Unguilded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	e := rawPlayer("e", 555555555, rawUnit("CT7567", 10, 8000))
	env.upstream.players[e.AllyCode] = e

	player, err := env.players.RefreshPlayer(ctx, e.AllyCode)
	require.NoError(t, err)
	assert.Nil(t, player.GuildID)

	_, guildCalls := env.upstream.calls()
	assert.Zero(t, guildCalls)
}

func TestRefreshPlayer_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.players.RefreshPlayer(context.Background(), 999999999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRefreshPlayer_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, b, c := scenarioPlayers()
	env.upstream.addGuild("G1", a, b, c)

	first, err := env.players.RefreshPlayer(ctx, b.AllyCode)
	require.NoError(t, err)
	firstRows, err := env.playerRepo.CountRows(ctx, first.ID)
	require.NoError(t, err)

	second, err := env.players.RefreshPlayer(ctx, b.AllyCode)
	require.NoError(t, err)
	secondRows, err := env.playerRepo.CountRows(ctx, second.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, firstRows, secondRows)
	assert.False(t, second.LastUpdated.Before(first.LastUpdated))
}

func TestEnsurePlayers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, b, c := scenarioPlayers()
	env.upstream.addGuild("G1", a, b, c)
	codes := []int{a.AllyCode, b.AllyCode}

	players, err := env.players.EnsurePlayers(ctx, codes, -1)
	require.NoError(t, err)
	assert.Len(t, players, 2)
	callsAfterFirst, guildCalls := env.upstream.calls()
	assert.Positive(t, callsAfterFirst)
	assert.Equal(t, 1, guildCalls)

	players, err = env.players.EnsurePlayers(ctx, codes, -1)
	require.NoError(t, err)
	assert.Len(t, players, 2)
	calls, _ := env.upstream.calls()
	assert.Equal(t, callsAfterFirst, calls)

	players, err = env.players.EnsurePlayers(ctx, []int{a.AllyCode, c.AllyCode}, -1)
	require.NoError(t, err)
	assert.Len(t, players, 2)
	calls, _ = env.upstream.calls()
	assert.Equal(t, callsAfterFirst+1, calls)
}
