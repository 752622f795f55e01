package server

import (
	"context"
	"errors"
	"net/http"
	"swgoh-tracker/internal/api"
	"swgoh-tracker/internal/batch"
	"swgoh-tracker/internal/config"
	"swgoh-tracker/internal/domain"
	"swgoh-tracker/internal/service"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

const TrackerServiceName = "swgoh.v1.Tracker"

const (
	GetGuildStatsProcedure    = "/" + TrackerServiceName + "/GetGuildStats"
	GetPlayerStatsProcedure   = "/" + TrackerServiceName + "/GetPlayerStats"
	GetPlayerUnitsProcedure   = "/" + TrackerServiceName + "/GetPlayerUnits"
	RefreshGuildProcedure     = "/" + TrackerServiceName + "/RefreshGuild"
	RefreshPlayerProcedure    = "/" + TrackerServiceName + "/RefreshPlayer"
	ListMedaledUnitsProcedure = "/" + TrackerServiceName + "/ListMedaledUnits"
	GetPlayerMedalsProcedure  = "/" + TrackerServiceName + "/GetPlayerMedals"
)

type statsReader interface {
	GuildStats(ctx context.Context, guildAPIID string) (*domain.GuildStats, []domain.PlayerStats, error)
	PlayerStats(ctx context.Context, allyCode int) (*domain.PlayerStats, error)
	PlayerUnits(ctx context.Context, allyCode int, unitAPIIDs []string) (map[string]domain.PlayerUnitStats, error)
}

type guildRefresher interface {
	RefreshGuild(ctx context.Context, allyCode int) (*service.GuildRefreshReport, error)
}

type playerRefresher interface {
	RefreshPlayer(ctx context.Context, allyCode int) (*domain.Player, error)
}

type medalReader interface {
	ListMedaledUnits(ctx context.Context) ([]domain.MedaledUnit, error)
	PlayerMedals(ctx context.Context, allyCode int) ([]domain.PlayerUnitMedals, error)
}

type TrackerServer struct {
	stats   statsReader
	guilds  guildRefresher
	players playerRefresher
	medals  medalReader
}

func NewTrackerServer(stats *service.StatsService, guilds *service.GuildService, players *service.PlayerService, medals *service.MedalService) *TrackerServer {
	return &TrackerServer{stats: stats, guilds: guilds, players: players, medals: medals}
}

// NewHandler mounts every tracker procedure and returns the path prefix to
// register the handler under.
func NewHandler(s *TrackerServer, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(GetGuildStatsProcedure, connect.NewUnaryHandler(GetGuildStatsProcedure, s.GetGuildStats, opts...))
	mux.Handle(GetPlayerStatsProcedure, connect.NewUnaryHandler(GetPlayerStatsProcedure, s.GetPlayerStats, opts...))
	mux.Handle(GetPlayerUnitsProcedure, connect.NewUnaryHandler(GetPlayerUnitsProcedure, s.GetPlayerUnits, opts...))
	mux.Handle(RefreshGuildProcedure, connect.NewUnaryHandler(RefreshGuildProcedure, s.RefreshGuild, opts...))
	mux.Handle(RefreshPlayerProcedure, connect.NewUnaryHandler(RefreshPlayerProcedure, s.RefreshPlayer, opts...))
	mux.Handle(ListMedaledUnitsProcedure, connect.NewUnaryHandler(ListMedaledUnitsProcedure, s.ListMedaledUnits, opts...))
	mux.Handle(GetPlayerMedalsProcedure, connect.NewUnaryHandler(GetPlayerMedalsProcedure, s.GetPlayerMedals, opts...))
	return "/" + TrackerServiceName + "/", mux
}

func (s *TrackerServer) GetGuildStats(ctx context.Context, req *connect.Request[GuildStatsRequest]) (*connect.Response[GuildStatsResponse], error) {
	if req.Msg.GuildID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("guild_id is required"))
	}

	guild, players, err := s.stats.GuildStats(ctx, req.Msg.GuildID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	resp := &GuildStatsResponse{
		Guild:       toGuild(guild.Guild),
		PlayerCount: guild.PlayerCount,
		Stats:       toRollup(guild.Rollup),
		Players:     make([]PlayerStatsResponse, 0, len(players)),
	}
	for _, p := range players {
		resp.Players = append(resp.Players, toPlayerStats(p))
	}
	return connect.NewResponse(resp), nil
}

func (s *TrackerServer) GetPlayerStats(ctx context.Context, req *connect.Request[AllyCodeRequest]) (*connect.Response[PlayerStatsResponse], error) {
	allyCode, err := parseAllyCode(req.Msg.AllyCode)
	if err != nil {
		return nil, err
	}

	stats, err := s.stats.PlayerStats(ctx, allyCode)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	resp := toPlayerStats(*stats)
	return connect.NewResponse(&resp), nil
}

func (s *TrackerServer) GetPlayerUnits(ctx context.Context, req *connect.Request[PlayerUnitsRequest]) (*connect.Response[PlayerUnitsResponse], error) {
	allyCode, err := parseAllyCode(req.Msg.AllyCode)
	if err != nil {
		return nil, err
	}

	units, err := s.stats.PlayerUnits(ctx, allyCode, req.Msg.Units)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	resp := &PlayerUnitsResponse{Units: make(map[string]PlayerUnit, len(units))}
	for id, u := range units {
		resp.Units[id] = toPlayerUnit(u)
	}
	return connect.NewResponse(resp), nil
}

func (s *TrackerServer) RefreshGuild(ctx context.Context, req *connect.Request[AllyCodeRequest]) (*connect.Response[RefreshGuildResponse], error) {
	allyCode, err := parseAllyCode(req.Msg.AllyCode)
	if err != nil {
		return nil, err
	}

	report, err := s.guilds.RefreshGuild(ctx, allyCode)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&RefreshGuildResponse{
		Guild:   toGuild(report.Guild),
		Stored:  report.Stored,
		Failed:  report.Failed,
		Removed: report.Removed,
	}), nil
}

func (s *TrackerServer) RefreshPlayer(ctx context.Context, req *connect.Request[AllyCodeRequest]) (*connect.Response[PlayerResponse], error) {
	allyCode, err := parseAllyCode(req.Msg.AllyCode)
	if err != nil {
		return nil, err
	}

	player, err := s.players.RefreshPlayer(ctx, allyCode)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&PlayerResponse{Player: toPlayer(*player)}), nil
}

func (s *TrackerServer) ListMedaledUnits(ctx context.Context, _ *connect.Request[ListMedaledUnitsRequest]) (*connect.Response[ListMedaledUnitsResponse], error) {
	units, err := s.medals.ListMedaledUnits(ctx)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	resp := &ListMedaledUnitsResponse{Units: make([]MedaledUnit, 0, len(units))}
	for _, u := range units {
		mu := MedaledUnit{
			UnitAPIID: u.Unit.APIID,
			UnitName:  u.Unit.Name,
			ZetaRules: len(u.ZetaRules),
		}
		for _, r := range u.StatRules {
			mu.StatRules = append(mu.StatRules, StatRule{Stat: r.Stat, Value: r.Value})
		}
		resp.Units = append(resp.Units, mu)
	}
	return connect.NewResponse(resp), nil
}

func (s *TrackerServer) GetPlayerMedals(ctx context.Context, req *connect.Request[AllyCodeRequest]) (*connect.Response[PlayerMedalsResponse], error) {
	allyCode, err := parseAllyCode(req.Msg.AllyCode)
	if err != nil {
		return nil, err
	}

	medals, err := s.medals.PlayerMedals(ctx, allyCode)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	resp := &PlayerMedalsResponse{Units: make([]UnitMedals, 0, len(medals))}
	for _, m := range medals {
		resp.Units = append(resp.Units, UnitMedals{
			UnitAPIID: m.UnitAPIID,
			UnitName:  m.UnitName,
			Earned:    m.Earned,
			Total:     m.Total,
		})
	}
	return connect.NewResponse(resp), nil
}

func parseAllyCode(s string) (int, error) {
	codes, err := config.ParseAllyCodes(s)
	if err != nil {
		return 0, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if len(codes) != 1 {
		return 0, connect.NewError(connect.CodeInvalidArgument, errors.New("exactly one ally_code is required"))
	}
	return codes[0], nil
}

func toConnectError(ctx context.Context, err error) error {
	code := connect.CodeInternal
	switch {
	case errors.Is(err, domain.ErrNotFound):
		code = connect.CodeNotFound
	case api.IsAPIError(err), batch.IsBatchError(err), errors.Is(err, context.DeadlineExceeded):
		code = connect.CodeUnavailable
	}
	zerolog.Ctx(ctx).Error().Err(err).Str("code", code.String()).Msg("request failed")
	return connect.NewError(code, err)
}
