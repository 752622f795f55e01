package fx

import (
	"database/sql"
	"swgoh-tracker/internal/api"
	"swgoh-tracker/internal/config"
	"swgoh-tracker/internal/database"
	"swgoh-tracker/internal/db"
	"swgoh-tracker/internal/logger"
	"swgoh-tracker/internal/repository"
	"swgoh-tracker/internal/server"
	"swgoh-tracker/internal/service"

	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

// Core is everything needed to refresh and query data, without the HTTP
// server or the scheduler.
var Core = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// repos
	fx.Provide(repository.NewCatalogRepository),
	fx.Provide(repository.NewGuildRepository),
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewStatsRepository),
	fx.Provide(repository.NewGPHistoryRepository),
	fx.Provide(repository.NewMedalRepository),
	// api client
	fx.Provide(fx.Annotate(api.NewSwgohClient, fx.As(new(service.Upstream)))),
	fx.Provide(service.NewPlayerDownloader),
	// svc
	fx.Provide(service.NewCatalogService),
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewGuildService),
	fx.Provide(service.NewStatsService),
	fx.Provide(service.NewMedalService),
	fx.Provide(service.NewGPHistoryService),
)

var Module = fx.Options(
	Core,
	// server
	fx.Provide(server.NewTrackerServer),
)
