package constants

import "time"

const (
	GuildStaleAfter      = 4 * time.Hour
	RefreshInterval      = 4 * time.Hour
	TokenRefreshMargin   = 60 * time.Second
	SchedulerStartupWait = 10 * time.Second
	GPSnapshotInterval   = 24 * time.Hour
)

const (
	ExternalAPITimeout  = 30 * time.Second
	DatabaseTimeout     = 5 * time.Second
	RequestTimeout      = 30 * time.Second
	GuildRefreshTimeout = 10 * time.Minute
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

// Batch downloader ceilings.
const (
	InitialBatchSize = 5
	MaxWorkerCount   = 5
	MaxErrorCount    = 5
)

const (
	MaxZetaTier     = 8
	CharacterCombat = 1
	// A gear 13 unit counts as having both G12 sides completed plus extras.
	G13GearBonusPerSide = 3
	MedalRuleCount      = 7
)
