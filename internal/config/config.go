package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"swgoh-tracker/internal/constants"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	SwgohUsername     string
	SwgohPassword     string
	SwgohClientID     string
	SwgohClientSecret string
	SwgohBaseURL      string
	StatsCalcURL      string

	DBPath     string
	ServerPort string
	LogLevel   string

	RefreshInterval  time.Duration
	StaleAfter       time.Duration
	TrackedAllyCodes []int
	TrackedGuildIDs  []string

	FactionACategory string
	FactionBCategory string

	BatchInitialSize int
	BatchMaxWorkers  int
	BatchMaxErrors   int

	MedalRulesPath string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		SwgohUsername:     getEnv("SWGOH_USERNAME", ""),
		SwgohPassword:     getEnv("SWGOH_PASSWORD", ""),
		SwgohClientID:     getEnv("SWGOH_CLIENT_ID", "abc"),
		SwgohClientSecret: getEnv("SWGOH_CLIENT_SECRET", "123"),
		SwgohBaseURL:      getEnv("SWGOH_BASE_URL", "https://api.swgoh.help"),
		StatsCalcURL:      getEnv("STATS_CALC_URL", ""),
		DBPath:            getEnv("DB_PATH", "swgoh.db"),
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		FactionACategory:  getEnv("FACTION_A_CATEGORY", "affiliation_separatist"),
		FactionBCategory:  getEnv("FACTION_B_CATEGORY", "affiliation_republic"),
		MedalRulesPath:    getEnv("MEDAL_RULES_PATH", ""),
		TrackedGuildIDs:   splitList(getEnv("TRACKED_GUILD_IDS", "")),
	}

	var err error
	if cfg.RefreshInterval, err = getEnvDuration("REFRESH_INTERVAL", constants.RefreshInterval); err != nil {
		return nil, err
	}
	if cfg.StaleAfter, err = getEnvDuration("STALE_AFTER", constants.GuildStaleAfter); err != nil {
		return nil, err
	}
	if cfg.BatchInitialSize, err = getEnvInt("BATCH_INITIAL_SIZE", constants.InitialBatchSize); err != nil {
		return nil, err
	}
	if cfg.BatchMaxWorkers, err = getEnvInt("BATCH_MAX_WORKERS", constants.MaxWorkerCount); err != nil {
		return nil, err
	}
	if cfg.BatchMaxErrors, err = getEnvInt("BATCH_MAX_ERRORS", constants.MaxErrorCount); err != nil {
		return nil, err
	}
	if cfg.TrackedAllyCodes, err = ParseAllyCodes(getEnv("TRACKED_ALLY_CODES", "")); err != nil {
		return nil, err
	}

	if cfg.SwgohUsername == "" || cfg.SwgohPassword == "" {
		return nil, fmt.Errorf("SWGOH_USERNAME and SWGOH_PASSWORD are required")
	}
	if cfg.BatchInitialSize < 1 || cfg.BatchMaxWorkers < 1 || cfg.BatchMaxErrors < 0 {
		return nil, fmt.Errorf("invalid batch settings: initial=%d workers=%d errors=%d",
			cfg.BatchInitialSize, cfg.BatchMaxWorkers, cfg.BatchMaxErrors)
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("base_url", cfg.SwgohBaseURL).
		Bool("stats_calc", cfg.StatsCalcURL != "").
		Dur("refresh_interval", cfg.RefreshInterval).
		Dur("stale_after", cfg.StaleAfter).
		Ints("tracked_ally_codes", cfg.TrackedAllyCodes).
		Msg("configuration loaded")

	return cfg, nil
}

// ParseAllyCodes parses a comma separated list. Dashes are accepted since ally
// codes are usually written as 123-456-789.
func ParseAllyCodes(s string) ([]int, error) {
	var codes []int
	for _, part := range splitList(s) {
		code, err := strconv.Atoi(strings.ReplaceAll(part, "-", ""))
		if err != nil {
			return nil, fmt.Errorf("invalid ally code %q: %w", part, err)
		}
		codes = append(codes, code)
	}
	return codes, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

var Module = fx.Provide(Load)
