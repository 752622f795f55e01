// refresh runs one ingestion step and exits.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"swgoh-tracker/internal/config"
	fxmodules "swgoh-tracker/internal/fx"
	"swgoh-tracker/internal/service"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"go.uber.org/fx"
)

type services struct {
	fx.In

	Catalog *service.CatalogService
	Players *service.PlayerService
	Guilds  *service.GuildService
	Stats   *service.StatsService
	Medals  *service.MedalService
	History *service.GPHistoryService
	Logger  zerolog.Logger
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		timeout time.Duration
		maxAge  time.Duration
		check   bool
	)

	flagSet := pflag.NewFlagSet("refresh", pflag.ContinueOnError)
	flagSet.DurationVar(&timeout, "timeout", 15*time.Minute, "abort the command after this long")
	flagSet.DurationVar(&maxAge, "max-age", 0, "player: skip players stored more recently than this (negative accepts any age)")
	flagSet.BoolVar(&check, "check", false, "guild: verify guild statistics against the sum of its players")
	flagSet.Usage = func() { printHelp(flagSet) }

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	args := flagSet.Args()
	if len(args) == 0 {
		printHelp(flagSet)
		return errors.New("missing command")
	}

	var svc services
	app := fx.New(fxmodules.Core, fx.NopLogger, fx.Populate(&svc))
	if err := app.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer app.Stop(context.Background())

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "catalog":
		report, err := svc.Catalog.RefreshCatalog(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("units=%d skills=%d gears=%d removed_units=%d removed_gears=%d\n",
			report.Units, report.Skills, report.Gears, report.RemovedUnits, report.RemovedGears)

	case "guild":
		codes, err := allyCodes(rest, 1)
		if err != nil {
			return err
		}
		report, err := svc.Guilds.RefreshGuild(ctx, codes[0])
		if err != nil {
			return err
		}
		fmt.Printf("guild=%s stored=%d failed=%d removed=%d\n",
			report.Guild.APIID, report.Stored, report.Failed, report.Removed)
		if check {
			if err := svc.Stats.CheckConsistency(ctx, report.Guild.APIID); err != nil {
				return err
			}
			fmt.Println("guild statistics are consistent")
		}

	case "player":
		codes, err := allyCodes(rest, -1)
		if err != nil {
			return err
		}
		var players []int
		if maxAge != 0 {
			stored, err := svc.Players.EnsurePlayers(ctx, codes, maxAge)
			if err != nil {
				return err
			}
			for _, p := range stored {
				players = append(players, p.AllyCode)
			}
		} else {
			for _, code := range codes {
				p, err := svc.Players.RefreshPlayer(ctx, code)
				if err != nil {
					return err
				}
				players = append(players, p.AllyCode)
			}
		}
		fmt.Printf("players=%v\n", players)

	case "snapshot":
		if len(rest) != 1 {
			return errors.New("snapshot takes exactly one guild api id")
		}
		n, err := svc.History.Snapshot(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Printf("snapshot rows=%d\n", n)

	case "medals":
		if len(rest) != 1 {
			return errors.New("medals takes exactly one rule file")
		}
		if err := svc.Medals.LoadRules(ctx, rest[0]); err != nil {
			return err
		}

	default:
		printHelp(flagSet)
		return fmt.Errorf("unknown command %q", cmd)
	}

	svc.Logger.Debug().Str("command", cmd).Msg("command completed")
	return nil
}

// allyCodes parses args, requiring exactly want of them unless want is
// negative.
func allyCodes(args []string, want int) ([]int, error) {
	var codes []int
	for _, arg := range args {
		parsed, err := config.ParseAllyCodes(arg)
		if err != nil {
			return nil, err
		}
		codes = append(codes, parsed...)
	}
	if len(codes) == 0 || (want > 0 && len(codes) != want) {
		return nil, fmt.Errorf("expected %s ally code(s), got %d", countWord(want), len(codes))
	}
	return codes, nil
}

func countWord(n int) string {
	if n < 0 {
		return "one or more"
	}
	return fmt.Sprint(n)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Usage: refresh [flags] <command> [args]

Commands:
  catalog                      refresh units, skills, categories and gear
  guild <ally-code>            refresh the guild of a player and its whole roster
  player <ally-code>...        refresh individual players
  snapshot <guild-api-id>      record the current unit gp of a guild
  medals <rules.yaml>          replace medal rules

Flags:
%s`, flagSet.FlagUsages())
}
