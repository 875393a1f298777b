package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	modeFlag := flag.String("mode", "fox", "Model to run: fox or ants")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output daily and per-generation stats via slog")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, charts and snapshots")
	dbPath := flag.String("db", "", "SQLite file to record the run in (empty = disabled)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	years := flag.Int("years", 0, "Fox mode: stop after N simulated years (overrides -max-ticks)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		slog.Error("invalid log level", "level", *logLevel, "error", err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	mode, err := game.ParseMode(*modeFlag)
	if err != nil {
		slog.Error("invalid mode", "error", err)
		os.Exit(2)
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	limit := *maxTicks
	if *years > 0 && mode == game.ModeFox {
		limit = ticksForYears(cfg.Clock, *years)
	}

	// Build game options
	opts := game.Options{
		Mode:           mode,
		Seed:           rngSeed,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		DBPath:         *dbPath,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	var code int
	if *headless {
		code = runHeadless(ctx, opts, limit)
	} else {
		code = runWindow(ctx, cfg, opts, limit)
	}
	stop()
	os.Exit(code)
}

// runHeadless steps the simulation until the tick limit or a signal.
func runHeadless(ctx context.Context, opts game.Options, limit int64) int {
	// Headless mode - pure CPU simulation, no raylib needed
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		return 1
	}
	defer g.Unload()

	slog.Info("starting headless simulation",
		"mode", string(opts.Mode),
		"seed", opts.Seed,
		"max_ticks", limit,
		"steps_per_update", opts.StepsPerUpdate,
	)

	for {
		select {
		case <-ctx.Done():
			slog.Info("interrupted", "tick", g.Tick())
			return 0
		default:
		}

		g.UpdateHeadless()

		if limit > 0 && g.Tick() >= limit {
			slog.Info("max ticks reached", "tick", g.Tick())
			return 0
		}
	}
}

// runWindow opens the raylib window and runs the interactive loop.
func runWindow(ctx context.Context, cfg *config.Config, opts game.Options, limit int64) int {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Habitat")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	rl.SetExitKey(0)

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		return 1
	}
	defer g.Unload()

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		g.Update()
		g.Draw()

		if limit > 0 && g.Tick() >= limit {
			break
		}
	}
	return 0
}

// ticksForYears returns the hourly ticks in n calendar years from the
// configured start date.
func ticksForYears(c config.ClockConfig, n int) int64 {
	start := time.Date(c.StartYear, time.Month(c.StartMonth), c.StartDay, 0, 0, 0, 0, time.UTC)
	return int64(start.AddDate(n, 0, 0).Sub(start) / time.Hour)
}
