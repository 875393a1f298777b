// Package main runs a batch of headless simulations across seeds and
// records them in one SQLite store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/game"
	"github.com/pthm-cable/habitat/persistence"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	modeFlag := flag.String("mode", "fox", "Model to run: fox or ants")
	dbPath := flag.String("db", "sweep.db", "SQLite file the runs are recorded in")
	outputDir := flag.String("output-dir", "", "Per-run CSV output root (empty = disabled)")
	firstSeed := flag.Int64("seed", 1, "First seed of the sweep")
	runs := flag.Int("runs", 8, "Number of seeds to run")
	years := flag.Int("years", 5, "Fox mode: simulated years per run")
	steps := flag.Int64("steps", 20000, "Ants mode: colony steps per run")
	workers := flag.Int("workers", runtime.NumCPU(), "Runs simulated concurrently")
	logLevel := flag.String("log-level", "warn", "Log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %q: %v\n", *logLevel, err)
		os.Exit(2)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	mode, err := game.ParseMode(*modeFlag)
	if err != nil {
		slog.Error("invalid mode", "error", err)
		os.Exit(2)
	}

	limit := *steps
	if mode == game.ModeFox {
		limit = int64(*years) * 365 * 24
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	ids, err := sweep(ctx, sweepOptions{
		mode:      mode,
		dbPath:    *dbPath,
		outputDir: *outputDir,
		firstSeed: *firstSeed,
		runs:      *runs,
		limit:     limit,
		workers:   *workers,
	})
	if err != nil {
		slog.Error("sweep failed", "error", err)
	}
	if len(ids) == 0 {
		os.Exit(1)
	}

	if err := report(*dbPath, mode, ids, time.Since(start)); err != nil {
		slog.Error("failed to summarize sweep", "error", err)
		os.Exit(1)
	}
}

type sweepOptions struct {
	mode      game.Mode
	dbPath    string
	outputDir string
	firstSeed int64
	runs      int
	limit     int64
	workers   int
}

// sweep runs every seed headless, at most workers at a time, recording all
// of them through one store. It returns the IDs of the runs that started,
// in seed order.
func sweep(ctx context.Context, o sweepOptions) ([]string, error) {
	store, err := persistence.Open(o.dbPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	ids := make([]string, o.runs)
	var mu sync.Mutex

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(max(o.workers, 1))
	for i := 0; i < o.runs; i++ {
		seed := o.firstSeed + int64(i)
		grp.Go(func() error {
			opts := game.Options{
				Mode:           o.mode,
				Seed:           seed,
				Store:          store,
				Headless:       true,
				StepsPerUpdate: 24,
			}
			if o.outputDir != "" {
				opts.OutputDir = filepath.Join(o.outputDir, "seed-"+strconv.FormatInt(seed, 10))
			}
			g, err := game.NewGameWithOptions(opts)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			defer g.Unload()

			mu.Lock()
			ids[i] = g.RunID()
			mu.Unlock()

			for g.Tick() < o.limit {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				g.UpdateHeadless()
				if o.mode == game.ModeFox && g.FoxCount() == 0 {
					slog.Info("population_extinct", "seed", seed, "tick", g.Tick())
					break
				}
			}
			slog.Info("run_finished", "seed", seed, "run_id", g.RunID(), "tick", g.Tick())
			return nil
		})
	}
	err = grp.Wait()

	started := ids[:0]
	for _, id := range ids {
		if id != "" {
			started = append(started, id)
		}
	}
	return started, err
}

// report prints one line per run from the store.
func report(dbPath string, mode game.Mode, ids []string, elapsed time.Duration) error {
	store, err := persistence.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	var ticks int64
	switch mode {
	case game.ModeFox:
		fmt.Printf("%-36s %6s %10s %6s %7s %7s %7s %7s %6s\n",
			"run", "seed", "ticks", "days", "final", "peak", "mean", "births", "culled")
		for _, id := range ids {
			s, err := store.Summarize(id)
			if err != nil {
				return err
			}
			ticks += s.Ticks
			fmt.Printf("%-36s %6d %10s %6d %7d %7d %7.1f %7s %6d\n",
				s.ID, s.Seed, humanize.Comma(s.Ticks), s.Days, s.FinalFoxes, s.PeakFoxes, s.MeanFoxes,
				humanize.Comma(int64(s.Births)), s.Culled)
		}
	case game.ModeAnts:
		fmt.Printf("%-36s %6s %10s %6s %6s %8s\n", "run", "seed", "steps", "gens", "best", "optimal")
		for _, id := range ids {
			run, err := store.GetRun(id)
			if err != nil {
				return err
			}
			gens, err := store.Generations(id)
			if err != nil {
				return err
			}
			ticks += run.Ticks
			var best, optimal int
			if n := len(gens); n > 0 {
				best, optimal = gens[n-1].BestLength, gens[n-1].OptimalLength
			}
			fmt.Printf("%-36s %6d %10s %6d %6d %8d\n",
				run.ID, run.Seed, humanize.Comma(run.Ticks), len(gens), best, optimal)
		}
	}
	fmt.Printf("\n%d runs, %s ticks in %s, stored in %s (%s)\n",
		len(ids), humanize.Comma(ticks), elapsed.Round(time.Second), dbPath, fileSize(dbPath))
	return nil
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "unknown size"
	}
	return humanize.Bytes(uint64(info.Size()))
}
