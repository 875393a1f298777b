package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/persistence"
	"github.com/pthm-cable/habitat/systems"
	"github.com/pthm-cable/habitat/telemetry"
)

// Game holds the complete state of one run: the landscape, the agents of the
// selected model, telemetry sinks and, outside headless mode, the view.
type Game struct {
	cfg  *config.Config
	mode Mode
	seed int64
	rng  *systems.Sampler
	grid *systems.Grid

	// Fox model
	clock   *systems.Clock
	foxes   *systems.Population
	hunter  *systems.Hunter
	food    *systems.FoodField
	warrens *systems.Warrens
	env     systems.Surroundings
	totals  runTotals

	// Ant model
	nodes   *systems.NodeField
	colony  *systems.Colony
	planner *systems.PathPlanner
	optimal int
	last    systems.ColonyReport

	// Telemetry
	foxStats     *telemetry.FoxCollector
	antStats     *telemetry.AntCollector
	bookmarks    *telemetry.BookmarkDetector
	pathMarks    *telemetry.PathDetector
	perf         *telemetry.PerfCollector
	output       *telemetry.OutputManager
	store        *persistence.Store
	sharedStore  bool
	runID        string
	pendingDays  []telemetry.FoxStats
	pendingMarks []telemetry.Bookmark
	history      []telemetry.FoxStats

	tick           int64
	paused         bool
	stepRequested  bool
	stepsPerUpdate int
	logStats       bool
	headless       bool

	// Graphics, nil when headless
	view *view
}

// runTotals counts fox events since the run started.
type runTotals struct {
	births int
	deaths int
	culled int
}

// storeBatchDays is how many fox days are buffered before a store write.
const storeBatchDays = 30

// NewGameWithOptions builds a game for opts.Mode. Graphics resources are
// created only when opts.Headless is false, after the raylib window exists.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	if opts.Mode == "" {
		opts.Mode = ModeFox
	}

	g := &Game{
		cfg:            cfg,
		mode:           opts.Mode,
		seed:           opts.Seed,
		rng:            systems.NewSampler(uint64(opts.Seed)),
		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
		logStats:       opts.LogStats,
		headless:       opts.Headless,
		perf:           telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
	}

	switch g.mode {
	case ModeFox:
		g.setupFoxes()
	case ModeAnts:
		if err := g.setupAnts(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown mode %q", g.mode)
	}

	if err := g.openSinks(opts); err != nil {
		g.closeSinks()
		return nil, err
	}

	if !g.headless {
		g.view = newView(g)
	}

	slog.Info("game_created",
		"mode", string(g.mode),
		"seed", g.seed,
		"width", g.grid.Width(),
		"height", g.grid.Height(),
		"headless", g.headless,
	)
	return g, nil
}

// setupFoxes generates the fox landscape and seeds one group per den.
func (g *Game) setupFoxes() {
	cfg := g.cfg
	w, h := cfg.World.Width, cfg.World.Height

	g.grid = systems.GenerateFoxLandscape(w, h, cfg.Landscape, g.seed, g.rng)
	g.clock = systems.NewClock(cfg.Clock)
	g.food = systems.NewFoodField(w, h, g.seed, cfg.Food)
	g.food.Refresh(g.clock.Day(), g.grid, g.rng)
	g.warrens = systems.NewWarrens(g.grid, cfg.Rabbits)
	g.foxes = systems.NewPopulation(g.grid, cfg, g.rng)
	if cfg.Hunter.Enabled {
		g.hunter = systems.NewHunter(g.grid, cfg.Hunter, g.rng)
	}
	g.env = systems.Surroundings{Grid: g.grid, Food: g.food, Rabbits: g.warrens}

	groups := g.foxes.CreatePopulation(g.grid.Markers(components.FoxDen), g.clock.Start())
	slog.Info("population_created", "groups", len(groups), "foxes", g.foxes.Len())

	g.foxStats = telemetry.NewFoxCollector(cfg.Telemetry.MeanWindowDays)
	g.bookmarks = telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistory)
}

// setupAnts generates the ant map and builds the node field and colony.
func (g *Game) setupAnts() error {
	cfg := g.cfg
	w, h := cfg.World.Width, cfg.World.Height

	g.grid = systems.GenerateAntLandscape(w, h, cfg.Ants.Colony, cfg.Landscape, g.rng)
	colony, err := systems.NewColony(g.grid, cfg.Ants, g.rng)
	if err != nil {
		return fmt.Errorf("creating colony: %w", err)
	}
	g.colony = colony
	g.nodes = systems.NewNodeField(g.grid, cfg.Ants.Node)
	g.planner = systems.NewPathPlanner(g.nodes)
	g.refreshOptimal()

	g.antStats = telemetry.NewAntCollector()
	g.pathMarks = telemetry.NewPathDetector()
	return nil
}

// refreshOptimal recomputes the shortest possible path length, counted the
// way the colony counts BestPath (steps, excluding the source cell).
func (g *Game) refreshOptimal() {
	foods := g.colony.Foods()
	if len(foods) == 0 {
		g.optimal = 0
		return
	}
	g.optimal = max(g.planner.ShortestLength(g.colony.Source, foods[0])-1, 0)
}

// openSinks opens the CSV output directory and the run store.
func (g *Game) openSinks(opts Options) error {
	out, err := telemetry.NewOutputManager(opts.OutputDir, g.cfg.Telemetry)
	if err != nil {
		return err
	}
	g.output = out
	if err := g.output.WriteConfig(g.cfg); err != nil {
		return fmt.Errorf("writing config snapshot: %w", err)
	}

	switch {
	case opts.Store != nil:
		g.store = opts.Store
		g.sharedStore = true
	case opts.DBPath != "":
		store, err := persistence.Open(opts.DBPath)
		if err != nil {
			return err
		}
		g.store = store
	default:
		return nil
	}

	yaml, err := g.cfg.YAML()
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	g.runID, err = g.store.BeginRun(string(g.mode), g.seed, yaml, time.Now())
	if err != nil {
		return err
	}
	slog.Info("run_started", "run_id", g.runID)
	return nil
}

// closeSinks flushes buffered rows and closes the output and store.
func (g *Game) closeSinks() {
	if g.store != nil {
		g.flushStore()
		if g.runID != "" {
			if err := g.store.FinishRun(g.runID, g.tick, time.Now()); err != nil {
				slog.Error("failed to finish run", "error", err)
			}
		}
		if !g.sharedStore {
			if err := g.store.Close(); err != nil {
				slog.Error("failed to close store", "error", err)
			}
		}
		g.store = nil
	}
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	g.output = nil
}

// Unload releases graphics resources and closes every sink.
func (g *Game) Unload() {
	if g.view != nil {
		g.view.unload()
	}
	g.closeSinks()
	slog.Info("game_unloaded", "tick", g.tick)
}

// Tick returns the number of simulation steps taken.
func (g *Game) Tick() int64 {
	return g.tick
}

// Mode returns the model this game runs.
func (g *Game) Mode() Mode {
	return g.mode
}

// RunID returns the store run identifier, empty without a store.
func (g *Game) RunID() string {
	return g.runID
}

// Now returns the simulated time of the fox model.
func (g *Game) Now() time.Time {
	if g.clock == nil {
		return time.Time{}
	}
	return g.clock.Now()
}

// FoxCount returns the living fox population, 0 in ant mode.
func (g *Game) FoxCount() int {
	if g.foxes == nil {
		return 0
	}
	return g.foxes.Len()
}

// History returns every daily fox record produced so far.
func (g *Game) History() []telemetry.FoxStats {
	return g.history
}

// LastColonyReport returns the report of the most recent colony step.
func (g *Game) LastColonyReport() systems.ColonyReport {
	return g.last
}

// OptimalLength returns the shortest possible source-to-food path length
// on the current map, 0 when unreachable.
func (g *Game) OptimalLength() int {
	return g.optimal
}
