// Package persistence provides a SQLite store for simulation runs: one row
// per run plus its daily fox statistics, ant generations and bookmarks.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/telemetry"
)

// ErrUnknownRun is returned when a run id has no row.
var ErrUnknownRun = errors.New("unknown run")

// Store wraps a SQLite connection shared by every run written to one file.
type Store struct {
	conn *sqlx.DB
}

// Run is one stored simulation.
type Run struct {
	ID         string `db:"id"`
	Mode       string `db:"mode"`
	Seed       int64  `db:"seed"`
	StartedAt  string `db:"started_at"`
	FinishedAt string `db:"finished_at"`
	Ticks      int64  `db:"ticks"`
	Config     string `db:"config_yaml"`
}

// FoxDay is one stored day of fox statistics.
type FoxDay struct {
	RunID     string  `db:"run_id"`
	Day       int     `db:"day"`
	Date      string  `db:"date"`
	Foxes     int     `db:"foxes"`
	MeanFoxes float64 `db:"mean_foxes"`
	Groups    int     `db:"groups_alive"`
	Rabbits   int     `db:"rabbits"`
	Litters   int     `db:"litters"`
	Cubs      int     `db:"cubs"`
	Starved   int     `db:"starved"`
	Natural   int     `db:"died_natural"`
	Culled    int     `db:"culled"`
}

// AntGeneration is one stored ant generation with its best path.
type AntGeneration struct {
	RunID         string `db:"run_id"`
	Generation    int    `db:"generation"`
	Step          int    `db:"step"`
	Ants          int    `db:"ants"`
	Retained      int    `db:"retained"`
	Completed     int    `db:"completed"`
	BestLength    int    `db:"best_length"`
	OptimalLength int    `db:"optimal_length"`
	BestPath      string `db:"best_path_json"`
}

// RunSummary aggregates one run for sweep reports.
type RunSummary struct {
	Run
	Days       int     `db:"days"`
	FinalFoxes int     `db:"final_foxes"`
	PeakFoxes  int     `db:"peak_foxes"`
	MeanFoxes  float64 `db:"mean_foxes"`
	Births     int     `db:"births"`
	Culled     int     `db:"culled"`
	Bookmarks  int     `db:"bookmarks"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Concurrent sweep workers share the store; SQLite takes one writer.
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		seed INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL DEFAULT '',
		ticks INTEGER NOT NULL DEFAULT 0,
		config_yaml TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS fox_days (
		run_id TEXT NOT NULL REFERENCES runs(id),
		day INTEGER NOT NULL,
		date TEXT NOT NULL,
		foxes INTEGER NOT NULL,
		mean_foxes REAL NOT NULL,
		groups_alive INTEGER NOT NULL,
		rabbits INTEGER NOT NULL,
		litters INTEGER NOT NULL,
		cubs INTEGER NOT NULL,
		starved INTEGER NOT NULL,
		died_natural INTEGER NOT NULL,
		culled INTEGER NOT NULL,
		PRIMARY KEY (run_id, day)
	);

	CREATE TABLE IF NOT EXISTS ant_generations (
		run_id TEXT NOT NULL REFERENCES runs(id),
		generation INTEGER NOT NULL,
		step INTEGER NOT NULL,
		ants INTEGER NOT NULL,
		retained INTEGER NOT NULL,
		completed INTEGER NOT NULL,
		best_length INTEGER NOT NULL,
		optimal_length INTEGER NOT NULL,
		best_path_json TEXT NOT NULL,
		PRIMARY KEY (run_id, generation)
	);

	CREATE TABLE IF NOT EXISTS bookmarks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		type TEXT NOT NULL,
		at INTEGER NOT NULL,
		description TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_bookmarks_run ON bookmarks(run_id);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// BeginRun records a new run and returns its id.
func (s *Store) BeginRun(mode string, seed int64, configYAML string, started time.Time) (string, error) {
	id := uuid.NewString()
	_, err := s.conn.Exec(
		"INSERT INTO runs (id, mode, seed, started_at, config_yaml) VALUES (?, ?, ?, ?, ?)",
		id, mode, seed, started.UTC().Format(time.RFC3339), configYAML,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	slog.Debug("run_started", "run", id, "mode", mode, "seed", seed)
	return id, nil
}

// FinishRun stamps the run with its tick count and end time.
func (s *Store) FinishRun(runID string, ticks int64, finished time.Time) error {
	res, err := s.conn.Exec(
		"UPDATE runs SET finished_at = ?, ticks = ? WHERE id = ?",
		finished.UTC().Format(time.RFC3339), ticks, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish run %s: %w", runID, ErrUnknownRun)
	}
	return nil
}

// SaveFoxDays appends daily statistics in one transaction.
func (s *Store) SaveFoxDays(runID string, days []telemetry.FoxStats) error {
	if len(days) == 0 {
		return nil
	}

	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamed(`INSERT OR REPLACE INTO fox_days
		(run_id, day, date, foxes, mean_foxes, groups_alive, rabbits,
		 litters, cubs, starved, died_natural, culled)
		VALUES (:run_id, :day, :date, :foxes, :mean_foxes, :groups_alive, :rabbits,
		 :litters, :cubs, :starved, :died_natural, :culled)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range days {
		row := FoxDay{
			RunID:     runID,
			Day:       d.Day,
			Date:      d.Date,
			Foxes:     d.Foxes,
			MeanFoxes: d.MeanFoxes,
			Groups:    d.Groups,
			Rabbits:   d.RabbitsLeft,
			Litters:   d.Litters,
			Cubs:      d.Cubs,
			Starved:   d.Starved,
			Natural:   d.DiedNatural,
			Culled:    d.Culled,
		}
		if _, err := stmt.Exec(row); err != nil {
			return fmt.Errorf("insert fox day %d: %w", d.Day, err)
		}
	}

	return tx.Commit()
}

// SaveGeneration stores one ant generation and the best path known at that point.
func (s *Store) SaveGeneration(runID string, g telemetry.AntStats, best []components.Pos) error {
	pathJSON, err := json.Marshal(best)
	if err != nil {
		return fmt.Errorf("encode best path: %w", err)
	}
	_, err = s.conn.NamedExec(`INSERT OR REPLACE INTO ant_generations
		(run_id, generation, step, ants, retained, completed, best_length, optimal_length, best_path_json)
		VALUES (:run_id, :generation, :step, :ants, :retained, :completed, :best_length, :optimal_length, :best_path_json)`,
		AntGeneration{
			RunID:         runID,
			Generation:    g.Generation,
			Step:          g.Step,
			Ants:          g.Ants,
			Retained:      g.Retained,
			Completed:     g.Completed,
			BestLength:    g.BestLength,
			OptimalLength: g.OptimalLength,
			BestPath:      string(pathJSON),
		})
	if err != nil {
		return fmt.Errorf("insert generation %d: %w", g.Generation, err)
	}
	return nil
}

// SaveBookmarks appends bookmarks for a run.
func (s *Store) SaveBookmarks(runID string, bs []telemetry.Bookmark) error {
	if len(bs) == 0 {
		return nil
	}

	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, b := range bs {
		_, err := tx.Exec(
			"INSERT INTO bookmarks (run_id, type, at, description) VALUES (?, ?, ?, ?)",
			runID, string(b.Type), b.At, b.Description,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetRun returns one run by id.
func (s *Store) GetRun(runID string) (Run, error) {
	var r Run
	err := s.conn.Get(&r, "SELECT * FROM runs WHERE id = ?", runID)
	if errors.Is(err, sql.ErrNoRows) {
		return r, fmt.Errorf("run %s: %w", runID, ErrUnknownRun)
	}
	return r, err
}

// Runs returns every stored run, oldest first.
func (s *Store) Runs() ([]Run, error) {
	var runs []Run
	err := s.conn.Select(&runs, "SELECT * FROM runs ORDER BY started_at, id")
	return runs, err
}

// FoxDays returns the stored days of a run in order.
func (s *Store) FoxDays(runID string) ([]FoxDay, error) {
	var days []FoxDay
	err := s.conn.Select(&days, "SELECT * FROM fox_days WHERE run_id = ? ORDER BY day", runID)
	return days, err
}

// Generations returns the stored ant generations of a run in order.
func (s *Store) Generations(runID string) ([]AntGeneration, error) {
	var gens []AntGeneration
	err := s.conn.Select(&gens, "SELECT * FROM ant_generations WHERE run_id = ? ORDER BY generation", runID)
	return gens, err
}

// Bookmarks returns the stored bookmarks of a run in insertion order.
func (s *Store) Bookmarks(runID string) ([]telemetry.Bookmark, error) {
	var rows []struct {
		Type        string `db:"type"`
		At          int    `db:"at"`
		Description string `db:"description"`
	}
	err := s.conn.Select(&rows, "SELECT type, at, description FROM bookmarks WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, err
	}
	out := make([]telemetry.Bookmark, len(rows))
	for i, r := range rows {
		out[i] = telemetry.Bookmark{Type: telemetry.BookmarkType(r.Type), At: r.At, Description: r.Description}
	}
	return out, nil
}

// BestPath decodes the best path of the latest generation of a run that
// found one. It returns nil when no ant has completed a round trip.
func (s *Store) BestPath(runID string) ([]components.Pos, error) {
	var raw string
	err := s.conn.Get(&raw, `SELECT best_path_json FROM ant_generations
		WHERE run_id = ? AND best_length > 0 ORDER BY generation DESC LIMIT 1`, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var path []components.Pos
	if err := json.Unmarshal([]byte(raw), &path); err != nil {
		return nil, fmt.Errorf("decode best path: %w", err)
	}
	return path, nil
}

// Summarize aggregates a run's days and bookmarks.
func (s *Store) Summarize(runID string) (RunSummary, error) {
	run, err := s.GetRun(runID)
	if err != nil {
		return RunSummary{}, err
	}
	sum := RunSummary{Run: run}

	err = s.conn.Get(&sum, `SELECT
		COUNT(*) AS days,
		COALESCE(MAX(foxes), 0) AS peak_foxes,
		COALESCE(AVG(foxes), 0) AS mean_foxes,
		COALESCE(SUM(cubs), 0) AS births,
		COALESCE(SUM(culled), 0) AS culled
		FROM fox_days WHERE run_id = ?`, runID)
	if err != nil {
		return RunSummary{}, fmt.Errorf("summarize days: %w", err)
	}
	sum.Run = run

	err = s.conn.Get(&sum.FinalFoxes,
		"SELECT foxes FROM fox_days WHERE run_id = ? ORDER BY day DESC LIMIT 1", runID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return RunSummary{}, fmt.Errorf("final day: %w", err)
	}
	if err := s.conn.Get(&sum.Bookmarks, "SELECT COUNT(*) FROM bookmarks WHERE run_id = ?", runID); err != nil {
		return RunSummary{}, fmt.Errorf("count bookmarks: %w", err)
	}
	return sum, nil
}
