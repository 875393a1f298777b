package persistence

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/telemetry"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var started = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func TestRunLifecycle(t *testing.T) {
	s := openTestStore(t)

	id, err := s.BeginRun("fox", 42, "world: {}\n", started)
	if err != nil {
		t.Fatal(err)
	}
	if len(id) != 36 {
		t.Errorf("expected a uuid run id, got %q", id)
	}
	if err := s.FinishRun(id, 8760, started.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}

	run, err := s.GetRun(id)
	if err != nil {
		t.Fatal(err)
	}
	if run.Mode != "fox" || run.Seed != 42 || run.Ticks != 8760 || run.Config != "world: {}\n" {
		t.Errorf("unexpected run %+v", run)
	}
	if run.FinishedAt != "2026-03-01T12:01:00Z" {
		t.Errorf("unexpected finish time %q", run.FinishedAt)
	}

	if _, err := s.GetRun("missing"); !errors.Is(err, ErrUnknownRun) {
		t.Errorf("expected ErrUnknownRun, got %v", err)
	}
	if err := s.FinishRun("missing", 1, started); !errors.Is(err, ErrUnknownRun) {
		t.Errorf("expected ErrUnknownRun, got %v", err)
	}
}

func TestRunsAreListedInOrder(t *testing.T) {
	s := openTestStore(t)
	first, _ := s.BeginRun("fox", 1, "", started)
	second, _ := s.BeginRun("ants", 2, "", started.Add(time.Hour))

	runs, err := s.Runs()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ID != first || runs[1].ID != second {
		t.Errorf("unexpected runs %+v", runs)
	}
}

func TestFoxDaysAndSummary(t *testing.T) {
	s := openTestStore(t)
	id, _ := s.BeginRun("fox", 7, "", started)

	days := []telemetry.FoxStats{
		{Day: 0, Date: "2020-01-01", Foxes: 30, MeanFoxes: 30, Groups: 10, RabbitsLeft: 120},
		{Day: 1, Date: "2020-01-02", Foxes: 36, MeanFoxes: 33, Groups: 10, Litters: 1, Cubs: 6},
		{Day: 2, Date: "2020-01-03", Foxes: 33, MeanFoxes: 33, Groups: 9, Culled: 2, Starved: 1},
	}
	if err := s.SaveFoxDays(id, days); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveFoxDays(id, nil); err != nil {
		t.Errorf("empty batch should be a no-op, got %v", err)
	}
	bookmarks := []telemetry.Bookmark{{Type: telemetry.BookmarkPopulationCrash, At: 2, Description: "drop"}}
	if err := s.SaveBookmarks(id, bookmarks); err != nil {
		t.Fatal(err)
	}

	stored, err := s.FoxDays(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 3 || stored[1].Cubs != 6 || stored[2].Culled != 2 || stored[0].Rabbits != 120 {
		t.Errorf("unexpected stored days %+v", stored)
	}

	sum, err := s.Summarize(id)
	if err != nil {
		t.Fatal(err)
	}
	if sum.ID != id || sum.Seed != 7 {
		t.Errorf("summary lost the run row: %+v", sum.Run)
	}
	if sum.Days != 3 || sum.FinalFoxes != 33 || sum.PeakFoxes != 36 || sum.MeanFoxes != 33 {
		t.Errorf("unexpected population summary %+v", sum)
	}
	if sum.Births != 6 || sum.Culled != 2 || sum.Bookmarks != 1 {
		t.Errorf("unexpected event summary %+v", sum)
	}

	got, err := s.Bookmarks(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != bookmarks[0] {
		t.Errorf("unexpected bookmarks %+v", got)
	}
}

func TestSummaryWithoutDays(t *testing.T) {
	s := openTestStore(t)
	id, _ := s.BeginRun("ants", 3, "", started)

	sum, err := s.Summarize(id)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Days != 0 || sum.FinalFoxes != 0 || sum.MeanFoxes != 0 {
		t.Errorf("expected an empty summary, got %+v", sum)
	}
}

func TestGenerationsAndBestPath(t *testing.T) {
	s := openTestStore(t)
	id, _ := s.BeginRun("ants", 9, "", started)

	if path, err := s.BestPath(id); err != nil || path != nil {
		t.Fatalf("expected no path yet, got %v, %v", path, err)
	}

	if err := s.SaveGeneration(id, telemetry.AntStats{Generation: 1, Step: 1, Ants: 10}, nil); err != nil {
		t.Fatal(err)
	}
	best := []components.Pos{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 7, Y: 5}}
	g2 := telemetry.AntStats{Generation: 2, Step: 201, Ants: 10, Retained: 3, Completed: 4, BestLength: 3, OptimalLength: 3}
	if err := s.SaveGeneration(id, g2, best); err != nil {
		t.Fatal(err)
	}

	gens, err := s.Generations(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(gens) != 2 || gens[1].Retained != 3 || gens[1].BestLength != 3 {
		t.Errorf("unexpected generations %+v", gens)
	}

	path, err := s.BestPath(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(path) != len(best) {
		t.Fatalf("expected %d cells, got %v", len(best), path)
	}
	for i := range best {
		if path[i] != best[i] {
			t.Errorf("cell %d: got %v, want %v", i, path[i], best[i])
		}
	}
}
