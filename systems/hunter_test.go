package systems

import (
	"slices"
	"testing"
	"time"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
)

func hunterGrid() *Grid {
	g := NewBlankGrid(30, 30, components.Grass)
	g.SetObject(components.Pos{X: 10, Y: 10}, components.FoxDen)
	return g
}

func view(id components.FoxID, pos components.Pos, pregnant bool) FoxView {
	return FoxView{Fox: components.Fox{ID: id, Position: pos, Pregnant: pregnant}}
}

func TestHuntingCells(t *testing.T) {
	g := hunterGrid()
	g.SetTerrain(components.Pos{X: 9, Y: 9}, components.Water)

	cells := HuntingCells(g, 3)
	if len(cells) != 49-1 {
		t.Fatalf("expected 48 cells, got %d", len(cells))
	}
	for _, c := range cells {
		if c.Chebyshev(components.Pos{X: 10, Y: 10}) > 3 {
			t.Errorf("cell %v too far from den", c)
		}
		if c == (components.Pos{X: 9, Y: 9}) {
			t.Error("water cell listed as huntable")
		}
	}
}

func TestExcursionTargetsMother(t *testing.T) {
	h := NewHunter(hunterGrid(), testConfig().Hunter, NewSampler(1))
	h.Position = components.Pos{X: 10, Y: 10}

	foxes := []FoxView{
		view(1, components.Pos{X: 10, Y: 10}, true),
		view(2, components.Pos{X: 11, Y: 9}, false),
		view(3, components.Pos{X: 13, Y: 13}, false),
		view(4, components.Pos{X: 20, Y: 20}, false),
	}

	victims := h.Excursion(foxes, 3, true)
	if len(victims) != 3 {
		t.Fatalf("expected 3 victims, got %v", victims)
	}
	if victims[0] != 1 {
		t.Errorf("expected the pregnant fox shot first, got %v", victims)
	}
	if slices.Contains(victims, 4) {
		t.Error("fox outside the scan box was shot")
	}
	if !slices.Contains(h.LegalCells(), h.Position) {
		t.Errorf("hunter relocated to illegal cell %v", h.Position)
	}
}

func TestExcursionWithoutTargetSparesMothers(t *testing.T) {
	h := NewHunter(hunterGrid(), testConfig().Hunter, NewSampler(2))
	h.Position = components.Pos{X: 10, Y: 10}

	foxes := []FoxView{
		view(1, components.Pos{X: 10, Y: 10}, true),
		view(2, components.Pos{X: 10, Y: 11}, false),
	}
	victims := h.Excursion(foxes, 5, false)
	if len(victims) != 1 || victims[0] != 2 {
		t.Errorf("expected only fox 2, got %v", victims)
	}
}

func TestHuntZeroKillsKeepsPosition(t *testing.T) {
	cfg := testConfig().Hunter
	cfg.ShootingRate = config.Fixed(0)
	cfg.ExcursionsPerYear = 276 // every legal day

	h := NewHunter(hunterGrid(), cfg, NewSampler(3))
	start := h.Position
	foxes := []FoxView{view(1, start, false)}

	if got := h.Hunt(at(2020, time.January, 5, 8), foxes); got != nil {
		t.Errorf("expected no victims, got %v", got)
	}
	if h.Position != start {
		t.Errorf("hunter moved from %v to %v", start, h.Position)
	}
	// Days 5-90 and 180-365 remain open; day 5 itself is consumed.
	sched := h.Schedule()
	if len(sched) != 271 || slices.Contains(sched, 5) {
		t.Errorf("expected day 5 consumed, %d days left", len(sched))
	}
}

func TestHuntOffSeason(t *testing.T) {
	cfg := testConfig().Hunter
	cfg.ShootingRate = config.Fixed(2)
	cfg.ExcursionsPerYear = 276

	h := NewHunter(hunterGrid(), cfg, NewSampler(4))
	// June is closed season.
	if got := h.Hunt(at(2020, time.June, 10, 8), []FoxView{view(1, h.Position, false)}); got != nil {
		t.Errorf("expected no hunt in closed season, got %v", got)
	}
	// Only the autumn season, days 180-365, is still ahead.
	if len(h.Schedule()) != 186 {
		t.Errorf("closed-season day should not consume the schedule, %d days left", len(h.Schedule()))
	}
}

func TestHuntingSchedule(t *testing.T) {
	cfg := testConfig().Hunter
	h := NewHunter(hunterGrid(), cfg, NewSampler(5))
	h.Hunt(at(2021, time.July, 1, 8), nil)

	sched := h.Schedule()
	// July 1 may itself have been drawn and consumed.
	if len(sched) < cfg.ExcursionsPerYear-1 || len(sched) > cfg.ExcursionsPerYear {
		t.Fatalf("expected about %d days, got %d", cfg.ExcursionsPerYear, len(sched))
	}
	if !slices.IsSorted(sched) {
		t.Error("schedule not sorted")
	}
	for i, d := range sched {
		if d > cfg.SeasonEndDay && d < cfg.SeasonStartDay {
			t.Errorf("day %d falls in closed season", d)
		}
		if i > 0 && sched[i-1] == d {
			t.Errorf("day %d repeated", d)
		}
		if d < 182 {
			t.Errorf("day %d is already behind July 1", d)
		}
	}
}

func TestHuntingScheduleSkipsPastDays(t *testing.T) {
	cfg := testConfig().Hunter
	h := NewHunter(hunterGrid(), cfg, NewSampler(6))
	// The driver's first daily hunt falls on Jan 2, after the first clock advance.
	h.Hunt(at(2020, time.January, 2, 0), nil)

	sched := h.Schedule()
	if len(sched) < cfg.ExcursionsPerYear-1 {
		t.Fatalf("expected about %d reachable days, got %d", cfg.ExcursionsPerYear, len(sched))
	}
	for _, d := range sched {
		if d < 2 {
			t.Errorf("day %d can no longer be reached", d)
		}
	}
}
