package systems

import (
	"testing"
	"time"

	"github.com/pthm-cable/habitat/components"
)

func TestGenerateFoxLandscapeMarkersOnLand(t *testing.T) {
	cfg := testConfig().Landscape
	g := GenerateFoxLandscape(80, 80, cfg, 5, NewSampler(5))

	dens := g.Markers(components.FoxDen)
	if len(dens) == 0 || len(dens) > cfg.FoxDens {
		t.Fatalf("expected 1..%d fox dens, got %d", cfg.FoxDens, len(dens))
	}
	for i, a := range dens {
		if k := g.Terrain(a); k != components.Grass && k != components.Forest {
			t.Errorf("fox den %v on %v", a, k)
		}
		for _, b := range dens[i+1:] {
			if a.Chebyshev(b) < cfg.DenSpacing {
				t.Errorf("dens %v and %v closer than %d", a, b, cfg.DenSpacing)
			}
		}
	}
	for _, r := range g.Markers(components.RabbitDen) {
		if k := g.Terrain(r); k != components.Grass && k != components.Forest {
			t.Errorf("rabbit den %v on %v", r, k)
		}
	}
}

func TestGenerateFoxLandscapeDeterministic(t *testing.T) {
	cfg := testConfig().Landscape
	a := GenerateFoxLandscape(40, 40, cfg, 9, NewSampler(9))
	b := GenerateFoxLandscape(40, 40, cfg, 9, NewSampler(9))
	for x := 0; x < 40; x++ {
		for y := 0; y < 40; y++ {
			p := components.Pos{X: x, Y: y}
			if a.Terrain(p) != b.Terrain(p) || a.Object(p) != b.Object(p) {
				t.Fatalf("cell %v differs between identical seeds", p)
			}
		}
	}
}

func TestGenerateAntLandscapeJoinsEndpoints(t *testing.T) {
	cfg := testConfig()
	colony := cfg.Ants.Colony
	for seed := uint64(1); seed <= 10; seed++ {
		g := GenerateAntLandscape(cfg.World.Width, cfg.World.Height, colony, cfg.Landscape, NewSampler(seed))
		src := components.Pos{X: colony.Source[0], Y: colony.Source[1]}
		dst := components.Pos{X: colony.Destination[0], Y: colony.Destination[1]}

		planner := NewPathPlanner(NewNodeField(g, cfg.Ants.Node))
		if planner.ShortestPath(src, dst) == nil {
			t.Errorf("seed %d: no path between colony endpoints", seed)
		}
		if g.Terrain(components.Pos{X: 0, Y: cfg.World.Height - 1}) == components.Water {
			t.Errorf("seed %d: ant landscape should have no water", seed)
		}
	}
}

func TestClockCalendar(t *testing.T) {
	cfg := testConfig().Clock
	c := NewClock(cfg)
	if !c.Now().Equal(time.Date(cfg.StartYear, time.Month(cfg.StartMonth), cfg.StartDay, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %v", c.Now())
	}
	if !c.NewDay() || !c.NewMonth() {
		t.Error("start instant is midnight on the first of the month")
	}

	for i := 0; i < 24*31; i++ {
		c.Advance()
	}
	if c.Day() != 31 || c.Ticks() != 24*31 {
		t.Errorf("expected day 31 after %d ticks, got %d", c.Ticks(), c.Day())
	}
	if c.Now().Month() != time.February || !c.NewMonth() {
		t.Errorf("expected first hour of February, got %v", c.Now())
	}
}

func TestClockDayParts(t *testing.T) {
	cfg := testConfig().Clock
	c := NewClock(cfg)
	parts := map[int]DayPart{}
	for h := 0; h < 24; h++ {
		parts[c.Now().Hour()] = c.Part()
		c.Advance()
	}
	if parts[cfg.SunriseHour] != Dawn || parts[cfg.SunsetHour] != Dusk {
		t.Error("sunrise and sunset hours should be dawn and dusk")
	}
	if parts[cfg.SunriseHour+1] != Day || parts[0] != Night || parts[23] != Night {
		t.Errorf("unexpected day parts %v", parts)
	}
}

func TestFoodRefreshRespectsTerrain(t *testing.T) {
	cfg := testConfig().Food
	g := NewBlankGrid(20, 20, components.Grass)
	for y := 0; y < 20; y++ {
		g.SetTerrain(components.Pos{X: 0, Y: y}, components.Water)
		g.SetTerrain(components.Pos{X: 1, Y: y}, components.Urban)
	}
	food := NewFoodField(20, 20, 3, cfg)
	food.Refresh(4, g, NewSampler(3))

	for y := 0; y < 20; y++ {
		if v := food.At(components.Pos{X: 0, Y: y}); v != 0 {
			t.Errorf("water cell has food %v", v)
		}
		if v := food.At(components.Pos{X: 1, Y: y}); v > cfg.Max*cfg.UrbanFactor+1e-9 {
			t.Errorf("urban cell has food %v above %v", v, cfg.Max*cfg.UrbanFactor)
		}
		for x := 2; x < 20; x++ {
			if v := food.At(components.Pos{X: x, Y: y}); v < 0 || v > cfg.Max {
				t.Errorf("cell (%d,%d) food %v outside [0, %v]", x, y, v, cfg.Max)
			}
		}
	}
}

func TestWarrensReplenish(t *testing.T) {
	cfg := testConfig().Rabbits
	g := NewBlankGrid(10, 10, components.Grass)
	old := components.Pos{X: 2, Y: 2}
	g.SetObject(old, components.RabbitDen)
	w := NewWarrens(g, cfg)

	for w.Take(old) {
	}
	if w.Count(old) != 0 {
		t.Fatal("den should be empty")
	}

	fresh := components.Pos{X: 7, Y: 7}
	g.SetObject(fresh, components.RabbitDen)
	w.Replenish(g)
	if w.Count(old) != cfg.Replenish || w.Count(fresh) != cfg.Initial {
		t.Errorf("got old=%d fresh=%d", w.Count(old), w.Count(fresh))
	}

	for i := 0; i < 20; i++ {
		w.Replenish(g)
	}
	if w.Count(old) != cfg.Max {
		t.Errorf("expected cap %d, got %d", cfg.Max, w.Count(old))
	}

	g.SetObject(old, components.Nothing)
	w.Replenish(g)
	if w.Count(old) != 0 || w.Total() != cfg.Max {
		t.Error("erased den should be dropped")
	}
}
