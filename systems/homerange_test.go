package systems

import (
	"testing"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
)

func circleSet(center components.Pos, r2 int) map[components.Pos]bool {
	want := map[components.Pos]bool{}
	for x := -10; x <= 10; x++ {
		for y := -10; y <= 10; y++ {
			if x*x+y*y <= r2 {
				want[center.Add(x, y)] = true
			}
		}
	}
	return want
}

func TestHomeRangeCircleScenario(t *testing.T) {
	g := NewBlankGrid(30, 30, components.Grass)
	den := components.Pos{X: 10, Y: 10}

	hr := HomeRangeFromAxes(g, den, 4, 4)
	want := circleSet(den, 16)

	if hr.Len() != len(want) {
		t.Fatalf("expected %d cells, got %d", len(want), hr.Len())
	}
	for _, c := range hr.Cells() {
		if !want[c] {
			t.Errorf("unexpected cell %v", c)
		}
	}
}

func TestGenerateHomeRangeCircle(t *testing.T) {
	// Radius 6 and ratio 1 give semi-axes 6/1.5 = 4.
	g := NewBlankGrid(30, 30, components.Grass)
	den := components.Pos{X: 10, Y: 10}
	cfg := config.HomeRangeConfig{Size: config.Fixed(6), AxisRatio: config.Fixed(1)}

	hr := GenerateHomeRange(g, den, NewSampler(1), cfg)
	want := circleSet(den, 16)
	if hr.Len() != len(want) {
		t.Fatalf("expected %d cells, got %d", len(want), hr.Len())
	}
	for c := range want {
		if !hr.Contains(c) {
			t.Errorf("missing cell %v", c)
		}
	}
}

func TestHomeRangeInsideEllipseAndReachable(t *testing.T) {
	// A river with one ford splits the map; a lake sits next to the dens.
	g := NewBlankGrid(40, 40, components.Grass)
	for y := 0; y < 40; y++ {
		if y != 5 {
			g.SetTerrain(components.Pos{X: 20, Y: y}, components.Water)
		}
	}
	for x := 12; x < 16; x++ {
		for y := 12; y < 16; y++ {
			g.SetTerrain(components.Pos{X: x, Y: y}, components.Water)
		}
	}

	cfg := testConfig().Fox.HomeRange
	dens := []components.Pos{{X: 18, Y: 18}, {X: 22, Y: 20}, {X: 10, Y: 10}, {X: 19, Y: 6}, {X: 0, Y: 0}}
	s := NewSampler(2024)

	for _, den := range dens {
		legal := reachable(g, den)
		for trial := 0; trial < 25; trial++ {
			radius, ratio := s.Draw(cfg.Size), s.Draw(cfg.AxisRatio)
			small, large := HomeRangeAxes(radius, ratio)
			if s.Chance(0.5) {
				small, large = large, small
			}
			hr := HomeRangeFromAxes(g, den, small, large)
			if hr.Empty() {
				t.Fatalf("den %v: empty home range on dry land", den)
			}
			for _, c := range hr.Cells() {
				dx, dy := float64(c.X-den.X), float64(c.Y-den.Y)
				if dx*dx/(small*small)+dy*dy/(large*large) > 1+1e-9 {
					t.Errorf("den %v: cell %v outside ellipse (%.2f, %.2f)", den, c, small, large)
				}
				if !legal[c] {
					t.Errorf("den %v: cell %v not reachable without crossing water", den, c)
				}
			}
		}
	}
}

func TestHomeRangeWaterDenIsEmpty(t *testing.T) {
	g := NewBlankGrid(10, 10, components.Grass)
	den := components.Pos{X: 5, Y: 5}
	g.SetTerrain(den, components.Water)

	if hr := HomeRangeFromAxes(g, den, 3, 3); !hr.Empty() {
		t.Errorf("expected empty home range for water den, got %d cells", hr.Len())
	}
}

func TestHomeRangeAxesGuards(t *testing.T) {
	tests := []struct {
		name          string
		radius, ratio float64
		small, large  float64
	}{
		{"circle", 6, 1, 4, 4},
		{"zero radius", 0, 1, 1, 1},
		{"zero ratio", 6, 0, 4, 4},
		{"ellipse", 6, 0.5, 6, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			small, large := HomeRangeAxes(tt.radius, tt.ratio)
			if small != tt.small || large != tt.large {
				t.Errorf("got (%v, %v), want (%v, %v)", small, large, tt.small, tt.large)
			}
		})
	}
}

func TestHomeRangeNearest(t *testing.T) {
	hr := components.NewHomeRange([]components.Pos{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 5, Y: 5}})
	if hr.Len() != 2 {
		t.Errorf("duplicates should be dropped, got %d cells", hr.Len())
	}
	if got, ok := hr.Nearest(components.Pos{X: 4, Y: 6}); !ok || got != (components.Pos{X: 5, Y: 5}) {
		t.Errorf("expected nearest (5,5), got %v", got)
	}
	if _, ok := components.NewHomeRange(nil).Nearest(components.Pos{}); ok {
		t.Error("empty home range should report no nearest cell")
	}
}
