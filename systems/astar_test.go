package systems

import (
	"testing"

	"github.com/pthm-cable/habitat/components"
)

// TestPathPlannerStraightLine verifies the planner walks a corridor end to end.
func TestPathPlannerStraightLine(t *testing.T) {
	nodes := NewNodeField(corridor(12), testConfig().Ants.Node)
	planner := NewPathPlanner(nodes)

	path := planner.ShortestPath(components.Pos{X: 0}, components.Pos{X: 11})
	if len(path) != 12 {
		t.Fatalf("Expected 12 cells, got %d", len(path))
	}
	for i, p := range path {
		if p.X != i {
			t.Errorf("Cell %d is %v", i, p)
		}
	}
}

// TestPathPlannerAroundWall verifies the planner detours around buildings.
func TestPathPlannerAroundWall(t *testing.T) {
	g := NewBlankGrid(9, 9, components.Path)
	// Wall at x=4 with a gap at y=8
	for y := 0; y < 8; y++ {
		g.SetTerrain(components.Pos{X: 4, Y: y}, components.Building)
	}
	nodes := NewNodeField(g, testConfig().Ants.Node)
	planner := NewPathPlanner(nodes)

	start, goal := components.Pos{X: 0, Y: 0}, components.Pos{X: 8, Y: 0}
	path := planner.ShortestPath(start, goal)
	if path == nil {
		t.Fatal("Expected path around the wall, got nil")
	}
	// 8 down, 8 across, 8 up
	if len(path) != 25 {
		t.Errorf("Expected 25 cells, got %d", len(path))
	}
	for i, p := range path {
		if !g.AntPassable(p) {
			t.Errorf("Cell %d at %v is not a path", i, p)
		}
		if i > 0 && p.Manhattan(path[i-1]) != 1 {
			t.Errorf("Cells %v and %v are not adjacent", path[i-1], p)
		}
	}
}

// TestPathPlannerNoPath verifies nil is returned for unreachable goals.
func TestPathPlannerNoPath(t *testing.T) {
	g := corridor(7)
	g.SetTerrain(components.Pos{X: 3}, components.Building)
	planner := NewPathPlanner(NewNodeField(g, testConfig().Ants.Node))

	if path := planner.ShortestPath(components.Pos{X: 0}, components.Pos{X: 6}); path != nil {
		t.Errorf("Expected nil path, got %v", path)
	}
	if n := planner.ShortestLength(components.Pos{X: 0}, components.Pos{X: 3}); n != 0 {
		t.Errorf("Expected 0 for a building goal, got %d", n)
	}
	if n := planner.ShortestLength(components.Pos{X: 1}, components.Pos{X: 1}); n != 1 {
		t.Errorf("Expected single-cell path, got %d", n)
	}
}

// TestPathPlannerReuse verifies searches do not leak state into each other.
func TestPathPlannerReuse(t *testing.T) {
	planner := NewPathPlanner(NewNodeField(corridor(10), testConfig().Ants.Node))
	for i := 0; i < 3; i++ {
		if n := planner.ShortestLength(components.Pos{X: 9}, components.Pos{X: 2}); n != 8 {
			t.Fatalf("Search %d: expected 8 cells, got %d", i, n)
		}
	}
}
