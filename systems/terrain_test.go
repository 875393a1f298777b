package systems

import (
	"errors"
	"testing"

	"github.com/pthm-cable/habitat/components"
)

func TestNewGridRejectsMismatchedLayers(t *testing.T) {
	terrain := [][]components.TerrainKind{{0, 0}, {0, 0}}
	tests := []struct {
		name    string
		terrain [][]components.TerrainKind
		objects [][]components.ObjectKind
	}{
		{"empty", nil, nil},
		{"column count", terrain, [][]components.ObjectKind{{0, 0}}},
		{"ragged objects", terrain, [][]components.ObjectKind{{0, 0}, {0}}},
		{"ragged terrain", [][]components.TerrainKind{{0, 0}, {0}}, [][]components.ObjectKind{{0, 0}, {0, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid(tt.terrain, tt.objects)
			if !errors.Is(err, ErrGridMismatch) {
				t.Errorf("expected ErrGridMismatch, got %v", err)
			}
		})
	}
}

func TestNewGridCopiesLayers(t *testing.T) {
	terrain := [][]components.TerrainKind{{components.Grass, components.Water}, {components.Forest, components.Path}}
	objects := [][]components.ObjectKind{{components.Nothing, components.Nothing}, {components.FoxDen, components.Nothing}}
	g, err := NewGrid(terrain, objects)
	if err != nil {
		t.Fatal(err)
	}
	terrain[0][0] = components.Water

	if g.Width() != 2 || g.Height() != 2 {
		t.Errorf("expected 2x2, got %dx%d", g.Width(), g.Height())
	}
	if g.Terrain(components.Pos{X: 0, Y: 0}) != components.Grass {
		t.Error("grid shares memory with caller's terrain layer")
	}
	if g.Object(components.Pos{X: 1, Y: 0}) != components.FoxDen {
		t.Error("expected fox den at (1,0)")
	}
}

func TestComponentSplitsOnWater(t *testing.T) {
	g := NewBlankGrid(7, 3, components.Grass)
	for y := 0; y < 3; y++ {
		g.SetTerrain(components.Pos{X: 3, Y: y}, components.Water)
	}
	left, right := components.Pos{X: 0, Y: 1}, components.Pos{X: 6, Y: 1}

	if g.Connected(left, right) {
		t.Error("cells across a water column should not be connected")
	}
	if g.Component(components.Pos{X: 3, Y: 0}) != -1 {
		t.Error("water cell should have no component")
	}

	// Painting a bridge through Apply invalidates the cached labels.
	g.Apply(components.Pos{X: 3, Y: 1}, components.TerrainTile(components.Grass))
	if !g.Connected(left, right) {
		t.Error("bridge should connect both sides")
	}
}

func TestDiagonalConnectivity(t *testing.T) {
	// Two land cells touching only at a corner are 8-connected.
	g := NewBlankGrid(2, 2, components.Water)
	g.SetTerrain(components.Pos{X: 0, Y: 0}, components.Grass)
	g.SetTerrain(components.Pos{X: 1, Y: 1}, components.Grass)
	if !g.Connected(components.Pos{X: 0, Y: 0}, components.Pos{X: 1, Y: 1}) {
		t.Error("diagonal neighbours should be connected")
	}
}

func TestApplyMarkerTile(t *testing.T) {
	g := NewBlankGrid(3, 3, components.Grass)
	p := components.Pos{X: 1, Y: 2}
	g.Apply(p, components.MarkerTile(components.RabbitDen))

	if g.Object(p) != components.RabbitDen {
		t.Errorf("expected rabbit den, got %v", g.Object(p))
	}
	if g.Terrain(p) != components.Grass {
		t.Error("marker tile must not touch the terrain layer")
	}
	if got := g.Markers(components.RabbitDen); len(got) != 1 || got[0] != p {
		t.Errorf("expected markers [%v], got %v", p, got)
	}
}

func TestPassability(t *testing.T) {
	g := NewBlankGrid(2, 1, components.Path)
	g.SetTerrain(components.Pos{X: 1}, components.Water)

	if !g.AntPassable(components.Pos{X: 0}) || !g.FoxPassable(components.Pos{X: 0}) {
		t.Error("path should be passable for both")
	}
	if g.FoxPassable(components.Pos{X: 1}) || g.AntPassable(components.Pos{X: 1}) {
		t.Error("water should be impassable for both")
	}
	if g.FoxPassable(components.Pos{X: -1}) {
		t.Error("off-grid cells are impassable")
	}
}
