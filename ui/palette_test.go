package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/components"
)

func TestPaintPaletteByMode(t *testing.T) {
	fox := NewPaintPalette(ModeFox)
	ant := NewPaintPalette(ModeAnt)

	if len(fox.Tiles()) <= len(ant.Tiles()) {
		t.Fatalf("fox palette (%d) should include markers beyond the ant palette (%d)", len(fox.Tiles()), len(ant.Tiles()))
	}
	for _, tile := range ant.Tiles() {
		if tile.Kind != components.TileTerrain {
			t.Errorf("ant palette should only paint terrain, got %s", tile)
		}
	}
	if got := fox.Selected(); got != components.TerrainTile(components.Grass) {
		t.Errorf("default selection = %s, want grass", got)
	}
}

func TestPaintPaletteSelection(t *testing.T) {
	p := NewPaintPalette(ModeAnt)
	n := len(p.Tiles())

	if !p.Select(4) || p.Selected() != components.TerrainTile(components.Path) {
		t.Errorf("slot 4 should be path, got %s", p.Selected())
	}
	if p.Select(n) || p.Select(-1) {
		t.Error("out-of-range slots should be rejected")
	}
	if p.SelectedIndex() != 4 {
		t.Errorf("rejected select changed the slot to %d", p.SelectedIndex())
	}

	p.Select(n - 1)
	p.Next()
	if p.SelectedIndex() != 0 {
		t.Errorf("Next should wrap, got slot %d", p.SelectedIndex())
	}
}

func TestSlotForKey(t *testing.T) {
	tests := []struct {
		key  int32
		slot int
		ok   bool
	}{
		{rl.KeyOne, 0, true},
		{rl.KeyFive, 4, true},
		{rl.KeyNine, 8, true},
		{rl.KeyZero, 0, false},
		{rl.KeyA, 0, false},
	}
	for _, tt := range tests {
		slot, ok := SlotForKey(tt.key)
		if ok != tt.ok || (ok && slot != tt.slot) {
			t.Errorf("SlotForKey(%d) = (%d, %v), want (%d, %v)", tt.key, slot, ok, tt.slot, tt.ok)
		}
	}
}
