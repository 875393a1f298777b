package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/components"
)

// PaintPalette is the set of tiles the editor can paint with and the
// current selection. Slot i is bound to number key i+1.
type PaintPalette struct {
	tiles    []components.Tile
	selected int
	active   bool
}

// NewPaintPalette returns the palette for a scenario. Ant maps only paint
// terrain; fox maps also place and clear markers.
func NewPaintPalette(mode string) *PaintPalette {
	tiles := []components.Tile{
		components.TerrainTile(components.Grass),
		components.TerrainTile(components.Forest),
		components.TerrainTile(components.Water),
		components.TerrainTile(components.Urban),
		components.TerrainTile(components.Path),
		components.TerrainTile(components.Building),
	}
	if mode != ModeAnt {
		tiles = append(tiles,
			components.MarkerTile(components.FoxDen),
			components.MarkerTile(components.RabbitDen),
			components.MarkerTile(components.Nothing),
		)
	}
	return &PaintPalette{tiles: tiles}
}

// Tiles returns the palette entries in slot order.
func (p *PaintPalette) Tiles() []components.Tile { return p.tiles }

// Selected returns the current tile.
func (p *PaintPalette) Selected() components.Tile { return p.tiles[p.selected] }

// SelectedIndex returns the current slot.
func (p *PaintPalette) SelectedIndex() int { return p.selected }

// Select picks slot i. Out-of-range slots are ignored.
func (p *PaintPalette) Select(i int) bool {
	if i < 0 || i >= len(p.tiles) {
		return false
	}
	p.selected = i
	return true
}

// Next advances the selection, wrapping at the end.
func (p *PaintPalette) Next() {
	p.selected = (p.selected + 1) % len(p.tiles)
}

// Active reports whether painting is enabled.
func (p *PaintPalette) Active() bool { return p.active }

// SetActive enables or disables painting.
func (p *PaintPalette) SetActive(on bool) { p.active = on }

// SlotForKey maps number keys 1..9 to palette slots.
func SlotForKey(key int32) (int, bool) {
	if key < rl.KeyOne || key > rl.KeyNine {
		return 0, false
	}
	return int(key - rl.KeyOne), true
}
