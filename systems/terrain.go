package systems

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/habitat/components"
)

// ErrGridMismatch is returned when the terrain and object layers do not
// describe the same rectangle.
var ErrGridMismatch = errors.New("grid layers mismatch")

// Grid holds the terrain layer and the object marker layer.
// Both layers are indexed [x][y].
type Grid struct {
	width   int
	height  int
	terrain [][]components.TerrainKind
	objects [][]components.ObjectKind

	// labels caches 8-connected fox-passable components, -1 for water.
	// nil when stale.
	labels []int32
}

// NewGrid validates and copies the two layers.
func NewGrid(terrain [][]components.TerrainKind, objects [][]components.ObjectKind) (*Grid, error) {
	w := len(terrain)
	if w == 0 || len(terrain[0]) == 0 {
		return nil, fmt.Errorf("empty terrain layer: %w", ErrGridMismatch)
	}
	h := len(terrain[0])
	if len(objects) != w {
		return nil, fmt.Errorf("object layer has %d columns, terrain has %d: %w", len(objects), w, ErrGridMismatch)
	}

	g := NewBlankGrid(w, h, components.Grass)
	for x := 0; x < w; x++ {
		if len(terrain[x]) != h {
			return nil, fmt.Errorf("terrain column %d has %d rows, want %d: %w", x, len(terrain[x]), h, ErrGridMismatch)
		}
		if len(objects[x]) != h {
			return nil, fmt.Errorf("object column %d has %d rows, want %d: %w", x, len(objects[x]), h, ErrGridMismatch)
		}
		copy(g.terrain[x], terrain[x])
		copy(g.objects[x], objects[x])
	}
	return g, nil
}

// NewBlankGrid creates a w×h grid filled with one terrain kind and no markers.
func NewBlankGrid(w, h int, fill components.TerrainKind) *Grid {
	terrain := make([][]components.TerrainKind, w)
	objects := make([][]components.ObjectKind, w)
	for x := range terrain {
		terrain[x] = make([]components.TerrainKind, h)
		objects[x] = make([]components.ObjectKind, h)
		if fill != 0 {
			for y := range terrain[x] {
				terrain[x][y] = fill
			}
		}
	}
	return &Grid{width: w, height: h, terrain: terrain, objects: objects}
}

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether p lies on the grid.
func (g *Grid) InBounds(p components.Pos) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.width && p.Y < g.height
}

// Clamp moves p onto the grid.
func (g *Grid) Clamp(p components.Pos) components.Pos {
	return components.Pos{X: clampI(p.X, 0, g.width-1), Y: clampI(p.Y, 0, g.height-1)}
}

// Terrain returns the terrain at p. p must be in bounds.
func (g *Grid) Terrain(p components.Pos) components.TerrainKind {
	return g.terrain[p.X][p.Y]
}

// Object returns the marker at p, or Nothing when out of bounds.
func (g *Grid) Object(p components.Pos) components.ObjectKind {
	if !g.InBounds(p) {
		return components.Nothing
	}
	return g.objects[p.X][p.Y]
}

// SetTerrain writes the terrain layer and invalidates connectivity.
func (g *Grid) SetTerrain(p components.Pos, k components.TerrainKind) {
	if !g.InBounds(p) {
		return
	}
	if g.terrain[p.X][p.Y] != k {
		g.terrain[p.X][p.Y] = k
		g.labels = nil
	}
}

// SetObject writes the marker layer.
func (g *Grid) SetObject(p components.Pos, k components.ObjectKind) {
	if g.InBounds(p) {
		g.objects[p.X][p.Y] = k
	}
}

// Apply paints a tile onto the layer it targets.
func (g *Grid) Apply(p components.Pos, t components.Tile) {
	switch t.Kind {
	case components.TileTerrain:
		g.SetTerrain(p, t.Terrain)
	case components.TileMarker:
		g.SetObject(p, t.Marker)
	}
}

// FoxPassable reports whether p is on the grid and not water.
func (g *Grid) FoxPassable(p components.Pos) bool {
	return g.InBounds(p) && g.terrain[p.X][p.Y].FoxPassable()
}

// AntPassable reports whether p is on the grid and a path cell.
func (g *Grid) AntPassable(p components.Pos) bool {
	return g.InBounds(p) && g.terrain[p.X][p.Y].AntPassable()
}

// Markers lists every cell carrying marker k, column by column.
func (g *Grid) Markers(k components.ObjectKind) []components.Pos {
	var out []components.Pos
	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			if g.objects[x][y] == k {
				out = append(out, components.Pos{X: x, Y: y})
			}
		}
	}
	return out
}

// Component returns the label of the 8-connected non-water region containing p,
// or -1 for water and out-of-bounds cells.
func (g *Grid) Component(p components.Pos) int {
	if !g.InBounds(p) {
		return -1
	}
	if g.labels == nil {
		g.buildLabels()
	}
	return int(g.labels[g.index(p)])
}

// Connected reports whether a fox can walk from a to b without crossing water.
func (g *Grid) Connected(a, b components.Pos) bool {
	la := g.Component(a)
	return la >= 0 && la == g.Component(b)
}

func (g *Grid) index(p components.Pos) int {
	return p.X*g.height + p.Y
}

// buildLabels flood-fills every passable region.
func (g *Grid) buildLabels() {
	labels := make([]int32, g.width*g.height)
	for i := range labels {
		labels[i] = -2 // unvisited
	}

	var next int32
	queue := make([]components.Pos, 0, 256)
	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			start := components.Pos{X: x, Y: y}
			i := g.index(start)
			if labels[i] != -2 {
				continue
			}
			if !g.terrain[x][y].FoxPassable() {
				labels[i] = -1
				continue
			}

			labels[i] = next
			queue = append(queue[:0], start)
			for len(queue) > 0 {
				cur := queue[0]
				queue = queue[1:]
				for _, d := range components.Neighbors8 {
					n := cur.Add(d.X, d.Y)
					if !g.InBounds(n) {
						continue
					}
					j := g.index(n)
					if labels[j] != -2 {
						continue
					}
					if !g.terrain[n.X][n.Y].FoxPassable() {
						labels[j] = -1
						continue
					}
					labels[j] = next
					queue = append(queue, n)
				}
			}
			next++
		}
	}
	g.labels = labels
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
