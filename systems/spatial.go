// Package systems provides the simulation core: terrain, agents and their managers.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/habitat/components"
)

// Occupancy indexes entities by grid cell.
// It is rebuilt from a snapshot at the start of a tick and not updated
// while agents move, so every agent sees the same tick-start state.
type Occupancy struct {
	width  int
	height int
	cells  [][]ecs.Entity // flat grid of entity lists, x*height+y
	count  int
}

// NewOccupancy creates an empty index covering a w×h grid.
func NewOccupancy(w, h int) *Occupancy {
	return &Occupancy{
		width:  w,
		height: h,
		cells:  make([][]ecs.Entity, w*h),
	}
}

// Clear removes all entities from the index.
func (o *Occupancy) Clear() {
	for i := range o.cells {
		o.cells[i] = o.cells[i][:0]
	}
	o.count = 0
}

// Insert records e at p. Off-grid positions are ignored.
func (o *Occupancy) Insert(e ecs.Entity, p components.Pos) {
	if idx, ok := o.index(p); ok {
		o.cells[idx] = append(o.cells[idx], e)
		o.count++
	}
}

// Len returns the number of indexed entities.
func (o *Occupancy) Len() int { return o.count }

// At returns the entities recorded at p. The slice is owned by the index.
func (o *Occupancy) At(p components.Pos) []ecs.Entity {
	if idx, ok := o.index(p); ok {
		return o.cells[idx]
	}
	return nil
}

// AnyInBox reports whether any entity lies within Chebyshev distance r of center.
func (o *Occupancy) AnyInBox(center components.Pos, r int) bool {
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			if len(o.At(center.Add(dx, dy))) > 0 {
				return true
			}
		}
	}
	return false
}

// QueryBoxInto appends every entity within Chebyshev distance r of center to dst.
func (o *Occupancy) QueryBoxInto(dst []ecs.Entity, center components.Pos, r int) []ecs.Entity {
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			dst = append(dst, o.At(center.Add(dx, dy))...)
		}
	}
	return dst
}

func (o *Occupancy) index(p components.Pos) (int, bool) {
	if p.X < 0 || p.Y < 0 || p.X >= o.width || p.Y >= o.height {
		return 0, false
	}
	return p.X*o.height + p.Y, true
}
