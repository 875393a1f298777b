package systems

import (
	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
)

// Direction indexes the four edges of a node.
type Direction uint8

const (
	Up Direction = iota
	Right
	Down
	Left
)

var directionOffsets = [4]components.Pos{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}

// Offset returns the grid step for d.
func (d Direction) Offset() components.Pos { return directionOffsets[d] }

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction { return (d + 2) % 4 }

// DirectionBetween returns the direction from a to an orthogonally adjacent b.
func DirectionBetween(a, b components.Pos) (Direction, bool) {
	for d, off := range directionOffsets {
		if a.Add(off.X, off.Y) == b {
			return Direction(d), true
		}
	}
	return 0, false
}

// Node is the per-cell capacity and pheromone state of the ant layer.
// Pheromone[d] is the trail on the edge leaving in direction d.
type Node struct {
	Capacity  int
	Spare     int
	Connected [4]bool
	Pheromone [4]float64
}

// Passable reports whether ants can ever stand here.
func (n *Node) Passable() bool { return n.Capacity > 0 }

// Strongest returns the largest edge trail.
func (n *Node) Strongest() float64 {
	return max(n.Pheromone[0], n.Pheromone[1], n.Pheromone[2], n.Pheromone[3])
}

// NodeField is a dense width×height array of nodes.
type NodeField struct {
	width    int
	height   int
	nodes    []Node
	capacity int
	maxSmell float64
}

// NewNodeField gives every path cell of g full capacity and links it to its
// orthogonal path neighbours.
func NewNodeField(g *Grid, cfg config.NodeConfig) *NodeField {
	nf := &NodeField{
		width:    g.Width(),
		height:   g.Height(),
		nodes:    make([]Node, g.Width()*g.Height()),
		capacity: cfg.Capacity,
		maxSmell: cfg.MaxSmell,
	}
	nf.Rebuild(g)
	return nf
}

// Rebuild recomputes capacity and connectivity from g, keeping trails on
// edges that still exist. Occupancy is reset.
func (nf *NodeField) Rebuild(g *Grid) {
	for x := 0; x < nf.width; x++ {
		for y := 0; y < nf.height; y++ {
			p := components.Pos{X: x, Y: y}
			n := &nf.nodes[nf.index(p)]
			if !g.AntPassable(p) {
				*n = Node{}
				continue
			}
			n.Capacity = nf.capacity
			n.Spare = nf.capacity
			for d := range directionOffsets {
				off := directionOffsets[d]
				n.Connected[d] = g.AntPassable(p.Add(off.X, off.Y))
				if !n.Connected[d] {
					n.Pheromone[d] = 0
				}
			}
		}
	}
}

// GridSize returns the field dimensions.
func (nf *NodeField) GridSize() (int, int) { return nf.width, nf.height }

// MaxSmell returns the pheromone ceiling.
func (nf *NodeField) MaxSmell() float64 { return nf.maxSmell }

// At returns the node at p, or nil off the grid.
func (nf *NodeField) At(p components.Pos) *Node {
	if p.X < 0 || p.Y < 0 || p.X >= nf.width || p.Y >= nf.height {
		return nil
	}
	return &nf.nodes[nf.index(p)]
}

// Acquire takes one unit of spare capacity at p.
func (nf *NodeField) Acquire(p components.Pos) bool {
	n := nf.At(p)
	if n == nil || n.Spare <= 0 {
		return false
	}
	n.Spare--
	return true
}

// Release returns one unit of capacity at p, never above the node's capacity.
func (nf *NodeField) Release(p components.Pos) {
	if n := nf.At(p); n != nil && n.Spare < n.Capacity {
		n.Spare++
	}
}

// Transfer moves one occupant from from to to. The move is denied when to
// has no spare capacity. On success the edge between the two cells, if they
// are adjacent, receives deposit.
func (nf *NodeField) Transfer(from, to components.Pos, deposit float64) bool {
	if !nf.Acquire(to) {
		return false
	}
	nf.Release(from)
	nf.Deposit(from, to, deposit)
	return true
}

// Deposit adds amount to the edge from→to, mirrored on the reverse edge.
// Non-adjacent pairs are ignored.
func (nf *NodeField) Deposit(from, to components.Pos, amount float64) {
	d, ok := DirectionBetween(from, to)
	if !ok || amount <= 0 {
		return
	}
	a, b := nf.At(from), nf.At(to)
	if a == nil || b == nil {
		return
	}
	a.Pheromone[d] = clampF(a.Pheromone[d]+amount, 0, nf.maxSmell)
	b.Pheromone[d.Opposite()] = clampF(b.Pheromone[d.Opposite()]+amount, 0, nf.maxSmell)
}

// Evaporate scales every trail by (1 - rate).
func (nf *NodeField) Evaporate(rate float64) {
	if rate <= 0 {
		return
	}
	keep := clampF(1-rate, 0, 1)
	for i := range nf.nodes {
		for d := range nf.nodes[i].Pheromone {
			nf.nodes[i].Pheromone[d] *= keep
		}
	}
}

// ResetOccupancy restores full spare capacity everywhere.
func (nf *NodeField) ResetOccupancy() {
	for i := range nf.nodes {
		nf.nodes[i].Spare = nf.nodes[i].Capacity
	}
}

// Occupied returns the number of occupied slots across the field.
func (nf *NodeField) Occupied() int {
	var n int
	for i := range nf.nodes {
		n += nf.nodes[i].Capacity - nf.nodes[i].Spare
	}
	return n
}

// Neighbors returns the connected orthogonal neighbours of p.
func (nf *NodeField) Neighbors(p components.Pos) []components.Pos {
	n := nf.At(p)
	if n == nil {
		return nil
	}
	out := make([]components.Pos, 0, 4)
	for d, ok := range n.Connected {
		if ok {
			off := directionOffsets[d]
			out = append(out, p.Add(off.X, off.Y))
		}
	}
	return out
}

func (nf *NodeField) index(p components.Pos) int {
	return p.X*nf.height + p.Y
}

// Trails returns the pheromone on every edge of the field, each edge once.
func (nf *NodeField) Trails() []float64 {
	out := make([]float64, 0, len(nf.nodes)*2)
	for i := range nf.nodes {
		n := &nf.nodes[i]
		if n.Connected[Right] {
			out = append(out, n.Pheromone[Right])
		}
		if n.Connected[Down] {
			out = append(out, n.Pheromone[Down])
		}
	}
	return out
}

// Load fills dst with each node's used share of its capacity, indexed like
// the grid. dst is reallocated when it has the wrong length.
func (nf *NodeField) Load(dst []float64) []float64 {
	if len(dst) != len(nf.nodes) {
		dst = make([]float64, len(nf.nodes))
	}
	for i := range nf.nodes {
		n := &nf.nodes[i]
		if n.Capacity == 0 {
			dst[i] = 0
			continue
		}
		dst[i] = float64(n.Capacity-n.Spare) / float64(n.Capacity)
	}
	return dst
}
