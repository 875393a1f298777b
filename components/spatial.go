package components

import (
	"fmt"
	"math"
)

// Pos is an integer grid coordinate.
type Pos struct {
	X, Y int
}

// Add returns p offset by (dx, dy).
func (p Pos) Add(dx, dy int) Pos {
	return Pos{X: p.X + dx, Y: p.Y + dy}
}

// Dist returns the Euclidean distance between p and q.
func (p Pos) Dist(q Pos) float64 {
	return math.Sqrt(float64(p.Dist2(q)))
}

// Dist2 returns the squared Euclidean distance between p and q.
func (p Pos) Dist2(q Pos) int {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

// Chebyshev returns the king-move distance between p and q.
func (p Pos) Chebyshev(q Pos) int {
	return max(abs(p.X-q.X), abs(p.Y-q.Y))
}

// Manhattan returns the 4-connected step distance between p and q.
func (p Pos) Manhattan(q Pos) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Neighbors8 lists the king-move offsets.
var Neighbors8 = [8]Pos{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
