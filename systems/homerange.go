package systems

import (
	"math"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
)

// HomeRangeAxes derives the semi-axes of a home-range ellipse from a drawn
// radius and axis ratio. The small axis is at least one cell; a non-positive
// ratio falls back to a circle.
func HomeRangeAxes(radius, ratio float64) (small, large float64) {
	if ratio <= 0 {
		ratio = 1
	}
	small = max(radius/(0.5+ratio), 1)
	large = small / ratio
	return small, large
}

// EllipseOffsets enumerates the integer offsets (x, y) with x²/a² + y²/b² ≤ 1.
// a spans the x axis and b the y axis. Degenerate axes yield only the origin.
func EllipseOffsets(a, b float64) []components.Pos {
	if a <= 0 || b <= 0 || math.IsInf(a, 0) || math.IsInf(b, 0) {
		return []components.Pos{{}}
	}
	ax := int(math.Floor(a))
	by := int(math.Floor(b))
	a2, b2 := a*a, b*b

	out := make([]components.Pos, 0, (2*ax+1)*(2*by+1))
	for x := -ax; x <= ax; x++ {
		for y := -by; y <= by; y++ {
			if float64(x*x)/a2+float64(y*y)/b2 <= 1+1e-9 {
				out = append(out, components.Pos{X: x, Y: y})
			}
		}
	}
	return out
}

// HomeRangeFromAxes intersects the ellipse around den with the cells reachable
// from den without crossing water. A water den yields an empty home range.
func HomeRangeFromAxes(g *Grid, den components.Pos, a, b float64) components.HomeRange {
	label := g.Component(den)
	if label < 0 {
		return components.NewHomeRange(nil)
	}
	offsets := EllipseOffsets(a, b)
	cells := make([]components.Pos, 0, len(offsets))
	for _, off := range offsets {
		p := den.Add(off.X, off.Y)
		if g.Component(p) == label {
			cells = append(cells, p)
		}
	}
	return components.NewHomeRange(cells)
}

// GenerateHomeRange draws a size and ratio, orients the ellipse along a random
// grid axis, and clips it to the den's reachable region.
func GenerateHomeRange(g *Grid, den components.Pos, s *Sampler, cfg config.HomeRangeConfig) components.HomeRange {
	radius := s.Draw(cfg.Size)
	ratio := s.Draw(cfg.AxisRatio)
	small, large := HomeRangeAxes(radius, ratio)
	if s.Chance(0.5) {
		small, large = large, small
	}
	return HomeRangeFromAxes(g, den, small, large)
}
