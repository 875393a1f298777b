package systems

import (
	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
)

// DispersalCandidates searches breadth-first from start, at most maxSteps
// king moves and never through water, for fox dens other than ownDen.
// Candidates are returned in discovery order.
func DispersalCandidates(g *Grid, start, ownDen components.Pos, maxSteps int) []components.Pos {
	if !g.FoxPassable(start) || maxSteps <= 0 {
		return nil
	}

	type node struct {
		p     components.Pos
		depth int
	}
	visited := make([]bool, g.Width()*g.Height())
	visited[g.index(start)] = true
	queue := []node{{p: start}}

	var out []components.Pos
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.p != ownDen && g.Object(cur.p) == components.FoxDen {
			out = append(out, cur.p)
		}
		if cur.depth == maxSteps {
			continue
		}
		for _, d := range components.Neighbors8 {
			n := cur.p.Add(d.X, d.Y)
			if !g.FoxPassable(n) {
				continue
			}
			i := g.index(n)
			if visited[i] {
				continue
			}
			visited[i] = true
			queue = append(queue, node{p: n, depth: cur.depth + 1})
		}
	}
	return out
}

// ChooseDen picks one candidate weighted by the inverse of its Euclidean
// distance from origin. Returns false when there are no candidates.
func ChooseDen(origin components.Pos, candidates []components.Pos, s *Sampler) (components.Pos, bool) {
	if len(candidates) == 0 {
		return origin, false
	}
	weights := make([]float64, len(candidates))
	for i, c := range candidates {
		d := origin.Dist(c)
		if d < 1 {
			d = 1
		}
		weights[i] = 1 / d
	}
	idx := s.WeightedIndex(weights)
	if idx < 0 {
		return origin, false
	}
	return candidates[idx], true
}

// DispersalDay draws the day of year a newborn will try to disperse.
func DispersalDay(s *Sampler, cfg config.DispersalConfig) int {
	d := cfg.AnchorDay + s.DrawInt(cfg.DayOffset)
	return ((d-1)%365+365)%365 + 1
}

// DispersalDistance draws the search radius for a newborn of the given sex.
func DispersalDistance(sex components.Sex, s *Sampler, cfg config.DispersalConfig) float64 {
	if sex == components.Female {
		return s.Draw(cfg.FemaleDistance)
	}
	return s.Draw(cfg.MaleDistance)
}
