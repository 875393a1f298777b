package systems

import (
	"time"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
)

func init() {
	// Initialize config for tests
	config.MustInit("")
}

// testConfig returns a private copy of the defaults that tests may mutate.
func testConfig() *config.Config {
	return config.Default()
}

// corridor returns a 1-row path grid of length n.
func corridor(n int) *Grid {
	g := NewBlankGrid(n, 1, components.Building)
	for x := 0; x < n; x++ {
		g.SetTerrain(components.Pos{X: x}, components.Path)
	}
	return g
}

func at(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

// reachable is an independent 8-connected BFS from start over non-water cells.
func reachable(g *Grid, start components.Pos) map[components.Pos]bool {
	seen := map[components.Pos]bool{start: true}
	if !g.FoxPassable(start) {
		return map[components.Pos]bool{}
	}
	queue := []components.Pos{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				n := components.Pos{X: cur.X + dx, Y: cur.Y + dy}
				if seen[n] || !g.FoxPassable(n) {
					continue
				}
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return seen
}
