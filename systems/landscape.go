package systems

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
)

// GenerateFoxLandscape builds a w×h terrain from layered simplex noise and
// scatters fox dens and rabbit dens on dry land.
func GenerateFoxLandscape(w, h int, cfg config.LandscapeConfig, seed int64, s *Sampler) *Grid {
	g := NewBlankGrid(w, h, components.Grass)
	elev := opensimplex.NewNormalized(seed)

	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			v := octaveNoise(elev, float64(x), float64(y), cfg.Octaves, cfg.NoiseScale, 0.5)
			var k components.TerrainKind
			switch {
			case v < cfg.WaterLevel:
				k = components.Water
			case v < cfg.ForestLevel:
				k = components.Grass
			case v < cfg.UrbanLevel:
				k = components.Forest
			default:
				k = components.Urban
			}
			g.SetTerrain(components.Pos{X: x, Y: y}, k)
		}
	}

	isLand := func(k components.TerrainKind) bool {
		return k == components.Grass || k == components.Forest
	}
	placeMarkers(g, components.FoxDen, cfg.FoxDens, cfg.DenSpacing, isLand, s)
	placeMarkers(g, components.RabbitDen, cfg.RabbitDens, max(cfg.DenSpacing/2, 2), isLand, s)
	return g
}

// GenerateAntLandscape builds a grid of buildings crossed by path corridors.
// A corridor through a random waypoint always joins source to destination;
// extra corridors branch off existing path cells.
func GenerateAntLandscape(w, h int, colony config.ColonyConfig, cfg config.LandscapeConfig, s *Sampler) *Grid {
	g := NewBlankGrid(w, h, components.Building)
	src := g.Clamp(components.Pos{X: colony.Source[0], Y: colony.Source[1]})
	dst := g.Clamp(components.Pos{X: colony.Destination[0], Y: colony.Destination[1]})

	via := components.Pos{X: s.IntN(w), Y: s.IntN(h)}
	carveCorridor(g, src, via, s)
	carveCorridor(g, via, dst, s)

	paths := []components.Pos{}
	for i := 0; i < cfg.Corridors; i++ {
		paths = paths[:0]
		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				if p := (components.Pos{X: x, Y: y}); g.AntPassable(p) {
					paths = append(paths, p)
				}
			}
		}
		from := paths[s.IntN(len(paths))]
		to := components.Pos{X: s.IntN(w), Y: s.IntN(h)}
		carveCorridor(g, from, to, s)
	}
	return g
}

// carveCorridor paints an L-shaped path between a and b, horizontal or
// vertical leg first at random.
func carveCorridor(g *Grid, a, b components.Pos, s *Sampler) {
	corner := components.Pos{X: b.X, Y: a.Y}
	if s.Chance(0.5) {
		corner = components.Pos{X: a.X, Y: b.Y}
	}
	carveLine(g, a, corner)
	carveLine(g, corner, b)
}

func carveLine(g *Grid, a, b components.Pos) {
	dx, dy := sign(b.X-a.X), sign(b.Y-a.Y)
	for p := a; ; p = p.Add(dx, dy) {
		g.SetTerrain(p, components.Path)
		if p == b {
			return
		}
	}
}

// placeMarkers drops up to n markers on cells accepted by ok, keeping them at
// least spacing apart (Chebyshev). Gives up after a bounded number of tries.
func placeMarkers(g *Grid, kind components.ObjectKind, n, spacing int, ok func(components.TerrainKind) bool, s *Sampler) []components.Pos {
	var placed []components.Pos
	for attempt := 0; attempt < n*200 && len(placed) < n; attempt++ {
		p := components.Pos{X: s.IntN(g.Width()), Y: s.IntN(g.Height())}
		if !ok(g.Terrain(p)) || g.Object(p) != components.Nothing {
			continue
		}
		tooClose := false
		for _, q := range placed {
			if p.Chebyshev(q) < spacing {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}
		g.SetObject(p, kind)
		placed = append(placed, p)
	}
	return placed
}

// octaveNoise sums octaves of normalized simplex noise into [0, 1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < max(octaves, 1); i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
