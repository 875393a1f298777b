package systems

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
)

// FoodField is the per-cell forage matrix. It is rebuilt once per simulated
// day from drifting simplex noise plus uniform jitter and depleted by feeding.
type FoodField struct {
	width, height int
	values        []float64
	noise         opensimplex.Noise
	cfg           config.FoodConfig
}

// NewFoodField creates an empty food matrix.
func NewFoodField(w, h int, seed int64, cfg config.FoodConfig) *FoodField {
	return &FoodField{
		width:  w,
		height: h,
		values: make([]float64, w*h),
		noise:  opensimplex.NewNormalized(seed),
		cfg:    cfg,
	}
}

// GridSize returns the matrix dimensions.
func (f *FoodField) GridSize() (int, int) { return f.width, f.height }

func (f *FoodField) index(p components.Pos) (int, bool) {
	if p.X < 0 || p.Y < 0 || p.X >= f.width || p.Y >= f.height {
		return 0, false
	}
	return p.X*f.height + p.Y, true
}

// At returns the forage at p, zero off the grid.
func (f *FoodField) At(p components.Pos) float64 {
	i, ok := f.index(p)
	if !ok {
		return 0
	}
	return f.values[i]
}

// Set overwrites the forage at p.
func (f *FoodField) Set(p components.Pos, v float64) {
	if i, ok := f.index(p); ok {
		f.values[i] = max(v, 0)
	}
}

// Consume takes up to limit units from p and returns the amount taken.
// When less than limit remains the cell is emptied.
func (f *FoodField) Consume(p components.Pos, limit float64) float64 {
	i, ok := f.index(p)
	if !ok || limit <= 0 {
		return 0
	}
	if f.values[i] < limit {
		taken := f.values[i]
		f.values[i] = 0
		return taken
	}
	f.values[i] -= limit
	return limit
}

// Refresh rebuilds the matrix for the given day index.
// Water holds no food; urban, path and building cells are scaled down.
func (f *FoodField) Refresh(day int, g *Grid, s *Sampler) {
	c := f.cfg
	t := float64(day) * c.DriftPerDay
	for x := 0; x < f.width; x++ {
		for y := 0; y < f.height; y++ {
			p := components.Pos{X: x, Y: y}
			i := x*f.height + y

			terrain := components.Grass
			if g != nil && g.InBounds(p) {
				terrain = g.Terrain(p)
			}
			if terrain == components.Water {
				f.values[i] = 0
				continue
			}

			n := f.noise.Eval3(float64(x)*c.NoiseScale, float64(y)*c.NoiseScale, t)*2 - 1
			v := c.Base + c.Amplitude*n
			if c.Jitter > 0 {
				v += (s.Float64()*2 - 1) * c.Jitter
			}
			switch terrain {
			case components.Urban, components.Path, components.Building:
				v *= c.UrbanFactor
			}
			f.values[i] = clampF(v, 0, c.Max)
		}
	}
}

// Total returns the sum of all forage.
func (f *FoodField) Total() float64 {
	var sum float64
	for _, v := range f.values {
		sum += v
	}
	return sum
}

// Values exposes the raw matrix, indexed x*height+y.
func (f *FoodField) Values() []float64 { return f.values }

// Warrens tracks the rabbits left in each rabbit den.
type Warrens struct {
	counts map[components.Pos]int
	cfg    config.RabbitConfig
}

// NewWarrens stocks every RabbitDen marker of g.
func NewWarrens(g *Grid, cfg config.RabbitConfig) *Warrens {
	w := &Warrens{counts: make(map[components.Pos]int), cfg: cfg}
	for _, p := range g.Markers(components.RabbitDen) {
		w.counts[p] = cfg.Initial
	}
	return w
}

// Count returns the rabbits left at p.
func (w *Warrens) Count(p components.Pos) int {
	if w == nil {
		return 0
	}
	return w.counts[p]
}

// Take removes one rabbit from p. Returns false when the den is empty.
func (w *Warrens) Take(p components.Pos) bool {
	if w == nil || w.counts[p] <= 0 {
		return false
	}
	w.counts[p]--
	return true
}

// Replenish adds the monthly litter to every den that is still marked on g.
// Dens painted since construction are picked up; erased ones are dropped.
func (w *Warrens) Replenish(g *Grid) {
	current := make(map[components.Pos]int)
	for _, p := range g.Markers(components.RabbitDen) {
		n, ok := w.counts[p]
		if !ok {
			n = w.cfg.Initial
		} else {
			n += w.cfg.Replenish
		}
		current[p] = min(n, w.cfg.Max)
	}
	w.counts = current
}

// Total returns the rabbits across all dens.
func (w *Warrens) Total() int {
	var sum int
	for _, n := range w.counts {
		sum += n
	}
	return sum
}
