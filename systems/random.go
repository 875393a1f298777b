package systems

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pthm-cable/habitat/config"
)

// Sampler is the single random source of a simulation.
// All stochastic decisions go through it so a seed reproduces a run.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a sampler seeded with seed.
func NewSampler(seed uint64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Rand exposes the underlying generator.
func (s *Sampler) Rand() *rand.Rand { return s.rng }

// Draw returns one value of d clamped into [d.Min, d.Max].
// Normal and exponential values are clamped, never resampled, so their
// tails pile up on the bounds. Unknown kinds panic; config.Load rejects them.
func (s *Sampler) Draw(d config.Distribution) float64 {
	var v float64
	switch d.Kind {
	case config.Uniform:
		if d.Max <= d.Min {
			return d.Min
		}
		return distuv.Uniform{Min: d.Min, Max: d.Max, Src: s.rng}.Rand()
	case config.Normal:
		sigma := d.Param("stddev")
		if sigma <= 0 {
			v = d.Param("avg")
		} else {
			v = distuv.Normal{Mu: d.Param("avg"), Sigma: sigma, Src: s.rng}.Rand()
		}
	case config.Exponential:
		v = distuv.Exponential{Rate: d.Param("lambda"), Src: s.rng}.Rand()
	default:
		panic(fmt.Sprintf("systems: unknown distribution kind %q", d.Kind))
	}
	return clampF(v, d.Min, d.Max)
}

// DrawInt returns Draw(d) rounded to the nearest integer.
func (s *Sampler) DrawInt(d config.Distribution) int {
	return int(math.Round(s.Draw(d)))
}

// Float64 returns a uniform value in [0, 1).
func (s *Sampler) Float64() float64 { return s.rng.Float64() }

// Chance returns true with probability p.
func (s *Sampler) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.rng.Float64() < p
}

// IntN returns a uniform int in [0, n). n must be positive.
func (s *Sampler) IntN(n int) int { return s.rng.IntN(n) }

// Sign returns -1 or 1 with equal probability.
func (s *Sampler) Sign() int {
	if s.rng.IntN(2) == 0 {
		return -1
	}
	return 1
}

// Shuffle permutes n elements using swap.
func (s *Sampler) Shuffle(n int, swap func(i, j int)) { s.rng.Shuffle(n, swap) }

// SampleInts returns k distinct indices from [0, n) in random order.
// k is capped at n.
func (s *Sampler) SampleInts(n, k int) []int {
	k = min(k, n)
	if k <= 0 {
		return nil
	}
	perm := s.rng.Perm(n)
	return perm[:k]
}

// WeightedIndex picks an index with probability proportional to its weight.
// Returns -1 when no weight is positive.
func (s *Sampler) WeightedIndex(weights []float64) int {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}
	r := s.rng.Float64() * total
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		if r < w {
			return i
		}
		r -= w
	}
	return last
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
