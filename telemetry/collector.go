package telemetry

import (
	"time"

	"github.com/pthm-cable/habitat/components"
)

// FoxCollector accumulates fox events over one simulated day and produces
// FoxStats when flushed.
type FoxCollector struct {
	// Running mean of daily population counts
	window []int
	next   int
	filled int
	sum    int

	// Event counters for the current day
	litters     int
	cubs        int
	starved     int
	diedNatural int
	culled      int
	dispersals  int
}

// NewFoxCollector creates a collector whose running mean covers windowDays.
func NewFoxCollector(windowDays int) *FoxCollector {
	return &FoxCollector{window: make([]int, max(windowDays, 1))}
}

// RecordDeath records a fox removed for the given cause.
func (c *FoxCollector) RecordDeath(cause components.DeathCause) {
	switch cause {
	case components.Starvation:
		c.starved++
	case components.NaturalDeath:
		c.diedNatural++
	case components.Culled:
		c.culled++
	}
}

// RecordLitter records a birth of n cubs.
func (c *FoxCollector) RecordLitter(n int) {
	c.litters++
	c.cubs += n
}

// RecordDispersal records a juvenile moving its den.
func (c *FoxCollector) RecordDispersal() {
	c.dispersals++
}

// Habitat holds the environment totals sampled alongside the foxes.
type Habitat struct {
	Groups  int
	Rabbits int
	Food    float64
}

// Flush produces the stats for day and resets the event counters.
func (c *FoxCollector) Flush(day int, now time.Time, foxes []components.Fox, env Habitat) FoxStats {
	n := len(foxes)
	c.sum -= c.window[c.next]
	c.window[c.next] = n
	c.sum += n
	c.next = (c.next + 1) % len(c.window)
	c.filled = min(c.filled+1, len(c.window))

	hunger := make([]float64, 0, n)
	ages := make([]float64, 0, n)
	ranges := make([]float64, 0, n)
	stats := FoxStats{
		Day:         day,
		Date:        now.Format(time.DateOnly),
		Foxes:       n,
		MeanFoxes:   float64(c.sum) / float64(c.filled),
		Groups:      env.Groups,
		RabbitsLeft: env.Rabbits,
		FoodTotal:   env.Food,

		Litters:     c.litters,
		Cubs:        c.cubs,
		Starved:     c.starved,
		DiedNatural: c.diedNatural,
		Culled:      c.culled,
		Dispersals:  c.dispersals,
	}
	for i := range foxes {
		f := &foxes[i]
		if f.Sex == components.Female {
			stats.Females++
		}
		if f.Pregnant {
			stats.Pregnant++
		}
		if !f.Dispersed {
			stats.Juveniles++
		}
		hunger = append(hunger, f.Hunger)
		ages = append(ages, f.AgeMonths(now)/12)
		ranges = append(ranges, float64(f.HomeRange.Len()))
	}

	h := Summarize(hunger)
	a := Summarize(ages)
	stats.HungerMean, stats.HungerP90 = h.Mean, h.P90
	stats.AgeMean, stats.AgeStd = a.Mean, a.Std
	stats.RangeMean = Summarize(ranges).Mean

	c.litters, c.cubs = 0, 0
	c.starved, c.diedNatural, c.culled = 0, 0, 0
	c.dispersals = 0
	return stats
}

// AntCollector accumulates round trips between cohort refreshes.
type AntCollector struct {
	completed int
}

// NewAntCollector creates an empty ant collector.
func NewAntCollector() *AntCollector {
	return &AntCollector{}
}

// RecordCompleted records n ants that finished their round trip.
func (c *AntCollector) RecordCompleted(n int) {
	c.completed += n
}

// Generation describes the colony at a cohort refresh.
type Generation struct {
	Step          int
	Generation    int
	Ants          int
	Retained      int
	BestLength    int
	OptimalLength int
	Trails        []float64 // every edge value of the node field
}

// Flush produces the stats for a finished generation and resets the counter.
func (c *AntCollector) Flush(g Generation) AntStats {
	stats := AntStats{
		Generation:    g.Generation,
		Step:          g.Step,
		Ants:          g.Ants,
		Retained:      g.Retained,
		Completed:     c.completed,
		BestLength:    g.BestLength,
		OptimalLength: g.OptimalLength,
	}
	if g.BestLength > 0 && g.OptimalLength > 0 {
		stats.Stretch = float64(g.BestLength) / float64(g.OptimalLength)
	}

	laid := make([]float64, 0, len(g.Trails))
	for _, v := range g.Trails {
		if v > 0 {
			laid = append(laid, v)
			stats.TrailMax = max(stats.TrailMax, v)
		}
	}
	stats.TrailEdges = len(laid)
	stats.TrailMean = Summarize(laid).Mean

	c.completed = 0
	return stats
}
