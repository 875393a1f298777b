package systems

import (
	"log/slog"
	"slices"
	"time"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
)

// Hunter culls foxes around dens on a seasonal schedule.
type Hunter struct {
	Position components.Pos

	cfg   config.HunterConfig
	rng   *Sampler
	legal []components.Pos

	schedule     []int // sorted days of year still to hunt
	scheduleYear int
}

// NewHunter precomputes the huntable cells of g and places the hunter on one.
func NewHunter(g *Grid, cfg config.HunterConfig, s *Sampler) *Hunter {
	h := &Hunter{
		cfg:   cfg,
		rng:   s,
		legal: HuntingCells(g, cfg.ScanRadius),
	}
	h.relocate()
	return h
}

// HuntingCells lists non-water cells within Chebyshev distance r of a fox den,
// column by column.
func HuntingCells(g *Grid, r int) []components.Pos {
	near := make([]bool, g.Width()*g.Height())
	for _, den := range g.Markers(components.FoxDen) {
		for dx := -r; dx <= r; dx++ {
			for dy := -r; dy <= r; dy++ {
				p := den.Add(dx, dy)
				if g.FoxPassable(p) {
					near[g.index(p)] = true
				}
			}
		}
	}

	var out []components.Pos
	for x := 0; x < g.Width(); x++ {
		for y := 0; y < g.Height(); y++ {
			p := components.Pos{X: x, Y: y}
			if near[g.index(p)] {
				out = append(out, p)
			}
		}
	}
	return out
}

// LegalCells returns the precomputed huntable cells.
func (h *Hunter) LegalCells() []components.Pos { return h.legal }

// Schedule returns a copy of the remaining hunting days.
func (h *Hunter) Schedule() []int { return slices.Clone(h.schedule) }

// Hunt runs the once-daily culling check and returns the foxes shot.
// A scheduled day is always consumed; a zero-kill draw leaves the hunter
// where it stands.
func (h *Hunter) Hunt(now time.Time, foxes []FoxView) []components.FoxID {
	if now.Year() != h.scheduleYear {
		h.schedule = h.drawSchedule(now.YearDay())
		h.scheduleYear = now.Year()
		slog.Debug("hunting_schedule", "year", h.scheduleYear, "days", len(h.schedule))
	}

	i, found := slices.BinarySearch(h.schedule, now.YearDay())
	if !found {
		return nil
	}
	h.schedule = slices.Delete(h.schedule, i, i+1)

	kills := h.rng.DrawInt(h.cfg.ShootingRate)
	if kills <= 0 {
		slog.Debug("hunt_no_kill", "day", now.YearDay(), "pos", h.Position.String())
		return nil
	}
	targetMother := h.rng.Chance(h.rng.Draw(h.cfg.CullingRate) / 100)
	return h.Excursion(foxes, kills, targetMother)
}

// Excursion shoots up to kills foxes within the scan box and then moves the
// hunter. When targetMother is set and a pregnant fox is in range, one of
// them is shot first; the rest of the budget is drawn without replacement
// from the foxes that are not pregnant.
func (h *Hunter) Excursion(foxes []FoxView, kills int, targetMother bool) []components.FoxID {
	var mothers, others []components.FoxID
	for i := range foxes {
		f := &foxes[i].Fox
		if f.Position.Chebyshev(h.Position) > h.cfg.ScanRadius {
			continue
		}
		if f.Pregnant {
			mothers = append(mothers, f.ID)
		} else {
			others = append(others, f.ID)
		}
	}

	var victims []components.FoxID
	if targetMother && len(mothers) > 0 && kills > 0 {
		victims = append(victims, mothers[h.rng.IntN(len(mothers))])
		kills--
	}
	for _, i := range h.rng.SampleInts(len(others), kills) {
		victims = append(victims, others[i])
	}

	slog.Debug("hunter_excursion", "pos", h.Position.String(), "in_range", len(mothers)+len(others), "shot", len(victims))
	h.relocate()
	return victims
}

// drawSchedule picks the year's hunting days among the open-season days
// from today on. Days already behind the clock can never be reached.
func (h *Hunter) drawSchedule(today int) []int {
	pool := make([]int, 0, 365)
	for d := max(today, 1); d <= h.cfg.SeasonEndDay; d++ {
		pool = append(pool, d)
	}
	for d := max(h.cfg.SeasonStartDay, h.cfg.SeasonEndDay+1, today); d <= 365; d++ {
		pool = append(pool, d)
	}

	days := make([]int, 0, h.cfg.ExcursionsPerYear)
	for _, i := range h.rng.SampleInts(len(pool), h.cfg.ExcursionsPerYear) {
		days = append(days, pool[i])
	}
	slices.Sort(days)
	return days
}

func (h *Hunter) relocate() {
	if len(h.legal) == 0 {
		return
	}
	h.Position = h.legal[h.rng.IntN(len(h.legal))]
}
