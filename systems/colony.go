package systems

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
)

// ErrOffPath is returned when a colony endpoint is not a path cell.
var ErrOffPath = errors.New("endpoint is not on a path cell")

// ColonyReport summarizes one colony step.
type ColonyReport struct {
	Refreshed  bool
	Generation int
	Ants       int
	Returning  int
	Completed  int // Ants that finished a round trip this step
	Retained   int // Returning ants kept at the last refresh
	// BestLength is the shortest discovered path in moves (cells excluding
	// the destination), 0 before any discovery.
	BestLength int
}

// Colony manages cohorts of ants between one source and one food cell.
type Colony struct {
	Source     components.Pos
	Generation int
	BestPath   []components.Pos

	cfg       config.AntsConfig
	rng       *Sampler
	router    *AntRouter
	ids       IDSequence
	ants      []*Ant
	foods     []components.Pos
	countdown int
	retained  int
}

// NewColony validates the endpoints against g and creates an empty colony.
// The first Step spawns the initial cohort.
func NewColony(g *Grid, cfg config.AntsConfig, s *Sampler) (*Colony, error) {
	src := components.Pos{X: cfg.Colony.Source[0], Y: cfg.Colony.Source[1]}
	dst := components.Pos{X: cfg.Colony.Destination[0], Y: cfg.Colony.Destination[1]}
	if !g.AntPassable(src) {
		return nil, fmt.Errorf("colony source %s: %w", src, ErrOffPath)
	}
	if !g.AntPassable(dst) {
		return nil, fmt.Errorf("colony destination %s: %w", dst, ErrOffPath)
	}
	if src == dst {
		return nil, fmt.Errorf("colony source and destination both at %s", src)
	}
	return &Colony{
		Source: src,
		cfg:    cfg,
		rng:    s,
		router: NewAntRouter(cfg.Agent, s),
		foods:  []components.Pos{dst},
	}, nil
}

// Ants returns a copy of the current cohort for read-only use.
func (c *Colony) Ants() []Ant {
	out := make([]Ant, len(c.ants))
	for i, a := range c.ants {
		out[i] = *a
	}
	return out
}

// Foods returns the food cells.
func (c *Colony) Foods() []components.Pos { return slices.Clone(c.foods) }

// Countdown returns the steps left until the next refresh.
func (c *Colony) Countdown() int { return c.countdown }

// Step advances the colony by one step: refresh the cohort when due, move
// every ant once, evaporate trails, and retire ants that finished.
func (c *Colony) Step(nodes *NodeField) ColonyReport {
	var report ColonyReport

	c.countdown--
	if c.countdown <= 0 || len(c.ants) == 0 {
		c.refresh(nodes)
		report.Refreshed = true
	}

	for _, a := range c.ants {
		c.router.Step(a, nodes)
	}
	nodes.Evaporate(c.cfg.Node.Evaporation)

	alive := c.ants[:0]
	for _, a := range c.ants {
		if a.ReadyToDie {
			if a.Occupying {
				nodes.Release(a.Position)
			}
			report.Completed++
			continue
		}
		alive = append(alive, a)
		if a.Returning {
			report.Returning++
		}
	}
	clear(c.ants[len(alive):])
	c.ants = alive

	report.Generation = c.Generation
	report.Ants = len(c.ants)
	report.Retained = c.retained
	report.BestLength = len(c.BestPath)
	return report
}

// refresh keeps the returning ants whose paths are close to the shortest one,
// drops every other ant and tops the cohort back up at the source.
func (c *Colony) refresh(nodes *NodeField) {
	shortest := c.cfg.Agent.MaxMemory
	var best *Ant
	for _, a := range c.ants {
		if a.Returning && a.PathLength() > 0 && a.PathLength() < shortest {
			shortest = a.PathLength()
			best = a
		}
	}
	if best != nil {
		c.BestPath = slices.Clone(best.ReturnPath)
	}

	limit := c.cfg.Colony.SelectionSlack * float64(shortest)
	kept := make([]*Ant, 0, c.cfg.Colony.PopulationSize)
	for _, a := range c.ants {
		if a.Returning && float64(a.PathLength()) < limit {
			kept = append(kept, a)
			continue
		}
		if a.Occupying {
			nodes.Release(a.Position)
		}
	}
	c.retained = len(kept)

	dst := c.foods[0]
	for len(kept) < c.cfg.Colony.PopulationSize {
		id := components.AntID(c.ids.Next())
		kept = append(kept, NewAnt(id, c.Source, dst, c.cfg.Agent.MaxMemory))
	}
	c.ants = kept
	c.countdown = c.cfg.Colony.SpawnInterval
	c.Generation++

	slog.Info("ant_generation",
		"generation", c.Generation,
		"retained", c.retained,
		"best_length", len(c.BestPath),
	)
}

// Resync re-applies cohort occupancy after nodes was rebuilt from an edited
// map. Ants standing on cells that are no longer passable are dropped.
// It returns the number of ants removed.
func (c *Colony) Resync(nodes *NodeField) int {
	alive := c.ants[:0]
	for _, a := range c.ants {
		n := nodes.At(a.Position)
		if n == nil || !n.Passable() {
			continue
		}
		if a.Occupying && !nodes.Acquire(a.Position) {
			a.Occupying = false
		}
		alive = append(alive, a)
	}
	removed := len(c.ants) - len(alive)
	clear(c.ants[len(alive):])
	c.ants = alive
	return removed
}
