package game

import (
	"log/slog"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/telemetry"
)

// UpdateHeadless runs stepsPerUpdate simulation ticks with no input or
// rendering.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// Update handles input and advances the simulation unless paused. While
// paused, a requested single step still runs.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		if g.stepRequested {
			g.stepRequested = false
			g.step()
		}
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// step advances the active model by one tick.
func (g *Game) step() {
	g.perf.StartTick()
	switch g.mode {
	case ModeFox:
		g.stepFoxes()
	case ModeAnts:
		g.stepAnts()
	}
	g.perf.EndTick()
	g.tick++

	if w := g.cfg.Telemetry.PerfWindow; w > 0 && g.tick%int64(w) == 0 {
		g.writePerf()
	}
}

// stepFoxes advances the fox model by one simulated hour: environment
// refresh at day and month boundaries, every fox, then the daily hunt.
func (g *Game) stepFoxes() {
	now := g.clock.Advance()

	g.perf.StartPhase(telemetry.PhaseEnvironment)
	if g.clock.NewDay() {
		g.food.Refresh(g.clock.Day(), g.grid, g.rng)
	}
	if g.clock.NewMonth() {
		g.warrens.Replenish(g.grid)
	}

	g.perf.StartPhase(telemetry.PhaseFoxes)
	report := g.foxes.Step(now, &g.env)
	for _, d := range report.Deaths {
		g.foxStats.RecordDeath(d.Cause)
	}
	for _, n := range report.LitterSizes {
		g.foxStats.RecordLitter(n)
	}
	for i := 0; i < report.Dispersals; i++ {
		g.foxStats.RecordDispersal()
	}
	g.totals.births += report.Cubs
	g.totals.deaths += len(report.Deaths)

	if g.clock.NewDay() {
		g.perf.StartPhase(telemetry.PhaseHunter)
		g.hunt()

		g.perf.StartPhase(telemetry.PhaseTelemetry)
		g.flushFoxDay()
	}
}

// hunt runs the hunter's daily check and removes whatever it shot.
func (g *Game) hunt() {
	if g.hunter == nil {
		return
	}
	victims := g.hunter.Hunt(g.clock.Now(), g.foxes.Foxes())
	for _, id := range victims {
		f := g.foxes.Fox(id)
		if f == nil {
			continue
		}
		pos, pregnant := f.Position, f.Pregnant
		if !g.foxes.RemoveFox(id) {
			continue
		}
		g.foxStats.RecordDeath(components.Culled)
		g.totals.culled++
		g.totals.deaths++
		slog.Info("fox_culled", "id", id, "pos", pos.String(), "pregnant", pregnant)
	}
}

// stepAnts advances the colony by one step and records finished
// generations.
func (g *Game) stepAnts() {
	g.perf.StartPhase(telemetry.PhaseAnts)
	report := g.colony.Step(g.nodes)
	g.antStats.RecordCompleted(report.Completed)
	g.last = report

	if report.Refreshed {
		g.perf.StartPhase(telemetry.PhaseTelemetry)
		g.flushGeneration(report.Generation, report.Ants, report.Retained, report.BestLength)
	}
}
