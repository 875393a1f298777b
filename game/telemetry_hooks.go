package game

import (
	"log/slog"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/telemetry"
)

// flushFoxDay produces the day's stats and routes them to the log, the CSV
// output, the bookmark detector and the store.
func (g *Game) flushFoxDay() {
	views := g.foxes.Foxes()
	foxes := make([]components.Fox, len(views))
	for i := range views {
		foxes[i] = views[i].Fox
	}

	stats := g.foxStats.Flush(g.clock.Day(), g.clock.Now(), foxes, telemetry.Habitat{
		Groups:  len(g.foxes.Groups()),
		Rabbits: g.warrens.Total(),
		Food:    g.food.Total(),
	})
	g.history = append(g.history, stats)

	if g.logStats {
		stats.LogStats()
	}
	if err := g.output.WriteFoxStats(stats); err != nil {
		slog.Error("failed to write fox stats", "error", err)
	}

	for _, bm := range g.bookmarks.Check(stats) {
		g.recordBookmark(bm)
		snap := telemetry.NewSnapshot(g.seed, stats.Day, g.clock.Now(), foxes, &bm)
		if path, err := g.output.WriteSnapshot(snap); err != nil {
			slog.Error("failed to write snapshot", "error", err)
		} else if path != "" {
			slog.Info("snapshot_saved", "path", path, "bookmark", string(bm.Type))
		}
	}

	if g.store != nil {
		g.pendingDays = append(g.pendingDays, stats)
		if len(g.pendingDays) >= storeBatchDays {
			g.perf.StartPhase(telemetry.PhaseStore)
			g.flushStore()
		}
	}
}

// flushGeneration records the generation the colony just closed.
func (g *Game) flushGeneration(generation, ants, retained, best int) {
	stats := g.antStats.Flush(telemetry.Generation{
		Step:          int(g.tick),
		Generation:    generation,
		Ants:          ants,
		Retained:      retained,
		BestLength:    best,
		OptimalLength: g.optimal,
		Trails:        g.nodes.Trails(),
	})

	if g.logStats {
		stats.LogStats()
	}
	if err := g.output.WriteAntStats(stats); err != nil {
		slog.Error("failed to write ant stats", "error", err)
	}
	for _, bm := range g.pathMarks.Check(stats) {
		g.recordBookmark(bm)
	}

	if g.store != nil {
		g.perf.StartPhase(telemetry.PhaseStore)
		if err := g.store.SaveGeneration(g.runID, stats, g.colony.BestPath); err != nil {
			slog.Error("failed to save generation", "error", err)
		}
		g.flushStore()
	}
}

// recordBookmark logs and writes one bookmark and queues it for the store.
func (g *Game) recordBookmark(bm telemetry.Bookmark) {
	if g.logStats {
		bm.LogBookmark()
	}
	if err := g.output.WriteBookmark(bm); err != nil {
		slog.Error("failed to write bookmark", "error", err)
	}
	if g.store != nil {
		g.pendingMarks = append(g.pendingMarks, bm)
	}
}

// flushStore writes buffered days and bookmarks in one batch each.
func (g *Game) flushStore() {
	if g.store == nil || g.runID == "" {
		return
	}
	if len(g.pendingDays) > 0 {
		if err := g.store.SaveFoxDays(g.runID, g.pendingDays); err != nil {
			slog.Error("failed to save fox days", "error", err, "days", len(g.pendingDays))
		}
		g.pendingDays = g.pendingDays[:0]
	}
	if len(g.pendingMarks) > 0 {
		if err := g.store.SaveBookmarks(g.runID, g.pendingMarks); err != nil {
			slog.Error("failed to save bookmarks", "error", err, "bookmarks", len(g.pendingMarks))
		}
		g.pendingMarks = g.pendingMarks[:0]
	}
}

// writePerf logs and writes the rolling perf window.
func (g *Game) writePerf() {
	g.perf.SampleProcess()
	stats := g.perf.Stats()
	if g.logStats {
		slog.Info("perf", "tick", g.tick, "stats", stats)
	}
	if err := g.output.WritePerf(stats, int(g.tick)); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}
