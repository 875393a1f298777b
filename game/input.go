package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/ui"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	v := g.view
	if v == nil {
		return
	}

	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.setPaused(!g.paused)
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.requestStep()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < maxStepsPerUpdate {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyH) {
		v.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyF3) {
		v.showPerf = !v.showPerf
	}
	if rl.IsKeyPressed(rl.KeyP) {
		v.palette.SetActive(!v.palette.Active())
	}

	mode := string(g.mode)
	for _, key := range v.overlays.Keys(mode) {
		if rl.IsKeyPressed(key) {
			if id, on, ok := v.overlays.HandleKeyPress(key, mode); ok {
				slog.Debug("overlay_toggled", "overlay", string(id), "enabled", on)
			}
		}
	}
	for key := int32(rl.KeyOne); key <= rl.KeyNine; key++ {
		if !rl.IsKeyPressed(key) {
			continue
		}
		if slot, ok := ui.SlotForKey(key); ok && v.palette.Select(slot) {
			v.palette.SetActive(true)
		}
	}

	// Camera controls
	g.handleCameraInput()
	g.handleMouse()
}

// setPaused pauses or resumes the simulation.
func (g *Game) setPaused(paused bool) {
	g.paused = paused
	g.stepRequested = false
	slog.Debug("pause_toggled", "paused", paused, "tick", g.tick)
}

// requestStep runs exactly one tick on the next update. It pauses a running
// simulation first.
func (g *Game) requestStep() {
	if !g.paused {
		g.setPaused(true)
	}
	g.stepRequested = true
}

// handleMouse tracks the hovered cell and handles clicks on the map.
// With the paint tool active and the simulation paused, a held left button
// paints the selected tile; otherwise a click selects.
func (g *Game) handleMouse() {
	v := g.view
	mouse := rl.GetMousePosition()
	if mouse.Y >= v.height-float32(v.toolbar.Height()) {
		v.cursorOK = false
		return
	}
	v.cursor, v.cursorOK = v.cam.CellAt(mouse.X, mouse.Y)
	if !v.cursorOK {
		return
	}

	if v.palette.Active() && g.paused {
		if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
			g.paint(v.cursor, v.palette.Selected())
		}
		return
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		g.selectAt(v.cursor)
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		v.hasFox = false
		v.hasCell = false
	}
}

// selectAt selects the fox standing on p, if any, and the cell itself.
func (g *Game) selectAt(p components.Pos) {
	v := g.view
	v.cell, v.hasCell = p, true
	if g.foxes == nil {
		return
	}
	v.hasFox = false
	for _, fv := range g.foxes.Foxes() {
		if fv.Fox.Position == p {
			v.selected, v.hasFox = fv.Fox.ID, true
			break
		}
	}
}

// paint applies tile at p. In ant mode the node field is rebuilt and the
// cohort resynced so capacity matches the edited map. The colony endpoints
// cannot be painted over. Returns false when nothing changed.
func (g *Game) paint(p components.Pos, tile components.Tile) bool {
	if !g.grid.InBounds(p) {
		return false
	}
	switch tile.Kind {
	case components.TileTerrain:
		if g.grid.Terrain(p) == tile.Terrain {
			return false
		}
	case components.TileMarker:
		if g.grid.Object(p) == tile.Marker {
			return false
		}
	}
	if g.mode == ModeAnts && g.isEndpoint(p) {
		return false
	}

	g.grid.Apply(p, tile)
	if g.view != nil {
		g.view.terrain.Invalidate()
	}

	if g.mode == ModeAnts {
		g.nodes.Rebuild(g.grid)
		dropped := g.colony.Resync(g.nodes)
		g.refreshOptimal()
		slog.Debug("map_edited", "pos", p.String(), "tile", tile.String(), "ants_dropped", dropped, "optimal", g.optimal)
	} else {
		slog.Debug("map_edited", "pos", p.String(), "tile", tile.String())
	}
	return true
}

func (g *Game) isEndpoint(p components.Pos) bool {
	if p == g.colony.Source {
		return true
	}
	for _, f := range g.colony.Foods() {
		if p == f {
			return true
		}
	}
	return false
}

// applyToolbar carries out the toolbar clicks of the last frame.
func (g *Game) applyToolbar(acts ui.ToolbarActions) {
	v := g.view
	if acts.TogglePause {
		g.setPaused(!g.paused)
	}
	if acts.Step {
		g.requestStep()
	}
	if acts.ResetView {
		v.cam.Reset()
	}
	if acts.TogglePaint {
		v.palette.SetActive(!v.palette.Active())
	}
	if acts.PaintSlot >= 0 && v.palette.Select(acts.PaintSlot) {
		v.palette.SetActive(true)
	}
	g.stepsPerUpdate = min(max(acts.Speed, 1), maxStepsPerUpdate)
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	v := g.view
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.width && h == v.height {
		return
	}
	v.width = w
	v.height = h
	v.cam.Resize(w, h-float32(v.toolbar.Height()))
	v.layout()
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	cam := g.view.cam

	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / cam.Zoom

	// Arrow key panning
	if rl.IsKeyDown(rl.KeyRight) {
		cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		cam.Pan(0, -panSpeed)
	}

	// Zoom toward the cursor with the mouse wheel
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		mouse := rl.GetMousePosition()
		cam.ZoomAt(mouse.X, mouse.Y, 1+wheel*0.1)
	}

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		cam.ZoomBy(0.8)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		cam.Reset()
	}
}
