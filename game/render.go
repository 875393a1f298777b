package game

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/camera"
	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/renderer"
	"github.com/pthm-cable/habitat/ui"
)

var (
	backgroundColor = color.RGBA{R: 18, G: 20, B: 24, A: 255}
	foodColor       = color.RGBA{R: 120, G: 230, B: 60, A: 255}
	occupancyColor  = color.RGBA{R: 255, G: 120, B: 40, A: 255}
)

const panelWidth = 250

// view holds the renderers, panels and selection state of a graphical game.
type view struct {
	cam       *camera.Camera
	terrain   *renderer.GridRenderer
	food      *renderer.FieldOverlay
	occupancy *renderer.FieldOverlay
	load      []float64
	foodDay   int

	overlays  *ui.OverlayRegistry
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	controls  *ui.ControlsPanel
	toolbar   *ui.Toolbar
	palette   *ui.PaintPalette
	foxPanel  *ui.Inspector
	cellPanel *ui.Inspector
	showPerf  bool

	selected components.FoxID
	hasFox   bool
	cell     components.Pos
	hasCell  bool
	cursor   components.Pos
	cursorOK bool

	width, height float32
}

// newView creates renderers sized to the current window.
func newView(g *Game) *view {
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	cols, rows := g.grid.Width(), g.grid.Height()

	v := &view{
		terrain:  renderer.NewGridRenderer(cols, rows, g.seed),
		overlays: ui.NewOverlayRegistry(),
		hud:      ui.NewHUD(),
		toolbar:  ui.NewToolbar(),
		palette:  ui.NewPaintPalette(string(g.mode)),
		foodDay:  -1,
		width:    w,
		height:   h,
	}
	v.cam = camera.New(w, h-float32(v.toolbar.Height()), cols, rows, float32(g.cfg.World.TileSize))
	v.terrain.Init()

	switch g.mode {
	case ModeFox:
		v.food = renderer.NewFieldOverlay(cols, rows, foodColor, g.cfg.Food.Max, 150)
		v.food.Init()
		v.foxPanel = ui.NewInspector("Fox", ui.FoxSections(), 0, 0, panelWidth)
	case ModeAnts:
		v.occupancy = renderer.NewFieldOverlay(cols, rows, occupancyColor, 1, 170)
		v.occupancy.Init()
		v.overlays.SetEnabled(ui.OverlayTrails, true)
		v.overlays.SetEnabled(ui.OverlayBestPath, true)
	}
	v.cellPanel = ui.NewInspector("Cell", ui.CellSections(), 0, 0, panelWidth)
	v.controls = ui.NewControlsPanel(0, 0, panelWidth)
	v.perfPanel = ui.NewPerfPanel(0, 0)
	v.layout()
	return v
}

// layout positions the panels along the right edge.
func (v *view) layout() {
	x := int32(v.width) - panelWidth - 10
	v.controls.SetPosition(x, 10)
	if v.foxPanel != nil {
		v.foxPanel.SetPosition(x, 10)
	}
	v.cellPanel.SetPosition(x, 10)
	v.perfPanel.SetPosition(10, 140)
}

func (v *view) unload() {
	v.terrain.Unload()
	if v.food != nil {
		v.food.Unload()
	}
	if v.occupancy != nil {
		v.occupancy.Unload()
	}
}

// Draw renders the world, overlays and UI.
func (g *Game) Draw() {
	v := g.view
	if v == nil {
		return
	}
	g.perf.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(backgroundColor)

	v.terrain.Draw(g.grid, v.cam)
	switch g.mode {
	case ModeFox:
		g.drawFoxWorld()
	case ModeAnts:
		g.drawAntWorld()
	}
	if v.cursorOK && v.overlays.IsEnabled(ui.OverlayGridCursor) {
		renderer.DrawCursor(v.cursor, v.cam)
	}

	g.drawUI()
	rl.EndDrawing()
}

func (g *Game) drawFoxWorld() {
	v := g.view
	if v.overlays.IsEnabled(ui.OverlayFood) {
		if day := g.clock.Day(); day != v.foodDay {
			v.food.Update(g.food.Values())
			v.foodDay = day
		}
		v.food.Draw(v.cam)
	}

	if v.hasFox && v.overlays.IsEnabled(ui.OverlayHomeRange) {
		if f := g.foxes.Fox(v.selected); f != nil {
			renderer.DrawHomeRange(f, v.cam)
		}
	}
	renderer.DrawFoxes(g.foxes.Foxes(), v.cam)
	if g.hunter != nil {
		renderer.DrawHunter(g.hunter, g.cfg.Hunter.ScanRadius, v.overlays.IsEnabled(ui.OverlayHuntZone), v.cam)
	}
}

func (g *Game) drawAntWorld() {
	v := g.view
	if v.overlays.IsEnabled(ui.OverlayOccupancy) {
		v.load = g.nodes.Load(v.load)
		v.occupancy.Update(v.load)
		v.occupancy.Draw(v.cam)
	}
	if v.overlays.IsEnabled(ui.OverlayTrails) {
		renderer.DrawTrails(g.nodes, v.cam)
	}

	foods := g.colony.Foods()
	if v.overlays.IsEnabled(ui.OverlayBestPath) && len(foods) > 0 {
		renderer.DrawBestPath(g.colony.Source, g.colony.BestPath, foods[0], v.cam)
	}
	renderer.DrawEndpoints(g.colony.Source, foods, v.cam)
	renderer.DrawAnts(g.colony.Ants(), v.cam)
}

// drawUI renders the HUD, panels and toolbar, then applies toolbar clicks.
func (g *Game) drawUI() {
	v := g.view
	screenW, screenH := int32(v.width), int32(v.height)

	v.hud.Draw(g.hudData())
	if v.showPerf {
		v.perfPanel.Draw(g.perf.Stats())
	}

	// Right column: controls, then whatever is selected.
	bottom := int32(10)
	if v.controls.IsVisible() {
		bottom = v.controls.Draw(v.overlays, string(g.mode)) + 10
	}
	if v.hasFox && v.foxPanel != nil {
		if data := g.foxInspection(); data != nil {
			v.foxPanel.SetPosition(screenW-panelWidth-10, bottom)
			bottom = v.foxPanel.Draw(data) + 10
		} else {
			v.hasFox = false
		}
	}
	if v.hasCell {
		v.cellPanel.SetPosition(screenW-panelWidth-10, bottom)
		v.cellPanel.Draw(g.cellInspection(v.cell))
	}

	top := screenH - v.toolbar.Height()
	v.hud.DrawControls(top, controlsLegend)
	acts := v.toolbar.Draw(ui.ToolbarState{
		Paused:   g.paused,
		Speed:    g.stepsPerUpdate,
		MaxSpeed: maxStepsPerUpdate,
		Palette:  v.palette,
	}, screenW, screenH)
	g.applyToolbar(acts)
}

const controlsLegend = "Space: pause | Tab: step | ,/.: speed | 1-9: tile | P: paint | H: panels | F3: perf | Home: reset view"

func (g *Game) hudData() ui.HUDData {
	d := ui.HUDData{
		Title:  "Habitat",
		Mode:   string(g.mode),
		Tick:   g.tick,
		Speed:  g.stepsPerUpdate,
		FPS:    rl.GetFPS(),
		Paused: g.paused,
	}
	switch g.mode {
	case ModeFox:
		d.Date = g.clock.Now()
		d.DayPart = g.clock.Part().String()
		d.Foxes = g.foxes.Len()
		d.Groups = len(g.foxes.Groups())
		d.Rabbits = g.warrens.Total()
		d.Food = g.food.Total()
		d.Births = g.totals.births
		d.Deaths = g.totals.deaths
		d.Culled = g.totals.culled
	case ModeAnts:
		d.Generation = g.colony.Generation
		d.Ants = g.last.Ants
		d.Returning = g.last.Returning
		d.BestLength = len(g.colony.BestPath)
		d.OptimalLength = g.optimal
		d.Countdown = g.colony.Countdown()
	}
	return d
}

// foxInspection returns the selected fox's panel data, nil once it is gone.
func (g *Game) foxInspection() *ui.FoxInspection {
	f := g.foxes.Fox(g.view.selected)
	if f == nil {
		return nil
	}
	size := 0
	for _, grp := range g.foxes.Groups() {
		if grp.ID == f.GroupID {
			size = grp.Size()
			break
		}
	}
	return &ui.FoxInspection{
		Fox:       f,
		Now:       g.clock.Now(),
		GroupSize: size,
		Starve:    g.cfg.Fox.Feeding.StarvationThreshold,
	}
}

func (g *Game) cellInspection(p components.Pos) *ui.CellInspection {
	data := &ui.CellInspection{
		Pos:     p,
		Terrain: g.grid.Terrain(p),
		Object:  g.grid.Object(p),
	}
	switch g.mode {
	case ModeFox:
		data.Food = g.food.At(p)
		data.Rabbits = g.warrens.Count(p)
	case ModeAnts:
		data.Node = g.nodes.At(p)
		data.MaxSmell = g.nodes.MaxSmell()
	}
	return data
}
