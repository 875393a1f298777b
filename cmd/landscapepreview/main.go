// Landscape preview tool - interactive fox map generation with sliders.
//
// Usage: go run ./cmd/landscapepreview -config config.yaml
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/habitat/camera"
	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/renderer"
	"github.com/pthm-cable/habitat/systems"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	previewSize  = 640
	panelWidth   = windowWidth - previewSize - 30
)

// slider binds one landscape parameter to a raygui slider bar.
type slider struct {
	label    string
	min, max float32
	integer  bool
	get      func(*config.LandscapeConfig) float32
	set      func(*config.LandscapeConfig, float32)
}

var sliders = []slider{
	{"Noise scale", 0.005, 0.2, false,
		func(c *config.LandscapeConfig) float32 { return float32(c.NoiseScale) },
		func(c *config.LandscapeConfig, v float32) { c.NoiseScale = float64(v) }},
	{"Octaves", 1, 8, true,
		func(c *config.LandscapeConfig) float32 { return float32(c.Octaves) },
		func(c *config.LandscapeConfig, v float32) { c.Octaves = int(v) }},
	{"Water level", 0, 1, false,
		func(c *config.LandscapeConfig) float32 { return float32(c.WaterLevel) },
		func(c *config.LandscapeConfig, v float32) { c.WaterLevel = float64(v) }},
	{"Forest level", 0, 1, false,
		func(c *config.LandscapeConfig) float32 { return float32(c.ForestLevel) },
		func(c *config.LandscapeConfig, v float32) { c.ForestLevel = float64(v) }},
	{"Urban level", 0, 1, false,
		func(c *config.LandscapeConfig) float32 { return float32(c.UrbanLevel) },
		func(c *config.LandscapeConfig, v float32) { c.UrbanLevel = float64(v) }},
	{"Fox dens", 1, 40, true,
		func(c *config.LandscapeConfig) float32 { return float32(c.FoxDens) },
		func(c *config.LandscapeConfig, v float32) { c.FoxDens = int(v) }},
	{"Rabbit dens", 0, 60, true,
		func(c *config.LandscapeConfig) float32 { return float32(c.RabbitDens) },
		func(c *config.LandscapeConfig, v float32) { c.RabbitDens = int(v) }},
	{"Den spacing", 1, 30, true,
		func(c *config.LandscapeConfig) float32 { return float32(c.DenSpacing) },
		func(c *config.LandscapeConfig, v float32) { c.DenSpacing = int(v) }},
}

// landscapeStats summarizes a generated map.
type landscapeStats struct {
	share      [components.Building + 1]float64 // Fraction of cells per terrain kind
	foxDens    int
	rabbitDens int
	denRegions int // Distinct land regions hosting a fox den
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 12345, "Initial landscape seed")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	base := config.Cfg()
	w, h := base.World.Width, base.World.Height
	params := base.Landscape

	rl.InitWindow(windowWidth, windowHeight, "Landscape Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	cam := camera.New(previewSize, previewSize, w, h, float32(base.World.TileSize))
	var (
		grid  *systems.Grid
		view  *renderer.GridRenderer
		stats landscapeStats
	)
	regenerate := func() {
		if view != nil {
			view.Unload()
		}
		grid = systems.GenerateFoxLandscape(w, h, params, *seed, systems.NewSampler(uint64(*seed)))
		view = renderer.NewGridRenderer(w, h, *seed)
		stats = summarize(grid)
	}
	regenerate()
	defer func() { view.Unload() }()

	for !rl.WindowShouldClose() {
		needsRegen := false

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.BeginScissorMode(0, 0, previewSize, previewSize)
		rl.DrawRectangle(0, 0, previewSize, previewSize, rl.Black)
		view.Draw(grid, cam)
		rl.EndScissorMode()
		rl.DrawRectangleLines(0, 0, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 20)
		var parts []string
		for k := components.Grass; k <= components.Urban; k++ {
			parts = append(parts, fmt.Sprintf("%s %.0f%%", k, stats.share[k]*100))
		}
		rl.DrawText(strings.Join(parts, "  "), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Fox dens: %d/%d in %d regions  Rabbit dens: %d/%d",
			stats.foxDens, params.FoxDens, stats.denRegions, stats.rabbitDens, params.RabbitDens),
			15, statsY+20, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Seed: %d", *seed), 15, statsY+40, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Landscape Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		for _, s := range sliders {
			cur := s.get(&params)
			rl.DrawText(s.label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			next := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				"", "",
				cur, s.min, s.max,
			)
			format := "%.3f"
			if s.integer {
				format = "%.0f"
				next = float32(int(next + 0.5))
			}
			rl.DrawText(fmt.Sprintf(format, cur), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if next != cur {
				s.set(&params, next)
				needsRegen = true
			}
			panelY += 32
		}
		panelY += 10

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			*seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = base.Landscape
			needsRegen = true
		}
		panelY += 45

		block, err := landscapeYAML(params)
		if err != nil {
			slog.Error("failed to encode landscape", "error", err)
		}
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range strings.Split(strings.TrimRight(block, "\n"), "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) && err == nil {
			rl.SetClipboardText(block)
		}

		rl.EndDrawing()

		if needsRegen {
			regenerate()
		}
	}
}

// landscapeYAML renders params as a config.yaml landscape block.
func landscapeYAML(params config.LandscapeConfig) (string, error) {
	out, err := yaml.Marshal(map[string]config.LandscapeConfig{"landscape": params})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func summarize(g *systems.Grid) landscapeStats {
	var s landscapeStats
	total := float64(g.Width() * g.Height())
	for x := 0; x < g.Width(); x++ {
		for y := 0; y < g.Height(); y++ {
			s.share[g.Terrain(components.Pos{X: x, Y: y})] += 1 / total
		}
	}
	dens := g.Markers(components.FoxDen)
	s.foxDens = len(dens)
	s.rabbitDens = len(g.Markers(components.RabbitDen))
	regions := map[int]bool{}
	for _, p := range dens {
		regions[g.Component(p)] = true
	}
	s.denRegions = len(regions)
	return s
}
