package ui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title  string
	Mode   string
	Tick   int64
	Speed  int
	FPS    int32
	Paused bool

	// Fox scenario
	Date    time.Time
	DayPart string
	Foxes   int
	Groups  int
	Rabbits int
	Food    float64
	Births  int // Since the run started
	Deaths  int
	Culled  int

	// Ant scenario
	Generation    int
	Ants          int
	Returning     int
	BestLength    int
	OptimalLength int
	Countdown     int
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	switch data.Mode {
	case ModeFox:
		rl.DrawText(
			fmt.Sprintf("%s  %s", data.Date.Format("2006-01-02 15:00"), data.DayPart),
			10, 35, 16, rl.LightGray,
		)
		rl.DrawText(
			fmt.Sprintf("Foxes: %d | Groups: %d | Rabbits: %d | Food: %.0f", data.Foxes, data.Groups, data.Rabbits, data.Food),
			10, 55, 16, rl.LightGray,
		)
		rl.DrawText(
			fmt.Sprintf("Born: %s | Died: %s | Culled: %s", humanize.Comma(int64(data.Births)), humanize.Comma(int64(data.Deaths)), humanize.Comma(int64(data.Culled))),
			10, 75, 16, rl.LightGray,
		)
	case ModeAnt:
		best := "none"
		if data.BestLength > 0 {
			best = fmt.Sprintf("%d (optimal %d)", data.BestLength, data.OptimalLength)
		}
		rl.DrawText(
			fmt.Sprintf("Generation: %d | Ants: %d | Returning: %d", data.Generation, data.Ants, data.Returning),
			10, 35, 16, rl.LightGray,
		)
		rl.DrawText(
			fmt.Sprintf("Best path: %s | Next refresh: %d", best, data.Countdown),
			10, 55, 16, rl.LightGray,
		)
	}

	rl.DrawText(
		fmt.Sprintf("Tick: %s | Speed: %dx | FPS: %d", humanize.Comma(data.Tick), data.Speed, data.FPS),
		10, 95, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 115, 16, rl.Yellow)
}

// DrawControls renders the control legend above the toolbar.
func (h *HUD) DrawControls(bottom int32, controls string) {
	rl.DrawText(controls, 10, bottom-20, 14, rl.Gray)
}

// PerfPanel renders tick timing and the per-phase breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s avg, %s max", stats.AvgTick.Round(time.Microsecond), stats.MaxTick.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16
	rl.DrawText(fmt.Sprintf("%s ticks/s", humanize.Comma(int64(stats.TicksPerSecond))), x, y, 14, rl.Yellow)
	y += 16
	if stats.RSS > 0 {
		rl.DrawText(fmt.Sprintf("RSS %s, CPU %.0f%%", humanize.Bytes(stats.RSS), stats.CPUPercent), x, y, 14, rl.Yellow)
		y += 16
	}
	y += 2

	for i, pct := range stats.PhasePct {
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-12s %5.1f%%", telemetry.Phase(i).String(), pct), x, y, 12, color)
		y += 14
	}
}
