package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/components"
)

// ControlsPanel renders the side panel with overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the overlays available in mode and returns the bottom edge.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry, mode string) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories(mode)
	totalItems := 0
	for _, cat := range categories {
		totalItems += len(overlays.ByCategory(cat, mode)) + 1 // +1 for category header
	}
	panelHeight := int32(totalItems)*lineHeight + int32(len(categories))*4 + padding*2 + lineHeight + 4

	r.DrawPanel(c.x, c.y, c.width, panelHeight)
	y := r.DrawTitle(c.x+padding, c.y+padding, "Overlays")

	for _, category := range categories {
		y = r.DrawSectionHeader(c.x+padding, y, categoryLabel(category))
		for _, desc := range overlays.ByCategory(category, mode) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}
		y += 4
	}

	return c.y + panelHeight
}

func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

func categoryLabel(cat string) string {
	switch cat {
	case "environment":
		return "Environment"
	case "agents":
		return "Agents"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}

// ToolbarState is the simulation state the toolbar reflects.
type ToolbarState struct {
	Paused   bool
	Speed    int
	MaxSpeed int
	Palette  *PaintPalette
}

// ToolbarActions reports what the user clicked this frame.
type ToolbarActions struct {
	TogglePause bool
	Step        bool
	ResetView   bool
	TogglePaint bool
	Speed       int // New speed; equals the input speed when unchanged
	PaintSlot   int // Clicked palette slot, or -1
}

// Toolbar is the raygui button strip along the bottom of the window.
type Toolbar struct {
	renderer *Renderer
}

// NewToolbar creates a toolbar.
func NewToolbar() *Toolbar {
	return &Toolbar{renderer: NewRenderer()}
}

// Height returns the pixel height of the strip.
func (t *Toolbar) Height() int32 {
	return t.renderer.Theme.LineHeight + 6 + t.renderer.Theme.Padding*2
}

// Draw renders the toolbar at the bottom of a screenW×screenH window.
func (t *Toolbar) Draw(state ToolbarState, screenW, screenH int32) ToolbarActions {
	r := t.renderer
	pad := r.Theme.Padding
	top := screenH - t.Height()
	r.DrawPanel(0, top, screenW, t.Height())

	acts := ToolbarActions{Speed: state.Speed, PaintSlot: -1}
	x, y := pad, top+pad

	pauseText := "Pause"
	if state.Paused {
		pauseText = "Resume"
	}
	acts.TogglePause = r.Button(x, y, 70, pauseText)
	x += 76
	if state.Paused {
		acts.Step = r.Button(x, y, 50, "Step")
	}
	x += 56
	acts.ResetView = r.Button(x, y, 80, "Reset View")
	x += 90

	rl.DrawText("Speed", x, y+4, r.Theme.FontSize, r.Theme.LabelColor)
	x += 40
	bounds := rl.Rectangle{X: float32(x), Y: float32(y), Width: 120, Height: float32(r.Theme.LineHeight + 6)}
	v := gui.SliderBar(bounds, "", fmt.Sprintf("%dx", state.Speed), float32(state.Speed), 1, float32(max(state.MaxSpeed, 1)))
	acts.Speed = max(1, int(v+0.5))
	x += 160

	if state.Palette == nil {
		return acts
	}
	paintText := "Paint: off"
	if state.Palette.Active() {
		paintText = "Paint: on"
	}
	acts.TogglePaint = r.Button(x, y, 80, paintText)
	x += 90

	for i, tile := range state.Palette.Tiles() {
		label := fmt.Sprintf("%d %s", i+1, tileLabel(tile))
		w := rl.MeasureText(label, r.Theme.FontSize) + 12
		if x+w > screenW-pad {
			break
		}
		if state.Palette.Active() && i == state.Palette.SelectedIndex() {
			rl.DrawRectangle(x-2, y-2, w+4, r.Theme.LineHeight+10, r.Theme.SectionHeader)
		}
		if r.Button(x, y, w, label) {
			acts.PaintSlot = i
		}
		x += w + 6
	}
	return acts
}

func tileLabel(t components.Tile) string {
	if t.Kind == components.TileMarker && t.Marker == components.Nothing {
		return "clear"
	}
	return t.String()
}
