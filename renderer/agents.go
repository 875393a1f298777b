package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/camera"
	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/systems"
)

var (
	homeRangeColor = color.RGBA{R: 255, G: 220, B: 80, A: 60}
	huntZoneColor  = color.RGBA{R: 220, G: 40, B: 40, A: 40}
	antColor       = color.RGBA{R: 30, G: 20, B: 20, A: 255}
	returningColor = color.RGBA{R: 200, G: 40, B: 160, A: 255}
	selectionColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// DrawFoxes draws every fox as a dot in its cell. Pregnant vixens get a ring,
// cubs that have not dispersed are drawn smaller.
func DrawFoxes(foxes []systems.FoxView, cam *camera.Camera) {
	for i := range foxes {
		f := &foxes[i].Fox
		cx, cy := cam.CellCenter(f.Position)
		_, _, size := cam.CellRect(f.Position)
		if !onScreen(cam, cx, cy, size) {
			continue
		}

		radius := size * 0.38
		if !f.Dispersed {
			radius = size * 0.26
		}
		rl.DrawCircleV(rl.Vector2{X: cx, Y: cy}, radius, FoxColor(f))
		if f.Pregnant {
			rl.DrawCircleLines(int32(cx), int32(cy), radius+2, rl.White)
		}
	}
}

// DrawHomeRange shades the home range of one fox and outlines its den.
func DrawHomeRange(f *components.Fox, cam *camera.Camera) {
	for _, p := range f.HomeRange.Cells() {
		x, y, size := cam.CellRect(p)
		rl.DrawRectangleV(rl.Vector2{X: x, Y: y}, rl.Vector2{X: size, Y: size}, homeRangeColor)
	}
	x, y, size := cam.CellRect(f.Den)
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x, Y: y, Width: size, Height: size}, 2, selectionColor)

	cx, cy := cam.CellCenter(f.Position)
	rl.DrawCircleLines(int32(cx), int32(cy), size*0.6, selectionColor)
}

// DrawHunter draws the hunter and, when showZone is set, its scan box.
func DrawHunter(h *systems.Hunter, scanRadius int, showZone bool, cam *camera.Camera) {
	if showZone {
		corner := h.Position.Add(-scanRadius, -scanRadius)
		x, y, size := cam.CellRect(corner)
		side := size * float32(2*scanRadius+1)
		rl.DrawRectangleV(rl.Vector2{X: x, Y: y}, rl.Vector2{X: side, Y: side}, huntZoneColor)
	}
	drawMarker(components.HunterMarker, h.Position, cam)
}

// DrawAnts draws the cohort. Returning ants use a second color.
func DrawAnts(ants []systems.Ant, cam *camera.Camera) {
	for i := range ants {
		a := &ants[i]
		cx, cy := cam.CellCenter(a.Position)
		_, _, size := cam.CellRect(a.Position)
		if !onScreen(cam, cx, cy, size) {
			continue
		}
		c := antColor
		if a.Returning {
			c = returningColor
		}
		rl.DrawCircleV(rl.Vector2{X: cx, Y: cy}, max(size*0.25, 1.5), c)
	}
}

// DrawEndpoints marks the colony source and the food cells.
func DrawEndpoints(source components.Pos, foods []components.Pos, cam *camera.Camera) {
	x, y, size := cam.CellRect(source)
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x, Y: y, Width: size, Height: size}, 2, rl.Black)
	for _, f := range foods {
		cx, cy := cam.CellCenter(f)
		rl.DrawCircleV(rl.Vector2{X: cx, Y: cy}, size*0.45, rl.Lime)
	}
}

// DrawCursor outlines the cell under the mouse.
func DrawCursor(p components.Pos, cam *camera.Camera) {
	x, y, size := cam.CellRect(p)
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x, Y: y, Width: size, Height: size}, 1, selectionColor)
}

func onScreen(cam *camera.Camera, sx, sy, margin float32) bool {
	return sx >= -margin && sy >= -margin && sx <= cam.ViewportW+margin && sy <= cam.ViewportH+margin
}
