package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/camera"
	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/systems"
)

var (
	trailColor    = color.RGBA{R: 150, G: 20, B: 200, A: 255}
	bestPathColor = color.RGBA{R: 255, G: 235, B: 60, A: 230}
)

// DrawTrails draws the pheromone on every visible edge. Trails are stored on
// both endpoints of an edge, so only right and down edges are drawn.
func DrawTrails(nodes *systems.NodeField, cam *camera.Camera) {
	w, h := nodes.GridSize()
	limit := nodes.MaxSmell()
	minX, minY, maxX, maxY := cam.VisibleCells(w, h)

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			p := components.Pos{X: x, Y: y}
			n := nodes.At(p)
			if n == nil || !n.Passable() {
				continue
			}
			_, _, size := cam.CellRect(p)
			thick := max(size*0.3, 1)
			for _, d := range [2]systems.Direction{systems.Right, systems.Down} {
				if !n.Connected[d] || n.Pheromone[d] <= 0 {
					continue
				}
				c := HeatColor(trailColor, n.Pheromone[d], limit, 230)
				ax, ay := cam.CellCenter(p)
				off := d.Offset()
				bx, by := cam.CellCenter(p.Add(off.X, off.Y))
				rl.DrawLineEx(rl.Vector2{X: ax, Y: ay}, rl.Vector2{X: bx, Y: by}, thick, c)
			}
		}
	}
}

// DrawBestPath draws the shortest discovered route from the source through
// path to the destination.
func DrawBestPath(source components.Pos, path []components.Pos, destination components.Pos, cam *camera.Camera) {
	if len(path) == 0 {
		return
	}
	prev := source
	if path[0] == source {
		path = path[1:]
	}
	for _, p := range append(path, destination) {
		ax, ay := cam.CellCenter(prev)
		bx, by := cam.CellCenter(p)
		_, _, size := cam.CellRect(p)
		rl.DrawLineEx(rl.Vector2{X: ax, Y: ay}, rl.Vector2{X: bx, Y: by}, max(size*0.15, 1), bestPathColor)
		prev = p
	}
}
