package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/habitat/camera"
	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/systems"
)

// GridRenderer draws the terrain layer from a one-pixel-per-cell texture and
// the marker layer as shapes on top. The texture is rebuilt only after
// Invalidate.
type GridRenderer struct {
	width, height int
	tex           rl.Texture2D
	pixels        []color.RGBA
	shade         []float32 // per-cell brightness jitter
	dirty         bool
	initialized   bool
}

// NewGridRenderer creates a renderer for a w×h grid. The shade pattern is
// seeded so the same map always looks the same.
func NewGridRenderer(w, h int, seed int64) *GridRenderer {
	noise := opensimplex.NewNormalized(seed)
	shade := make([]float32, w*h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			n := noise.Eval2(float64(x)*0.35, float64(y)*0.35)
			shade[y*w+x] = 0.88 + float32(n)*0.24
		}
	}
	return &GridRenderer{
		width:  w,
		height: h,
		pixels: make([]color.RGBA, w*h),
		shade:  shade,
		dirty:  true,
	}
}

// Init creates the GPU texture (must be called after the raylib window exists).
func (r *GridRenderer) Init() {
	if r.initialized {
		return
	}
	img := rl.GenImageColor(r.width, r.height, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterPoint)
	rl.UnloadImage(img)
	r.initialized = true
}

// Invalidate marks the terrain texture for rebuild on the next Draw.
func (r *GridRenderer) Invalidate() { r.dirty = true }

func (r *GridRenderer) rebuild(g *systems.Grid) {
	for x := 0; x < r.width; x++ {
		for y := 0; y < r.height; y++ {
			i := y*r.width + x
			r.pixels[i] = Shade(TerrainColor(g.Terrain(components.Pos{X: x, Y: y})), r.shade[i])
		}
	}
	rl.UpdateTexture(r.tex, r.pixels)
	r.dirty = false
}

// Draw renders terrain and markers through the camera.
func (r *GridRenderer) Draw(g *systems.Grid, cam *camera.Camera) {
	if !r.initialized {
		r.Init()
	}
	if r.dirty {
		r.rebuild(g)
	}

	drawGridTexture(r.tex, r.width, r.height, cam, rl.White)

	minX, minY, maxX, maxY := cam.VisibleCells(r.width, r.height)
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			p := components.Pos{X: x, Y: y}
			if k := g.Object(p); k != components.Nothing {
				drawMarker(k, p, cam)
			}
		}
	}
}

// Unload frees GPU resources.
func (r *GridRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}

func drawMarker(k components.ObjectKind, p components.Pos, cam *camera.Camera) {
	cx, cy := cam.CellCenter(p)
	_, _, size := cam.CellRect(p)
	c := rl.Color(MarkerColor(k))
	switch k {
	case components.FoxDen:
		rl.DrawTriangle(
			rl.Vector2{X: cx, Y: cy - size*0.45},
			rl.Vector2{X: cx - size*0.45, Y: cy + size*0.4},
			rl.Vector2{X: cx + size*0.45, Y: cy + size*0.4},
			c,
		)
	case components.RabbitDen:
		rl.DrawCircleV(rl.Vector2{X: cx, Y: cy}, size*0.3, c)
		rl.DrawCircleLines(int32(cx), int32(cy), size*0.3, rl.DarkGray)
	case components.HunterMarker:
		rl.DrawLineEx(rl.Vector2{X: cx - size*0.4, Y: cy}, rl.Vector2{X: cx + size*0.4, Y: cy}, 2, c)
		rl.DrawLineEx(rl.Vector2{X: cx, Y: cy - size*0.4}, rl.Vector2{X: cx, Y: cy + size*0.4}, 2, c)
	}
}

// drawGridTexture stretches a one-pixel-per-cell texture over the grid.
func drawGridTexture(tex rl.Texture2D, w, h int, cam *camera.Camera, tint rl.Color) {
	x0, y0 := cam.WorldToScreen(0, 0)
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(w), Height: float32(h)}
	dst := rl.Rectangle{X: x0, Y: y0, Width: cam.WorldW * cam.Zoom, Height: cam.WorldH * cam.Zoom}
	rl.DrawTexturePro(tex, src, dst, rl.Vector2{}, 0, tint)
}
