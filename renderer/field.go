package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/camera"
)

// FieldOverlay renders a per-cell scalar field (the food matrix) as a
// translucent heat layer. Values are uploaded to a grid-sized texture.
type FieldOverlay struct {
	width, height int
	base          color.RGBA
	limit         float64
	maxAlpha      uint8

	tex         rl.Texture2D
	pixels      []color.RGBA
	initialized bool
}

// NewFieldOverlay creates an overlay for a w×h field. Values at limit and
// above draw at maxAlpha.
func NewFieldOverlay(w, h int, base color.RGBA, limit float64, maxAlpha uint8) *FieldOverlay {
	return &FieldOverlay{
		width:    w,
		height:   h,
		base:     base,
		limit:    limit,
		maxAlpha: maxAlpha,
		pixels:   make([]color.RGBA, w*h),
	}
}

// Init creates the texture (must be called after the raylib window exists).
func (o *FieldOverlay) Init() {
	if o.initialized {
		return
	}
	img := rl.GenImageColor(o.width, o.height, rl.Blank)
	o.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(o.tex, rl.FilterBilinear)
	rl.UnloadImage(img)
	o.initialized = true
}

// Update uploads field values stored column-major ([x][y] flattened as
// x*h+y), as the simulation grids store them.
func (o *FieldOverlay) Update(values []float64) {
	if !o.initialized {
		o.Init()
	}
	if len(values) != o.width*o.height {
		return
	}
	for x := 0; x < o.width; x++ {
		for y := 0; y < o.height; y++ {
			o.pixels[y*o.width+x] = HeatColor(o.base, values[x*o.height+y], o.limit, o.maxAlpha)
		}
	}
	rl.UpdateTexture(o.tex, o.pixels)
}

// Draw renders the overlay through the camera.
func (o *FieldOverlay) Draw(cam *camera.Camera) {
	if !o.initialized {
		return
	}
	drawGridTexture(o.tex, o.width, o.height, cam, rl.White)
}

// Unload frees GPU resources.
func (o *FieldOverlay) Unload() {
	if !o.initialized {
		return
	}
	rl.UnloadTexture(o.tex)
	o.initialized = false
}
