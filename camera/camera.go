// Package camera provides a 2D camera over a bounded cell grid.
package camera

import "github.com/pthm-cable/habitat/components"

// Camera controls the viewport into the grid. World coordinates are pixels
// at zoom 1, with cell (x, y) covering [x*Tile, (x+1)*Tile).
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World dimensions in pixels at zoom 1
	WorldW, WorldH float32

	// Tile is the size of one cell at zoom 1
	Tile float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on a cols×rows grid, zoomed so the whole
// grid fits the viewport.
func New(viewportW, viewportH float32, cols, rows int, tile float32) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    float32(cols) * tile,
		WorldH:    float32(rows) * tile,
		Tile:      tile,
		MaxZoom:   8.0,
	}
	c.MinZoom = c.fitZoom() / 2
	c.Reset()
	return c
}

// fitZoom is the zoom at which the whole grid just fits the viewport.
func (c *Camera) fitZoom() float32 {
	return min(c.ViewportW/c.WorldW, c.ViewportH/c.WorldH)
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// CellAt returns the grid cell under a screen point. ok is false off the grid.
func (c *Camera) CellAt(sx, sy float32) (p components.Pos, ok bool) {
	wx, wy := c.ScreenToWorld(sx, sy)
	if wx < 0 || wy < 0 || wx >= c.WorldW || wy >= c.WorldH {
		return components.Pos{}, false
	}
	return components.Pos{X: int(wx / c.Tile), Y: int(wy / c.Tile)}, true
}

// CellRect returns the screen rectangle covered by cell p.
func (c *Camera) CellRect(p components.Pos) (x, y, size float32) {
	x, y = c.WorldToScreen(float32(p.X)*c.Tile, float32(p.Y)*c.Tile)
	return x, y, c.Tile * c.Zoom
}

// CellCenter returns the screen position of the center of cell p.
func (c *Camera) CellCenter(p components.Pos) (sx, sy float32) {
	return c.WorldToScreen((float32(p.X)+0.5)*c.Tile, (float32(p.Y)+0.5)*c.Tile)
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// VisibleCells returns the inclusive cell range on screen, clipped to the grid.
func (c *Camera) VisibleCells(cols, rows int) (minX, minY, maxX, maxY int) {
	x0, y0, x1, y1 := c.VisibleWorldBounds()
	minX = max(int(x0/c.Tile), 0)
	minY = max(int(y0/c.Tile), 0)
	maxX = min(int(x1/c.Tile), cols-1)
	maxY = min(int(y1/c.Tile), rows-1)
	return minX, minY, maxX, maxY
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.fitZoom() / 2
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels. The center
// stays on the grid.
func (c *Camera) Pan(dx, dy float32) {
	c.X = clamp(c.X+dx/c.Zoom, 0, c.WorldW)
	c.Y = clamp(c.Y+dy/c.Zoom, 0, c.WorldH)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt zooms by factor keeping the world point under (sx, sy) fixed.
func (c *Camera) ZoomAt(sx, sy, factor float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.ZoomBy(factor)
	nx, ny := c.ScreenToWorld(sx, sy)
	c.X = clamp(c.X+wx-nx, 0, c.WorldW)
	c.Y = clamp(c.Y+wy-ny, 0, c.WorldH)
}

// Reset centers the camera and fits the whole grid.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.SetZoom(c.fitZoom())
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
