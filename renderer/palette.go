// Package renderer draws the habitat grid, its agents and overlays with raylib.
package renderer

import (
	"image/color"

	"github.com/pthm-cable/habitat/components"
)

var terrainColors = [...]color.RGBA{
	components.Grass:    {R: 118, G: 168, B: 82, A: 255},
	components.Forest:   {R: 46, G: 102, B: 52, A: 255},
	components.Water:    {R: 58, G: 110, B: 170, A: 255},
	components.Urban:    {R: 150, G: 146, B: 140, A: 255},
	components.Path:     {R: 196, G: 170, B: 120, A: 255},
	components.Building: {R: 96, G: 80, B: 74, A: 255},
}

// TerrainColor returns the base color of a terrain kind.
func TerrainColor(k components.TerrainKind) color.RGBA {
	if int(k) < len(terrainColors) {
		return terrainColors[k]
	}
	return color.RGBA{R: 255, G: 0, B: 255, A: 255}
}

// MarkerColor returns the color a marker is drawn with.
func MarkerColor(k components.ObjectKind) color.RGBA {
	switch k {
	case components.HunterMarker:
		return color.RGBA{R: 220, G: 40, B: 40, A: 255}
	case components.FoxDen:
		return color.RGBA{R: 110, G: 60, B: 20, A: 255}
	case components.RabbitDen:
		return color.RGBA{R: 235, G: 225, B: 200, A: 255}
	}
	return color.RGBA{}
}

// Shade scales the RGB channels of c by f, clamped to [0, 255].
func Shade(c color.RGBA, f float32) color.RGBA {
	scale := func(v uint8) uint8 {
		s := float32(v) * f
		if s < 0 {
			return 0
		}
		if s > 255 {
			return 255
		}
		return uint8(s)
	}
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

// HeatColor maps v/limit onto a transparent-to-opaque ramp of base.
// Values at or below zero are fully transparent.
func HeatColor(base color.RGBA, v, limit float64, maxAlpha uint8) color.RGBA {
	if v <= 0 || limit <= 0 {
		return color.RGBA{}
	}
	t := v / limit
	if t > 1 {
		t = 1
	}
	return color.RGBA{R: base.R, G: base.G, B: base.B, A: uint8(t * float64(maxAlpha))}
}

// FoxColor returns the body color of a fox.
func FoxColor(f *components.Fox) color.RGBA {
	if f.Sex == components.Female {
		return color.RGBA{R: 240, G: 140, B: 40, A: 255}
	}
	return color.RGBA{R: 200, G: 80, B: 20, A: 255}
}
