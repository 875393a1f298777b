package renderer

import (
	"image/color"
	"testing"

	"github.com/pthm-cable/habitat/components"
)

func TestTerrainColorsDistinct(t *testing.T) {
	seen := make(map[color.RGBA]components.TerrainKind)
	for k := components.Grass; k <= components.Building; k++ {
		c := TerrainColor(k)
		if c.A != 255 {
			t.Errorf("%s should be opaque", k)
		}
		if prev, ok := seen[c]; ok {
			t.Errorf("%s shares a color with %s", k, prev)
		}
		seen[c] = k
	}
}

func TestShadeClamps(t *testing.T) {
	c := color.RGBA{R: 200, G: 100, B: 0, A: 128}
	tests := []struct {
		name string
		f    float32
		want color.RGBA
	}{
		{"identity", 1, c},
		{"darker", 0.5, color.RGBA{R: 100, G: 50, B: 0, A: 128}},
		{"brighter clamps", 2, color.RGBA{R: 255, G: 200, B: 0, A: 128}},
		{"negative", -1, color.RGBA{A: 128}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Shade(c, tt.f); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHeatColor(t *testing.T) {
	base := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	if got := HeatColor(base, 0, 100, 200); got.A != 0 {
		t.Errorf("zero value should be transparent, got %v", got)
	}
	if got := HeatColor(base, 50, 100, 200); got.A != 100 || got.R != 10 {
		t.Errorf("half value should be half alpha, got %v", got)
	}
	if got := HeatColor(base, 500, 100, 200); got.A != 200 {
		t.Errorf("values above the limit should saturate, got %v", got)
	}
	if got := HeatColor(base, 5, 0, 200); got.A != 0 {
		t.Errorf("zero limit should be transparent, got %v", got)
	}
}
