// Package mosaic partitions images into Voronoi regions and repaints each
// region with one aggregated color.
package mosaic

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a non-premultiplied RGBA color with components in [0,1].
// It is comparable, so exact values can key a map.
type Color struct {
	R, G, B, A float64
}

var (
	Black       = Color{R: 0, G: 0, B: 0, A: 1}
	White       = Color{R: 1, G: 1, B: 1, A: 1}
	Red         = Color{R: 1, G: 0, B: 0, A: 1}
	Transparent = Color{}

	// EmptyRegionColor fills regions that received no pixels.
	EmptyRegionColor = Transparent
)

// Model converts any color.Color into a Color.
var Model = color.ModelFunc(func(c color.Color) color.Color { return FromStd(c) })

// FromColorful wraps a go-colorful RGB color with the given alpha.
func FromColorful(c colorful.Color, alpha float64) Color {
	return Color{R: c.R, G: c.G, B: c.B, A: alpha}
}

// FromStd converts a standard library color.
func FromStd(c color.Color) Color {
	if mc, ok := c.(Color); ok {
		return mc
	}
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return Color{
		R: float64(n.R) / 0xffff,
		G: float64(n.G) / 0xffff,
		B: float64(n.B) / 0xffff,
		A: float64(n.A) / 0xffff,
	}
}

// Colorful returns the RGB part as a go-colorful color.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// NRGBA returns the 8-bit non-premultiplied form.
func (c Color) NRGBA() color.NRGBA {
	r, g, b := c.Colorful().Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(clamp01(c.A)*255 + 0.5)}
}

// RGBA implements color.Color with alpha-premultiplied 16-bit components.
func (c Color) RGBA() (r, g, b, a uint32) {
	alpha := clamp01(c.A)
	r = uint32(clamp01(c.R)*alpha*0xffff + 0.5)
	g = uint32(clamp01(c.G)*alpha*0xffff + 0.5)
	b = uint32(clamp01(c.B)*alpha*0xffff + 0.5)
	a = uint32(alpha*0xffff + 0.5)
	return r, g, b, a
}

// Hex formats the RGB part as #rrggbb.
func (c Color) Hex() string {
	return c.Colorful().Clamped().Hex()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
