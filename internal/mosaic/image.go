package mosaic

import (
	"image"
	"image/color"

	"github.com/samdwyer/cavemosaic/internal/world"
)

// Image is a row-major buffer of Colors. len(Pix) is always Width*Height.
// It satisfies image.Image so encoders can consume it directly.
type Image struct {
	Width  int
	Height int
	Pix    []Color
}

// NewImage allocates a transparent image.
func NewImage(width, height int) *Image {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Image{Width: width, Height: height, Pix: make([]Color, width*height)}
}

// FromGrid paints walls and floors of a cave grid with the given colors.
func FromGrid(g *world.Grid, wall, floor Color) *Image {
	img := NewImage(g.Width, g.Height)
	for i, alive := range g.Cells() {
		if alive {
			img.Pix[i] = wall
		} else {
			img.Pix[i] = floor
		}
	}
	return img
}

// FromImage copies any image into a new Image anchored at the origin.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	img := NewImage(b.Dx(), b.Dy())
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			img.Pix[img.Index(x, y)] = FromStd(src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return img
}

// Index returns the Pix offset of (x, y).
func (m *Image) Index(x, y int) int { return x + y*m.Width }

// InBounds reports whether (x, y) is inside the image.
func (m *Image) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// Empty reports whether the image has no pixels.
func (m *Image) Empty() bool {
	return m == nil || m.Width <= 0 || m.Height <= 0
}

// Pixel returns the color at (x, y), or Transparent outside the image.
func (m *Image) Pixel(x, y int) Color {
	if !m.InBounds(x, y) {
		return Transparent
	}
	return m.Pix[m.Index(x, y)]
}

// Set writes a pixel. Writes outside the image are ignored.
func (m *Image) Set(x, y int, c Color) {
	if !m.InBounds(x, y) {
		return
	}
	m.Pix[m.Index(x, y)] = c
}

// Clone returns an independent copy.
func (m *Image) Clone() *Image {
	out := &Image{Width: m.Width, Height: m.Height, Pix: make([]Color, len(m.Pix))}
	copy(out.Pix, m.Pix)
	return out
}

// NRGBA converts the image to an 8-bit standard library image.
func (m *Image) NRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			out.SetNRGBA(x, y, m.Pix[m.Index(x, y)].NRGBA())
		}
	}
	return out
}

// ColorModel implements image.Image.
func (m *Image) ColorModel() color.Model { return Model }

// Bounds implements image.Image.
func (m *Image) Bounds() image.Rectangle { return image.Rect(0, 0, m.Width, m.Height) }

// At implements image.Image.
func (m *Image) At(x, y int) color.Color { return m.Pixel(x, y) }
