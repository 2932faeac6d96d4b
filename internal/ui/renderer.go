package ui

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/cavemosaic/internal/world"
)

// Renderer draws caves and mosaics onto a screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// RenderGrid draws a cave grid as tile runes, clipped to the screen, with a
// caption on the row below it.
func (r *Renderer) RenderGrid(grid *world.Grid, caption string) {
	r.screen.Clear()

	cols, rows := r.screen.Size()
	rows-- // caption row
	for y := 0; y < grid.Height && y < rows; y++ {
		for x := 0; x < grid.Width && x < cols; x++ {
			tile := world.TileFor(grid.Alive(x, y))
			r.screen.SetContent(x, y, tile.Rune(), tileStyle(tile))
		}
	}

	r.RenderMessage(caption, min(grid.Height, rows))
	r.screen.Show()
}

// RenderImage paints img as background-colored cells. Images larger than the
// screen are shrunk to fit, keeping their aspect ratio.
func (r *Renderer) RenderImage(img image.Image, caption string) {
	r.screen.Clear()

	cols, rows := r.screen.Size()
	rows--
	img = fit(img, cols, rows)

	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			cr, cg, cb, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			bg := tcell.NewRGBColor(int32(cr>>8), int32(cg>>8), int32(cb>>8))
			r.screen.SetContent(x, y, ' ', tcell.StyleDefault.Background(bg))
		}
	}

	r.RenderMessage(caption, min(b.Dy(), rows))
	r.screen.Show()
}

// RenderMessage displays a message on the given row.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, ch := range []rune(msg) {
		r.screen.SetContent(i, y, ch, style)
	}
}

// tileStyle returns the appropriate style for a tile type.
func tileStyle(tile world.Tile) tcell.Style {
	switch tile {
	case world.TileWall:
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	case world.TileFloor:
		return tcell.StyleDefault.Foreground(tcell.ColorWhite)
	default:
		return tcell.StyleDefault
	}
}

// fit shrinks img to at most cols x rows. Images that already fit are
// returned as-is.
func fit(img image.Image, cols, rows int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= cols && h <= rows || cols <= 0 || rows <= 0 {
		return img
	}

	// Integer math keeps the aspect ratio: pick the tighter bound.
	nw, nh := cols, h*cols/w
	if nh > rows {
		nw, nh = w*rows/h, rows
	}
	return transform.Resize(img, max(nw, 1), max(nh, 1), transform.Box)
}
