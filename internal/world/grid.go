package world

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Grid is a dense boolean cave map stored in row-major order.
// A true cell is wall (alive), a false cell is floor (dead).
type Grid struct {
	Width  int
	Height int
	cells  []bool
}

// NewGrid allocates an all-floor grid. Callers validate dimensions;
// non-positive sizes produce an empty grid.
func NewGrid(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Grid{Width: width, Height: height, cells: make([]bool, width*height)}
}

// GridFromRows builds a grid from text rows where '#' marks a wall.
// Rows shorter than the first are padded with floor.
func GridFromRows(rows ...string) *Grid {
	if len(rows) == 0 {
		return NewGrid(0, 0)
	}
	g := NewGrid(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, ch := range []rune(row) {
			if x >= g.Width {
				break
			}
			g.Set(x, y, Tile(ch) == TileWall)
		}
	}
	return g
}

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid) Index(x, y int) int { return x + y*g.Width }

// InBounds reports whether (x, y) lies inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

// Alive returns the cell state. Anything outside the grid counts as wall.
func (g *Grid) Alive(x, y int) bool {
	if !g.InBounds(x, y) {
		return true
	}
	return g.cells[g.Index(x, y)]
}

// Set writes a cell. Writes outside the grid are ignored.
func (g *Grid) Set(x, y int, alive bool) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[g.Index(x, y)] = alive
}

// Cells exposes the backing slice.
func (g *Grid) Cells() []bool { return g.cells }

// Count returns the number of wall cells.
func (g *Grid) Count() int {
	n := 0
	for _, c := range g.cells {
		if c {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	out := &Grid{Width: g.Width, Height: g.Height, cells: make([]bool, len(g.cells))}
	copy(out.cells, g.cells)
	return out
}

// Equal reports whether two grids have identical dimensions and cells.
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.Width != other.Width || g.Height != other.Height {
		return false
	}
	for i, c := range g.cells {
		if other.cells[i] != c {
			return false
		}
	}
	return true
}

// Fingerprint hashes the dimensions and cell states.
func (g *Grid) Fingerprint() uint64 {
	buf := make([]byte, 0, 16+len(g.cells))
	buf = appendUint64(buf, uint64(g.Width))
	buf = appendUint64(buf, uint64(g.Height))
	for _, c := range g.cells {
		if c {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	}
	return xxhash.Sum64(buf)
}

// String renders the grid one row per line using tile runes.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow((g.Width + 1) * g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			b.WriteRune(TileFor(g.cells[g.Index(x, y)]).Rune())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func appendUint64(buf []byte, v uint64) []byte {
	for i := 0; i < 8; i++ {
		buf = append(buf, byte(v>>(8*i)))
	}
	return buf
}
