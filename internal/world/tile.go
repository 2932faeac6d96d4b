// Package world provides the cave grid model shared by every generation stage.
package world

// Tile represents a single cave cell for text rendering.
type Tile rune

const (
	// TileWall represents a solid (alive) cell.
	TileWall Tile = '#'
	// TileFloor represents an open (dead) cell.
	TileFloor Tile = '.'
)

// TileFor returns the tile matching a cell state.
func TileFor(alive bool) Tile {
	if alive {
		return TileWall
	}
	return TileFloor
}

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	return rune(t)
}
