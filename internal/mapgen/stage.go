// Package mapgen sequences cave generation, mosaic rendering and treasure placement.
package mapgen

// Stage identifies a step of the generation pipeline.
type Stage int

const (
	// StageCave runs the cellular automaton.
	StageCave Stage = iota
	// StageMosaic tessellates the cave image.
	StageMosaic
	// StageTreasure marks treasure spots on the mosaic.
	StageTreasure
)

// String returns a human-readable stage name.
func (s Stage) String() string {
	switch s {
	case StageCave:
		return "cave"
	case StageMosaic:
		return "mosaic"
	case StageTreasure:
		return "treasure"
	default:
		return "unknown"
	}
}
