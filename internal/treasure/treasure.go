// Package treasure picks boundary cells in a cave and marks them on a mosaic.
package treasure

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/cavemosaic/internal/mosaic"
	"github.com/samdwyer/cavemosaic/internal/telemetry"
	"github.com/samdwyer/cavemosaic/internal/world"
)

const (
	// DefaultCount is the number of treasures placed per map.
	DefaultCount = 10
	// DefaultCrossSize is the marker half-width.
	DefaultCrossSize = 5
)

var (
	// ErrInvalidConfig is returned for negative counts or sizes.
	ErrInvalidConfig = errors.New("treasure: invalid config")
	// ErrInsufficientCandidates is returned when more treasures are requested than spots exist.
	ErrInsufficientCandidates = errors.New("treasure: insufficient candidates")
)

// Options controls treasure placement.
type Options struct {
	Count     int
	CrossSize int
	Seed      int64
	Color     mosaic.Color
}

// DefaultOptions returns the standard placement settings.
func DefaultOptions() Options {
	return Options{
		Count:     DefaultCount,
		CrossSize: DefaultCrossSize,
		Color:     mosaic.Red,
	}
}

// FindCandidates returns every floor cell whose upper neighbor is a wall,
// keeping margin cells away from each edge. Cells are scanned column by column.
func FindCandidates(grid *world.Grid, margin int) []world.Point {
	if margin < 0 {
		margin = 0
	}
	var spots []world.Point
	for x := margin; x < grid.Width-margin; x++ {
		for y := margin; y < grid.Height-margin; y++ {
			if !grid.Alive(x, y) && grid.Alive(x, y-1) {
				spots = append(spots, world.Point{X: x, Y: y})
			}
		}
	}
	return spots
}

// Choose samples count distinct spots without replacement. The input slice is
// left untouched.
func Choose(spots []world.Point, count int, seed int64) ([]world.Point, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: count must be non-negative, got %d", ErrInvalidConfig, count)
	}
	if count > len(spots) {
		return nil, fmt.Errorf("%w: requested %d, only %d available", ErrInsufficientCandidates, count, len(spots))
	}

	rng := rand.New(rand.NewSource(seed))
	pool := append([]world.Point(nil), spots...)
	chosen := make([]world.Point, count)
	for i := 0; i < count; i++ {
		// Swap a random remaining spot into slot i so it cannot be drawn again.
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
		chosen[i] = pool[i]
	}
	return chosen, nil
}

// DrawCross stamps an X through center: both diagonals from -size to +size.
// Pixels that fall outside the image are skipped.
func DrawCross(img *mosaic.Image, center world.Point, size int, c mosaic.Color) {
	for i := -size; i <= size; i++ {
		for _, p := range []world.Point{center.Add(i, i), center.Add(-i, i)} {
			img.Set(p.X, p.Y, c)
		}
	}
}

// Place finds candidate spots in grid, chooses opts.Count of them and marks
// each on img. It returns the chosen spots. On error img is not modified.
func Place(ctx context.Context, grid *world.Grid, img *mosaic.Image, opts Options) ([]world.Point, error) {
	tracer := telemetry.Tracer("treasure")
	_, span := tracer.Start(ctx, "treasure.place")
	defer span.End()

	if opts.CrossSize < 0 {
		err := fmt.Errorf("%w: cross size must be non-negative, got %d", ErrInvalidConfig, opts.CrossSize)
		span.RecordError(err)
		return nil, err
	}

	candidates := FindCandidates(grid, opts.CrossSize)
	chosen, err := Choose(candidates, opts.Count, opts.Seed)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	for _, spot := range chosen {
		DrawCross(img, spot, opts.CrossSize, opts.Color)
	}

	span.SetAttributes(
		attribute.Int("treasure.candidates", len(candidates)),
		attribute.Int("treasure.placed", len(chosen)),
		attribute.Int("treasure.cross_size", opts.CrossSize),
	)
	return chosen, nil
}
