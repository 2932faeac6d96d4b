// Package cave grows binary cave maps with a cellular automaton.
package cave

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/ojrac/opensimplex-go"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/cavemosaic/internal/telemetry"
	"github.com/samdwyer/cavemosaic/internal/world"
)

const (
	// Default cave parameters
	DefaultWidth       = 128
	DefaultHeight      = 128
	DefaultChanceAlive = 0.45
	DefaultBirthLimit  = 4
	DefaultDeathLimit  = 3
	DefaultSteps       = 5
	DefaultNoiseScale  = 0.08

	maxNeighbors = 8
)

// ErrInvalidConfig is returned when simulation parameters are out of range.
var ErrInvalidConfig = errors.New("cave: invalid config")

// StepSink observes the grid produced by each simulation step.
// The grid is never modified after it is handed to the sink.
type StepSink func(step int, grid *world.Grid)

// Params describes a full simulation run.
type Params struct {
	Width       int
	Height      int
	Seed        int64
	ChanceAlive float64
	BirthLimit  int
	DeathLimit  int
	Steps       int

	// Noise seeds the initial grid from OpenSimplex noise instead of
	// independent coin flips.
	Noise      bool
	NoiseScale float64
}

// DefaultParams returns the classic cave settings.
func DefaultParams() Params {
	return Params{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		ChanceAlive: DefaultChanceAlive,
		BirthLimit:  DefaultBirthLimit,
		DeathLimit:  DefaultDeathLimit,
		Steps:       DefaultSteps,
		NoiseScale:  DefaultNoiseScale,
	}
}

// Validate checks the parameters before anything is allocated.
func (p Params) Validate() error {
	if err := validateInit(p.Width, p.Height, p.ChanceAlive); err != nil {
		return err
	}
	if p.Steps < 0 {
		return fmt.Errorf("%w: steps must be non-negative, got %d", ErrInvalidConfig, p.Steps)
	}
	if p.BirthLimit < 0 || p.BirthLimit > maxNeighbors {
		return fmt.Errorf("%w: birth limit %d outside [0,%d]", ErrInvalidConfig, p.BirthLimit, maxNeighbors)
	}
	if p.DeathLimit < 0 || p.DeathLimit > maxNeighbors {
		return fmt.Errorf("%w: death limit %d outside [0,%d]", ErrInvalidConfig, p.DeathLimit, maxNeighbors)
	}
	if p.Noise && p.NoiseScale <= 0 {
		return fmt.Errorf("%w: noise scale must be positive, got %g", ErrInvalidConfig, p.NoiseScale)
	}
	return nil
}

func validateInit(width, height int, chanceAlive float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, got %dx%d", ErrInvalidConfig, width, height)
	}
	// The negated form also rejects NaN.
	if !(chanceAlive >= 0 && chanceAlive <= 1) {
		return fmt.Errorf("%w: chance alive %g outside [0,1]", ErrInvalidConfig, chanceAlive)
	}
	return nil
}

// Initialize fills a new grid where each cell is a wall with probability chanceAlive.
func Initialize(width, height int, seed int64, chanceAlive float64) (*world.Grid, error) {
	if err := validateInit(width, height, chanceAlive); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	grid := world.NewGrid(width, height)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			grid.Set(x, y, rng.Float64() < chanceAlive)
		}
	}
	return grid, nil
}

// InitializeNoise fills a new grid from normalized OpenSimplex noise. A cell is a
// wall where the sampled value is below chanceAlive, giving blobby starting shapes.
func InitializeNoise(width, height int, seed int64, chanceAlive, scale float64) (*world.Grid, error) {
	if err := validateInit(width, height, chanceAlive); err != nil {
		return nil, err
	}
	if scale <= 0 {
		return nil, fmt.Errorf("%w: noise scale must be positive, got %g", ErrInvalidConfig, scale)
	}

	noise := opensimplex.NewNormalized(seed)
	grid := world.NewGrid(width, height)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			v := noise.Eval2(float64(x)*scale, float64(y)*scale)
			grid.Set(x, y, v < chanceAlive)
		}
	}
	return grid, nil
}

// CountAliveNeighbors counts walls in the 8-cell Moore neighborhood of (x, y).
// Neighbors outside the grid count as walls.
func CountAliveNeighbors(grid *world.Grid, x, y int) int {
	count := 0
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if grid.Alive(x+dx, y+dy) {
				count++
			}
		}
	}
	return count
}

// Step returns the next generation without touching the input grid.
// A wall survives with at least deathLimit wall neighbors; a floor cell
// becomes wall with more than birthLimit.
func Step(grid *world.Grid, birthLimit, deathLimit int) *world.Grid {
	next := world.NewGrid(grid.Width, grid.Height)
	for x := 0; x < grid.Width; x++ {
		for y := 0; y < grid.Height; y++ {
			n := CountAliveNeighbors(grid, x, y)
			if grid.Alive(x, y) {
				next.Set(x, y, n >= deathLimit)
			} else {
				next.Set(x, y, n > birthLimit)
			}
		}
	}
	return next
}

// Run initializes a grid and applies Steps generations, reporting each one to sink.
func Run(ctx context.Context, p Params, sink StepSink) (*world.Grid, error) {
	tracer := telemetry.Tracer("cave")
	_, span := tracer.Start(ctx, "cave.run")
	defer span.End()

	if err := p.Validate(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	startTime := time.Now()

	var (
		grid *world.Grid
		err  error
	)
	if p.Noise {
		grid, err = InitializeNoise(p.Width, p.Height, p.Seed, p.ChanceAlive, p.NoiseScale)
	} else {
		grid, err = Initialize(p.Width, p.Height, p.Seed, p.ChanceAlive)
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	for i := 0; i < p.Steps; i++ {
		grid = Step(grid, p.BirthLimit, p.DeathLimit)
		if sink != nil {
			sink(i+1, grid)
		}
	}

	span.SetAttributes(
		attribute.Int("cave.width", p.Width),
		attribute.Int("cave.height", p.Height),
		attribute.Int("cave.steps", p.Steps),
		attribute.Bool("cave.noise", p.Noise),
		attribute.Int("cave.wall_count", grid.Count()),
		attribute.String("cave.fingerprint", fmt.Sprintf("%016x", grid.Fingerprint())),
		attribute.Int64("cave.generation_ms", time.Since(startTime).Milliseconds()),
	)
	return grid, nil
}
