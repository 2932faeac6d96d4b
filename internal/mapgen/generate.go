package mapgen

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/cavemosaic/internal/cave"
	"github.com/samdwyer/cavemosaic/internal/mosaic"
	"github.com/samdwyer/cavemosaic/internal/telemetry"
	"github.com/samdwyer/cavemosaic/internal/treasure"
	"github.com/samdwyer/cavemosaic/internal/world"
)

// Hooks lets callers observe a run. Both fields are optional and neither can
// affect the result.
type Hooks struct {
	// OnStep receives every intermediate cave grid.
	OnStep cave.StepSink
	// OnStage is called after each stage completes.
	OnStage func(stage Stage, elapsed time.Duration)
}

// Output is everything a generation run produced.
type Output struct {
	RunID     string
	Seed      int64
	Cave      *world.Grid
	CaveImage *mosaic.Image
	Mosaic    *mosaic.Result
	Final     *mosaic.Image
	Treasures []world.Point
}

// Generate runs the full pipeline: grow the cave, tessellate its image, then
// mark treasures on a copy of the mosaic.
func Generate(ctx context.Context, cfg Config, hooks Hooks) (*Output, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	palette, err := cfg.Palette()
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	tracer := telemetry.Tracer("mapgen")
	ctx, span := tracer.Start(ctx, "mapgen.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("run.id", runID),
		attribute.Int64("run.seed", cfg.Seed),
	)

	stageDone := func(s Stage, start time.Time) {
		if hooks.OnStage != nil {
			hooks.OnStage(s, time.Since(start))
		}
	}

	start := time.Now()
	grid, err := cave.Run(ctx, cfg.CaveParams(), hooks.OnStep)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%s stage: %w", StageCave, err)
	}
	stageDone(StageCave, start)

	start = time.Now()
	caveImage := mosaic.FromGrid(grid, palette.Wall, palette.Floor)
	res, err := mosaic.Generate(ctx, caveImage, cfg.Regions, cfg.Seed, cfg.UseMean)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%s stage: %w", StageMosaic, err)
	}
	stageDone(StageMosaic, start)

	start = time.Now()
	final := res.Image.Clone()
	spots, err := treasure.Place(ctx, grid, final, treasure.Options{
		Count:     cfg.Treasures,
		CrossSize: cfg.CrossSize,
		Seed:      cfg.Seed,
		Color:     palette.Marker,
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%s stage: %w", StageTreasure, err)
	}
	stageDone(StageTreasure, start)

	span.SetAttributes(
		attribute.Int("run.treasures", len(spots)),
		attribute.String("run.cave_fingerprint", fmt.Sprintf("%016x", grid.Fingerprint())),
	)

	return &Output{
		RunID:     runID,
		Seed:      cfg.Seed,
		Cave:      grid,
		CaveImage: caveImage,
		Mosaic:    res,
		Final:     final,
		Treasures: spots,
	}, nil
}

// MosaicFromImage tessellates an arbitrary image with the configured region
// count, seed and aggregation mode.
func MosaicFromImage(ctx context.Context, src image.Image, cfg Config) (*mosaic.Result, error) {
	if cfg.Regions <= 0 {
		return nil, fmt.Errorf("%w: regions must be positive, got %d", ErrInvalidConfig, cfg.Regions)
	}
	if src == nil {
		return nil, fmt.Errorf("%w: no source image", ErrInvalidConfig)
	}

	tracer := telemetry.Tracer("mapgen")
	ctx, span := tracer.Start(ctx, "mapgen.mosaic_image")
	defer span.End()

	res, err := mosaic.Generate(ctx, mosaic.FromImage(src), cfg.Regions, cfg.Seed, cfg.UseMean)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%s stage: %w", StageMosaic, err)
	}
	return res, nil
}
