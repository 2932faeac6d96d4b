package mosaic

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/cavemosaic/internal/telemetry"
	"github.com/samdwyer/cavemosaic/internal/world"
)

// DefaultRegions is the region count used when none is configured.
const DefaultRegions = 64

// ErrInvalidConfig is returned for a missing source image or a non-positive region count.
var ErrInvalidConfig = errors.New("mosaic: invalid config")

// Region summarizes one Voronoi cell.
type Region struct {
	Centroid world.Point
	Count    int
	Fill     Color
}

// Result is the outcome of a tessellation.
type Result struct {
	Image      *Image
	Centroids  []world.Point
	Assignment []int // pixel index -> region index
	Regions    []Region
}

// EmptyRegions returns the indices of regions that received no pixels.
func (r *Result) EmptyRegions() []int {
	var empty []int
	for i, reg := range r.Regions {
		if reg.Count == 0 {
			empty = append(empty, i)
		}
	}
	return empty
}

// Generate splits src into regionCount Voronoi regions around seeded random
// centroids and paints every pixel with its region's mean or mode color.
func Generate(ctx context.Context, src *Image, regionCount int, seed int64, useMean bool) (*Result, error) {
	tracer := telemetry.Tracer("mosaic")
	_, span := tracer.Start(ctx, "mosaic.generate")
	defer span.End()

	if src.Empty() {
		err := fmt.Errorf("%w: source image is missing or has zero area", ErrInvalidConfig)
		span.RecordError(err)
		return nil, err
	}
	if regionCount <= 0 {
		err := fmt.Errorf("%w: region count must be positive, got %d", ErrInvalidConfig, regionCount)
		span.RecordError(err)
		return nil, err
	}

	startTime := time.Now()
	w, h := src.Width, src.Height

	rng := rand.New(rand.NewSource(seed))
	centroids := Centroids(rng, w, h, regionCount)
	assignment := Assign(w, h, centroids)

	buckets := make([][]Color, regionCount)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			idx := x + y*w
			region := assignment[idx]
			buckets[region] = append(buckets[region], src.Pix[idx])
		}
	}

	regions := make([]Region, regionCount)
	for i, colors := range buckets {
		fill := EmptyRegionColor
		if len(colors) > 0 {
			if useMean {
				fill = MeanColor(colors)
			} else {
				fill = ModeColor(colors)
			}
		}
		regions[i] = Region{Centroid: centroids[i], Count: len(colors), Fill: fill}
	}

	out := NewImage(w, h)
	for idx, region := range assignment {
		out.Pix[idx] = regions[region].Fill
	}

	res := &Result{
		Image:      out,
		Centroids:  centroids,
		Assignment: assignment,
		Regions:    regions,
	}

	mode := "mode"
	if useMean {
		mode = "mean"
	}
	span.SetAttributes(
		attribute.Int("mosaic.width", w),
		attribute.Int("mosaic.height", h),
		attribute.Int("mosaic.regions", regionCount),
		attribute.Int("mosaic.empty_regions", len(res.EmptyRegions())),
		attribute.String("mosaic.aggregation", mode),
		attribute.Int64("mosaic.generation_ms", time.Since(startTime).Milliseconds()),
	)
	return res, nil
}

// Centroids draws n points uniformly over a width x height area, x before y.
func Centroids(rng *rand.Rand, width, height, n int) []world.Point {
	centroids := make([]world.Point, n)
	for i := range centroids {
		centroids[i] = world.Point{X: rng.Intn(width), Y: rng.Intn(height)}
	}
	return centroids
}

// Assign maps every pixel index (x + y*width) to its nearest centroid.
// This is a brute-force scan over all centroids.
func Assign(width, height int, centroids []world.Point) []int {
	assignment := make([]int, width*height)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			assignment[x+y*width] = ClosestCentroid(world.Point{X: x, Y: y}, centroids)
		}
	}
	return assignment
}

// ClosestCentroid returns the index of the nearest centroid to p. On equal
// distances the lowest index wins. It returns 0 for an empty slice.
func ClosestCentroid(p world.Point, centroids []world.Point) int {
	best := 0
	bestDist := -1
	for i, c := range centroids {
		d := p.DistSq(c)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// MeanColor averages the RGB components. Alpha is always opaque.
// An empty slice yields EmptyRegionColor.
func MeanColor(colors []Color) Color {
	if len(colors) == 0 {
		return EmptyRegionColor
	}
	var r, g, b float64
	for _, c := range colors {
		r += c.R
		g += c.G
		b += c.B
	}
	n := float64(len(colors))
	return Color{R: r / n, G: g / n, B: b / n, A: 1}
}

// ModeColor returns the most frequent exact color. Among colors with the same
// count, the one that appeared first in colors wins. An empty slice yields
// EmptyRegionColor.
func ModeColor(colors []Color) Color {
	if len(colors) == 0 {
		return EmptyRegionColor
	}
	counts := make(map[Color]int)
	order := make([]Color, 0)
	for _, c := range colors {
		if _, ok := counts[c]; !ok {
			order = append(order, c)
		}
		counts[c]++
	}

	mode := order[0]
	maxCount := 0
	for _, c := range order {
		if counts[c] > maxCount {
			maxCount = counts[c]
			mode = c
		}
	}
	return mode
}
