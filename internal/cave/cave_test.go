package cave

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/samdwyer/cavemosaic/internal/world"
)

func TestRunReproducibility(t *testing.T) {
	p := DefaultParams()
	p.Width = 40
	p.Height = 30
	p.Seed = 12345

	ctx := context.Background()
	g1, err := Run(ctx, p, nil)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	g2, err := Run(ctx, p, nil)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if !g1.Equal(g2) {
		t.Fatal("runs with identical parameters produced different grids")
	}
	if g1.Fingerprint() != g2.Fingerprint() {
		t.Fatal("fingerprints differ for identical grids")
	}
}

func TestRunDifferentSeeds(t *testing.T) {
	p := DefaultParams()
	p.Width = 40
	p.Height = 30

	ctx := context.Background()
	p.Seed = 12345
	g1, err := Run(ctx, p, nil)
	if err != nil {
		t.Fatal(err)
	}
	p.Seed = 54321
	g2, err := Run(ctx, p, nil)
	if err != nil {
		t.Fatal(err)
	}

	if g1.Equal(g2) {
		t.Error("caves with different seeds should not be identical")
	}
}

func TestRunNoiseReproducibility(t *testing.T) {
	p := DefaultParams()
	p.Width = 32
	p.Height = 32
	p.Seed = 7
	p.Noise = true

	ctx := context.Background()
	g1, err := Run(ctx, p, nil)
	if err != nil {
		t.Fatal(err)
	}
	g2, err := Run(ctx, p, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !g1.Equal(g2) {
		t.Fatal("noise-seeded runs are not deterministic")
	}
}

func TestRunMatchesManualSteps(t *testing.T) {
	p := DefaultParams()
	p.Width = 16
	p.Height = 12
	p.Seed = 99
	p.Steps = 3

	var seen []*world.Grid
	got, err := Run(context.Background(), p, func(step int, g *world.Grid) {
		if step != len(seen)+1 {
			t.Errorf("sink got step %d, want %d", step, len(seen)+1)
		}
		seen = append(seen, g)
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(seen) != p.Steps {
		t.Fatalf("sink called %d times, want %d", len(seen), p.Steps)
	}

	want, err := Initialize(p.Width, p.Height, p.Seed, p.ChanceAlive)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < p.Steps; i++ {
		want = Step(want, p.BirthLimit, p.DeathLimit)
		if !want.Equal(seen[i]) {
			t.Fatalf("intermediate grid %d differs from manual step", i+1)
		}
	}
	if !want.Equal(got) {
		t.Fatal("final grid differs from manual steps")
	}
}

func TestRunZeroStepsReturnsInitialGrid(t *testing.T) {
	p := DefaultParams()
	p.Width = 10
	p.Height = 10
	p.Seed = 3
	p.Steps = 0

	calls := 0
	got, err := Run(context.Background(), p, func(int, *world.Grid) { calls++ })
	if err != nil {
		t.Fatal(err)
	}
	want, _ := Initialize(p.Width, p.Height, p.Seed, p.ChanceAlive)
	if !got.Equal(want) {
		t.Fatal("zero steps should return the initial grid")
	}
	if calls != 0 {
		t.Errorf("sink called %d times, want 0", calls)
	}
}

func TestInitializeExtremes(t *testing.T) {
	empty, err := Initialize(8, 8, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if empty.Count() != 0 {
		t.Errorf("chance 0 produced %d walls", empty.Count())
	}

	full, err := Initialize(8, 8, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if full.Count() != 64 {
		t.Errorf("chance 1 produced %d walls, want 64", full.Count())
	}
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero width", func(p *Params) { p.Width = 0 }},
		{"negative height", func(p *Params) { p.Height = -1 }},
		{"chance below zero", func(p *Params) { p.ChanceAlive = -0.1 }},
		{"chance above one", func(p *Params) { p.ChanceAlive = 1.5 }},
		{"chance NaN", func(p *Params) { p.ChanceAlive = math.NaN() }},
		{"negative steps", func(p *Params) { p.Steps = -1 }},
		{"birth limit too high", func(p *Params) { p.BirthLimit = 9 }},
		{"death limit negative", func(p *Params) { p.DeathLimit = -1 }},
		{"noise without scale", func(p *Params) { p.Noise = true; p.NoiseScale = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			g, err := Run(context.Background(), p, nil)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if g != nil {
				t.Error("failed run must not return a grid")
			}
		})
	}

	if _, err := Initialize(0, 5, 1, 0.5); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Initialize with zero width: %v", err)
	}
	if _, err := InitializeNoise(5, 5, 1, 0.5, -1); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("InitializeNoise with negative scale: %v", err)
	}
}

func TestLimitBoundsAccepted(t *testing.T) {
	for _, limit := range []int{0, maxNeighbors} {
		p := DefaultParams()
		p.Width, p.Height = 8, 8
		p.BirthLimit = limit
		p.DeathLimit = limit
		if err := p.Validate(); err != nil {
			t.Errorf("limit %d should be valid: %v", limit, err)
		}
	}
}

func TestCountAliveNeighborsSingleCell(t *testing.T) {
	for _, alive := range []bool{false, true} {
		g := world.NewGrid(1, 1)
		g.Set(0, 0, alive)
		if n := CountAliveNeighbors(g, 0, 0); n != 8 {
			t.Errorf("1x1 grid (alive=%v): got %d neighbors, want 8", alive, n)
		}
	}
}

func TestCountAliveNeighbors(t *testing.T) {
	g := world.GridFromRows(
		"#..",
		".#.",
		"..#",
	)

	tests := []struct {
		x, y int
		want int
	}{
		{1, 1, 2}, // center sees both diagonal walls
		{0, 0, 6}, // corner: 5 out of bounds + center
		{2, 0, 6}, // corner: 5 out of bounds + center
		{1, 0, 5}, // edge: 3 out of bounds + (0,0) + center
		{2, 1, 5}, // edge: 3 out of bounds + center + (2,2)
	}

	for _, tt := range tests {
		if got := CountAliveNeighbors(g, tt.x, tt.y); got != tt.want {
			t.Errorf("CountAliveNeighbors(%d,%d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestStepAllDeadGrowsCorners(t *testing.T) {
	g := world.NewGrid(5, 5)
	next := Step(g, 4, 3)

	// Interior cells see no walls; only the border feels the outer wall.
	for x := 1; x < 4; x++ {
		for y := 1; y < 4; y++ {
			if next.Alive(x, y) {
				t.Errorf("interior cell (%d,%d) was born from zero neighbors", x, y)
			}
		}
	}
	// Corners see 5 outside cells, which beats a birth limit of 4.
	if !next.Alive(0, 0) {
		t.Error("corner should be born from the solid border")
	}
	// Edge cells see only 3 outside cells.
	if next.Alive(2, 0) {
		t.Error("edge cell should stay floor with 3 neighbors")
	}
}

func TestStepAllDeadHighBirthLimit(t *testing.T) {
	g := world.NewGrid(5, 5)
	next := Step(g, 8, 3)
	if next.Count() != 0 {
		t.Fatalf("no cell can exceed 8 neighbors, got %d walls", next.Count())
	}
}

func TestStepHandComputed(t *testing.T) {
	g := world.GridFromRows(
		"#..",
		".#.",
		"..#",
	)
	before := g.Clone()

	next := Step(g, 4, 3)

	// Neighbor counts for this grid:
	//   6 5 6
	//   5 2 5
	//   6 5 6
	// Walls survive with >= 3, floors are born with > 4.
	want := world.GridFromRows(
		"###",
		"#.#",
		"###",
	)
	if !next.Equal(want) {
		t.Fatalf("step mismatch:\ngot\n%swant\n%s", next, want)
	}
	if !g.Equal(before) {
		t.Fatal("Step mutated its input")
	}
}

func TestStepDeathRule(t *testing.T) {
	g := world.GridFromRows(
		".....",
		".....",
		"..#..",
		".....",
		".....",
	)

	// Lone wall has zero neighbors and dies with any positive death limit.
	if Step(g, 8, 1).Alive(2, 2) {
		t.Error("isolated wall should die when deathLimit is 1")
	}
	// With deathLimit 0 every wall survives.
	if !Step(g, 8, 0).Alive(2, 2) {
		t.Error("wall should survive when deathLimit is 0")
	}
}
