package ui

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/cavemosaic/internal/mosaic"
	"github.com/samdwyer/cavemosaic/internal/world"
)

func simScreen(t *testing.T, w, h int) (*Screen, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	s, err := NewScreenFrom(sim)
	if err != nil {
		t.Fatalf("NewScreenFrom failed: %v", err)
	}
	sim.SetSize(w, h)
	t.Cleanup(s.Close)
	return s, sim
}

func rowText(sim tcell.SimulationScreen, y, n int) string {
	var sb strings.Builder
	for x := 0; x < n; x++ {
		r, _, _, _ := sim.GetContent(x, y)
		sb.WriteRune(r)
	}
	return sb.String()
}

func TestRenderGrid(t *testing.T) {
	s, sim := simScreen(t, 20, 10)
	grid := world.GridFromRows(
		"###",
		"#..",
		"#.#",
	)

	NewRenderer(s).RenderGrid(grid, "hi")

	want := []string{"###", "#..", "#.#"}
	for y, line := range want {
		if got := rowText(sim, y, 3); got != line {
			t.Errorf("row %d = %q, want %q", y, got, line)
		}
	}
	if got := rowText(sim, 3, 2); got != "hi" {
		t.Errorf("caption = %q, want %q", got, "hi")
	}
}

func TestRenderGridClips(t *testing.T) {
	s, sim := simScreen(t, 4, 3)
	grid := world.NewGrid(10, 10)

	NewRenderer(s).RenderGrid(grid, "x")

	// Two rows of grid then the caption on the last row.
	if got := rowText(sim, 0, 4); got != "...." {
		t.Errorf("row 0 = %q", got)
	}
	if r, _, _, _ := sim.GetContent(0, 2); r != 'x' {
		t.Errorf("caption rune = %q, want 'x'", r)
	}
}

func TestFit(t *testing.T) {
	small := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	if fit(small, 10, 10) != image.Image(small) {
		t.Error("image that fits should be returned unchanged")
	}

	tests := []struct {
		w, h, cols, rows int
		wantW, wantH     int
	}{
		{128, 128, 80, 24, 24, 24},
		{100, 10, 50, 20, 50, 5},
		{10, 100, 50, 20, 2, 20},
	}
	for _, tt := range tests {
		src := image.NewNRGBA(image.Rect(0, 0, tt.w, tt.h))
		got := fit(src, tt.cols, tt.rows).Bounds()
		if got.Dx() != tt.wantW || got.Dy() != tt.wantH {
			t.Errorf("fit(%dx%d into %dx%d) = %dx%d, want %dx%d",
				tt.w, tt.h, tt.cols, tt.rows, got.Dx(), got.Dy(), tt.wantW, tt.wantH)
		}
	}
}

func TestRenderImage(t *testing.T) {
	s, sim := simScreen(t, 30, 20)
	img := mosaic.NewImage(5, 4)
	for i := range img.Pix {
		img.Pix[i] = mosaic.Red
	}

	NewRenderer(s).RenderImage(img, "mosaic")

	if r, _, _, _ := sim.GetContent(2, 2); r != ' ' {
		t.Errorf("image cell rune = %q, want space", r)
	}
	if got := rowText(sim, 4, 6); got != "mosaic" {
		t.Errorf("caption = %q, want %q", got, "mosaic")
	}
}

func TestPreviewStepAndHold(t *testing.T) {
	s, sim := simScreen(t, 40, 12)
	p := NewPreview(s, 0)

	grid := world.GridFromRows("#.", ".#")
	p.Step(3, grid)
	if got := rowText(sim, 2, 6); got != "step 3" {
		t.Errorf("step caption = %q", got)
	}

	sim.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{G: 255, A: 255})
	p.Hold(img, "done")
	if got := rowText(sim, 2, 4); got != "done" {
		t.Errorf("hold caption = %q", got)
	}
}
