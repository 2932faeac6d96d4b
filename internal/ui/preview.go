package ui

import (
	"fmt"
	"image"
	"time"

	"github.com/samdwyer/cavemosaic/internal/world"
)

// Preview shows automaton steps and finished images in the terminal. It only
// observes a run; nothing it does feeds back into generation.
type Preview struct {
	screen   *Screen
	renderer *Renderer
	delay    time.Duration
}

// NewPreview wraps screen, pausing delay after each automaton frame.
func NewPreview(screen *Screen, delay time.Duration) *Preview {
	return &Preview{
		screen:   screen,
		renderer: NewRenderer(screen),
		delay:    delay,
	}
}

// Step renders one automaton generation. Its signature matches cave.StepSink.
func (p *Preview) Step(step int, grid *world.Grid) {
	p.renderer.RenderGrid(grid, fmt.Sprintf("step %d  walls %d/%d", step, grid.Count(), grid.Width*grid.Height))
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
}

// Show renders img with a caption.
func (p *Preview) Show(img image.Image, caption string) {
	p.renderer.RenderImage(img, caption)
}

// Hold renders img and waits for a key press.
func (p *Preview) Hold(img image.Image, caption string) {
	p.Show(img, caption+"  (press any key)")
	p.screen.WaitKey()
}

// Close restores the terminal.
func (p *Preview) Close() {
	p.screen.Close()
}
