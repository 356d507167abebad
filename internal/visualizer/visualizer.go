// Package visualizer renders a running Piet program as an
// ebiten.Game: the source image scaled up, with the current codel
// highlighted as execution proceeds (supplemented feature,
// SPEC_FULL.md item 1). The Game shape — a thin struct wrapping the
// real driver, with Update() a no-op because stepping happens on a
// separate goroutine, and Draw() blitting a pixel buffer into the
// ebiten screen — is grounded on console/bus.go's Bus.
package visualizer

import (
	"context"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/pietlang/pietvm/internal/pietgrid"
	"github.com/pietlang/pietvm/internal/pietvm"
)

const (
	scale         = 8
	highlightSize = 2
)

// Visualizer is an ebiten.Game that shows a *pietvm.Program's source
// image with the current position highlighted. Its fields are written
// by OnStep and Finished on the goroutine driving Run and read by Draw
// on the ebiten goroutine with no mutex or atomic access, matching the
// teacher's Bus, which also accepts unsynchronized cross-goroutine
// reads of PPU pixel state between Tick() and Draw().
type Visualizer struct {
	src    image.Image
	w, h   int
	pos    pietgrid.Position
	steps  int
	done   bool
	reason pietvm.TerminationReason
}

// New returns a Visualizer over src, sized scale screen pixels per
// source pixel.
func New(src image.Image) *Visualizer {
	b := src.Bounds()
	return &Visualizer{src: src, w: b.Dx() * scale, h: b.Dy() * scale}
}

// OnStep is passed as Options.OnStep to pietvm.Load: it records the
// latest step for Draw to render.
func (v *Visualizer) OnStep(info pietvm.StepInfo) {
	v.pos = info.To
	v.steps = info.Step
}

// Finished records that the run is complete and why; called after
// Run returns. Draw does not render this state.
func (v *Visualizer) Finished(reason pietvm.TerminationReason) {
	v.done = true
	v.reason = reason
}

// Layout implements ebiten.Game.
func (v *Visualizer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.w, v.h
}

// Update implements ebiten.Game. Program execution is driven by a
// separate goroutine (see Run), not by the ebiten frame clock.
func (v *Visualizer) Update() error {
	return nil
}

// Draw implements ebiten.Game: blit the source image scaled up, then
// overlay a marker at the current position.
func (v *Visualizer) Draw(screen *ebiten.Image) {
	b := v.src.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := v.src.At(b.Min.X+x, b.Min.Y+y)
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					screen.Set(x*scale+dx, y*scale+dy, c)
				}
			}
		}
	}

	marker := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	ox, oy := v.pos.Col*scale, v.pos.Row*scale
	for dy := 0; dy < highlightSize; dy++ {
		for dx := 0; dx < scale; dx++ {
			screen.Set(ox+dx, oy+dy, marker)
			screen.Set(ox+dx, oy+scale-1-dy, marker)
		}
	}
}

// Run drives p.Run in a background goroutine, wiring v.Finished as the
// completion callback, and blocks until ebiten's window closes and the
// run has returned. Mirrors
// gintendo.go's pattern of starting Bus.Run(ctx) in a goroutine
// alongside ebiten.RunGame on the main goroutine.
func Run(ctx context.Context, p *pietvm.Program, v *Visualizer) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		reason, err := p.Run(ctx)
		if err != nil {
			reason = p.Reason()
		}
		v.Finished(reason)
	}()

	err := ebiten.RunGame(v)
	<-done
	return err
}
