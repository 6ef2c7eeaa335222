// Package tests steps diagnostic patterns through the frame buffer, one
// frame per call, for checking wiring and color order on real hardware.
package tests

import (
	"github.com/coreman2200/funtimes-stripfx/internal/colorspace"
	"github.com/coreman2200/funtimes-stripfx/internal/strip"
)

type Kind string

const (
	None           Kind = ""
	IndexSweep     Kind = "index_sweep"
	RGBChannels    Kind = "rgb_channels"
	RainbowClassic Kind = "rainbow_classic"
	PastelWave     Kind = "pastel_wave"
)

// Kinds lists the runnable patterns.
func Kinds() []Kind {
	return []Kind{IndexSweep, RGBChannels, RainbowClassic, PastelWave}
}

type Plan struct{ Kind Kind }

type Runner struct {
	plan Plan
	step int
	hue  uint16
}

func NewRunner(plan Plan) *Runner { return &Runner{plan: plan} }

func (r *Runner) Kind() Kind { return r.plan.Kind }

// Step renders the next pattern frame; returns false when the pattern has
// finished.
func (r *Runner) Step(fb *strip.FrameBuffer) bool {
	n := fb.Len()

	switch r.plan.Kind {
	case IndexSweep:
		if r.step >= n {
			return false
		}
		fb.Clear()
		fb.SetPixelRGB(r.step, 255, 255, 255)

	case RGBChannels:
		if r.step >= 9 {
			return false
		}
		switch r.step % 3 {
		case 0:
			fb.SetColorRGB(255, 0, 0)
		case 1:
			fb.SetColorRGB(0, 255, 0)
		case 2:
			fb.SetColorRGB(0, 0, 255)
		}

	case RainbowClassic:
		if r.step >= 255 {
			return false
		}
		for i := 0; i < n; i++ {
			pos := uint8((r.step + i*255/n) % 255)
			fb.SetPixel(i, colorspace.Wheel(pos))
		}

	case PastelWave:
		if r.step >= 360 {
			return false
		}
		for i := 0; i < n; i++ {
			hue := (r.hue + uint16(i*360/n)) % 360
			fb.SetPixelHSL(i, hue, 60, 80)
		}
		r.hue = (r.hue + 1) % 360

	default:
		return false
	}
	r.step++
	return true
}
