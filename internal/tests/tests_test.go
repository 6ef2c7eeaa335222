package tests

import (
	"testing"

	"github.com/coreman2200/funtimes-stripfx/internal/strip"
)

func TestIndexSweepVisitsEveryPixelOnce(t *testing.T) {
	fb := strip.NewFrameBuffer(5)
	r := NewRunner(Plan{Kind: IndexSweep})

	for i := 0; i < 5; i++ {
		if !r.Step(fb) {
			t.Fatalf("sweep ended early at step %d", i)
		}
		rgb := fb.RGB()
		for p := 0; p < 5; p++ {
			lit := rgb[p*3] != 0
			if lit != (p == i) {
				t.Fatalf("step %d: pixel %d lit=%v", i, p, lit)
			}
		}
	}
	if r.Step(fb) {
		t.Fatal("sweep should finish after the last pixel")
	}
}

func TestRGBChannelsCycle(t *testing.T) {
	fb := strip.NewFrameBuffer(3)
	r := NewRunner(Plan{Kind: RGBChannels})

	steps := 0
	for r.Step(fb) {
		ch := steps % 3
		rgb := fb.RGB()
		if rgb[ch] != 255 {
			t.Fatalf("step %d: channel %d not lit: %v", steps, ch, rgb[:3])
		}
		steps++
	}
	if steps != 9 {
		t.Fatalf("pattern ran %d steps, want 9", steps)
	}
}

func TestPastelWaveFinishes(t *testing.T) {
	fb := strip.NewFrameBuffer(8)
	r := NewRunner(Plan{Kind: PastelWave})
	steps := 0
	for r.Step(fb) {
		steps++
		if steps > 400 {
			t.Fatal("pastel wave never finished")
		}
	}
	if steps != 360 {
		t.Fatalf("pastel wave ran %d steps, want 360", steps)
	}
}

func TestUnknownKindIsDone(t *testing.T) {
	fb := strip.NewFrameBuffer(2)
	if NewRunner(Plan{Kind: None}).Step(fb) {
		t.Fatal("empty plan should be immediately done")
	}
}
