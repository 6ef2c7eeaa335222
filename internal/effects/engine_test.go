package effects

import (
	"testing"
	"time"

	"github.com/coreman2200/funtimes-stripfx/internal/strip"
)

// fakeTx captures transmitted frames and lets tests fake an in-flight transfer.
type fakeTx struct {
	frames []strip.Frame
	busy   bool
}

func (f *fakeTx) Transmit(fr strip.Frame) error {
	f.frames = append(f.frames, fr)
	return nil
}
func (f *fakeTx) Busy() bool   { return f.busy }
func (f *fakeTx) Close() error { return nil }

func newTestEngine(n int, opts ...Option) (*Engine, *fakeTx) {
	tx := &fakeTx{}
	fb := strip.NewFrameBuffer(n)
	opts = append([]Option{WithSeed(1)}, opts...)
	return New(fb, tx, opts...), tx
}

func TestBootState(t *testing.T) {
	e, _ := newTestEngine(8)
	if e.Effect() != RainbowChase {
		t.Fatalf("boot effect %v, want rainbow_chase", e.Effect())
	}
	if !e.AutoCycle() {
		t.Fatal("auto-cycle should start enabled")
	}
	if e.Brightness() != DefaultBrightness || e.Speed() != DefaultSpeed {
		t.Fatalf("boot brightness/speed %d/%d", e.Brightness(), e.Speed())
	}
}

func TestTickSendsEveryFrame(t *testing.T) {
	e, tx := newTestEngine(8)
	now := time.Unix(0, 0)
	for i := 0; i < 5; i++ {
		e.Tick(now.Add(time.Duration(i) * 100 * time.Millisecond))
	}
	if len(tx.frames) != 5 {
		t.Fatalf("got %d frames, want 5", len(tx.frames))
	}
}

func TestBusyTransmitterSkipsFrame(t *testing.T) {
	e, tx := newTestEngine(8)
	tx.busy = true
	e.Tick(time.Unix(0, 0))
	if len(tx.frames) != 0 {
		t.Fatal("tick must not transmit while a transfer is outstanding")
	}
	tx.busy = false
	e.Tick(time.Unix(1, 0))
	if len(tx.frames) != 1 {
		t.Fatal("tick should resume once the transmitter is idle")
	}
}

func TestAutoCycleAdvancesInOrderAndWraps(t *testing.T) {
	e, _ := newTestEngine(8)
	e.SetCycleDuration(time.Second)

	now := time.Unix(0, 0)
	e.Tick(now) // arms the cycle timer

	want := []Effect{Fire, Breathe, TheaterChase, Twinkle, StaticColor, RainbowChase}
	for _, w := range want {
		now = now.Add(1100 * time.Millisecond)
		e.Tick(now)
		if e.Effect() != w {
			t.Fatalf("expected %v after cycle, got %v", w, e.Effect())
		}
	}
}

func TestAutoCycleAdvancesExactlyOneStep(t *testing.T) {
	e, _ := newTestEngine(8)
	e.SetCycleDuration(time.Second)
	now := time.Unix(0, 0)
	e.Tick(now)
	// A long stall still advances only one step per tick.
	e.Tick(now.Add(10 * time.Second))
	if e.Effect() != Fire {
		t.Fatalf("expected single-step advance to fire, got %v", e.Effect())
	}
}

func TestSetEffectDisablesAutoCycleAndClears(t *testing.T) {
	e, _ := newTestEngine(4)
	e.fb.SetColorRGB(255, 255, 255)

	e.SetEffect(Twinkle)
	if e.Effect() != Twinkle || e.AutoCycle() {
		t.Fatalf("manual select: effect=%v autoCycle=%v", e.Effect(), e.AutoCycle())
	}
	for i, b := range e.fb.RGB() {
		if b != 0 {
			t.Fatalf("buffer not cleared at byte %d", i)
		}
	}

	// cycling stays off until explicitly re-enabled
	now := time.Unix(0, 0)
	e.Tick(now)
	e.Tick(now.Add(time.Minute))
	if e.Effect() != Twinkle {
		t.Fatal("auto-cycle resumed without SetAutoCycle(true)")
	}

	e.SetAutoCycle(true)
	e.Tick(now.Add(2 * time.Minute))
	e.Tick(now.Add(3 * time.Minute))
	if e.Effect() == Twinkle {
		t.Fatal("auto-cycle did not resume after re-enable")
	}
}

func TestBreatheStaysInBoundsAndReverses(t *testing.T) {
	e, _ := newTestEngine(4)
	e.SetEffect(Breathe)

	now := time.Unix(0, 0)
	flips := 0
	prevDir := e.breatheDir
	for i := 0; i < 400; i++ {
		e.Tick(now.Add(time.Duration(i) * 100 * time.Millisecond))
		if e.breatheVal < 10 || e.breatheVal > 90 {
			t.Fatalf("breathe value %d left [10,90] at tick %d", e.breatheVal, i)
		}
		if e.breatheDir != prevDir {
			if e.breatheVal != 10 && e.breatheVal != 90 {
				t.Fatalf("direction flipped at %d, not at a bound", e.breatheVal)
			}
			flips++
			prevDir = e.breatheDir
		}
	}
	if flips < 2 {
		t.Fatalf("expected multiple direction reversals, got %d", flips)
	}
}

func TestTheaterChaseFramePeriodThree(t *testing.T) {
	e, tx := newTestEngine(9)
	e.SetEffect(TheaterChase)

	now := time.Unix(0, 0)
	for i := 0; i < 6; i++ {
		if got, want := e.theaterFrame, uint8(i%3); got != want {
			t.Fatalf("tick %d: frame %d, want %d", i, got, want)
		}
		e.Tick(now.Add(time.Duration(i) * 100 * time.Millisecond))
	}

	// Every third pixel lit, the rest dark.
	last := tx.frames[len(tx.frames)-1]
	lit := 2 // frame counter was 2 during the last render
	for i := 0; i < 9; i++ {
		r, g, b := last.RGB[i*3], last.RGB[i*3+1], last.RGB[i*3+2]
		on := r != 0 || g != 0 || b != 0
		if (i%3 == lit) != on {
			t.Fatalf("pixel %d lit=%v, frame=%d", i, on, lit)
		}
	}
}

func TestTwinkleRendersLiteralMagentaFill(t *testing.T) {
	e, tx := newTestEngine(3)
	e.SetEffect(Twinkle)
	e.Tick(time.Unix(0, 0))

	last := tx.frames[len(tx.frames)-1]
	for i := 0; i < 3; i++ {
		r, g, b := last.RGB[i*3], last.RGB[i*3+1], last.RGB[i*3+2]
		// literal fixed-point output of HSL(300,100,50)
		if r != 243 || g != 0 || b != 255 {
			t.Fatalf("pixel %d = (%d,%d,%d), want (243,0,255)", i, r, g, b)
		}
	}
}

func TestBrightnessAndSpeedClamp(t *testing.T) {
	e, _ := newTestEngine(4)
	e.SetBrightness(200)
	if e.Brightness() != 100 {
		t.Fatalf("brightness clamped to %d, want 100", e.Brightness())
	}
	e.SetSpeed(0)
	if e.Speed() != 1 {
		t.Fatalf("speed clamped to %d, want 1", e.Speed())
	}
	e.SetSpeed(255)
	if e.Speed() != 100 {
		t.Fatalf("speed clamped to %d, want 100", e.Speed())
	}
}

func TestSpeedShortensRainbowDelay(t *testing.T) {
	e, _ := newTestEngine(8)
	e.SetEffect(RainbowChase)
	e.SetSpeed(10)
	slow := e.Tick(time.Unix(0, 0))
	e.SetSpeed(90)
	fast := e.Tick(time.Unix(1, 0))
	if fast >= slow {
		t.Fatalf("delay did not shrink with speed: slow=%v fast=%v", slow, fast)
	}
	if slow != 90*time.Millisecond || fast != 10*time.Millisecond {
		t.Fatalf("expected 100-speed ms delays, got slow=%v fast=%v", slow, fast)
	}
}

func TestOffBlacksOutStrip(t *testing.T) {
	e, tx := newTestEngine(4)
	e.fb.SetColorRGB(200, 10, 10)
	e.Off()
	last := tx.frames[len(tx.frames)-1]
	for i, b := range last.RGB {
		if b != 0 {
			t.Fatalf("byte %d not zero after Off", i)
		}
	}
	data := 4 * strip.BitsPerLED
	for i := data; i < len(last.Codes); i++ {
		if last.Codes[i] != 0 {
			t.Fatalf("reset tail slot %d not zero", i)
		}
	}
}

func TestEffectNamesRoundTrip(t *testing.T) {
	for e := StaticColor; e < numEffects; e++ {
		got, ok := EffectByName(e.String())
		if !ok || got != e {
			t.Fatalf("name round trip failed for %v", e)
		}
	}
	if _, ok := EffectByName("disco"); ok {
		t.Fatal("unknown name resolved")
	}
}
