// Package effects runs the strip animation state machine: one active effect,
// its continuous parameters, and per-tick update rules. A single goroutine
// owns the engine; the websocket control surface serializes its calls around
// the tick loop.
package effects

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-stripfx/internal/colorspace"
	"github.com/coreman2200/funtimes-stripfx/internal/strip"
)

// Defaults applied by New.
const (
	DefaultBrightness    = 50
	DefaultSpeed         = 50
	DefaultCycleDuration = 5 * time.Second

	baseDelay = 50 * time.Millisecond
)

// Engine owns all animation state. Nothing here is package-global, so
// independent strips can run side by side (and tests can run in parallel).
type Engine struct {
	fb *strip.FrameBuffer
	tx strip.Transmitter

	current Effect
	space   ColorSpace

	hue           uint16 // 0-359, shared accumulator for static/breathe/theater
	rainbowOffset uint16 // 0-359, rainbow rotation
	brightness    uint8  // 0-100
	speed         uint8  // 1-100, higher is faster
	breatheVal    uint8  // 10-90 ping-pong
	breatheDir    int8   // +1 or -1
	theaterFrame  uint8  // 0-2

	autoCycle     bool
	cycleDuration time.Duration
	lastCycle     time.Time

	rnd *rand.Rand
}

// Option tweaks a new Engine.
type Option func(*Engine)

// WithSeed fixes the random source used by the fire effect.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rnd = rand.New(rand.NewSource(seed)) }
}

// WithColorSpace selects the rainbow rendering space.
func WithColorSpace(cs ColorSpace) Option {
	return func(e *Engine) { e.space = cs }
}

// New returns an engine in its boot state: rainbow chase, hue 0, 50%
// brightness, auto-cycling every 5 seconds.
func New(fb *strip.FrameBuffer, tx strip.Transmitter, opts ...Option) *Engine {
	e := &Engine{
		fb:            fb,
		tx:            tx,
		current:       RainbowChase,
		space:         SpaceHSV,
		brightness:    DefaultBrightness,
		speed:         DefaultSpeed,
		breatheVal:    50,
		breatheDir:    1,
		autoCycle:     true,
		cycleDuration: DefaultCycleDuration,
		rnd:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Effect returns the active effect.
func (e *Engine) Effect() Effect { return e.current }

// AutoCycle reports whether the engine advances effects on its own.
func (e *Engine) AutoCycle() bool { return e.autoCycle }

// Space returns the rainbow rendering color space.
func (e *Engine) Space() ColorSpace { return e.space }

// Brightness returns the global brightness percentage.
func (e *Engine) Brightness() uint8 { return e.brightness }

// Speed returns the animation speed level.
func (e *Engine) Speed() uint8 { return e.speed }

// SetEffect switches to the given effect immediately, clears the strip and
// drops out of auto-cycle mode. Re-enable cycling with SetAutoCycle.
func (e *Engine) SetEffect(effect Effect) {
	if effect >= numEffects {
		return
	}
	e.current = effect
	e.autoCycle = false
	e.fb.Clear()
	log.Debug().Stringer("effect", effect).Msg("manual effect select")
}

// SetAutoCycle turns automatic effect cycling on or off. Turning it on
// restarts the cycle timer on the next tick.
func (e *Engine) SetAutoCycle(on bool) {
	e.autoCycle = on
	e.lastCycle = time.Time{}
}

// SetCycleDuration sets the dwell time per effect while auto-cycling.
func (e *Engine) SetCycleDuration(d time.Duration) {
	if d > 0 {
		e.cycleDuration = d
	}
}

// SetBrightness clamps to 0-100 and applies on subsequent ticks.
func (e *Engine) SetBrightness(brightness uint8) {
	if brightness > 100 {
		brightness = 100
	}
	e.brightness = brightness
}

// SetSpeed clamps to 1-100; higher is faster.
func (e *Engine) SetSpeed(speed uint8) {
	if speed > 100 {
		speed = 100
	}
	if speed < 1 {
		speed = 1
	}
	e.speed = speed
}

// SetColorSpace selects how the rainbow effect renders.
func (e *Engine) SetColorSpace(cs ColorSpace) {
	if int(cs) < len(spaceNames) {
		e.space = cs
	}
}

// Off blacks the strip out and pushes the dark frame.
func (e *Engine) Off() {
	e.fb.Clear()
	e.send()
}

// Tick advances the state machine one frame: auto-cycle bookkeeping, render
// into the frame buffer, transmit, and report the delay the caller should
// sleep before the next tick. If the previous transfer is still in flight
// the whole frame is skipped, keeping exactly one transmission outstanding.
func (e *Engine) Tick(now time.Time) time.Duration {
	if e.tx.Busy() {
		return baseDelay
	}

	if e.lastCycle.IsZero() {
		e.lastCycle = now
	}
	if e.autoCycle && now.Sub(e.lastCycle) > e.cycleDuration {
		e.current = e.current.next()
		e.lastCycle = now
		e.fb.Clear()
		log.Debug().Stringer("effect", e.current).Msg("auto-cycle advance")
	}

	delay := baseDelay
	switch e.current {
	case StaticColor:
		e.fb.SetColorHSV(e.hue, 100, e.brightness)
		e.hue = (e.hue + 1) % 360

	case RainbowChase:
		e.renderRainbow()
		delay = e.speedDelay(100, 1)

	case Fire:
		e.renderFire()
		delay = e.speedDelay(100, 1)

	case Breathe:
		e.fb.SetColorHSV(e.hue, 100, e.breatheVal)
		e.breatheVal = uint8(int8(e.breatheVal) + e.breatheDir)
		if e.breatheVal >= 90 || e.breatheVal <= 10 {
			e.breatheDir = -e.breatheDir
		}
		e.hue = (e.hue + 1) % 360
		delay = e.speedDelay(150, 1)

	case TheaterChase:
		e.renderTheaterChase()
		e.theaterFrame = (e.theaterFrame + 1) % 3
		e.hue = (e.hue + 5) % 360
		delay = e.speedDelay(200, 2)

	case Twinkle:
		// Despite the name, twinkle is a fixed magenta pastel fill.
		e.fb.SetColorHSL(300, 100, 50)
	}

	e.send()
	return delay
}

// Run ticks the engine until the context is cancelled, sleeping each
// returned inter-frame delay.
func (e *Engine) Run(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-timer.C:
			timer.Reset(e.Tick(now))
		}
	}
}

func (e *Engine) renderRainbow() {
	n := e.fb.Len()
	switch e.space {
	case SpaceHSL:
		for i := 0; i < n; i++ {
			hue := (e.rainbowOffset + uint16(i*360/n)) % 360
			e.fb.SetPixelHSL(i, hue, 100, 50) // pastel regardless of brightness
		}
	case SpaceRGB:
		for i := 0; i < n; i++ {
			pos := uint8((int(e.rainbowOffset) + i*255/n) % 255)
			e.fb.SetPixel(i, colorspace.Wheel(pos))
		}
	default: // SpaceHSV
		for i := 0; i < n; i++ {
			hue := (e.rainbowOffset + uint16(i*360/n)) % 360
			e.fb.SetPixelHSV(i, hue, 100, e.brightness)
		}
	}
	e.rainbowOffset = (e.rainbowOffset + 2) % 360
}

// renderFire flickers randomized brightness across warm orange-red hues.
func (e *Engine) renderFire() {
	n := e.fb.Len()
	for i := 0; i < n; i++ {
		hue := uint16(e.rnd.Intn(26)) + 10 // deep red to orange
		val := uint8(e.rnd.Intn(71)) + 30  // 30-100%
		e.fb.SetPixelHSV(i, hue, 100, val)
	}
}

func (e *Engine) renderTheaterChase() {
	n := e.fb.Len()
	for i := 0; i < n; i++ {
		if uint8(i%3) == e.theaterFrame {
			e.fb.SetPixelHSV(i, e.hue, 100, e.brightness)
		} else {
			e.fb.SetPixelRGB(i, 0, 0, 0)
		}
	}
}

// speedDelay maps the speed level to an inter-frame delay of
// (base - factor*speed) milliseconds, floored at zero.
func (e *Engine) speedDelay(base, factor int) time.Duration {
	ms := base - factor*int(e.speed)
	if ms < 0 {
		ms = 0
	}
	return time.Duration(ms) * time.Millisecond
}

func (e *Engine) send() {
	if err := e.fb.Send(e.tx); err != nil {
		log.Warn().Err(err).Msg("frame transmit failed")
	}
}
