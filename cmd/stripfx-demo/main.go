// Headless demo: runs the effect engine against the simulated transmitter
// and logs frame throughput. Handy for profiling the animation loop on a
// dev machine with no strip attached.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-stripfx/internal/effects"
	"github.com/coreman2200/funtimes-stripfx/internal/led"
	"github.com/coreman2200/funtimes-stripfx/internal/strip"
)

func main() {
	var (
		leds     = flag.Int("leds", 60, "number of LEDs on the simulated strip")
		effect   = flag.String("effect", "", "run a single effect instead of auto-cycling")
		duration = flag.Duration("duration", 30*time.Second, "how long to run")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).
		Level(zerolog.DebugLevel)

	sim := led.NewSim()
	fb := strip.NewFrameBuffer(*leds)
	eng := effects.New(fb, sim)

	if *effect != "" {
		e, ok := effects.EffectByName(*effect)
		if !ok {
			log.Fatal().Str("effect", *effect).Msg("unknown effect")
		}
		eng.SetEffect(e)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	eng.Run(ctx)

	elapsed := time.Since(start)
	frames := sim.Frames()
	log.Info().
		Uint64("frames", frames).
		Dur("elapsed", elapsed).
		Float64("fps", float64(frames)/elapsed.Seconds()).
		Float64("last_amps", strip.EstimateCurrent(sim.LastFrame().RGB)).
		Msg("demo finished")
}
