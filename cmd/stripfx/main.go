package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-stripfx/internal/config"
	"github.com/coreman2200/funtimes-stripfx/internal/effects"
	"github.com/coreman2200/funtimes-stripfx/internal/led"
	"github.com/coreman2200/funtimes-stripfx/internal/strip"
	"github.com/coreman2200/funtimes-stripfx/internal/ws"
)

func main() {
	// ---- Flags (remain usable; config.yaml can override most) ----
	var (
		leds       = flag.Int("leds", 8, "number of LEDs on the strip")
		brightness = flag.Int("brightness", 50, "global brightness 0..100")
		speed      = flag.Int("speed", 50, "animation speed 1..100")
		effect     = flag.String("effect", "", "boot effect (empty keeps the rainbow default)")
		space      = flag.String("colorspace", "hsv", "rainbow color space: hsv | hsl | rgb")
		driver     = flag.String("driver", "sim", "driver: spi | nrz | sim")
		spiDev     = flag.String("spi-dev", "/dev/spidev0.0", "SPI port for spi/nrz drivers")
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		simOnly    = flag.Bool("sim-only", false, "force simulation (no hardware output)")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Load config.yaml (optional) ----
	var cfg *config.Config
	if c, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	} else {
		cfg = c
	}

	// ---- Effective params (config overrides flags where available) ----
	eLeds, eBright, eSpeed := *leds, *brightness, *speed
	eEffect, eSpace := *effect, *space
	eDev := *spiDev
	whiteCap := 0.85

	if cfg != nil {
		if cfg.Leds > 0 {
			eLeds = cfg.Leds
		}
		if cfg.Brightness > 0 {
			eBright = cfg.Brightness
		}
		if cfg.Speed > 0 {
			eSpeed = cfg.Speed
		}
		if cfg.Effect != "" {
			eEffect = cfg.Effect
		}
		if cfg.ColorSpace != "" {
			eSpace = cfg.ColorSpace
		}
		if cfg.SPI.Dev != "" {
			eDev = cfg.SPI.Dev
		}
		whiteCap = cfg.Power.WhiteCap
	}

	// ---- Hardware registry ----
	if _, err := host.Init(); err != nil {
		log.Warn().Err(err).Msg("periph host init failed; hardware drivers unavailable")
	}

	// ---- Driver selection: -sim-only overrides; otherwise config.driver then -driver ----
	selected := *driver
	if cfg != nil && cfg.Driver != "" {
		selected = cfg.Driver
	}
	if *simOnly {
		selected = "sim"
	}

	var tx strip.Transmitter
	switch selected {
	case "sim":
		tx = led.NewSim()

	case "spi":
		speedHz := physic.Frequency(0)
		if cfg != nil && cfg.SPI.SpeedHz != 0 {
			speedHz = physic.Frequency(cfg.SPI.SpeedHz) * physic.Hertz
		}
		drv, err := led.NewSPI(eDev, speedHz)
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "spi").
				Str("dev", eDev).
				Msg("SPI init failed; falling back to SIM")
			tx = led.NewSim()
			selected = "sim"
		} else {
			tx = drv
		}

	case "nrz":
		tx = led.NewNRZ(eDev, eLeds)

	default:
		log.Warn().Str("driver", selected).Msg("unknown driver; using SIM")
		tx = led.NewSim()
		selected = "sim"
	}

	// ---- Strip and engine ----
	fb := strip.NewFrameBuffer(eLeds)
	fb.SetWhiteCap(whiteCap)

	opts := []effects.Option{}
	if cs, ok := effects.SpaceByName(eSpace); ok {
		opts = append(opts, effects.WithColorSpace(cs))
	}
	eng := effects.New(fb, tx, opts...)
	eng.SetBrightness(uint8(eBright))
	eng.SetSpeed(uint8(eSpeed))
	if eEffect != "" {
		if e, ok := effects.EffectByName(eEffect); ok {
			eng.SetEffect(e)
		} else {
			log.Warn().Str("effect", eEffect).Msg("unknown boot effect; keeping default")
		}
	}
	if cfg != nil {
		eng.SetAutoCycle(cfg.AutoCycle)
		if cfg.CycleMs > 0 {
			eng.SetCycleDuration(time.Duration(cfg.CycleMs) * time.Millisecond)
		}
	}

	// ---- State ----
	state := ws.NewState(fb, eng, tx, selected)
	state.ConfigPath = *configPath

	// ---- HTTP routes ----
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", state.HandleFramesWS)
	mux.HandleFunc("/diag", state.HandleDiagWS)
	mux.HandleFunc("/control", state.HandleControlWS)
	mux.HandleFunc("/health", state.HandleHealth)

	srv := &http.Server{
		Addr:         *addr,
		Handler:      withCORS(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ---- Run render loop & server ----
	go state.RunRenderLoop()
	go func() {
		log.Info().Str("addr", *addr).Str("driver", selected).Int("leds", eLeds).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	// ---- Graceful shutdown ----
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	s := <-ch
	log.Info().Str("signal", s.String()).Msg("shutting down")

	_ = srv.Close()
	eng.Off()
	_ = tx.Close()
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
