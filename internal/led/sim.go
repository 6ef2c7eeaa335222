package led

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-stripfx/internal/strip"
)

// Sim is a headless transmitter: it keeps the last frame for inspection and
// completes instantly. Used by tests, the demo command, and websocket-only
// deployments with no strip attached.
type Sim struct {
	mu     sync.Mutex
	last   strip.Frame
	frames uint64
}

// NewSim returns an idle simulator.
func NewSim() *Sim { return &Sim{} }

// Transmit records the frame.
func (s *Sim) Transmit(f strip.Frame) error {
	s.mu.Lock()
	s.last = f
	s.frames++
	n := s.frames
	s.mu.Unlock()
	if n%600 == 0 {
		log.Debug().Uint64("frames", n).Float64("amps", strip.EstimateCurrent(f.RGB)).
			Msg("sim transmitter")
	}
	return nil
}

// Busy is always false; simulated transfers complete inline.
func (s *Sim) Busy() bool { return false }

// Close is a no-op.
func (s *Sim) Close() error { return nil }

// LastFrame returns the most recently transmitted frame.
func (s *Sim) LastFrame() strip.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Frames returns how many frames have been transmitted.
func (s *Sim) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}
