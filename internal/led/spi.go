// Package led holds the Transmitter implementations: hardware SPI, the
// nrzled display driver, and a headless simulator.
package led

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"

	"github.com/coreman2200/funtimes-stripfx/internal/strip"
)

// DefaultSPISpeed suits the 3x bit-expansion scheme: each 416ns SPI bit is
// one third of the 1.25us WS2812B bit period.
const DefaultSPISpeed = 2400 * physic.KiloHertz

// symbol threshold: pulse codes at or above this count as a logical 1.
const highThreshold = (strip.CodeHigh + strip.CodeLow) / 2

// SPI streams pulse-coded frames over a spidev port. Each pulse code
// expands to a 3-bit NRZ symbol (1 -> 110, 0 -> 100, reset slot -> 000),
// so the latch tail becomes a low line for the strip's reset time.
// Transfers run on their own goroutine; Busy reports completion.
type SPI struct {
	mu   sync.Mutex
	port spi.PortCloser
	conn spi.Conn
	busy bool
}

// NewSPI opens the named SPI port (e.g. "/dev/spidev0.0" or ""). A zero
// speed selects DefaultSPISpeed.
func NewSPI(dev string, speed physic.Frequency) (*SPI, error) {
	p, err := spireg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("open spi port: %w", err)
	}
	return NewSPIFromPort(p, speed)
}

// NewSPIFromPort wraps an already-open port; tests hand in a recorder.
func NewSPIFromPort(p spi.PortCloser, speed physic.Frequency) (*SPI, error) {
	if speed == 0 {
		speed = DefaultSPISpeed
	}
	c, err := p.Connect(speed, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("connect spi: %w", err)
	}
	return &SPI{port: p, conn: c}, nil
}

// Transmit begins a one-shot asynchronous transfer of the frame. It returns
// strip.ErrBusy when the previous transfer has not completed.
func (s *SPI) Transmit(f strip.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return fmt.Errorf("led: spi transmitter closed")
	}
	if s.busy {
		return strip.ErrBusy
	}
	s.busy = true

	enc := Expand(f.Codes)
	go func() {
		if err := s.conn.Tx(enc, nil); err != nil {
			log.Warn().Err(err).Msg("spi transfer failed")
		}
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()
	return nil
}

// Busy reports whether a transfer is still on the wire.
func (s *SPI) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Close releases the port. Any in-flight transfer finishes first.
func (s *SPI) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port, s.conn = nil, nil
	return err
}

// Expand packs pulse codes into the 3-bits-per-code SPI stream, MSB first,
// zero-padded to a whole byte at the end.
func Expand(codes []strip.PulseCode) []byte {
	out := make([]byte, (len(codes)*3+7)/8)
	bit := 0
	for _, c := range codes {
		var sym byte
		switch {
		case c == 0:
			sym = 0b000
		case c >= highThreshold:
			sym = 0b110
		default:
			sym = 0b100
		}
		for i := 2; i >= 0; i-- {
			if sym&(1<<i) != 0 {
				out[bit/8] |= 1 << (7 - bit%8)
			}
			bit++
		}
	}
	return out
}
