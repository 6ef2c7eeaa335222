package led

import (
	"image"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"

	"github.com/coreman2200/funtimes-stripfx/internal/strip"
)

// NRZ drives the strip through periph's nrzled device, which does its own
// NRZ bit expansion from plain RGB. It consumes the frame's RGB view rather
// than the pulse codes. Draws are synchronous, so Busy is always false by
// the time Transmit returns.
type NRZ struct {
	drawer display.Drawer
	n      int
}

// NewNRZ opens the named SPI port for an n-LED strip. Without a usable
// port it falls back to a console screen drawer, which keeps headless
// development working.
func NewNRZ(dev string, n int) *NRZ {
	p, err := spireg.Open(dev)
	if err != nil {
		log.Warn().Err(err).Str("dev", dev).Msg("no SPI port, drawing to console")
		return &NRZ{drawer: screen.New(n), n: n}
	}
	opts := nrzled.Opts{
		NumPixels: n,
		Channels:  3,
		Freq:      2500 * physic.KiloHertz,
	}
	d, err := nrzled.NewSPI(p, &opts)
	if err != nil {
		log.Warn().Err(err).Msg("nrzled init failed, drawing to console")
		return &NRZ{drawer: screen.New(n), n: n}
	}
	return &NRZ{drawer: d, n: n}
}

// Transmit draws the frame's RGB row through the device.
func (d *NRZ) Transmit(f strip.Frame) error {
	n := len(f.RGB) / 3
	if n > d.n {
		n = d.n
	}
	im := image.NewNRGBA(image.Rect(0, 0, n, 1))
	for x := 0; x < n; x++ {
		im.Pix[x*4+0] = f.RGB[x*3+0]
		im.Pix[x*4+1] = f.RGB[x*3+1]
		im.Pix[x*4+2] = f.RGB[x*3+2]
		im.Pix[x*4+3] = 0xFF
	}
	return d.drawer.Draw(d.drawer.Bounds(), im, image.Point{})
}

// Busy is always false: Draw blocks until the device accepted the frame.
func (d *NRZ) Busy() bool { return false }

// Close halts the drawer, blanking the output.
func (d *NRZ) Close() error { return d.drawer.Halt() }
