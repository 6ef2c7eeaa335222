// Package strip encodes per-LED colors into the WS2812B one-wire pulse
// stream and hands finished frames to a Transmitter.
//
// Each 24-bit GRB word becomes 24 pulse codes, MSB first. A pulse code is
// the high-time of one 1.25us bit period expressed in timer counts against
// a 90-count reload: 58 (~900ns) for a logical 1, 29 (~350ns) for a logical
// 0. The stream ends with at least 50 all-zero slots so the strip latches.
package strip

import "github.com/coreman2200/funtimes-stripfx/internal/colorspace"

// PulseCode is the high-duration of a single encoded bit.
type PulseCode uint16

const (
	// BitsPerLED is the width of one GRB word on the wire.
	BitsPerLED = 24
	// ResetSlots is the all-zero latch tail appended after the last LED.
	ResetSlots = 50

	// CodeHigh encodes a logical 1 (~64% duty, ~900ns high).
	CodeHigh PulseCode = 58
	// CodeLow encodes a logical 0 (~32% duty, ~350ns high).
	CodeLow PulseCode = 29
)

// FrameBuffer holds the pulse-code stream for a fixed-length strip along
// with a plain RGB shadow of the same pixels. It has exactly one writer;
// snapshots for transmission are taken with Frame.
type FrameBuffer struct {
	n        int
	codes    []PulseCode
	rgb      []byte
	whiteCap float64 // 0 disables; otherwise caps r+g+b at whiteCap*3*255
}

// NewFrameBuffer returns a cleared buffer for n LEDs.
func NewFrameBuffer(n int) *FrameBuffer {
	if n < 1 {
		n = 1
	}
	f := &FrameBuffer{
		n:     n,
		codes: make([]PulseCode, n*BitsPerLED+ResetSlots),
		rgb:   make([]byte, n*3),
	}
	f.Clear()
	return f
}

// Len returns the number of LEDs.
func (f *FrameBuffer) Len() int { return f.n }

// Codes exposes the live pulse-code stream, data plus tail. Read-only use.
func (f *FrameBuffer) Codes() []PulseCode { return f.codes }

// RGB exposes the live RGB shadow. Read-only use.
func (f *FrameBuffer) RGB() []byte { return f.rgb }

// SetWhiteCap limits the per-pixel channel sum to cap*3*255 on every
// subsequent write. cap outside (0,1) disables the limiter.
func (f *FrameBuffer) SetWhiteCap(cap float64) {
	if cap <= 0 || cap >= 1 {
		f.whiteCap = 0
		return
	}
	f.whiteCap = cap
}

// SetPixelRGB encodes one pixel. Out-of-range indices are a no-op.
func (f *FrameBuffer) SetPixelRGB(pixel int, r, g, b uint8) {
	if pixel < 0 || pixel >= f.n {
		return
	}
	if f.whiteCap > 0 {
		r, g, b = capWhite(r, g, b, f.whiteCap)
	}
	f.rgb[pixel*3+0] = r
	f.rgb[pixel*3+1] = g
	f.rgb[pixel*3+2] = b

	// WS2812B wire order is GRB, MSB first.
	word := uint32(g)<<16 | uint32(r)<<8 | uint32(b)
	pos := pixel * BitsPerLED
	for i := 0; i < BitsPerLED; i++ {
		if word&(1<<(23-i)) != 0 {
			f.codes[pos+i] = CodeHigh
		} else {
			f.codes[pos+i] = CodeLow
		}
	}
}

// SetPixel encodes one pixel from an RGB triple.
func (f *FrameBuffer) SetPixel(pixel int, c colorspace.RGB) {
	f.SetPixelRGB(pixel, c.R, c.G, c.B)
}

// SetPixelHSV encodes one pixel from an HSV color.
func (f *FrameBuffer) SetPixelHSV(pixel int, hue uint16, sat, val uint8) {
	f.SetPixel(pixel, colorspace.HSVToRGB(hue, sat, val))
}

// SetPixelHSL encodes one pixel from an HSL color.
func (f *FrameBuffer) SetPixelHSL(pixel int, hue uint16, sat, light uint8) {
	f.SetPixel(pixel, colorspace.HSLToRGB(hue, sat, light))
}

// SetColorRGB encodes every pixel and re-zeroes the reset tail.
func (f *FrameBuffer) SetColorRGB(r, g, b uint8) {
	for i := 0; i < f.n; i++ {
		f.SetPixelRGB(i, r, g, b)
	}
	f.zeroTail()
}

// SetColorHSV sets every pixel from an HSV color.
func (f *FrameBuffer) SetColorHSV(hue uint16, sat, val uint8) {
	c := colorspace.HSVToRGB(hue, sat, val)
	f.SetColorRGB(c.R, c.G, c.B)
}

// SetColorHSL sets every pixel from an HSL color.
func (f *FrameBuffer) SetColorHSL(hue uint16, sat, light uint8) {
	c := colorspace.HSLToRGB(hue, sat, light)
	f.SetColorRGB(c.R, c.G, c.B)
}

// Clear blacks out the strip: every data slot carries the logical-0 code
// and the tail is absolute zero.
func (f *FrameBuffer) Clear() {
	data := f.n * BitsPerLED
	for i := range f.codes {
		if i < data {
			f.codes[i] = CodeLow
		} else {
			f.codes[i] = 0
		}
	}
	for i := range f.rgb {
		f.rgb[i] = 0
	}
}

// Frame snapshots the current buffer for transmission, so an in-flight
// transfer never observes writes from the next tick.
func (f *FrameBuffer) Frame() Frame {
	return Frame{
		Codes: append([]PulseCode(nil), f.codes...),
		RGB:   append([]byte(nil), f.rgb...),
	}
}

// Send delegates the frame to the transmitter and returns immediately.
// It does not wait for completion; callers gate on tx.Busy().
func (f *FrameBuffer) Send(tx Transmitter) error {
	return tx.Transmit(f.Frame())
}

func (f *FrameBuffer) zeroTail() {
	for i := f.n * BitsPerLED; i < len(f.codes); i++ {
		f.codes[i] = 0
	}
}
