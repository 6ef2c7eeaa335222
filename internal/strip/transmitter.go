package strip

import "errors"

// ErrBusy is returned by transmitters asked to start a transfer while the
// previous one is still on the wire.
var ErrBusy = errors.New("strip: transmission already in flight")

// Frame is one fully-encoded strip update: the pulse-code stream for the
// one-wire protocol plus the logical RGB view the codes were derived from.
// Both slices are snapshots owned by the receiver.
type Frame struct {
	Codes []PulseCode // 24 codes per LED followed by the reset tail
	RGB   []byte      // 3 bytes per LED, R G B
}

// Transmitter pushes a frame out over a timed output channel. Transmit
// begins a one-shot transfer and returns immediately; completion is internal
// to the implementation and observable through Busy. Callers must not start
// a new transfer while Busy reports true.
type Transmitter interface {
	Transmit(Frame) error
	Busy() bool
	Close() error
}
