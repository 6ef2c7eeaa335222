package led

import (
	"bytes"
	"testing"
	"time"

	"periph.io/x/conn/v3/spi/spitest"

	"github.com/coreman2200/funtimes-stripfx/internal/strip"
)

func TestExpandSymbols(t *testing.T) {
	// high -> 110, low -> 100, reset slot -> 000
	got := Expand([]strip.PulseCode{strip.CodeHigh, strip.CodeLow, 0})
	// 110 100 000 -> 0b11010000 0b0.......
	want := []byte{0xD0, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("expanded % X, want % X", got, want)
	}
}

func TestExpandLength(t *testing.T) {
	f := strip.NewFrameBuffer(8).Frame()
	enc := Expand(f.Codes)
	if want := (len(f.Codes)*3 + 7) / 8; len(enc) != want {
		t.Fatalf("encoded %d bytes, want %d", len(enc), want)
	}
}

func TestSPITransmitWritesSymbolStream(t *testing.T) {
	var buf bytes.Buffer
	tx, err := NewSPIFromPort(spitest.NewRecordRaw(&buf), 0)
	if err != nil {
		t.Fatalf("spi: %v", err)
	}
	defer tx.Close()

	fb := strip.NewFrameBuffer(1)
	fb.SetPixelRGB(0, 0, 255, 0) // pure green: 8 high codes then 16 low

	if err := fb.Send(tx); err != nil {
		t.Fatalf("send: %v", err)
	}
	waitIdle(t, tx)

	got := buf.Bytes()
	wantLen := (len(fb.Codes())*3 + 7) / 8
	if len(got) != wantLen {
		t.Fatalf("wrote %d bytes, want %d", len(got), wantLen)
	}
	// 8x 110 then 16x 100
	wantHead := []byte{0xDB, 0x6D, 0xB6, 0x92, 0x49, 0x24, 0x92, 0x49, 0x24}
	if !bytes.Equal(got[:9], wantHead) {
		t.Fatalf("data prefix % X, want % X", got[:9], wantHead)
	}
	// latch tail is a solid low line
	for i := 9; i < len(got); i++ {
		if got[i] != 0 {
			t.Fatalf("latch byte %d is %#x, want 0", i, got[i])
		}
	}
}

func TestSPIRejectsOverlappingTransfer(t *testing.T) {
	var buf bytes.Buffer
	tx, err := NewSPIFromPort(spitest.NewRecordRaw(&buf), 0)
	if err != nil {
		t.Fatalf("spi: %v", err)
	}
	defer tx.Close()

	tx.mu.Lock()
	tx.busy = true
	tx.mu.Unlock()

	if err := tx.Transmit(strip.NewFrameBuffer(1).Frame()); err != strip.ErrBusy {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func waitIdle(t *testing.T, tx *SPI) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for tx.Busy() {
		if time.Now().After(deadline) {
			t.Fatal("transfer never completed")
		}
		time.Sleep(time.Millisecond)
	}
}
