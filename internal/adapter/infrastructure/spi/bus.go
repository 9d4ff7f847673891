// Package spi provides the W5500 SPI frame adapter implementation.
package spi

import (
	"fmt"

	"golang-w5500d/internal/pkg/register"
	"golang-w5500d/internal/port"

	"tinygo.org/x/drivers"
)

const (
	// headerLen is the address phase (2 bytes, big-endian) plus the control phase (1 byte).
	headerLen = 3

	controlWrite = 0x04 // RWB
	controlVDM   = 0x00 // variable length data mode, chip select framed
)

// ChipSelect drives the chip select line; active is true while a frame is on the wire.
type ChipSelect func(active bool)

// Option configures a Bus.
type Option func(*Bus)

// WithChipSelect makes the Bus frame every transaction with cs. Only needed when the
// underlying drivers.SPI does not manage chip select itself (e.g. a microcontroller SPI peripheral).
func WithChipSelect(cs ChipSelect) Option {
	return func(b *Bus) {
		b.cs = cs
	}
}

// Bus is an adapter that implements the Bus port by framing register accesses for a W5500
// over any tinygo drivers.SPI implementation.
type Bus struct {
	spi drivers.SPI
	cs  ChipSelect

	// scratch buffers reused across frames, single owner
	tx []byte
	rx []byte
}

// Ensure Bus implements the Bus port
var _ port.Bus = (*Bus)(nil)

// NewBus creates a new W5500 frame adapter on top of spi.
func NewBus(spi drivers.SPI, opts ...Option) *Bus {
	b := &Bus{spi: spi}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WriteFrame writes data to the registers starting at offset within block in a single frame.
func (b *Bus) WriteFrame(block register.Block, offset register.Offset, data []byte) error {
	frame := b.header(&b.tx, block, offset, controlWrite, len(data))
	copy(frame[headerLen:], data)

	if err := b.transfer(frame, nil); err != nil {
		return fmt.Errorf("failed to write %d bytes at block %#02x offset %#04x: %w", len(data), block, offset, err)
	}
	return nil
}

// ReadFrame reads len(data) bytes from the registers starting at offset within block in a single frame.
func (b *Bus) ReadFrame(block register.Block, offset register.Offset, data []byte) error {
	frame := b.header(&b.tx, block, offset, 0, len(data))
	clear(frame[headerLen:])

	rx := grow(&b.rx, len(frame))
	if err := b.transfer(frame, rx); err != nil {
		return fmt.Errorf("failed to read %d bytes at block %#02x offset %#04x: %w", len(data), block, offset, err)
	}

	copy(data, rx[headerLen:])
	return nil
}

// header lays out the address and control phases at the start of *buf and returns a frame
// with room for n data bytes.
func (b *Bus) header(buf *[]byte, block register.Block, offset register.Offset, rw byte, n int) []byte {
	frame := grow(buf, headerLen+n)
	frame[0] = byte(offset >> 8)
	frame[1] = byte(offset)
	frame[2] = byte(block)<<3 | rw | controlVDM
	return frame
}

func (b *Bus) transfer(w, r []byte) error {
	if b.cs != nil {
		b.cs(true)
		defer b.cs(false)
	}
	return b.spi.Tx(w, r)
}

func grow(buf *[]byte, n int) []byte {
	if cap(*buf) < n {
		*buf = make([]byte, n)
	}
	*buf = (*buf)[:n]
	return *buf
}
