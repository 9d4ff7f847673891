package port

import (
	"context"

	"golang-w5500d/internal/pkg/register"
)

// FrameWriter writes a payload to consecutive registers of a block.
// This is the only bus operation the reconciliation core needs.
type FrameWriter interface {
	// WriteFrame writes data starting at offset within block in a single bus transaction.
	WriteFrame(block register.Block, offset register.Offset, data []byte) error
}

// FrameReader reads consecutive registers of a block.
type FrameReader interface {
	// ReadFrame fills data from the registers starting at offset within block in a single bus transaction.
	ReadFrame(block register.Block, offset register.Offset, data []byte) error
}

// Bus is the register-oriented serial bus the chip is attached to.
// Callers must not use a Bus from more than one goroutine at a time.
type Bus interface {
	FrameWriter
	FrameReader
}

// BusLocker serializes access to a bus shared with other processes.
type BusLocker interface {
	// Lock blocks until the bus is exclusively held or the context is done.
	Lock(ctx context.Context) error

	// Unlock releases the bus.
	Unlock() error
}
