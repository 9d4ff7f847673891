// Package sim provides an in-memory W5500 register file that speaks the chip's SPI frame format.
// It backs the simulate bus mode and the end-to-end tests.
package sim

import (
	"errors"
	"fmt"
	"sync"

	"golang-w5500d/internal/pkg/register"

	"tinygo.org/x/drivers"
)

const (
	headerLen = 3
	blockSize = 0x10000
)

// ErrShortFrame is returned when a frame does not carry a full address and control phase.
var ErrShortFrame = errors.New("sim: frame shorter than header")

// Write is one register write observed by the chip.
type Write struct {
	Block  register.Block
	Offset register.Offset
	Data   []byte
}

// Chip is a simulated W5500. It is safe for concurrent use.
type Chip struct {
	mu     sync.Mutex
	blocks map[register.Block][]byte
	faults map[register.Offset]error
	writes []Write
}

// Ensure Chip implements the tinygo SPI interface
var _ drivers.SPI = (*Chip)(nil)

// NewChip returns a chip in its power-on state with the PHY link up.
func NewChip() *Chip {
	c := &Chip{
		blocks: make(map[register.Block][]byte),
		faults: make(map[register.Offset]error),
	}
	c.powerOn()
	c.SetLink(true)
	return c
}

func (c *Chip) powerOn() {
	common := make([]byte, blockSize)
	common[register.Version] = register.ChipVersion
	c.blocks[register.Common] = common
}

func (c *Chip) block(b register.Block) []byte {
	mem, ok := c.blocks[b]
	if !ok {
		mem = make([]byte, blockSize)
		c.blocks[b] = mem
	}
	return mem
}

// Tx decodes one W5500 frame from w. Reads are answered in r at the data phase positions.
func (c *Chip) Tx(w, r []byte) error {
	if len(w) < headerLen {
		return ErrShortFrame
	}
	if r != nil && len(r) != len(w) {
		return fmt.Errorf("sim: buffer length mismatch (w=%d r=%d)", len(w), len(r))
	}

	offset := register.Offset(uint16(w[0])<<8 | uint16(w[1]))
	block := register.Block(w[2] >> 3)
	write := w[2]&0x04 != 0
	n := len(w) - headerLen

	if int(offset)+n > blockSize {
		return fmt.Errorf("sim: frame at %#04x overruns block", offset)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	mem := c.block(block)
	if !write {
		if r != nil {
			copy(r[headerLen:], mem[offset:int(offset)+n])
		}
		return nil
	}

	if block == register.Common {
		if err, ok := c.faults[offset]; ok {
			return err
		}
	}

	data := append([]byte(nil), w[headerLen:]...)
	c.writes = append(c.writes, Write{Block: block, Offset: offset, Data: data})
	copy(mem[offset:], data)

	if block == register.Common && offset == register.Mode && n > 0 && data[0]&register.ModeReset != 0 {
		link := mem[register.PHYConfig] & register.PHYLink
		c.powerOn()
		c.blocks[register.Common][register.PHYConfig] |= link
	}
	return nil
}

// Transfer is not used by the W5500 frame format.
func (c *Chip) Transfer(b byte) (byte, error) {
	return 0, errors.New("sim: single byte transfers are not supported")
}

// Register returns a copy of n bytes of the common block starting at offset.
func (c *Chip) Register(offset register.Offset, n int) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]byte, n)
	copy(out, c.block(register.Common)[offset:])
	return out
}

// SetLink sets the PHY link status bit.
func (c *Chip) SetLink(up bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	mem := c.block(register.Common)
	if up {
		mem[register.PHYConfig] |= register.PHYLink
	} else {
		mem[register.PHYConfig] &^= register.PHYLink
	}
}

// FailWrites makes every write to the common register at offset fail with err until ClearFaults.
func (c *Chip) FailWrites(offset register.Offset, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.faults[offset] = err
}

// ClearFaults removes all injected write failures.
func (c *Chip) ClearFaults() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.faults = make(map[register.Offset]error)
}

// Writes returns the writes observed so far, oldest first.
func (c *Chip) Writes() []Write {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Write(nil), c.writes...)
}

// ResetWrites clears the write log.
func (c *Chip) ResetWrites() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = nil
}
