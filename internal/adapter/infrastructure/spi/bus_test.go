//go:build unit

package spi

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"golang-w5500d/internal/adapter/infrastructure/sim"
	"golang-w5500d/internal/pkg/register"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSPI captures raw frames and answers reads with a fixed pattern.
type recordingSPI struct {
	frames [][]byte
	reply  byte
	err    error
}

func (s *recordingSPI) Tx(w, r []byte) error {
	s.frames = append(s.frames, append([]byte(nil), w...))
	if s.err != nil {
		return s.err
	}
	for i := range r {
		r[i] = s.reply
	}
	return nil
}

func (s *recordingSPI) Transfer(b byte) (byte, error) {
	return s.reply, nil
}

func TestBus_WriteFrame(t *testing.T) {
	t.Run("FrameLayout", func(t *testing.T) {
		dev := &recordingSPI{}
		bus := NewBus(dev)

		require.NoError(t, bus.WriteFrame(register.Common, register.IP, []byte{192, 168, 1, 50}))
		require.Len(t, dev.frames, 1)
		// address 0x000F, control BSB=0 RWB=1 OM=00
		assert.Equal(t, []byte{0x00, 0x0F, 0x04, 192, 168, 1, 50}, dev.frames[0])
	})

	t.Run("BlockSelect", func(t *testing.T) {
		dev := &recordingSPI{}
		bus := NewBus(dev)

		require.NoError(t, bus.WriteFrame(register.Block(0x01), register.Offset(0x1234), []byte{0xAB}))
		assert.Equal(t, []byte{0x12, 0x34, 0x0C, 0xAB}, dev.frames[0])
	})

	t.Run("ErrorWrapped", func(t *testing.T) {
		spiErr := errors.New("transfer failed")
		bus := NewBus(&recordingSPI{err: spiErr})

		err := bus.WriteFrame(register.Common, register.Gateway, []byte{10, 0, 0, 1})
		assert.ErrorIs(t, err, spiErr)
		assert.Contains(t, err.Error(), "failed to write 4 bytes")
	})

	t.Run("ChipSelectFramesTransfer", func(t *testing.T) {
		var events []bool
		bus := NewBus(&recordingSPI{}, WithChipSelect(func(active bool) {
			events = append(events, active)
		}))

		require.NoError(t, bus.WriteFrame(register.Common, register.Mode, []byte{0}))
		assert.Equal(t, []bool{true, false}, events)
	})
}

func TestBus_ReadFrame(t *testing.T) {
	t.Run("FrameLayout", func(t *testing.T) {
		dev := &recordingSPI{reply: 0x5A}
		bus := NewBus(dev)

		data := make([]byte, 6)
		require.NoError(t, bus.ReadFrame(register.Common, register.MAC, data))
		assert.Equal(t, []byte{0x00, 0x09, 0x00, 0, 0, 0, 0, 0, 0}, dev.frames[0])
		assert.Equal(t, []byte{0x5A, 0x5A, 0x5A, 0x5A, 0x5A, 0x5A}, data)
	})

	t.Run("ReusesBuffersAcrossSizes", func(t *testing.T) {
		dev := &recordingSPI{}
		bus := NewBus(dev)

		require.NoError(t, bus.WriteFrame(register.Common, register.MAC, []byte{1, 2, 3, 4, 5, 6}))
		require.NoError(t, bus.ReadFrame(register.Common, register.Version, make([]byte, 1)))
		assert.Equal(t, []byte{0x00, 0x39, 0x00, 0x00}, dev.frames[1])
	})

	t.Run("ErrorWrapped", func(t *testing.T) {
		bus := NewBus(&recordingSPI{err: assert.AnError})

		err := bus.ReadFrame(register.Common, register.Version, make([]byte, 1))
		assert.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to read 1 bytes")
	})
}

func TestBus_WithSimulatedChip(t *testing.T) {
	chip := sim.NewChip()
	bus := NewBus(chip)

	require.NoError(t, bus.WriteFrame(register.Common, register.SubnetMask, []byte{255, 255, 255, 0}))

	got := make([]byte, 4)
	require.NoError(t, bus.ReadFrame(register.Common, register.SubnetMask, got))
	assert.Equal(t, []byte{255, 255, 255, 0}, got)
	assert.Equal(t, got, chip.Register(register.SubnetMask, 4))

	version := make([]byte, 1)
	require.NoError(t, bus.ReadFrame(register.Common, register.Version, version))
	assert.Equal(t, byte(register.ChipVersion), version[0])
}

func TestDeviceLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spidev0.0.lock")
	ctx := context.Background()

	first := NewDeviceLock(path)
	second := NewDeviceLock(path)

	require.NoError(t, first.Lock(ctx))

	t.Run("ContendedLockTimesOut", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(ctx, 120*time.Millisecond)
		defer cancel()

		err := second.Lock(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to lock")
	})

	t.Run("AcquiredAfterRelease", func(t *testing.T) {
		require.NoError(t, first.Unlock())
		require.NoError(t, second.Lock(ctx))
		assert.NoError(t, second.Unlock())
	})
}

func TestNopLock(t *testing.T) {
	assert.NoError(t, NopLock{}.Lock(context.Background()))
	assert.NoError(t, NopLock{}.Unlock())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NopLock{}.Lock(ctx), context.Canceled)
}
