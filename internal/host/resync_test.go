//go:build unit

package host

import (
	"testing"

	"golang-w5500d/internal/adapter/infrastructure/sim"
	"golang-w5500d/internal/adapter/infrastructure/spi"
	"golang-w5500d/internal/chip"
	"golang-w5500d/internal/mock"
	"golang-w5500d/internal/pkg/register"
	"golang-w5500d/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestResync(t *testing.T) {
	t.Run("InSync", func(t *testing.T) {
		bus := spi.NewBus(sim.NewChip())
		var current types.HostConfig
		require.NoError(t, WriteSettings(bus, &current, desiredConfig()))

		drifted, err := Resync(bus, &current)
		require.NoError(t, err)
		assert.False(t, drifted)
		assert.Equal(t, desiredConfig(), current)
	})

	t.Run("AfterChipReset", func(t *testing.T) {
		simChip := sim.NewChip()
		bus := spi.NewBus(simChip)
		var current types.HostConfig
		require.NoError(t, WriteSettings(bus, &current, desiredConfig()))
		require.NoError(t, chip.Reset(bus))

		drifted, err := Resync(bus, &current)
		require.NoError(t, err)
		assert.True(t, drifted)
		assert.True(t, current.IsUnspecified())

		simChip.ResetWrites()
		require.NoError(t, WriteSettings(bus, &current, desiredConfig()))
		assert.Len(t, simChip.Writes(), 4)
	})

	t.Run("ReadErrorLeavesCache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		bus := mock.NewMockFrameReader(ctrl)
		bus.EXPECT().ReadFrame(register.Common, register.Gateway, gomock.Any()).Return(errBus)

		current := desiredConfig()
		drifted, err := Resync(bus, &current)
		assert.ErrorIs(t, err, errBus)
		assert.False(t, drifted)
		assert.Equal(t, desiredConfig(), current)
	})
}
