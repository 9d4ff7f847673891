//go:build unit

package manual

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-w5500d/internal/adapter/infrastructure/sim"
	"golang-w5500d/internal/adapter/infrastructure/spi"
	"golang-w5500d/internal/chip"
	"golang-w5500d/internal/mock"
	"golang-w5500d/internal/pkg/config"
	"golang-w5500d/internal/pkg/register"
	"golang-w5500d/internal/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func staticChipConfig() config.ChipConfig {
	return config.ChipConfig{
		MAC: "aa:bb:cc:dd:ee:ff",
		Bus: config.BusConfig{Simulate: true},
		Static: &config.StaticConfig{
			IP:      "192.168.1.50",
			Netmask: "255.255.255.0",
			Gateway: "192.168.1.1",
		},
	}
}

func expectedHostConfig() types.HostConfig {
	return types.HostConfig{
		MAC:     types.MACAddress{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF},
		IP:      types.IPv4{192, 168, 1, 50},
		Gateway: types.IPv4{192, 168, 1, 1},
		Subnet:  types.IPv4{255, 255, 255, 0},
	}
}

func TestNewManager(t *testing.T) {
	bus := spi.NewBus(sim.NewChip())

	t.Run("ValidStaticConfig", func(t *testing.T) {
		manager, err := NewManager("w5500-0", staticChipConfig(), bus, spi.NopLock{})
		require.NoError(t, err)
		assert.Equal(t, "w5500-0", manager.GetChipName())
		assert.Equal(t, expectedHostConfig(), manager.Desired())
		assert.True(t, manager.Current().IsUnspecified())
		assert.Equal(t, config.DefaultRefreshInterval, manager.interval)
	})

	t.Run("WithoutGateway", func(t *testing.T) {
		chipConfig := staticChipConfig()
		chipConfig.Static.Gateway = ""

		manager, err := NewManager("w5500-0", chipConfig, bus, spi.NopLock{})
		require.NoError(t, err)
		assert.Equal(t, types.UnspecifiedIP, manager.Desired().Gateway)
	})

	t.Run("MissingStaticConfig", func(t *testing.T) {
		chipConfig := staticChipConfig()
		chipConfig.Static = nil

		_, err := NewManager("w5500-0", chipConfig, bus, spi.NopLock{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "chip configuration does not have static IP settings")
	})

	t.Run("InvalidAddress", func(t *testing.T) {
		chipConfig := staticChipConfig()
		chipConfig.Static.Netmask = "255.255.0"

		_, err := NewManager("w5500-0", chipConfig, bus, spi.NopLock{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid static configuration")
	})
}

func TestManager_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("WritesChipRegisters", func(t *testing.T) {
		simChip := sim.NewChip()
		bus := spi.NewBus(simChip)
		manager, err := NewManager("w5500-0", staticChipConfig(), bus, spi.NopLock{})
		require.NoError(t, err)

		require.NoError(t, manager.Refresh(ctx, bus))
		assert.Equal(t, expectedHostConfig(), manager.Current())

		onChip, err := chip.ReadHostConfig(bus)
		require.NoError(t, err)
		assert.Equal(t, expectedHostConfig(), onChip)

		writes := simChip.Writes()
		require.Len(t, writes, 4)
		assert.Equal(t, register.Gateway, writes[0].Offset)
		assert.Equal(t, register.SubnetMask, writes[1].Offset)
		assert.Equal(t, register.MAC, writes[2].Offset)
		assert.Equal(t, register.IP, writes[3].Offset)
	})

	t.Run("SecondRefreshIsNoOp", func(t *testing.T) {
		simChip := sim.NewChip()
		bus := spi.NewBus(simChip)
		manager, err := NewManager("w5500-0", staticChipConfig(), bus, spi.NopLock{})
		require.NoError(t, err)

		require.NoError(t, manager.Refresh(ctx, bus))
		simChip.ResetWrites()

		require.NoError(t, manager.Refresh(ctx, bus))
		assert.Empty(t, simChip.Writes())
	})

	t.Run("BusErrorReturnedUnmodified", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		busErr := errors.New("spi transfer failed")
		bus := mock.NewMockBus(ctrl)
		gomock.InOrder(
			bus.EXPECT().WriteFrame(register.Common, register.Gateway, []byte{192, 168, 1, 1}).Return(nil),
			bus.EXPECT().WriteFrame(register.Common, register.SubnetMask, []byte{255, 255, 255, 0}).Return(busErr),
		)

		manager, err := NewManager("w5500-0", staticChipConfig(), bus, spi.NopLock{})
		require.NoError(t, err)

		err = manager.Refresh(ctx, bus)
		assert.Same(t, busErr, err)
		assert.Equal(t, types.HostConfig{Gateway: types.IPv4{192, 168, 1, 1}}, manager.Current())
	})
}

func TestManager_apply(t *testing.T) {
	ctx := context.Background()
	logger := logrus.NewEntry(logrus.New())

	t.Run("ResumesAfterBusFault", func(t *testing.T) {
		simChip := sim.NewChip()
		bus := spi.NewBus(simChip)
		manager, err := NewManager("w5500-0", staticChipConfig(), bus, spi.NopLock{})
		require.NoError(t, err)

		faultErr := errors.New("injected fault")
		simChip.FailWrites(register.MAC, faultErr)

		err = manager.apply(ctx, logger, false)
		require.ErrorIs(t, err, faultErr)
		assert.Equal(t, expectedHostConfig().Gateway, manager.Current().Gateway)
		assert.Equal(t, expectedHostConfig().Subnet, manager.Current().Subnet)
		assert.Equal(t, types.MACAddress{}, manager.Current().MAC)

		simChip.ClearFaults()
		simChip.ResetWrites()

		require.NoError(t, manager.apply(ctx, logger, true))
		assert.Equal(t, expectedHostConfig(), manager.Current())

		writes := simChip.Writes()
		require.Len(t, writes, 2)
		assert.Equal(t, register.MAC, writes[0].Offset)
		assert.Equal(t, register.IP, writes[1].Offset)
	})

	t.Run("ReappliesAfterChipReset", func(t *testing.T) {
		simChip := sim.NewChip()
		bus := spi.NewBus(simChip)
		manager, err := NewManager("w5500-0", staticChipConfig(), bus, spi.NopLock{})
		require.NoError(t, err)

		require.NoError(t, manager.apply(ctx, logger, false))
		require.NoError(t, chip.Reset(bus))
		simChip.ResetWrites()

		require.NoError(t, manager.apply(ctx, logger, true))
		assert.Len(t, simChip.Writes(), 4)

		onChip, err := chip.ReadHostConfig(bus)
		require.NoError(t, err)
		assert.Equal(t, expectedHostConfig(), onChip)
	})

	t.Run("HoldsBusLock", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		locker := mock.NewMockBusLocker(ctrl)
		bus := spi.NewBus(sim.NewChip())
		manager, err := NewManager("w5500-0", staticChipConfig(), bus, locker)
		require.NoError(t, err)

		gomock.InOrder(
			locker.EXPECT().Lock(ctx).Return(nil),
			locker.EXPECT().Unlock().Return(nil),
		)

		require.NoError(t, manager.apply(ctx, logger, false))
		assert.Equal(t, expectedHostConfig(), manager.Current())
	})

	t.Run("LockFailure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		locker := mock.NewMockBusLocker(ctrl)
		bus := mock.NewMockBus(ctrl)
		manager, err := NewManager("w5500-0", staticChipConfig(), bus, locker)
		require.NoError(t, err)

		locker.EXPECT().Lock(ctx).Return(assert.AnError)

		err = manager.apply(ctx, logger, false)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to acquire bus")
		assert.True(t, manager.Current().IsUnspecified())
	})
}

func TestManager_Run(t *testing.T) {
	simChip := sim.NewChip()
	bus := spi.NewBus(simChip)

	chipConfig := staticChipConfig()
	chipConfig.RefreshInterval = 10 * time.Millisecond
	manager, err := NewManager("w5500-0", chipConfig, bus, spi.NopLock{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err = manager.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	onChip, err := chip.ReadHostConfig(bus)
	require.NoError(t, err)
	assert.Equal(t, expectedHostConfig(), onChip)
	assert.Len(t, simChip.Writes(), 4)
}
