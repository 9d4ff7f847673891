package cmd

import (
	"context"
	"fmt"

	"golang-w5500d/internal/adapter/infrastructure/sim"
	"golang-w5500d/internal/adapter/infrastructure/spi"
	"golang-w5500d/internal/chip"
	"golang-w5500d/internal/pkg/config"
	"golang-w5500d/internal/pkg/logging"
	"golang-w5500d/internal/port"

	"github.com/sirupsen/logrus"
)

// chipBus is the opened SPI bus of one chip together with the lock guarding it.
type chipBus struct {
	bus    *spi.Bus
	locker port.BusLocker
	close  func() error
}

// openChipBus opens the spidev node named in the bus settings, or an in-memory chip in simulate mode.
func openChipBus(busConfig config.BusConfig) (*chipBus, error) {
	var locker port.BusLocker = spi.NopLock{}
	if busConfig.LockFile != "" {
		locker = spi.NewDeviceLock(busConfig.LockFile)
	}

	if busConfig.Simulate {
		return &chipBus{
			bus:    spi.NewBus(sim.NewChip()),
			locker: locker,
			close:  func() error { return nil },
		}, nil
	}

	dev, err := spi.OpenDevice(busConfig.Device, busConfig.Mode, busConfig.SpeedHz)
	if err != nil {
		return nil, err
	}

	return &chipBus{
		bus:    spi.NewBus(dev),
		locker: locker,
		close:  dev.Close,
	}, nil
}

// probe checks the chip version while holding the bus lock.
func (c *chipBus) probe(ctx context.Context) error {
	if err := c.locker.Lock(ctx); err != nil {
		return fmt.Errorf("failed to acquire bus: %w", err)
	}
	defer c.unlock(logging.WithComponent("serve"))

	return chip.Probe(c.bus)
}

// unlock releases the bus lock, logging a failed release.
func (c *chipBus) unlock(logger *logrus.Entry) {
	if err := c.locker.Unlock(); err != nil {
		logger.WithError(err).Warn("Failed to release bus")
	}
}
