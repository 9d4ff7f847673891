package manual

import (
	"context"
	"fmt"
	"time"

	"golang-w5500d/internal/host"
	"golang-w5500d/internal/pkg/config"
	"golang-w5500d/internal/pkg/logging"
	"golang-w5500d/internal/port"
	"golang-w5500d/internal/types"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Manager is a manual (static) addressing adapter that implements the ChipConfigurationManager port.
// It holds a fixed desired host configuration and keeps the chip in line with it.
type Manager struct {
	name     string
	bus      port.Bus
	locker   port.BusLocker
	interval time.Duration

	desired types.HostConfig
	current types.HostConfig
}

// Ensure Manager implements the ChipConfigurationManager port
var _ port.ChipConfigurationManager = (*Manager)(nil)

// NewManager creates a new manual addressing adapter for the given chip and configuration.
func NewManager(chipName string, chipConfig config.ChipConfig, bus port.Bus, locker port.BusLocker) (*Manager, error) {
	if chipConfig.Static == nil {
		return nil, fmt.Errorf("chip configuration does not have static IP settings")
	}

	desired, err := hostConfigFromStatic(chipConfig.MAC, chipConfig.Static)
	if err != nil {
		return nil, fmt.Errorf("invalid static configuration: %w", err)
	}

	return &Manager{
		name:     chipName,
		bus:      bus,
		locker:   locker,
		interval: chipConfig.Interval(),
		desired:  desired,
	}, nil
}

// hostConfigFromStatic converts the textual static settings into a HostConfig.
// An empty gateway stays 0.0.0.0.
func hostConfigFromStatic(mac string, static *config.StaticConfig) (types.HostConfig, error) {
	var cfg types.HostConfig
	var err error

	if cfg.MAC, err = types.ParseMAC(mac); err != nil {
		return types.HostConfig{}, err
	}
	if cfg.IP, err = types.ParseIPv4(static.IP); err != nil {
		return types.HostConfig{}, err
	}
	if cfg.Subnet, err = types.ParseIPv4(static.Netmask); err != nil {
		return types.HostConfig{}, err
	}
	if static.Gateway != "" {
		if cfg.Gateway, err = types.ParseIPv4(static.Gateway); err != nil {
			return types.HostConfig{}, err
		}
	}

	return cfg, nil
}

// GetChipName returns the name of the chip managed by this manager.
func (m *Manager) GetChipName() string {
	return m.name
}

// Desired returns the static configuration this manager applies.
func (m *Manager) Desired() types.HostConfig {
	return m.desired
}

// Current returns the configuration last written to the chip.
func (m *Manager) Current() types.HostConfig {
	return m.current
}

// Refresh writes every field of the static configuration that the chip does not hold yet.
// Bus errors are returned unmodified.
func (m *Manager) Refresh(ctx context.Context, bus port.Bus) error {
	return host.WriteSettings(bus, &m.current, m.desired)
}

// Run applies the static configuration and re-checks it every refresh interval until the context is cancelled.
// A failed refresh is logged and retried on the next tick, resuming from the first field still missing.
func (m *Manager) Run(ctx context.Context) error {
	logger := logging.WithSession(logging.WithComponentAndChip("manual", m.name), uuid.NewString()).
		WithField("mac", m.desired.MAC.String())
	logger.Info("Starting manual host configuration")

	if err := m.apply(ctx, logger, false); err != nil {
		logger.WithError(err).WithField("retry_in", m.interval.String()).Error("Failed to apply manual host configuration")
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Manual host configuration stopped due to context cancellation")
			return ctx.Err()
		case <-ticker.C:
			if err := m.apply(ctx, logger, true); err != nil {
				logger.WithError(err).Error("Host configuration check failed")
			}
		}
	}
}

// apply holds the bus lock for one refresh. With resync set the cache is first re-read from the chip,
// so a chip that was reset behind our back gets its configuration back.
func (m *Manager) apply(ctx context.Context, logger *logrus.Entry, resync bool) error {
	if err := m.locker.Lock(ctx); err != nil {
		return fmt.Errorf("failed to acquire bus: %w", err)
	}
	defer func() {
		if err := m.locker.Unlock(); err != nil {
			logger.WithError(err).Warn("Failed to release bus")
		}
	}()

	if resync {
		drifted, err := host.Resync(m.bus, &m.current)
		if err != nil {
			return fmt.Errorf("failed to read back host configuration: %w", err)
		}
		if drifted {
			logger.WithField("on_chip", m.current.String()).Warn("Chip host configuration drifted, reapplying")
		}
	}

	before := m.current
	if err := m.Refresh(ctx, m.bus); err != nil {
		return fmt.Errorf("failed to write host configuration: %w", err)
	}

	if before != m.current {
		logger.WithFields(logrus.Fields{
			"ip":      m.current.IP.String(),
			"subnet":  m.current.Subnet.String(),
			"gateway": m.current.Gateway.String(),
		}).Info("Manual host configuration applied successfully")
	} else {
		logger.Debug("Host configuration already applied, skipping")
	}

	return nil
}
