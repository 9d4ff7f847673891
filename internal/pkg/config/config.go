// Package config loads and validates the daemon's YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"golang-w5500d/internal/pkg/logging"
	"golang-w5500d/internal/types"

	"gopkg.in/yaml.v3"
)

// DefaultRefreshInterval is how often a static configuration is re-applied when none is configured.
const DefaultRefreshInterval = 30 * time.Second

// ChipConfig represents the configuration for one Ethernet controller chip
type ChipConfig struct {
	MAC             string        `yaml:"mac"`
	RefreshInterval time.Duration `yaml:"refresh_interval,omitempty"`
	Bus             BusConfig     `yaml:"bus"`
	DHCP            *DHCPConfig   `yaml:"dhcp,omitempty"`
	Static          *StaticConfig `yaml:"static,omitempty"`
}

// BusConfig represents the SPI bus the chip is attached to
type BusConfig struct {
	Device   string `yaml:"device"`              // spidev node, e.g. /dev/spidev0.0
	SpeedHz  uint32 `yaml:"speed_hz,omitempty"`  // clock, defaults to 8MHz
	Mode     uint8  `yaml:"mode,omitempty"`      // SPI mode 0 or 3
	LockFile string `yaml:"lock_file,omitempty"` // advisory lock shared with other bus users
	Simulate bool   `yaml:"simulate,omitempty"`  // use an in-memory chip instead of a device
}

// DHCPConfig represents DHCP addressing
type DHCPConfig struct {
	Interface  string `yaml:"interface"`             // host link that carries the chip's lease traffic
	ResolvConf string `yaml:"resolv_conf,omitempty"` // where to write leased DNS servers, skipped when empty
}

// StaticConfig represents static (manual) addressing
type StaticConfig struct {
	IP      string `yaml:"ip"`
	Netmask string `yaml:"netmask"`
	Gateway string `yaml:"gateway"`
}

// Config represents the main configuration structure
type Config struct {
	Logging logging.LogConfig     `yaml:"logging"`
	Chips   map[string]ChipConfig `yaml:"chips"`
}

// Load loads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	return &config, nil
}

// GetChipConfig returns the configuration for a specific chip
func (c *Config) GetChipConfig(chipName string) (ChipConfig, bool) {
	config, exists := c.Chips[chipName]
	return config, exists
}

// Interval returns the refresh interval, falling back to DefaultRefreshInterval.
func (c ChipConfig) Interval() time.Duration {
	if c.RefreshInterval <= 0 {
		return DefaultRefreshInterval
	}
	return c.RefreshInterval
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Chips) == 0 {
		return fmt.Errorf("no chips configured")
	}

	for name, chip := range c.Chips {
		if chip.MAC == "" {
			return fmt.Errorf("chip %s: mac address is required", name)
		}
		if _, err := types.ParseMAC(chip.MAC); err != nil {
			return fmt.Errorf("chip %s: %w", name, err)
		}
		if chip.RefreshInterval < 0 {
			return fmt.Errorf("chip %s: refresh_interval must not be negative", name)
		}
		if !chip.Bus.Simulate && chip.Bus.Device == "" {
			return fmt.Errorf("chip %s: bus device is required unless simulate is set", name)
		}
		if chip.Bus.Mode > 3 {
			return fmt.Errorf("chip %s: invalid spi mode %d", name, chip.Bus.Mode)
		}
		if chip.DHCP == nil && chip.Static == nil {
			return fmt.Errorf("chip %s: must specify either dhcp or static configuration", name)
		}
		if chip.DHCP != nil && chip.Static != nil {
			return fmt.Errorf("chip %s: cannot specify both dhcp and static configuration", name)
		}
		if chip.DHCP != nil && chip.DHCP.Interface == "" {
			return fmt.Errorf("chip %s: dhcp interface is required", name)
		}
		if chip.Static != nil {
			if err := validateStaticConfig(name, chip.Static); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateStaticConfig(chipName string, static *StaticConfig) error {
	if static.IP == "" {
		return fmt.Errorf("chip %s: static IP address is required", chipName)
	}
	if static.Netmask == "" {
		return fmt.Errorf("chip %s: static netmask is required", chipName)
	}
	if _, err := types.ParseIPv4(static.IP); err != nil {
		return fmt.Errorf("chip %s: %w", chipName, err)
	}
	if _, err := types.ParseIPv4(static.Netmask); err != nil {
		return fmt.Errorf("chip %s: %w", chipName, err)
	}
	if static.Gateway != "" {
		if _, err := types.ParseIPv4(static.Gateway); err != nil {
			return fmt.Errorf("chip %s: %w", chipName, err)
		}
	}
	return nil
}
