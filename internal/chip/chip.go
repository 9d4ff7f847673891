// Package chip provides probing and read-back helpers for the W5500 common register block.
// None of these are used by reconciliation, which trusts write results without reading back.
package chip

import (
	"errors"
	"fmt"

	"golang-w5500d/internal/pkg/register"
	"golang-w5500d/internal/port"
	"golang-w5500d/internal/types"
)

// ErrUnexpectedVersion is returned by Probe when VERSIONR does not identify a W5500.
var ErrUnexpectedVersion = errors.New("unexpected chip version")

// Probe checks that a W5500 answers on bus.
func Probe(bus port.FrameReader) error {
	var version [1]byte
	if err := bus.ReadFrame(register.Common, register.Version, version[:]); err != nil {
		return err
	}
	if version[0] != register.ChipVersion {
		return fmt.Errorf("%w: got %#02x, want %#02x", ErrUnexpectedVersion, version[0], register.ChipVersion)
	}
	return nil
}

// Reset issues a software reset. All common registers, including the host configuration,
// return to their power-on values, so any cached HostConfig must be reset as well.
func Reset(bus port.FrameWriter) error {
	return bus.WriteFrame(register.Common, register.Mode, []byte{register.ModeReset})
}

// LinkUp reports the PHY link status.
func LinkUp(bus port.FrameReader) (bool, error) {
	var phy [1]byte
	if err := bus.ReadFrame(register.Common, register.PHYConfig, phy[:]); err != nil {
		return false, err
	}
	return phy[0]&register.PHYLink != 0, nil
}

// ReadHostConfig reads the four host identity registers back from the chip.
func ReadHostConfig(bus port.FrameReader) (types.HostConfig, error) {
	var cfg types.HostConfig

	reads := []struct {
		offset register.Offset
		dst    []byte
	}{
		{register.Gateway, cfg.Gateway[:]},
		{register.SubnetMask, cfg.Subnet[:]},
		{register.MAC, cfg.MAC[:]},
		{register.IP, cfg.IP[:]},
	}
	for _, r := range reads {
		if err := bus.ReadFrame(register.Common, r.offset, r.dst); err != nil {
			return types.HostConfig{}, fmt.Errorf("failed to read %s register: %w", r.offset.Name(), err)
		}
	}

	return cfg, nil
}
