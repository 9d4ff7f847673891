// Package host reconciles a desired host configuration against the chip's common registers.
package host

import (
	"golang-w5500d/internal/pkg/logging"
	"golang-w5500d/internal/pkg/register"
	"golang-w5500d/internal/port"
	"golang-w5500d/internal/types"
)

// WriteSettings writes every field of desired that differs from current to the chip.
//
// Fields are visited in the order gateway, subnet, MAC, IP. Each differing field is one WriteFrame
// call and current is updated right after that call succeeds, so current always matches what the chip
// holds. The first bus error is returned unmodified and the remaining fields are left untouched; fields
// already written by this call are not rolled back. Calling WriteSettings again with the same desired
// value resumes from the first field that still differs.
func WriteSettings(bus port.FrameWriter, current *types.HostConfig, desired types.HostConfig) error {
	logger := logging.WithComponent("host")

	if desired.Gateway != current.Gateway {
		if err := bus.WriteFrame(register.Common, register.Gateway, desired.Gateway[:]); err != nil {
			return err
		}
		current.Gateway = desired.Gateway
		logger.WithField("gateway", desired.Gateway.String()).Debug("Wrote gateway register")
	}

	if desired.Subnet != current.Subnet {
		if err := bus.WriteFrame(register.Common, register.SubnetMask, desired.Subnet[:]); err != nil {
			return err
		}
		current.Subnet = desired.Subnet
		logger.WithField("subnet", desired.Subnet.String()).Debug("Wrote subnet mask register")
	}

	if desired.MAC != current.MAC {
		if err := bus.WriteFrame(register.Common, register.MAC, desired.MAC[:]); err != nil {
			return err
		}
		current.MAC = desired.MAC
		logger.WithField("mac", desired.MAC.String()).Debug("Wrote hardware address register")
	}

	if desired.IP != current.IP {
		if err := bus.WriteFrame(register.Common, register.IP, desired.IP[:]); err != nil {
			return err
		}
		current.IP = desired.IP
		logger.WithField("ip", desired.IP.String()).Debug("Wrote IP address register")
	}

	return nil
}
