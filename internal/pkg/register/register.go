// Package register provides the block selectors and register addresses of the W5500 common register
// block used for host configuration.
package register

// Block selects one of the chip's register address spaces (5-bit BSB field of the control phase).
type Block uint8

// Offset is a 16-bit register address within a block.
type Offset uint16

const (
	// Common is the block holding device-wide configuration.
	Common Block = 0x00

	// Common register addresses.
	Mode       Offset = 0x0000 // MR
	Gateway    Offset = 0x0001 // GAR, 4 bytes
	SubnetMask Offset = 0x0005 // SUBR, 4 bytes
	MAC        Offset = 0x0009 // SHAR, 6 bytes
	IP         Offset = 0x000F // SIPR, 4 bytes
	PHYConfig  Offset = 0x002E // PHYCFGR
	Version    Offset = 0x0039 // VERSIONR

	// ModeReset is the software reset bit of MR; it self-clears once the reset completes.
	ModeReset = 0x80
	// PHYLink is the link status bit of PHYCFGR.
	PHYLink = 0x01
	// ChipVersion is the value VERSIONR always reports.
	ChipVersion = 0x04
)

// Name returns a short, human readable name for a common register offset.
func (o Offset) Name() string {
	switch o {
	case Mode:
		return "mode"
	case Gateway:
		return "gateway"
	case SubnetMask:
		return "subnet"
	case MAC:
		return "mac"
	case IP:
		return "ip"
	case PHYConfig:
		return "phycfg"
	case Version:
		return "version"
	default:
		return "unknown"
	}
}
