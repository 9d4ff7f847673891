package host

import (
	"golang-w5500d/internal/chip"
	"golang-w5500d/internal/port"
	"golang-w5500d/internal/types"
)

// Resync reads the host identity registers back and replaces current with what the chip actually holds.
// It reports whether current had drifted from the chip, which happens after a chip reset or power cycle
// that the cache did not see. A following WriteSettings then rewrites whatever no longer matches.
func Resync(bus port.FrameReader, current *types.HostConfig) (bool, error) {
	onChip, err := chip.ReadHostConfig(bus)
	if err != nil {
		return false, err
	}
	if onChip == *current {
		return false, nil
	}

	*current = onChip
	return true, nil
}
