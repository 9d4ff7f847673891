// Package port defines the primary ports (interfaces) for the application.
// This follows the Ports and Adapters (Hexagonal Architecture) pattern.
package port

import (
	"context"
)

// Host is the addressing strategy capability.
// Each strategy (DHCP, Manual) determines its desired host configuration and reconciles it against the chip.
type Host interface {
	// Refresh obtains or re-validates the desired configuration and writes any changed fields to the chip.
	// Bus failures are returned unmodified.
	Refresh(ctx context.Context, bus Bus) error
}

// ChipConfigurationManager is the primary port for chip configuration.
// This interface defines the contract that all addressing adapters must implement to be run by the daemon.
// It follows the Ports and Adapters (Hexagonal Architecture) pattern where this is the "port"
// and specific implementations (DHCP, Manual) are the "adapters".
type ChipConfigurationManager interface {
	Host

	// Run drives Refresh until the context is cancelled.
	// It returns an error if the configuration fails or if the context is cancelled.
	Run(ctx context.Context) error

	// GetChipName returns the name of the chip managed by this manager.
	GetChipName() string
}

//go:generate mockgen -source=bus.go -destination=../mock/mock_bus.go -package=mock
//go:generate mockgen -source=infrastructure.go -destination=../mock/mock_infrastructure.go -package=mock
