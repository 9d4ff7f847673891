// Package network provides the host link adapter used for lease traffic.
package network

import (
	"fmt"

	"golang-w5500d/internal/port"

	"github.com/vishvananda/netlink"
)

// ManagerAdapter implements the LinkManager port using the vishvananda/netlink library.
type ManagerAdapter struct{}

// Ensure ManagerAdapter implements the LinkManager port
var _ port.LinkManager = (*ManagerAdapter)(nil)

// NewManagerAdapter creates a new link manager adapter.
func NewManagerAdapter() *ManagerAdapter {
	return &ManagerAdapter{}
}

// GetLinkByName returns a network link by interface name.
func (n *ManagerAdapter) GetLinkByName(interfaceName string) (netlink.Link, error) {
	link, err := netlink.LinkByName(interfaceName)
	if err != nil {
		return nil, fmt.Errorf("failed to get netlink interface %s: %w", interfaceName, err)
	}
	return link, nil
}

// SetLinkUp brings the interface up.
func (n *ManagerAdapter) SetLinkUp(link netlink.Link) error {
	if err := netlink.LinkSetUp(link); err != nil {
		return fmt.Errorf("failed to set link %s up: %w", link.Attrs().Name, err)
	}
	return nil
}
