// Package dhcp provides the DHCP client adapter that requests leases on behalf of a chip.
package dhcp

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang-w5500d/internal/port"

	"github.com/insomniacslk/dhcp/dhcpv4"
	"github.com/insomniacslk/dhcp/dhcpv4/nclient4"
)

// ClientAdapter is an adapter that implements the DHCPClient port using insomniacslk/dhcp library.
type ClientAdapter struct{}

// Ensure ClientAdapter implements the DHCPClient port
var _ port.DHCPClient = (*ClientAdapter)(nil)

// NewClientAdapter creates a new DHCP client adapter.
func NewClientAdapter() *ClientAdapter {
	return &ClientAdapter{}
}

// RequestLease performs the complete DHCP DISCOVER/OFFER/REQUEST/ACK sequence on interfaceName,
// identifying the client by hwAddr instead of the interface's own address.
func (c *ClientAdapter) RequestLease(ctx context.Context, interfaceName string, hwAddr net.HardwareAddr, timeout time.Duration) (*dhcpv4.DHCPv4, error) {
	if len(hwAddr) != 6 {
		return nil, fmt.Errorf("invalid client hardware address %q", hwAddr.String())
	}

	client, err := nclient4.New(interfaceName,
		nclient4.WithTimeout(timeout),
		nclient4.WithHWAddr(hwAddr),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create DHCP client: %w", err)
	}
	defer client.Close()

	lease, err := client.Request(ctx)
	if err != nil {
		return nil, fmt.Errorf("DHCP lease request failed: %w", err)
	}

	return lease.ACK, nil
}
