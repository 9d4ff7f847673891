package port

import (
	"context"
	"net"
	"time"

	"github.com/insomniacslk/dhcp/dhcpv4"
	"github.com/vishvananda/netlink"
)

// DHCPClient is a port for DHCP client operations.
// This interface abstracts DHCP lease acquisition and management.
type DHCPClient interface {
	// RequestLease performs DHCP DISCOVER/OFFER/REQUEST/ACK sequence on behalf of hwAddr
	RequestLease(ctx context.Context, interfaceName string, hwAddr net.HardwareAddr, timeout time.Duration) (*dhcpv4.DHCPv4, error)
}

// LinkManager is a port for operations on the host link that carries lease traffic for the chip.
// This interface abstracts netlink operations.
type LinkManager interface {
	// GetLinkByName returns a network link by interface name
	GetLinkByName(interfaceName string) (netlink.Link, error)

	// SetLinkUp brings the interface up
	SetLinkUp(link netlink.Link) error
}

// FileManager is a port for file system operations.
// This interface abstracts file read/write operations.
type FileManager interface {
	// ReadFile reads the contents of a file
	ReadFile(filename string) ([]byte, error)

	// WriteFile replaces the file contents with data, creating the file with perm if needed
	WriteFile(filename string, data []byte, perm int) error
}
