// Package types defines common types used across the application.
package types

import (
	"fmt"
	"net"
)

// MACAddress is a 6-byte hardware address as stored in the chip's source hardware address register.
type MACAddress [6]byte

// IPv4 is a 4-byte address in network byte order.
type IPv4 [4]byte

// UnspecifiedIP is the 0.0.0.0 address used for fields that have not been configured yet.
var UnspecifiedIP = IPv4{0, 0, 0, 0}

// ParseMAC parses a colon or dash separated 48-bit hardware address.
func ParseMAC(s string) (MACAddress, error) {
	hw, err := net.ParseMAC(s)
	if err != nil {
		return MACAddress{}, fmt.Errorf("invalid MAC address %q: %w", s, err)
	}
	if len(hw) != len(MACAddress{}) {
		return MACAddress{}, fmt.Errorf("invalid MAC address %q: expected 6 bytes, got %d", s, len(hw))
	}

	var mac MACAddress
	copy(mac[:], hw)
	return mac, nil
}

// HardwareAddr returns the address as a net.HardwareAddr.
func (m MACAddress) HardwareAddr() net.HardwareAddr {
	hw := make(net.HardwareAddr, len(m))
	copy(hw, m[:])
	return hw
}

func (m MACAddress) String() string {
	return m.HardwareAddr().String()
}

// ParseIPv4 parses an address in dotted decimal notation (e.g. "192.168.1.50").
func ParseIPv4(s string) (IPv4, error) {
	ip := net.ParseIP(s)
	if ip == nil {
		return IPv4{}, fmt.Errorf("invalid IPv4 address %q", s)
	}
	return IPv4FromNet(ip)
}

// IPv4FromNet converts a net.IP (4 or 16 byte form) into an IPv4.
func IPv4FromNet(ip net.IP) (IPv4, error) {
	v4 := ip.To4()
	if v4 == nil {
		return IPv4{}, fmt.Errorf("not an IPv4 address: %s", ip)
	}

	var addr IPv4
	copy(addr[:], v4)
	return addr, nil
}

// IPv4FromMask converts a 4 byte net.IPMask into an IPv4.
func IPv4FromMask(mask net.IPMask) (IPv4, error) {
	if len(mask) != net.IPv4len {
		return IPv4{}, fmt.Errorf("not an IPv4 netmask: %s", mask)
	}

	var addr IPv4
	copy(addr[:], mask)
	return addr, nil
}

// IP returns the address as a net.IP.
func (a IPv4) IP() net.IP {
	return net.IPv4(a[0], a[1], a[2], a[3])
}

func (a IPv4) String() string {
	return a.IP().String()
}

// HostConfig is the network identity of the chip: hardware address, IP address, gateway and subnet mask.
//
// The zero value is the unspecified configuration (all-zero MAC, 0.0.0.0 addresses), which is
// what a chip holds before anything has been written to it. HostConfig is comparable with ==.
type HostConfig struct {
	MAC     MACAddress
	IP      IPv4
	Gateway IPv4
	Subnet  IPv4
}

// Equal reports whether all four fields of c and other match.
func (c HostConfig) Equal(other HostConfig) bool {
	return c == other
}

// IsUnspecified reports whether c is still the default, not yet configured identity.
func (c HostConfig) IsUnspecified() bool {
	return c == HostConfig{}
}

func (c HostConfig) String() string {
	return fmt.Sprintf("mac=%s ip=%s gateway=%s subnet=%s", c.MAC, c.IP, c.Gateway, c.Subnet)
}
