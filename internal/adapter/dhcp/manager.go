package dhcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"golang-w5500d/internal/chip"
	"golang-w5500d/internal/host"
	"golang-w5500d/internal/pkg/config"
	"golang-w5500d/internal/pkg/logging"
	"golang-w5500d/internal/port"
	"golang-w5500d/internal/types"

	"github.com/google/uuid"
	"github.com/insomniacslk/dhcp/dhcpv4"
	"github.com/sirupsen/logrus"
)

const (
	maxLeaseAttempts    = 3
	leaseRetryDelay     = 2 * time.Second
	leaseRequestTimeout = 15 * time.Second
	failureRetryDelay   = 30 * time.Second
	minRefreshDelay     = time.Second

	// Used when the server leaves out the lease or renewal time options.
	defaultLeaseTime   = 60 * time.Second
	defaultRenewalTime = 30 * time.Second
)

// ErrLinkDown is returned when the chip reports no PHY link, so no lease exchange can succeed.
var ErrLinkDown = errors.New("chip link is down")

// lease is an accepted DHCP lease and the host configuration derived from it.
type lease struct {
	config    types.HostConfig
	dns       []net.IP
	renewAt   time.Time
	expiresAt time.Time
}

// Manager is a DHCP addressing adapter that implements the ChipConfigurationManager port.
// It acquires and renews a lease on behalf of the chip and reconciles the leased configuration onto it.
type Manager struct {
	name       string
	mac        types.MACAddress
	dhcpConfig config.DHCPConfig
	dhcpClient port.DHCPClient
	linkMgr    port.LinkManager
	fileMgr    port.FileManager
	bus        port.Bus
	locker     port.BusLocker

	current types.HostConfig
	lease   *lease

	now          func() time.Time
	retryDelay   time.Duration
	failureDelay time.Duration
	minDelay     time.Duration
}

// Ensure Manager implements the ChipConfigurationManager port
var _ port.ChipConfigurationManager = (*Manager)(nil)

// NewManager creates a new DHCP addressing adapter for the given chip.
func NewManager(chipName string, chipConfig config.ChipConfig, dhcpClient port.DHCPClient, linkMgr port.LinkManager,
	fileMgr port.FileManager, bus port.Bus, locker port.BusLocker) (*Manager, error) {
	if chipConfig.DHCP == nil {
		return nil, fmt.Errorf("chip configuration does not have dhcp settings")
	}

	mac, err := types.ParseMAC(chipConfig.MAC)
	if err != nil {
		return nil, err
	}

	return &Manager{
		name:         chipName,
		mac:          mac,
		dhcpConfig:   *chipConfig.DHCP,
		dhcpClient:   dhcpClient,
		linkMgr:      linkMgr,
		fileMgr:      fileMgr,
		bus:          bus,
		locker:       locker,
		now:          time.Now,
		retryDelay:   leaseRetryDelay,
		failureDelay: failureRetryDelay,
		minDelay:     minRefreshDelay,
	}, nil
}

// GetChipName returns the name of the chip managed by this manager.
func (m *Manager) GetChipName() string {
	return m.name
}

// Current returns the configuration last written to the chip.
func (m *Manager) Current() types.HostConfig {
	return m.current
}

// Refresh renews the lease when due and writes the leased configuration to the chip.
//
// While the held lease is not yet due for renewal only the reconciliation runs, which finishes any
// write an earlier bus fault interrupted. Bus errors are returned unmodified; lease failures are wrapped.
// If no lease can be obtained once the held one has expired, the chip falls back to the unconfigured
// identity (MAC only).
func (m *Manager) Refresh(ctx context.Context, bus port.Bus) error {
	logger := logging.WithComponentAndChip("dhcp", m.name)
	now := m.now()

	if m.lease != nil && now.Before(m.lease.renewAt) {
		return host.WriteSettings(bus, &m.current, m.lease.config)
	}

	// The chip needs its hardware address before it can take part in a lease exchange.
	withMAC := m.current
	withMAC.MAC = m.mac
	if err := host.WriteSettings(bus, &m.current, withMAC); err != nil {
		return err
	}

	ack, err := m.getDHCPLease(ctx, logger)
	if err != nil {
		// The exchange may have taken most of the remaining lease time.
		if m.lease != nil && !m.now().Before(m.lease.expiresAt) {
			logger.WithField("ip", m.lease.config.IP.String()).Warn("DHCP lease expired, clearing host configuration")
			m.lease = nil
			if err := host.WriteSettings(bus, &m.current, types.HostConfig{MAC: m.mac}); err != nil {
				return err
			}
		}
		return err
	}

	l, err := leaseFromACK(ack, m.mac, m.now())
	if err != nil {
		return fmt.Errorf("unusable DHCP lease: %w", err)
	}
	m.lease = l

	logger.WithFields(logrus.Fields{
		"ip":         l.config.IP.String(),
		"subnet":     l.config.Subnet.String(),
		"gateway":    l.config.Gateway.String(),
		"lease_time": l.expiresAt.Sub(now).Round(time.Second).String(),
	}).Info("Applying DHCP lease to chip")

	if err := host.WriteSettings(bus, &m.current, l.config); err != nil {
		return err
	}

	if len(l.dns) > 0 && m.dhcpConfig.ResolvConf != "" {
		if err := m.configureDNS(l.dns); err != nil {
			logger.WithError(err).Warn("Failed to configure DNS")
		}
	}

	return nil
}

// Run acquires a lease and keeps renewing it until the context is cancelled.
func (m *Manager) Run(ctx context.Context) error {
	logger := logging.WithSession(logging.WithComponentAndChip("dhcp", m.name), uuid.NewString()).
		WithField("mac", m.mac.String())
	logger.Info("Starting DHCP manager")

	// Start with immediate lease acquisition by using a short timer
	renewalTimer := time.NewTimer(1 * time.Millisecond)
	defer renewalTimer.Stop()

	first := true
	for {
		select {
		case <-ctx.Done():
			logger.Info("DHCP manager stopped due to context cancellation")
			return ctx.Err()
		case <-renewalTimer.C:
			if err := m.refreshLocked(ctx, logger, !first); err != nil {
				retry := m.retryAfterFailure()
				logger.WithError(err).WithField("retry_in", retry.String()).Error("Failed to refresh DHCP host configuration")
				renewalTimer.Reset(retry)
				continue
			}
			first = false

			next := m.nextRefresh()
			logger.WithField("renewal_time", next.String()).Info("Sleeping until renewal")
			renewalTimer.Reset(next)
		}
	}
}

// refreshLocked runs one Refresh while holding the bus lock. With resync set the cache is re-read
// from the chip first so a reset chip gets its configuration back.
func (m *Manager) refreshLocked(ctx context.Context, logger *logrus.Entry, resync bool) error {
	if err := m.locker.Lock(ctx); err != nil {
		return fmt.Errorf("failed to acquire bus: %w", err)
	}
	defer func() {
		if err := m.locker.Unlock(); err != nil {
			logger.WithError(err).Warn("Failed to release bus")
		}
	}()

	up, err := chip.LinkUp(m.bus)
	if err != nil {
		return fmt.Errorf("failed to read link status: %w", err)
	}
	if !up {
		return ErrLinkDown
	}

	if resync {
		drifted, err := host.Resync(m.bus, &m.current)
		if err != nil {
			return fmt.Errorf("failed to read back host configuration: %w", err)
		}
		if drifted {
			logger.WithField("on_chip", m.current.String()).Warn("Chip host configuration drifted, reapplying")
		}
	}

	if err := m.Refresh(ctx, m.bus); err != nil {
		return fmt.Errorf("failed to refresh host configuration: %w", err)
	}
	return nil
}

// nextRefresh returns how long to wait before the next Refresh.
func (m *Manager) nextRefresh() time.Duration {
	if m.lease == nil {
		return m.failureDelay
	}
	next := m.lease.renewAt.Sub(m.now())
	if next < m.minDelay {
		return m.minDelay
	}
	return next
}

// retryAfterFailure returns how long to wait after a failed refresh. A held lease is retried
// no later than its expiry, so the chip does not keep an expired address.
func (m *Manager) retryAfterFailure() time.Duration {
	delay := m.failureDelay
	if m.lease != nil {
		if untilExpiry := m.lease.expiresAt.Sub(m.now()); untilExpiry < delay {
			delay = untilExpiry
		}
	}
	if delay < m.minDelay {
		return m.minDelay
	}
	return delay
}

// getDHCPLease performs the complete DHCP DISCOVER/OFFER/REQUEST/ACK sequence
func (m *Manager) getDHCPLease(ctx context.Context, logger *logrus.Entry) (*dhcpv4.DHCPv4, error) {
	if err := m.ensureLinkUp(logger); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxLeaseAttempts; attempt++ {
		logger.WithField("attempt", fmt.Sprintf("%d/%d", attempt, maxLeaseAttempts)).Debug("Attempting DHCP lease")

		// Get lease using the DHCP client port
		ack, err := m.dhcpClient.RequestLease(ctx, m.dhcpConfig.Interface, m.mac.HardwareAddr(), leaseRequestTimeout)
		if err != nil {
			logger.WithError(err).WithField("attempt", attempt).Error("DHCP lease request failed")
			if attempt < maxLeaseAttempts {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(m.retryDelay):
				}
				continue
			}
			return nil, fmt.Errorf("DHCP lease request failed after %d attempts: %w", maxLeaseAttempts, err)
		}

		logger.WithField("ip", ack.YourIPAddr.String()).Info("Successfully obtained DHCP lease")
		return ack, nil
	}

	return nil, fmt.Errorf("failed to get DHCP lease after %d attempts", maxLeaseAttempts)
}

// ensureLinkUp brings up the host link that carries the chip's lease traffic
func (m *Manager) ensureLinkUp(logger *logrus.Entry) error {
	link, err := m.linkMgr.GetLinkByName(m.dhcpConfig.Interface)
	if err != nil {
		return fmt.Errorf("failed to get lease link: %w", err)
	}

	if link.Attrs().Flags&net.FlagUp != 0 {
		return nil
	}

	logger.WithField("interface", m.dhcpConfig.Interface).Warn("Lease link is down, bringing it up")
	if err := m.linkMgr.SetLinkUp(link); err != nil {
		return fmt.Errorf("failed to bring lease link up: %w", err)
	}
	return nil
}

// leaseFromACK extracts the chip host configuration and lease timers from a DHCP ACK
func leaseFromACK(ack *dhcpv4.DHCPv4, mac types.MACAddress, now time.Time) (*lease, error) {
	ip, err := types.IPv4FromNet(ack.YourIPAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid offered address: %w", err)
	}

	mask := ack.SubnetMask()
	if mask == nil {
		// Default to /24 if no subnet mask provided
		mask = net.IPv4Mask(255, 255, 255, 0)
	}
	subnet, err := types.IPv4FromMask(mask)
	if err != nil {
		return nil, err
	}

	gateway := types.UnspecifiedIP
	if routers := ack.Router(); len(routers) > 0 {
		if gateway, err = types.IPv4FromNet(routers[0]); err != nil {
			return nil, fmt.Errorf("invalid router: %w", err)
		}
	}

	leaseTime := ack.IPAddressLeaseTime(defaultLeaseTime)
	renewal := ack.IPAddressRenewalTime(defaultRenewalTime)
	if renewal <= 0 || renewal > leaseTime {
		renewal = leaseTime / 2
	}

	return &lease{
		config: types.HostConfig{
			MAC:     mac,
			IP:      ip,
			Gateway: gateway,
			Subnet:  subnet,
		},
		dns:       ack.DNS(),
		renewAt:   now.Add(renewal),
		expiresAt: now.Add(leaseTime),
	}, nil
}

// configureDNS writes the leased DNS servers to the configured resolver file
func (m *Manager) configureDNS(dnsServers []net.IP) error {
	logger := logging.WithComponentAndChip("dhcp", m.name)
	path := m.dhcpConfig.ResolvConf

	var servers []string
	newContent := "# Generated by golang-w5500d\n"
	for _, dns := range dnsServers {
		newContent += fmt.Sprintf("nameserver %s\n", dns.String())
		servers = append(servers, dns.String())
	}

	// Check if the current file already has the same content
	if currentContent, err := m.fileMgr.ReadFile(path); err == nil {
		if string(currentContent) == newContent {
			logger.Debug("DNS configuration already up to date, skipping")
			return nil
		}
	}

	if err := m.fileMgr.WriteFile(path, []byte(newContent), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	logger.WithFields(logrus.Fields{
		"path":        path,
		"dns_servers": strings.Join(servers, ", "),
	}).Info("Updated resolver file with DNS servers")
	return nil
}
