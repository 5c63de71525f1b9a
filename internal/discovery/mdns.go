package discovery

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type FortiGate appliances advertise
	// their management endpoint under.
	ServiceType = "_ssh._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for appliance discovery
	DefaultScanTimeout = 10 * time.Second

	// DefaultPort is the default management SSH port
	DefaultPort = 22
)

// serialPattern matches FortiGate hostnames (e.g., "FGT60E4Q16001234.local").
// FortiWifi units carry an FWF prefix, virtual appliances FGVM.
var serialPattern = regexp.MustCompile(`^((?:FGT|FWF|FGVM)[0-9A-Z]+)\.local\.?$`)

// Scanner handles mDNS appliance discovery
type Scanner struct {
	// Timeout is the maximum time to wait for appliance discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForAppliances discovers all FortiGate appliances on the local network
// Returns a list of discovered appliances or an error
func (s *Scanner) ScanForAppliances() ([]*Appliance, error) {
	return s.ScanForAppliancesWithContext(context.Background())
}

// ScanForAppliancesWithContext discovers appliances with a custom context
func (s *Scanner) ScanForAppliancesWithContext(ctx context.Context) ([]*Appliance, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	collected := s.collectAppliances(entries)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	err = resolver.Browse(ctx, ServiceType, ServiceDomain, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	// Browse closes entries when the context ends; wait for the collector
	// to finish draining so entries delivered after the deadline are not
	// read concurrently with the return.
	<-ctx.Done()
	return <-collected, nil
}

// collectAppliances drains service entries until the channel closes, then
// delivers everything that parsed as an appliance.
func (s *Scanner) collectAppliances(entries <-chan *zeroconf.ServiceEntry) <-chan []*Appliance {
	collected := make(chan []*Appliance, 1)
	go func() {
		appliances := make([]*Appliance, 0)
		for entry := range entries {
			if appliance := s.parseServiceEntry(entry); appliance != nil {
				appliances = append(appliances, appliance)
			}
		}
		collected <- appliances
	}()
	return collected
}

// WaitForAppliance waits for a specific appliance by serial number
// Returns the appliance or an error if not found within timeout
func (s *Scanner) WaitForAppliance(serial string) (*Appliance, error) {
	return s.WaitForApplianceWithContext(context.Background(), serial)
}

// WaitForApplianceWithContext waits for a specific appliance with a custom context
func (s *Scanner) WaitForApplianceWithContext(ctx context.Context, serial string) (*Appliance, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	found := s.collectBySerial(entries, serial)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	err = resolver.Browse(ctx, ServiceType, ServiceDomain, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	// found delivers as soon as the serial shows up; it closes without a
	// value when Browse closes entries at the deadline.
	appliance, ok := <-found
	if !ok {
		return nil, fmt.Errorf("appliance with serial %s not found within timeout", serial)
	}
	return appliance, nil
}

// collectBySerial drains service entries until the channel closes, delivering
// the first appliance whose serial matches.
func (s *Scanner) collectBySerial(entries <-chan *zeroconf.ServiceEntry, serial string) <-chan *Appliance {
	found := make(chan *Appliance, 1)
	go func() {
		defer close(found)
		for entry := range entries {
			appliance := s.parseServiceEntry(entry)
			if appliance != nil && appliance.Serial == serial {
				select {
				case found <- appliance:
				default:
				}
			}
		}
	}()
	return found
}

// parseServiceEntry converts a zeroconf service entry to an Appliance
// Returns nil if the entry is not a FortiGate
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Appliance {
	hostname := entry.HostName
	if hostname == "" {
		return nil
	}

	matches := serialPattern.FindStringSubmatch(hostname)
	if len(matches) < 2 {
		return nil
	}

	serial := matches[1]

	// Prefer IPv4
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// TXT records are in "key=value" format
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	return &Appliance{
		Serial:       serial,
		Hostname:     hostname,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// ScanForAppliances is a convenience function to scan with a custom timeout
func ScanForAppliances(timeout time.Duration) ([]*Appliance, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForAppliances()
}
