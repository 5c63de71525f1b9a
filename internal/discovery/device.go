package discovery

import (
	"fmt"
	"net"
	"time"
)

// Appliance represents a discovered FortiGate on the network.
type Appliance struct {
	// Serial is the device serial number (e.g., "FGT60E4Q16001234").
	Serial string

	// Hostname is the mDNS hostname (e.g., "FGT60E4Q16001234.local").
	Hostname string

	// IP is the IPv4 address, falling back to IPv6 when no A record was
	// advertised.
	IP string

	// Port is the management SSH port (typically 22).
	Port int

	// Metadata contains additional mDNS TXT record data.
	Metadata map[string]string

	// DiscoveredAt is when the appliance was discovered.
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the appliance.
func (a *Appliance) String() string {
	return fmt.Sprintf("FortiGate %s (%s) at %s:%d", a.Serial, a.Hostname, a.IP, a.Port)
}

// Address returns the host:port dial address for the appliance.
func (a *Appliance) Address() string {
	return net.JoinHostPort(a.IP, fmt.Sprintf("%d", a.Port))
}

// GetMetadata retrieves a TXT record value by key, or returns empty string
// if not found.
func (a *Appliance) GetMetadata(key string) string {
	if a.Metadata == nil {
		return ""
	}
	return a.Metadata[key]
}
