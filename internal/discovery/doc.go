// Package discovery provides mDNS-based appliance discovery for lab and
// branch networks.
//
// FortiGate appliances with mDNS enabled advertise their management SSH
// endpoint as an "_ssh._tcp" service, with the device serial number embedded
// in the hostname (e.g. "FGT60E4Q16001234.local"). The scanner browses the
// local segment for those advertisements and returns the appliances it saw
// within the scan window.
//
// # Usage Example
//
//	devices, err := discovery.ScanForAppliances(10 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, device := range devices {
//	    fmt.Printf("Found: %s at %s:%d\n", device.Serial, device.IP, device.Port)
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Appliances must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
//
// # Thread Safety
//
// This package is safe for concurrent use. Multiple discovery sessions can
// run simultaneously without interference.
package discovery
