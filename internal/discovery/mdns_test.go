package discovery

import (
	"net"
	"testing"

	"github.com/grandcat/zeroconf"
)

// TestParseServiceEntry tests hostname matching and field extraction.
func TestParseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	entry := &zeroconf.ServiceEntry{
		HostName: "FGT60E4Q16001234.local.",
		Port:     22,
		AddrIPv4: []net.IP{net.ParseIP("192.168.1.99")},
		Text:     []string{"version=v7.2.8", "mode=nat"},
	}

	appliance := scanner.parseServiceEntry(entry)
	if appliance == nil {
		t.Fatal("Expected appliance from FortiGate entry")
	}
	if appliance.Serial != "FGT60E4Q16001234" {
		t.Errorf("Expected serial FGT60E4Q16001234, got %s", appliance.Serial)
	}
	if appliance.IP != "192.168.1.99" {
		t.Errorf("Expected IP 192.168.1.99, got %s", appliance.IP)
	}
	if appliance.Port != 22 {
		t.Errorf("Expected port 22, got %d", appliance.Port)
	}
	if appliance.GetMetadata("version") != "v7.2.8" {
		t.Errorf("Expected version metadata, got %q", appliance.GetMetadata("version"))
	}
}

// TestParseServiceEntryIgnoresOtherHosts tests that non-FortiGate hosts are
// skipped.
func TestParseServiceEntryIgnoresOtherHosts(t *testing.T) {
	scanner := NewScanner()

	for _, hostname := range []string{"", "printer.local.", "nas-01.local", "fgt60e.local."} {
		entry := &zeroconf.ServiceEntry{
			HostName: hostname,
			Port:     22,
			AddrIPv4: []net.IP{net.ParseIP("192.168.1.5")},
		}
		if appliance := scanner.parseServiceEntry(entry); appliance != nil {
			t.Errorf("Expected nil for hostname %q, got %v", hostname, appliance)
		}
	}
}

// TestParseServiceEntryDefaults tests port defaulting and IPv6 fallback.
func TestParseServiceEntryDefaults(t *testing.T) {
	scanner := NewScanner()

	entry := &zeroconf.ServiceEntry{
		HostName: "FWF61F0000000001.local",
		AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
	}

	appliance := scanner.parseServiceEntry(entry)
	if appliance == nil {
		t.Fatal("Expected appliance from FortiWifi entry")
	}
	if appliance.Port != DefaultPort {
		t.Errorf("Expected default port %d, got %d", DefaultPort, appliance.Port)
	}
	if appliance.IP != "fe80::1" {
		t.Errorf("Expected IPv6 fallback, got %s", appliance.IP)
	}

	// No address at all means the entry is unusable.
	entry = &zeroconf.ServiceEntry{HostName: "FGT100F0000000001.local"}
	if appliance := scanner.parseServiceEntry(entry); appliance != nil {
		t.Errorf("Expected nil for entry without addresses, got %v", appliance)
	}
}

func fgtEntry(serial string) *zeroconf.ServiceEntry {
	return &zeroconf.ServiceEntry{
		HostName: serial + ".local.",
		Port:     22,
		AddrIPv4: []net.IP{net.ParseIP("192.168.1.10")},
	}
}

// TestCollectAppliancesDrainsUntilClose tests that every entry delivered
// before the channel closes lands in the result, including entries arriving
// after the scan deadline would have fired.
func TestCollectAppliancesDrainsUntilClose(t *testing.T) {
	scanner := NewScanner()

	entries := make(chan *zeroconf.ServiceEntry)
	collected := scanner.collectAppliances(entries)

	entries <- fgtEntry("FGT60E4Q16001234")
	entries <- &zeroconf.ServiceEntry{
		HostName: "printer.local.",
		Port:     22,
		AddrIPv4: []net.IP{net.ParseIP("192.168.1.5")},
	}
	entries <- fgtEntry("FWF61F0000000001")
	close(entries)

	appliances := <-collected
	if len(appliances) != 2 {
		t.Fatalf("Expected 2 appliances, got %d", len(appliances))
	}
	if appliances[0].Serial != "FGT60E4Q16001234" || appliances[1].Serial != "FWF61F0000000001" {
		t.Errorf("Unexpected serials: %s, %s", appliances[0].Serial, appliances[1].Serial)
	}
}

// TestCollectBySerialDeliversMatch tests that the first matching entry is
// delivered while later entries are still being drained.
func TestCollectBySerialDeliversMatch(t *testing.T) {
	scanner := NewScanner()

	entries := make(chan *zeroconf.ServiceEntry)
	found := scanner.collectBySerial(entries, "FWF61F0000000001")

	entries <- fgtEntry("FGT60E4Q16001234")
	entries <- fgtEntry("FWF61F0000000001")

	appliance, ok := <-found
	if !ok || appliance == nil {
		t.Fatal("Expected a matching appliance")
	}
	if appliance.Serial != "FWF61F0000000001" {
		t.Errorf("Expected matching serial, got %s", appliance.Serial)
	}

	// The collector keeps draining so the browser never blocks.
	entries <- fgtEntry("FGT100F0000000002")
	close(entries)
}

// TestCollectBySerialClosesWithoutMatch tests the not-found path: the found
// channel closes with no value once entries are exhausted.
func TestCollectBySerialClosesWithoutMatch(t *testing.T) {
	scanner := NewScanner()

	entries := make(chan *zeroconf.ServiceEntry)
	found := scanner.collectBySerial(entries, "FWF61F0000000001")

	entries <- fgtEntry("FGT60E4Q16001234")
	close(entries)

	appliance, ok := <-found
	if ok || appliance != nil {
		t.Errorf("Expected closed channel without a match, got %v", appliance)
	}
}
