package config

// Registry is the root of the on-disk configuration file.
type Registry struct {
	// Version is the config file schema version. Currently 1.
	Version int `yaml:"version"`

	// Appliances maps a user-chosen name to an appliance record.
	Appliances map[string]*Appliance `yaml:"appliances"`

	// Preferences holds user preferences.
	Preferences *Preferences `yaml:"preferences,omitempty"`
}

// Appliance is one managed device.
type Appliance struct {
	// Host is the FQDN or IP address.
	Host string `yaml:"host"`

	// Port is the transport port. Zero means the transport default.
	Port int `yaml:"port,omitempty"`

	// Username to authenticate with. Empty means the preference default.
	Username string `yaml:"username,omitempty"`

	// VDOM scopes every command to a named VDOM. Mutually exclusive with
	// Global.
	VDOM string `yaml:"vdom,omitempty"`

	// Global scopes every command to the global partition.
	Global bool `yaml:"global,omitempty"`

	// Transport selects the command channel: "ssh" (default) or
	// "websocket" for lab consoles.
	Transport string `yaml:"transport,omitempty"`

	// ConsoleURL is the websocket console endpoint when Transport is
	// "websocket".
	ConsoleURL string `yaml:"console_url,omitempty"`

	// TimeoutSeconds is the fixed per-session command timeout.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`

	// Paths lists the configuration paths this appliance is managed on,
	// e.g. "system interface" or "router bgp".
	Paths []string `yaml:"paths,omitempty"`
}

// Preferences holds user-level defaults.
type Preferences struct {
	// DefaultUsername is used when an appliance record has none.
	DefaultUsername string `yaml:"default_username,omitempty"`

	// ScanTimeoutSeconds bounds mDNS discovery scans.
	ScanTimeoutSeconds int `yaml:"scan_timeout_seconds,omitempty"`
}

// NewRegistry creates an empty registry with defaults.
func NewRegistry() *Registry {
	return &Registry{
		Version:    1,
		Appliances: make(map[string]*Appliance),
		Preferences: &Preferences{
			DefaultUsername:    "admin",
			ScanTimeoutSeconds: 10,
		},
	}
}
