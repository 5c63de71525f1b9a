// Package config stores the local fortictl appliance registry.
//
// The registry is a YAML file under the user's config directory
// (~/.config/fortictl/config.yaml on Linux) holding connection details for
// known appliances and user preferences. Passwords are never stored; they
// are prompted for or taken from the environment when a session opens.
package config
