package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestSaveLoadRoundTrip tests that a saved registry loads back identically.
func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	registry := NewRegistry()
	registry.Set("lab-fw", &Appliance{
		Host:           "10.0.0.1",
		Username:       "admin",
		VDOM:           "customer-a",
		TimeoutSeconds: 30,
		Paths:          []string{"system interface", "router static"},
	})

	if err := registry.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := loadRegistryFromDisk()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	appliance := loaded.Get("lab-fw")
	if appliance == nil {
		t.Fatal("Expected lab-fw in loaded registry")
	}
	if appliance.Host != "10.0.0.1" || appliance.VDOM != "customer-a" {
		t.Errorf("Appliance fields mismatch: %+v", appliance)
	}
	if len(appliance.Paths) != 2 || appliance.Paths[0] != "system interface" {
		t.Errorf("Expected paths preserved, got %v", appliance.Paths)
	}
}

// TestLoadMissingFileReturnsDefaults tests first-run behavior.
func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	registry, err := loadRegistryFromDisk()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(registry.Appliances) != 0 {
		t.Errorf("Expected empty appliance map, got %v", registry.Appliances)
	}
	if registry.Preferences == nil || registry.Preferences.DefaultUsername != "admin" {
		t.Errorf("Expected default preferences, got %+v", registry.Preferences)
	}
}

// TestLoadRejectsUnknownVersion tests the schema version check.
func TestLoadRejectsUnknownVersion(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, appName)
	if err := os.MkdirAll(path, 0700); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(path, configFile), []byte("version: 99\n"), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if _, err := loadRegistryFromDisk(); err == nil || !strings.Contains(err.Error(), "unsupported config version") {
		t.Errorf("Expected version error, got %v", err)
	}
}

// TestSaveNeverStoresPasswords tests that the written file carries the
// no-passwords notice and no password-like keys.
func TestSaveNeverStoresPasswords(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	registry := NewRegistry()
	registry.Set("lab-fw", &Appliance{Host: "10.0.0.1"})
	if err := registry.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "Passwords are NEVER stored here") {
		t.Error("Expected header notice in saved file")
	}
	if strings.Contains(strings.ToLower(content), "password:") {
		t.Error("Expected no password keys in saved file")
	}
}
