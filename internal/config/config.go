// Package config handles the persistent zone configuration for zoneup.
//
// Configuration is stored as YAML at ~/.config/zoneup/config.yaml (or
// the platform-equivalent path returned by os.UserConfigDir). The file
// declares zones and their desired records; TSIG secrets are never
// stored here — only the key name that selects a secret from the OS
// keychain.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"nathanbeddoewebdev/zoneup/internal/dns/domain"
)

const (
	appDir   = "zoneup"
	fileName = "config.yaml"
)

// pathOverride, when non-empty, replaces the default config file path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the config file path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override, reverting to the default. Intended for testing.
func ResetPath() { pathOverride = "" }

// Config holds every declared zone.
type Config struct {
	Zones []domain.Zone `yaml:"zones"`
}

// Path returns the absolute path to the config file. If SetPath has been
// called, that value is returned instead. Otherwise it uses
// os.UserConfigDir which resolves to ~/Library/Application Support on
// macOS, ~/.config on Linux, and %AppData% on Windows.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load reads the config file from disk, validates every zone, and
// returns the parsed Config. If the file does not exist, an empty Config
// is returned (not an error). An invalid zone fails the whole load:
// reconciling against a half-valid declaration is worse than stopping.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	for _, zone := range cfg.Zones {
		if err := zone.Validate(); err != nil {
			return nil, fmt.Errorf("config: zone %q: %w", zone.Name, err)
		}
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the parent directory if
// needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}

	return nil
}

// Zone returns the named zone.
func (c *Config) Zone(name string) (domain.Zone, error) {
	for _, z := range c.Zones {
		if z.Name == name {
			return z, nil
		}
	}
	return domain.Zone{}, fmt.Errorf("config: zone %q: %w", name, domain.ErrZoneNotFound)
}

// AddZone appends a new zone. Adding a name that already exists fails
// unless overwrite is set, in which case the existing entry is replaced.
func (c *Config) AddZone(zone domain.Zone, overwrite bool) error {
	if err := zone.Validate(); err != nil {
		return err
	}

	for i, existing := range c.Zones {
		if existing.Name == zone.Name {
			if !overwrite {
				return fmt.Errorf("config: zone %q already exists", zone.Name)
			}
			c.Zones[i] = zone
			return nil
		}
	}
	c.Zones = append(c.Zones, zone)
	return nil
}

// UpdateZone replaces the zone named originalName with updated, allowing
// a rename as long as the new name does not collide with another zone.
func (c *Config) UpdateZone(originalName string, updated domain.Zone) error {
	if err := updated.Validate(); err != nil {
		return err
	}

	current := -1
	for i, z := range c.Zones {
		if z.Name == originalName {
			current = i
		}
	}
	if current == -1 {
		return fmt.Errorf("config: zone %q: %w", originalName, domain.ErrZoneNotFound)
	}

	for i, z := range c.Zones {
		if z.Name == updated.Name && i != current {
			return fmt.Errorf("config: zone %q already exists", updated.Name)
		}
	}

	c.Zones[current] = updated
	return nil
}

// DeleteZone removes the named zone.
func (c *Config) DeleteZone(name string) error {
	for i, z := range c.Zones {
		if z.Name == name {
			c.Zones = append(c.Zones[:i], c.Zones[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("config: zone %q: %w", name, domain.ErrZoneNotFound)
}

// Sample returns a starter configuration demonstrating the schema.
func Sample() *Config {
	return &Config{
		Zones: []domain.Zone{
			{
				Name:         "example.com",
				Server:       "ns1.example.com",
				KeyName:      "zoneup-key",
				KeyAlgorithm: "hmac-sha256",
				DefaultTTL:   3600,
				Notes:        "Sandbox zone demonstrating the zoneup config schema.",
				Records: []domain.Record{
					{Label: "@", Type: domain.RecordTypeA, Value: "198.51.100.10", TTL: 600},
					{Label: "www", Type: domain.RecordTypeCNAME, Value: "@", TTL: 300},
					{Label: "mail", Type: domain.RecordTypeA, Value: "198.51.100.20", TTL: 300},
					{Label: "@", Type: domain.RecordTypeMX, Value: "mail.example.com", MX: &domain.MXData{Preference: 10}},
				},
			},
		},
	}
}
