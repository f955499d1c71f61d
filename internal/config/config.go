// Package config handles the CLI's TOML configuration: where the library
// database lives and which device id local writes are attributed with.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk configuration for plsync.
type Config struct {
	// DeviceID attributes locally originated payloads. Generated once at
	// init and stable for the lifetime of the installation; changing it
	// makes this device look like a new replica.
	DeviceID string `toml:"device_id"`

	// DatabasePath is the SQLite library database.
	DatabasePath string `toml:"database_path"`
}

// New creates a Config with defaults rooted at baseDir.
func New(deviceID, baseDir string) *Config {
	return &Config{
		DeviceID:     deviceID,
		DatabasePath: filepath.Join(baseDir, "library.db"),
	}
}

// Read decodes a Config from the provided reader.
func Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes the Config to the provided writer.
func Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Load reads a Config from path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Save writes the Config to path, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	defer f.Close()
	return Write(f, cfg)
}

// Validate checks that required fields are present.
func (c *Config) Validate() error {
	if c.DeviceID == "" {
		return fmt.Errorf("config missing device_id")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("config missing database_path")
	}
	return nil
}
