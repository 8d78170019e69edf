// Package config holds build information and the optional CLI configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Set at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func BuildInfo() string {
	return fmt.Sprintf("%s-%s-%s", Version, Date, Commit)
}

// Config selects the transport and overrides device addresses. Addresses are
// 7-bit, keyed by device name (angle, distnx, irthermometer...).
type Config struct {
	Adapter   string          `yaml:"adapter"`
	Device    string          `yaml:"device"`
	Bus       int             `yaml:"bus"`
	Addresses map[string]byte `yaml:"addresses"`
}

func Default() Config {
	return Config{
		Adapter:   "mcp2221",
		Device:    "/dev/i2c-1",
		Bus:       -1,
		Addresses: map[string]byte{},
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("could not read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	addrs := make(map[string]byte, len(cfg.Addresses))
	for name, a := range cfg.Addresses {
		addrs[strings.ToLower(name)] = a
	}
	cfg.Addresses = addrs
	return cfg, nil
}

// Address returns the configured address of device name or def.
func (c Config) Address(name string, def byte) byte {
	if a, ok := c.Addresses[strings.ToLower(name)]; ok {
		return a
	}
	return def
}
