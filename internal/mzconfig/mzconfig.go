// Package mzconfig loads the optional TOML configuration file accepted by
// cmd/mzpc's --config and cmd/mzpserver's flags (spec section 6, ambient
// stack), mirroring internal/tqw's toml.Unmarshal-based loading.
package mzconfig

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ReservedName overrides one entry of internal/labels' built-in reserved
// name list (a user name that must keep its literal spelling rather than
// being sanitized).
type ReservedName struct {
	Name string `toml:"name"`
}

// CodepageConfig points at an operator-supplied code-page table override,
// in place of internal/codepage's built-in CP437 default.
type CodepageConfig struct {
	TablePath string `toml:"table_path"`
}

// ServerConfig holds internal/buildserver's listen/secret/db settings, each
// overridable by an environment variable of the same shape as the teacher's
// MARZIPAN_* fallbacks.
type ServerConfig struct {
	ListenAddress string `toml:"listen_address"`
	TokenSecret   string `toml:"token_secret"`
	Database      string `toml:"database"`
}

// Config is the full shape of a marzipan TOML config file. Every section is
// optional; a zero Config is a valid, all-defaults configuration.
type Config struct {
	ReservedNames []ReservedName `toml:"reserved_names"`
	Codepage      CodepageConfig `toml:"codepage"`
	Server        ServerConfig   `toml:"server"`
}

// Load reads and parses the TOML config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %q: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	return cfg, nil
}

// ReservedNameList returns the flat list of reserved names this config
// contributes, in file order.
func (c Config) ReservedNameList() []string {
	names := make([]string, len(c.ReservedNames))
	for i, rn := range c.ReservedNames {
		names[i] = rn.Name
	}
	return names
}
