/*
Package config loads the server configuration from a TOML file.

PURPOSE:
  All runtime configuration in one place: the HTTP listen address, the
  database path, and the ledger validation toggles. The toggles exist
  because the original behavior silently absorbed payment overage and
  allowed settlements to flip the balance sign; both are now explicit,
  configurable validation points that default to the permissive behavior.

USAGE:
  cfg := config.Default()
  cfg, err := config.Load("ledger.toml") // missing file = defaults

EXAMPLE FILE:
  [server]
  host = "127.0.0.1"
  port = 8080

  [database]
  path = "./data/ledger.db"

  [ledger]
  reject_overpayment = true
  clamp_settlement = true
*/
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Ledger   LedgerConfig   `toml:"ledger"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type DatabaseConfig struct {
	// Path is the SQLite database file; ":memory:" for in-memory.
	Path string `toml:"path"`
}

type LedgerConfig struct {
	// RejectOverpayment fails a customer payment that exceeds the total
	// outstanding debt instead of silently absorbing the leftover.
	RejectOverpayment bool `toml:"reject_overpayment"`

	// ClampSettlement reduces a settlement to abs(balance) instead of
	// letting it flip the balance sign.
	ClampSettlement bool `toml:"clamp_settlement"`

	// RejectOverSettlement refuses a settlement beyond abs(balance)
	// outright. Takes precedence over ClampSettlement.
	RejectOverSettlement bool `toml:"reject_over_settlement"`
}

// Default returns the configuration used when no file is present.
// The ledger toggles default to off, matching the permissive behavior
// the surrounding application historically relied on.
func Default() Config {
	return Config{
		Server:   ServerConfig{Host: "127.0.0.1", Port: 8080},
		Database: DatabaseConfig{Path: "ledger.db"},
	}
}

// Load reads path over the defaults. A missing file is not an error;
// the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
