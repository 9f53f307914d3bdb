package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/ledger-engine/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
	assert.Equal(t, "ledger.db", cfg.Database.Path)
	assert.False(t, cfg.Ledger.RejectOverpayment)
	assert.False(t, cfg.Ledger.ClampSettlement)
	assert.False(t, cfg.Ledger.RejectOverSettlement)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
host = "0.0.0.0"
port = 9090

[database]
path = "/var/data/shop.db"

[ledger]
reject_overpayment = true
clamp_settlement = true
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.Equal(t, "/var/data/shop.db", cfg.Database.Path)
	assert.True(t, cfg.Ledger.RejectOverpayment)
	assert.True(t, cfg.Ledger.ClampSettlement)
	assert.False(t, cfg.Ledger.RejectOverSettlement, "unset keys keep their defaults")
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport ="), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}
