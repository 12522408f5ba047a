package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumlabs/aurum-core/internal/config"
)

func TestLoadSave_RoundTrip(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	cfg := config.Defaults()
	cfg.Networks.DefaultNetworkID = "polygon"
	cfg.Networks.Custom = append(cfg.Networks.Custom, config.CustomNetworkEntry{
		NetworkID: "local-devnet",
		ChainID:   1337,
		Name:      "Local Devnet",
		RPCURL:    "http://localhost:8545",
		Symbol:    "ETH",
		TokenName: "Ether",
		Decimals:  18,
	})
	cfg.Logging.Level = "debug"

	require.NoError(t, config.Save(cfg, path))

	_, err := os.Stat(path)
	require.NoError(t, err)

	loaded, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Version, loaded.Version)
	assert.Equal(t, cfg.Networks.DefaultNetworkID, loaded.Networks.DefaultNetworkID)
	require.Len(t, loaded.Networks.Custom, 1)
	assert.Equal(t, "local-devnet", loaded.Networks.Custom[0].NetworkID)
	assert.Equal(t, cfg.Logging.Level, loaded.Logging.Level)
}

func TestDefaults(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()

	assert.Equal(t, config.SchemaVersion, cfg.Version)
	assert.Equal(t, "argon2id-aesgcm", cfg.Encryption.Method)
	assert.Equal(t, "ethereum", cfg.Networks.DefaultNetworkID)
	assert.True(t, cfg.Security.MemoryLock)
	assert.Equal(t, 300, cfg.Security.ApprovalTimeoutSec)
	assert.Equal(t, 10, cfg.Security.RateLimitBurst)
	assert.Equal(t, 1, cfg.Security.RateLimitPerSec)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoad_PartialFileLayersOverDefaults(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schema_version: 1\nlogging:\n  level: debug\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "ethereum", cfg.Networks.DefaultNetworkID)
	assert.Equal(t, 10, cfg.Security.RateLimitBurst)
}

func TestPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, filepath.Join("home", "config.yaml"), config.Path("home"))
}
