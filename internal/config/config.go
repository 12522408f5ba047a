// Package config provides persisted configuration management for Aurum
// Core: the host's own preferences (home directory, encryption tuning,
// security posture, logging) plus the user's custom network additions,
// loaded from and saved to a YAML file in the OS per-user config
// directory (spec.md §6, "Persisted state layout").
//
// Adapted from the teacher's internal/config/config.go, trimmed from a
// multi-chain (ETH/BSV/BTC/BCH) shape down to the EVM-only domain this
// spec covers, and extended with the schema_version field spec.md §6
// requires for the custom-networks file.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aurumlabs/aurum-core/internal/fileutil"
)

// SchemaVersion is the current on-disk config schema version.
const SchemaVersion = 1

// Config is the full persisted application configuration.
type Config struct {
	Version    int              `yaml:"schema_version"`
	Home       string           `yaml:"home"`
	Encryption EncryptionConfig `yaml:"encryption"`
	Networks   NetworksConfig   `yaml:"networks"`
	Security   SecurityConfig   `yaml:"security"`
	Logging    LoggingConfig    `yaml:"logging"`

	// Warnings accumulates non-fatal problems found while applying
	// environment overrides (e.g. a non-integer numeric override). Not
	// persisted.
	Warnings []string `yaml:"-"`
}

// EncryptionConfig tunes the crypto façade (internal/vaultcrypto).
type EncryptionConfig struct {
	Method        string `yaml:"method"`         // always "argon2id-aesgcm" for this version
	KeyDerivation string `yaml:"key_derivation"` // reserved for future KDF migration
}

// NetworksConfig holds the default active network and any user-added
// custom network definitions, persisted alongside the rest of the
// config. Built-in networks are never written here; see
// internal/netregistry for the built-in table.
type NetworksConfig struct {
	DefaultNetworkID string               `yaml:"default_network_id"`
	RPCOverrides     map[string]string    `yaml:"rpc_overrides,omitempty"`
	Custom           []CustomNetworkEntry `yaml:"custom,omitempty"`
}

// CustomNetworkEntry mirrors netregistry.Network's persisted shape.
type CustomNetworkEntry struct {
	NetworkID    string `yaml:"network_id"`
	ChainID      uint64 `yaml:"chain_id"`
	Name         string `yaml:"name"`
	RPCURL       string `yaml:"rpc_url"`
	ExplorerURL  string `yaml:"explorer_url,omitempty"`
	Symbol       string `yaml:"symbol"`
	TokenName    string `yaml:"token_name"`
	Decimals     int    `yaml:"decimals"`
}

// SecurityConfig holds wallet security posture.
type SecurityConfig struct {
	MemoryLock        bool `yaml:"memory_lock"`
	ApprovalTimeoutSec int  `yaml:"approval_timeout_sec"`
	RateLimitBurst    int  `yaml:"rate_limit_burst"`
	RateLimitPerSec   int  `yaml:"rate_limit_per_sec"`
}

// LoggingConfig selects the ambient logger's level and destination.
type LoggingConfig struct {
	Level string `yaml:"level"` // "off" | "error" | "debug"
	File  string `yaml:"file"`
	JSON  bool   `yaml:"json"`
}

// Defaults returns the default configuration, written on first run.
func Defaults() *Config {
	return &Config{
		Version: SchemaVersion,
		Home:    DefaultHome(),
		Encryption: EncryptionConfig{
			Method:        "argon2id-aesgcm",
			KeyDerivation: "argon2id",
		},
		Networks: NetworksConfig{
			DefaultNetworkID: "ethereum",
		},
		Security: SecurityConfig{
			MemoryLock:         true,
			ApprovalTimeoutSec: 300,
			RateLimitBurst:     10,
			RateLimitPerSec:    1,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  filepath.Join(DefaultHome(), "aurum-core.log"),
		},
	}
}

// Load reads configuration from the specified file, layering it over
// the defaults so a partial file (e.g. missing a newly added field)
// still produces a complete Config.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to the specified file using an atomic
// write so a crash mid-save never leaves a truncated config on disk.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return fileutil.WriteAtomic(path, data, 0o600)
}

// Path returns the default config file path under home.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// DefaultHome returns the default Aurum Core home directory.
func DefaultHome() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return ".aurum-core"
		}
		return filepath.Join(home, ".aurum-core")
	}
	return filepath.Join(dir, "aurum-core")
}
