// Package config holds operator-level configuration for a veil process.
//
// This is infrastructure config set by whoever deploys veil (data
// directory, listen address, audit trail switch), NOT the per-request
// operator parameters. Those, including encryption keys, arrive with each
// anonymize call. Set via env vars (VEIL_*) or veil.config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Viper keys. Each maps to an env var with the VEIL_ prefix
// (e.g. "data_dir" → VEIL_DATA_DIR) and to a YAML field in
// veil.config.yaml.
const (
	KeyDataDir       = "data_dir"
	KeyListenAddr    = "listen_addr"
	KeyOperatorsFile = "operators_file"
	KeyAuditEnabled  = "audit_enabled"
)

// Defaults.
const (
	DefaultListenAddr    = ":3001"
	DefaultOperatorsFile = "operators.yaml"
	DefaultAuditEnabled  = true
)

// Config holds resolved operator-level configuration for a veil process.
type Config struct {
	DataDir       string // Base directory for all state (~/.veil)
	ListenAddr    string // HTTP listen address for `veil serve`
	OperatorsFile string // Default operator-config YAML consulted by CLI commands
	AuditEnabled  bool   // Whether runs are recorded in the audit store
}

func init() {
	viper.SetEnvPrefix("VEIL")
	viper.AutomaticEnv()
	viper.SetDefault(KeyListenAddr, DefaultListenAddr)
	viper.SetDefault(KeyOperatorsFile, DefaultOperatorsFile)
	viper.SetDefault(KeyAuditEnabled, DefaultAuditEnabled)
}

// Load reads configuration from Viper (which merges env vars, config file
// and defaults) and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{
		DataDir:       resolveDataDir(),
		ListenAddr:    viper.GetString(KeyListenAddr),
		OperatorsFile: viper.GetString(KeyOperatorsFile),
		AuditEnabled:  viper.GetBool(KeyAuditEnabled),
	}

	if cfg.ListenAddr == "" {
		return nil, fmt.Errorf("invalid configuration: %s must not be empty", KeyListenAddr)
	}

	return cfg, nil
}

func resolveDataDir() string {
	if dir := viper.GetString(KeyDataDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".veil"
	}
	return filepath.Join(home, ".veil")
}

// AuditDBPath returns the full path to the audit SQLite database.
func (c *Config) AuditDBPath() string {
	return filepath.Join(c.DataDir, "audit.db")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0o700)
}
