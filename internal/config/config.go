// Package config provides centralized configuration for the wallet
// core: a load-or-create-default YAML file holding the server
// endpoint, data directory, log level, and default sweep category a
// wallet process needs.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the default config file name within a wallet's
// data directory.
const ConfigFileName = "config.yaml"

// Config holds everything a wallet process needs beyond the wallet
// file pair itself.
type Config struct {
	// Server is the base URL of the mint server the replace protocol
	// talks to.
	Server string `yaml:"server"`

	// DataDir is the directory containing the wallet's P.db/P.bak pair
	// and this config file.
	DataDir string `yaml:"data_dir"`

	// LogLevel is one of debug, info, warn, error, fatal.
	LogLevel string `yaml:"log_level"`

	// DefaultSweepCategory names the (mine, sweep) pair used when a
	// caller doesn't specify one explicitly, e.g. sweeping newly
	// received webcash into the wallet. Valid values are the
	// hdkey.Category names: "receive", "payment", "change", "mining".
	DefaultSweepCategory string `yaml:"default_sweep_category"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server:               "https://webcash.org",
		DataDir:              "~/.webcashwallet",
		LogLevel:             "info",
		DefaultSweepCategory: "receive",
	}
}

// Load reads the config file from dataDir, creating one with default
// values if absent.
func Load(dataDir string) (*Config, error) {
	expandedDir := expandPath(dataDir)
	configPath := filepath.Join(expandedDir, ConfigFileName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.DataDir = dataDir
		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("config: create default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("config: create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal config: %w", err)
	}

	header := []byte("# webcash wallet configuration\n# generated automatically on first run\n\n")
	data = append(header, data...)

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: write config file: %w", err)
	}
	return nil
}

// WalletBasePath returns the base path (without .db/.bak suffix) for
// this config's wallet file pair.
func (c *Config) WalletBasePath() string {
	return filepath.Join(expandPath(c.DataDir), "wallet")
}

// ConfigPath returns the full path to the config file for dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(expandPath(dataDir), ConfigFileName)
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
