// Package config loads CLI configuration: built-in defaults, then an
// optional ~/.gamestore/config.yaml, then environment overrides. Flags
// are applied last by the CLI layer.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvServer overrides the backend URL when set.
const EnvServer = "GAMESTORE_SERVER"

// ClientConfig holds configuration for the gamestore CLI.
type ClientConfig struct {
	ServerURL string `yaml:"server_url"` // Storefront backend root (default http://localhost:8080)
	LogLevel  string `yaml:"log_level"`  // Log level: debug, info, warn, error
	LogFormat string `yaml:"log_format"` // Log format: text, json
	StateDir  string `yaml:"state_dir"`  // Local state directory (default ~/.gamestore)
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		ServerURL: "http://localhost:8080",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load builds the effective configuration from defaults, the config
// file (when present) and the environment.
func Load() (ClientConfig, error) {
	cfg := DefaultClientConfig()

	path, err := configPath()
	if err == nil {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	if s := os.Getenv(EnvServer); s != "" {
		cfg.ServerURL = s
	}

	return cfg, nil
}

// StatePath returns the path of the local state database, creating the
// state directory if needed.
func (c ClientConfig) StatePath() (string, error) {
	dir := c.StateDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("find home directory: %w", err)
		}
		dir = filepath.Join(home, ".gamestore")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create state directory: %w", err)
	}
	return filepath.Join(dir, "state.db"), nil
}

// configPath returns the path to the config file (~/.gamestore/config.yaml).
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".gamestore", "config.yaml"), nil
}
