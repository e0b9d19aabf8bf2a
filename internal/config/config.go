// Package config loads raindrop-mcp configuration with priority:
// defaults -> TOML file -> environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/raindrop-mcp/internal/common"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig         `toml:"server"`
	Raindrop RaindropConfig       `toml:"raindrop"`
	Logging  common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains MCP server settings.
type ServerConfig struct {
	Name string `toml:"name"`
	Port string `toml:"port"`
}

// RaindropConfig contains upstream Raindrop.io API settings.
type RaindropConfig struct {
	BaseURL        string `toml:"base_url"`
	AccessToken    string `toml:"access_token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Retries        int    `toml:"retries"`
}

// Load loads configuration from an optional TOML file, then applies
// environment variable overrides. A missing file is not an error; the
// defaults plus environment are enough to run.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else {
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides applies RAINDROP_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if token := os.Getenv("RAINDROP_ACCESS_TOKEN"); token != "" {
		cfg.Raindrop.AccessToken = token
	}
	if url := os.Getenv("RAINDROP_API_URL"); url != "" {
		cfg.Raindrop.BaseURL = url
	}
	if port := os.Getenv("RAINDROP_MCP_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if level := os.Getenv("RAINDROP_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if timeout := os.Getenv("RAINDROP_TIMEOUT_SECONDS"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil && t > 0 {
			cfg.Raindrop.TimeoutSeconds = t
		}
	}
}
