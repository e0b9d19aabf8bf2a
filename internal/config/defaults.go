package config

import "github.com/bobmcallan/raindrop-mcp/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "Raindrop-MCP",
			Port: "4270",
		},
		Raindrop: RaindropConfig{
			BaseURL:        "https://api.raindrop.io/rest/v1",
			TimeoutSeconds: 10,
			Retries:        2,
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/raindrop-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}
