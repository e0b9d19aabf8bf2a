package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/raindrop-mcp/internal/common"
	"github.com/bobmcallan/raindrop-mcp/internal/config"
	raindropmcp "github.com/bobmcallan/raindrop-mcp/internal/mcp"
	"github.com/bobmcallan/raindrop-mcp/internal/raindrop"
)

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (for Claude Desktop)")
	configFile := flag.String("config", "raindrop-mcp.toml", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load version
	common.LoadVersionFromFile()

	// Setup logging
	logger := common.NewLoggerFromConfig(cfg.Logging)

	client, err := raindrop.NewClient(
		cfg.Raindrop.BaseURL,
		cfg.Raindrop.AccessToken,
		logger,
		raindrop.WithTimeout(time.Duration(cfg.Raindrop.TimeoutSeconds)*time.Second),
		raindrop.WithRetries(cfg.Raindrop.Retries),
	)
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to create Raindrop client")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	mcpServer := server.NewMCPServer(
		cfg.Server.Name,
		common.GetVersion(),
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
	)

	toolCount := raindropmcp.RegisterTools(mcpServer, client, logger)
	raindropmcp.RegisterResources(mcpServer, client, logger, toolCount)

	logger.Info().
		Str("version", common.GetVersion()).
		Str("upstream", client.BaseURL()).
		Int("tools", toolCount).
		Msg("raindrop-mcp starting")

	if *stdio {
		// Stdio transport reads stdin and writes stdout; logs stay on stderr
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	port := cfg.Server.Port

	httpServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
	)

	fmt.Fprintf(os.Stderr, "Starting MCP Streamable HTTP on :%s\n", port)

	if err := httpServer.Start(":" + port); err != nil {
		fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
		os.Exit(1)
	}
}
