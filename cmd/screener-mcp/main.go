package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ternarybob/screener/internal/app"
	"github.com/ternarybob/screener/internal/common"
)

func main() {
	defer common.RecoverWithCrashFile()

	// Load configuration
	var configFiles []string
	if env := os.Getenv("SCREENER_CONFIG"); env != "" {
		configFiles = strings.Split(env, ",")
	} else if _, err := os.Stat("screener.toml"); err == nil {
		configFiles = []string{"screener.toml"}
	}

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the MCP protocol, so logs only go to file
	config.Logging.Output = []string{"file"}
	logger := common.InitLogger(config)

	application, err := app.New(config, logger, app.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	svc := application.ScreenerService

	// Create MCP server
	mcpServer := server.NewMCPServer(
		"screener",
		common.Version,
		server.WithToolCapabilities(true),
	)

	// Register scoring tools
	mcpServer.AddTool(createScoreBundleTool(), handleScoreBundle(svc, logger))
	mcpServer.AddTool(createScoreInlineTool(), handleScoreInline(svc, logger))
	mcpServer.AddTool(createClassifyRegimeTool(), handleClassifyRegime(svc, config, logger))

	// Register history tools
	mcpServer.AddTool(createGetHistoryTool(), handleGetHistory(svc, config, logger))
	mcpServer.AddTool(createGetRegimeHistoryTool(), handleGetRegimeHistory(svc, logger))

	logger.Info().Strs("config_files", configFiles).Msg("MCP server starting on stdio")

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Error().Err(err).Msg("MCP server failed")
		application.Close()
		os.Exit(1)
	}
}
