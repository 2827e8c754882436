package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/compdb/internal/common"
	"github.com/ternarybob/compdb/internal/services/compilation"
)

func main() {
	if logsDir, err := common.LogsDir(); err == nil {
		common.InstallCrashHandler(logsDir)
	}
	defer common.RecoverWithCrashFile()

	// Load configuration
	var configFiles []string
	if configPath := os.Getenv("COMPDB_CONFIG"); configPath != "" {
		configFiles = append(configFiles, configPath)
	} else if _, err := os.Stat("compdb.toml"); err == nil {
		configFiles = append(configFiles, "compdb.toml")
	}

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the MCP protocol, logs may only go to file
	config.Logging.Output = []string{"file"}
	logger := common.InitLogger(config)

	service := compilation.NewService(nil, config, logger)

	// Create MCP server
	mcpServer := server.NewMCPServer(
		"compdb",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	// Register compilation database tools
	mcpServer.AddTool(createGetCompileArgumentsTool(), handleGetCompileArguments(service, logger))
	mcpServer.AddTool(createListCompileEntriesTool(), handleListCompileEntries(service, logger))
	mcpServer.AddTool(createConvertCompileFlagsTool(), handleConvertCompileFlags(service, logger))
	mcpServer.AddTool(createSummarizeCompileFlagsTool(), handleSummarizeCompileFlags(service, logger))

	logger.Info().Strs("config_files", configFiles).Msg("Starting compdb MCP server")

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
