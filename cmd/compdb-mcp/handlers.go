package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/compdb/internal/services/compilation"
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	result := textResult(text)
	result.IsError = true
	return result
}

// handleGetCompileArguments implements the get_compile_arguments tool
func handleGetCompileArguments(service *compilation.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil || path == "" {
			return errorResult("Error: path parameter is required"), nil
		}
		file, err := request.RequireString("file")
		if err != nil || file == "" {
			return errorResult("Error: file parameter is required"), nil
		}

		entry, err := service.FindEntry(ctx, path, file)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Str("file", file).Msg("Entry lookup failed")
			return errorResult(fmt.Sprintf("Lookup error: %v", err)), nil
		}

		args, err := entry.Args()
		if err != nil {
			logger.Warn().Err(err).Str("file", file).Msg("Command could not be tokenized")
			return errorResult(fmt.Sprintf("Invalid command: %v", err)), nil
		}

		return textResult(formatArguments(entry, args)), nil
	}
}

// handleListCompileEntries implements the list_compile_entries tool
func handleListCompileEntries(service *compilation.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil || path == "" {
			return errorResult("Error: path parameter is required"), nil
		}

		// Parse limit (default: 50, max: 1000)
		limit := request.GetInt("limit", 50)
		if limit <= 0 {
			limit = 50
		}
		if limit > 1000 {
			limit = 1000
		}

		loaded, err := service.Load(ctx, path, nil)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Failed to load compilation database")
			return errorResult(fmt.Sprintf("Load error: %v", err)), nil
		}

		return textResult(formatEntryList(loaded, limit)), nil
	}
}

// handleConvertCompileFlags implements the convert_compile_flags tool
func handleConvertCompileFlags(service *compilation.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil || path == "" {
			return errorResult("Error: path parameter is required"), nil
		}
		files := request.GetStringSlice("files", nil)

		db, err := service.LoadCompileFlags(ctx, path, files)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Failed to convert flags file")
			return errorResult(fmt.Sprintf("Conversion error: %v", err)), nil
		}

		text, err := formatDatabaseJSON(db)
		if err != nil {
			return errorResult(fmt.Sprintf("Encoding error: %v", err)), nil
		}
		return textResult(text), nil
	}
}

// handleSummarizeCompileFlags implements the summarize_compile_flags tool
func handleSummarizeCompileFlags(service *compilation.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil || path == "" {
			return errorResult("Error: path parameter is required"), nil
		}
		file, err := request.RequireString("file")
		if err != nil || file == "" {
			return errorResult("Error: file parameter is required"), nil
		}

		entry, err := service.FindEntry(ctx, path, file)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Str("file", file).Msg("Entry lookup failed")
			return errorResult(fmt.Sprintf("Lookup error: %v", err)), nil
		}

		summary, err := entry.Summary()
		if err != nil {
			return errorResult(fmt.Sprintf("Invalid command: %v", err)), nil
		}

		return textResult(formatSummary(entry.File, summary)), nil
	}
}
