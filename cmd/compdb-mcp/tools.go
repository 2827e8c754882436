package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createGetCompileArgumentsTool returns the get_compile_arguments tool definition
func createGetCompileArgumentsTool() mcp.Tool {
	return mcp.NewTool("get_compile_arguments",
		mcp.WithDescription("Get the normalized compiler arguments used to build a source file"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("compile_commands.json, compile_flags.txt, or a directory containing one"),
		),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Source file, absolute or as written in the database"),
		),
	)
}

// createListCompileEntriesTool returns the list_compile_entries tool definition
func createListCompileEntriesTool() mcp.Tool {
	return mcp.NewTool("list_compile_entries",
		mcp.WithDescription("List the entries of a compilation database"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("compile_commands.json, compile_flags.txt, or a directory containing one"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum entries to return (default: 50, max: 1000)"),
		),
	)
}

// createConvertCompileFlagsTool returns the convert_compile_flags tool definition
func createConvertCompileFlagsTool() mcp.Tool {
	return mcp.NewTool("convert_compile_flags",
		mcp.WithDescription("Convert a compile_flags.txt file into an equivalent compile_commands.json"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to compile_flags.txt"),
		),
		mcp.WithArray("files",
			mcp.WithStringItems(),
			mcp.Description("Source files relative to the flags file directory (default: discovered sources)"),
		),
	)
}

// createSummarizeCompileFlagsTool returns the summarize_compile_flags tool definition
func createSummarizeCompileFlagsTool() mcp.Tool {
	return mcp.NewTool("summarize_compile_flags",
		mcp.WithDescription("Summarize include paths, defines, language and warnings used to build a source file"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("compile_commands.json, compile_flags.txt, or a directory containing one"),
		),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Source file, absolute or as written in the database"),
		),
	)
}
