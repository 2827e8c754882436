package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/compdb/internal/services/compilation"
)

const testDatabase = `[
  {"directory": "/proj", "file": "a.c", "arguments": ["cc", "-Iinclude", "-DDEBUG", "-c", "a.c"]},
  {"directory": "/proj", "file": "b.c", "command": "cc -DMSG=\"a b\" -std=c11 -c b.c"}
]`

func callTool(t *testing.T, handler server.ToolHandlerFunc, args map[string]any) (string, bool) {
	t.Helper()

	request := mcp.CallToolRequest{}
	request.Params.Arguments = args

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, result.IsError
}

func newTestService() *compilation.Service {
	return compilation.NewService(nil, nil, arbor.NewLogger())
}

func writeDatabase(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, compilation.CompileCommandsFileName), []byte(testDatabase), 0644))
	return dir
}

func TestHandleGetCompileArguments(t *testing.T) {
	dir := writeDatabase(t)
	handler := handleGetCompileArguments(newTestService(), arbor.NewLogger())

	text, isError := callTool(t, handler, map[string]any{"path": dir, "file": "b.c"})
	assert.False(t, isError)
	assert.Contains(t, text, "## Compile arguments for b.c")
	assert.Contains(t, text, "**Source form:** command")
	assert.Contains(t, text, "cc '-DMSG=a b' -std=c11 -c b.c")
	assert.Contains(t, text, "1. `-DMSG=a b`")

	text, isError = callTool(t, handler, map[string]any{"path": dir, "file": "missing.c"})
	assert.True(t, isError)
	assert.Contains(t, text, "Lookup error")

	text, isError = callTool(t, handler, map[string]any{"path": dir})
	assert.True(t, isError)
	assert.Contains(t, text, "file parameter is required")
}

func TestHandleListCompileEntries(t *testing.T) {
	dir := writeDatabase(t)
	handler := handleListCompileEntries(newTestService(), arbor.NewLogger())

	text, isError := callTool(t, handler, map[string]any{"path": dir})
	assert.False(t, isError)
	assert.Contains(t, text, "(2 entries)")
	assert.Contains(t, text, "1. `a.c` (arguments) in /proj")
	assert.Contains(t, text, "2. `b.c` (command) in /proj")

	text, _ = callTool(t, handler, map[string]any{"path": dir, "limit": 1})
	assert.Contains(t, text, "1 more entries not shown")
	assert.NotContains(t, text, "2. `b.c`")

	text, isError = callTool(t, handler, map[string]any{"path": t.TempDir()})
	assert.True(t, isError)
	assert.Contains(t, text, "no compilation database found")
}

func TestHandleConvertCompileFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, compilation.CompileFlagsFileName)
	require.NoError(t, os.WriteFile(path, []byte("-xc++\n-I\nlibwidget/include/\n"), 0644))

	handler := handleConvertCompileFlags(newTestService(), arbor.NewLogger())
	text, isError := callTool(t, handler, map[string]any{"path": path, "files": []any{"a.cc", "b.cc"}})
	require.False(t, isError)

	var entries []struct {
		Directory string   `json:"directory"`
		File      string   `json:"file"`
		Arguments []string `json:"arguments"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, dir, entries[0].Directory)
	assert.Equal(t, []string{"cc", "-xc++", "-I", "libwidget/include/", "a.cc"}, entries[0].Arguments)
}

func TestHandleSummarizeCompileFlags(t *testing.T) {
	dir := writeDatabase(t)
	handler := handleSummarizeCompileFlags(newTestService(), arbor.NewLogger())

	text, isError := callTool(t, handler, map[string]any{"path": dir, "file": "/proj/a.c"})
	assert.False(t, isError)
	assert.Contains(t, text, "**Compiler:** cc")
	assert.Contains(t, text, "### Include directories\n- `include`")
	assert.Contains(t, text, "### Defines\n- `DEBUG`")
	assert.Contains(t, text, "**Compile only:** true")
}
