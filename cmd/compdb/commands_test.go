package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/compdb/internal/common"
	"github.com/ternarybob/compdb/internal/models"
	"github.com/ternarybob/compdb/internal/services/compilation"
	"gopkg.in/yaml.v3"
)

const testDatabase = `[
  {"directory": "/proj", "file": "file.cc", "arguments": ["/usr/bin/clang++", "-Irelative", "-DSOMEDEF=With spaces, quotes and -es.", "-c", "-o", "file.o", "file.cc"]},
  {"directory": "/proj", "file": "other.cc", "command": "/usr/bin/clang++ -Irelative \"-DSOMEDEF=With spaces, quotes and \\-es.\" -std=c++17 -c -o other.o other.cc", "output": "other.o"}
]`

func newTestCLI(t *testing.T) (*cli, *bytes.Buffer) {
	t.Helper()

	config := common.NewDefaultConfig()
	config.Storage.Badger.InMemory = true

	out := &bytes.Buffer{}
	app := &cli{config: config, logger: arbor.NewLogger(), out: out}
	t.Cleanup(app.close)
	return app, out
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun_Parse(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "compile_commands.json", testDatabase)

	app, out := newTestCLI(t)
	require.NoError(t, app.run(context.Background(), []string{"parse", dir}))

	var entries []models.NormalizedEntry
	require.NoError(t, json.Unmarshal(out.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "-DSOMEDEF=With spaces, quotes and -es.", entries[1].Arguments[2])
	assert.Equal(t, "other.o", entries[1].Output)
}

func TestRun_ParseYAML(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "compile_commands.json", testDatabase)

	app, out := newTestCLI(t)
	app.config.Output.Format = "yaml"
	require.NoError(t, app.run(context.Background(), []string{"parse", dir}))

	var entries []models.NormalizedEntry
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "file.cc", entries[0].File)
}

func TestRun_Args(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "compile_commands.json", testDatabase)

	app, out := newTestCLI(t)
	require.NoError(t, app.run(context.Background(), []string{"args", path, "other.cc"}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{
		"/usr/bin/clang++", "-Irelative", "-DSOMEDEF=With spaces, quotes and -es.",
		"-std=c++17", "-c", "-o", "other.o", "other.cc",
	}, lines)

	out.Reset()
	require.NoError(t, app.run(context.Background(), []string{"args", "-shell", path, "/proj/file.cc"}))
	assert.Equal(t, "/usr/bin/clang++ -Irelative '-DSOMEDEF=With spaces, quotes and -es.' -c -o file.o file.cc\n", out.String())

	err := app.run(context.Background(), []string{"args", path, "missing.cc"})
	assert.ErrorContains(t, err, "no entry for file: missing.cc")
}

func TestRun_Convert(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "compile_flags.txt", "-xc++\n-I\nlibwidget/include/\n")

	app, out := newTestCLI(t)
	require.NoError(t, app.run(context.Background(), []string{"convert", "-program", "clang++", path, "a.cc", "b.cc"}))

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, dir, entries[0]["directory"])
	assert.Equal(t, []any{"clang++", "-xc++", "-I", "libwidget/include/", "b.cc"}, entries[1]["arguments"])
	assert.NotContains(t, entries[1], "command")

	// The shared config is untouched
	assert.Equal(t, "cc", app.config.Flags.ProgramName)
}

func TestRun_Summary(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "compile_commands.json", testDatabase)

	app, out := newTestCLI(t)
	require.NoError(t, app.run(context.Background(), []string{"summary", path, "other.cc"}))

	var summary models.CompileFlags
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, "c++17", summary.Standard)
	assert.Equal(t, []string{"relative"}, summary.IncludeDirs)
	assert.Equal(t, []string{"SOMEDEF=With spaces, quotes and -es."}, summary.Defines)
	assert.True(t, summary.CompileOnly)
}

func TestRun_IndexCommands(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "compile_flags.txt", "-Wall\n")
	writeTestFile(t, dir, "main.c", "")

	app, out := newTestCLI(t)
	ctx := context.Background()

	require.NoError(t, app.run(ctx, []string{"import", dir}))
	var record models.DatabaseRecord
	require.NoError(t, json.Unmarshal(out.Bytes(), &record))
	assert.Equal(t, models.DatabaseKindFlags, record.Kind)
	assert.Equal(t, 1, record.EntryCount)

	out.Reset()
	require.NoError(t, app.run(ctx, []string{"lookup", filepath.Join(dir, "main.c")}))
	var entries []models.EntryRecord
	require.NoError(t, json.Unmarshal(out.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"cc", "-Wall", "main.c"}, entries[0].Arguments)

	out.Reset()
	require.NoError(t, app.run(ctx, []string{"list"}))
	var records []models.DatabaseRecord
	require.NoError(t, json.Unmarshal(out.Bytes(), &records))
	require.Len(t, records, 1)

	out.Reset()
	require.NoError(t, app.run(ctx, []string{"show", record.ID}))
	var normalized []models.NormalizedEntry
	require.NoError(t, json.Unmarshal(out.Bytes(), &normalized))
	require.Len(t, normalized, 1)
	assert.Equal(t, "main.c", normalized[0].File)

	require.NoError(t, app.run(ctx, []string{"remove", record.ID}))
	err := app.run(ctx, []string{"lookup", filepath.Join(dir, "main.c")})
	assert.ErrorContains(t, err, "no indexed entry")
}

func TestRun_UsageErrors(t *testing.T) {
	app, _ := newTestCLI(t)
	ctx := context.Background()

	for _, args := range [][]string{
		{"unknown"},
		{"parse"},
		{"parse", "a", "b"},
		{"args", "only-path"},
		{"args", "-bogus", "a", "b"},
		{"list", "extra"},
	} {
		err := app.run(ctx, args)
		assert.True(t, errors.Is(err, errUsage), "args %v", args)
	}
}

func TestRun_Version(t *testing.T) {
	app, out := newTestCLI(t)
	require.NoError(t, app.run(context.Background(), []string{"version"}))
	assert.Contains(t, out.String(), common.GetVersion())
}

func TestCLI_Services(t *testing.T) {
	app, _ := newTestCLI(t)
	ctx := context.Background()

	_, err := app.fileService().List(ctx)
	assert.True(t, errors.Is(err, compilation.ErrStorageUnavailable))
	assert.Nil(t, app.storage)

	first, err := app.indexService()
	require.NoError(t, err)
	require.NotNil(t, app.storage)
	manager := app.storage

	_, err = first.List(ctx)
	require.NoError(t, err)

	_, err = app.indexService()
	require.NoError(t, err)
	assert.Same(t, manager, app.storage)
}

func TestCLI_IndexServiceError(t *testing.T) {
	app, _ := newTestCLI(t)
	app.config.Storage.Type = "sqlite"

	_, err := app.indexService()
	assert.ErrorContains(t, err, "failed to open import index")
}
