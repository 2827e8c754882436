package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/compdb/internal/compdb"
	"github.com/ternarybob/compdb/internal/models"
	"github.com/ternarybob/compdb/internal/services/compilation"
	"github.com/ternarybob/compdb/internal/shellwords"
)

// formatArguments formats the argv of one entry as markdown
func formatArguments(entry *compdb.CompileCommand, args []string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Compile arguments for %s\n\n", entry.File))
	sb.WriteString(fmt.Sprintf("**Directory:** %s\n", entry.Directory))
	sb.WriteString(fmt.Sprintf("**Source form:** %s\n", entry.Form()))
	if entry.Output != "" {
		sb.WriteString(fmt.Sprintf("**Output:** %s\n", entry.Output))
	}

	sb.WriteString("\n```sh\n")
	sb.WriteString(shellwords.Join(args))
	sb.WriteString("\n```\n\n")

	for i, arg := range args {
		sb.WriteString(fmt.Sprintf("%d. `%s`\n", i, arg))
	}
	return sb.String()
}

// formatEntryList formats up to limit entries of a database as markdown
func formatEntryList(loaded *compilation.Database, limit int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s (%d entries)\n\n", loaded.SourcePath, loaded.Entries.Len()))

	if loaded.Entries.Len() == 0 {
		sb.WriteString("No entries.\n")
		return sb.String()
	}

	for i, entry := range loaded.Entries {
		if i >= limit {
			sb.WriteString(fmt.Sprintf("\n... %d more entries not shown\n", loaded.Entries.Len()-limit))
			break
		}
		sb.WriteString(fmt.Sprintf("%d. `%s` (%s) in %s\n", i+1, entry.File, entry.Form(), entry.Directory))
	}
	return sb.String()
}

// formatDatabaseJSON encodes a database in compile_commands.json form
func formatDatabaseJSON(db compdb.CompilationDatabase) (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(db); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// formatSummary formats a flag summary as markdown
func formatSummary(file string, summary *models.CompileFlags) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Compile flags for %s\n\n", file))
	sb.WriteString(fmt.Sprintf("**Compiler:** %s\n", summary.Compiler))
	if summary.Language != "" {
		sb.WriteString(fmt.Sprintf("**Language:** %s\n", summary.Language))
	}
	if summary.Standard != "" {
		sb.WriteString(fmt.Sprintf("**Standard:** %s\n", summary.Standard))
	}
	if summary.Output != "" {
		sb.WriteString(fmt.Sprintf("**Output:** %s\n", summary.Output))
	}
	sb.WriteString(fmt.Sprintf("**Compile only:** %t\n", summary.CompileOnly))

	writeList(&sb, "Include directories", summary.IncludeDirs)
	writeList(&sb, "System include directories", summary.SystemIncludeDirs)
	writeList(&sb, "Quote include directories", summary.QuoteIncludeDirs)
	writeList(&sb, "Defines", summary.Defines)
	writeList(&sb, "Undefines", summary.Undefines)
	writeList(&sb, "Warnings", summary.Warnings)
	writeList(&sb, "Inputs", summary.Inputs)
	writeList(&sb, "Other flags", summary.Other)
	return sb.String()
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("\n### %s\n", title))
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("- `%s`\n", item))
	}
}
