package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ternarybob/compdb/internal/common"
	"gopkg.in/yaml.v3"
)

// writeOutput encodes v in the configured output format
func writeOutput(w io.Writer, config common.OutputConfig, v any) error {
	switch config.Format {
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(max(config.Indent, 2))
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return encoder.Close()
	default:
		return writeJSON(w, config.Indent, v)
	}
}

// writeJSON encodes v as indented JSON without HTML escaping
func writeJSON(w io.Writer, indent int, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", indentString(indent))
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

func indentString(n int) string {
	return strings.Repeat(" ", n)
}
