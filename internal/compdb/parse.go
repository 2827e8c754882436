package compdb

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Parse decodes the contents of a compile_commands.json file.
func Parse(text string) (CompilationDatabase, error) {
	return ParseBytes([]byte(text))
}

// ParseBytes decodes the contents of a compile_commands.json file.
//
// The whole array is decoded and validated before returning. Unknown keys are
// ignored and null values count as absent. Errors are *SyntaxError for
// malformed JSON and *SchemaError for well-formed input of the wrong shape.
// Command strings are not split here; see CompileCommand.Args.
func ParseBytes(data []byte) (CompilationDatabase, error) {
	var top json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, newSyntaxError(data, err)
	}

	top = bytes.TrimSpace(top)
	if len(top) == 0 || top[0] != '[' {
		return nil, &SchemaError{Index: -1, Err: ErrNotArray}
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(top, &elements); err != nil {
		return nil, &SchemaError{Index: -1, Err: err}
	}

	db := make(CompilationDatabase, 0, len(elements))
	for i, raw := range elements {
		entry, err := decodeEntry(i, raw)
		if err != nil {
			return nil, err
		}
		db = append(db, entry)
	}

	return db, nil
}

func decodeEntry(index int, raw json.RawMessage) (*CompileCommand, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, &SchemaError{Index: index, Err: ErrInvalidEntry}
	}

	// encoding/json matches struct fields case-insensitively; keys are
	// matched exactly here so "Arguments" or "FILE" stay unknown.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &SchemaError{Index: index, Err: err}
	}

	entry := &CompileCommand{}
	targets := []struct {
		key    string
		target any
	}{
		{"directory", &entry.Directory},
		{"file", &entry.File},
		{"arguments", &entry.Arguments},
		{"command", &entry.Command},
		{"output", &entry.Output},
	}
	for _, t := range targets {
		value, ok := fields[t.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, t.target); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				return nil, &SchemaError{
					Index: index,
					Field: t.key,
					Err:   fmt.Errorf("%w: expected %s, got %s", ErrWrongType, typeErr.Type, typeErr.Value),
				}
			}
			return nil, &SchemaError{Index: index, Field: t.key, Err: err}
		}
	}

	if err := entry.validate(index); err != nil {
		return nil, err
	}

	return entry, nil
}

func newSyntaxError(data []byte, err error) *SyntaxError {
	offset := int64(len(data))
	var jsonErr *json.SyntaxError
	if errors.As(err, &jsonErr) {
		offset = jsonErr.Offset
	}
	line, col := lineColumn(data, offset)
	return &SyntaxError{Offset: offset, Line: line, Column: col, Err: err}
}
