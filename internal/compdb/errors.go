package compdb

import (
	"errors"
	"fmt"
)

// Schema violations wrapped by SchemaError.
var (
	ErrNotArray       = errors.New("top-level value must be an array")
	ErrInvalidEntry   = errors.New("entry must be an object")
	ErrMissingField   = errors.New("required field is missing")
	ErrWrongType      = errors.New("field has the wrong type")
	ErrMissingCommand = errors.New("entry has neither arguments nor command")
)

// SyntaxError reports input that is not well-formed JSON.
type SyntaxError struct {
	Offset int64 // Byte offset where the error was detected
	Line   int   // 1-based line of Offset
	Column int   // 1-based column (in bytes) of Offset
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid JSON at line %d, column %d: %v", e.Line, e.Column, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// SchemaError reports well-formed JSON that does not describe a compilation
// database. Index is -1 when the error concerns the top-level value or a
// standalone entry.
type SchemaError struct {
	Index int
	Field string
	Err   error
}

func (e *SchemaError) Error() string {
	switch {
	case e.Index < 0 && e.Field == "":
		return fmt.Sprintf("invalid compilation database: %v", e.Err)
	case e.Index < 0:
		return fmt.Sprintf("invalid entry: field %q: %v", e.Field, e.Err)
	case e.Field == "":
		return fmt.Sprintf("invalid entry %d: %v", e.Index, e.Err)
	default:
		return fmt.Sprintf("invalid entry %d: field %q: %v", e.Index, e.Field, e.Err)
	}
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// lineColumn converts a byte offset into a 1-based line and column.
func lineColumn(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col := 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
