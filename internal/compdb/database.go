package compdb

import (
	"fmt"
	"path/filepath"

	"github.com/ternarybob/compdb/internal/models"
)

// CompilationDatabase is an ordered list of compile commands, in source order.
// The same file may appear more than once (one entry per build configuration).
type CompilationDatabase []*CompileCommand

// Len returns the number of entries.
func (db CompilationDatabase) Len() int {
	return len(db)
}

// Files returns the file of every entry in order, duplicates included.
func (db CompilationDatabase) Files() []string {
	files := make([]string, len(db))
	for i, entry := range db {
		files[i] = entry.File
	}
	return files
}

// Lookup returns the last entry for file, matching either the raw file value
// or the entry's resolved path. Last match wins, the convention used by
// clang tooling when a file is listed more than once.
func (db CompilationDatabase) Lookup(file string) (*CompileCommand, bool) {
	for i := len(db) - 1; i >= 0; i-- {
		if db[i].matches(file) {
			return db[i], true
		}
	}
	return nil, false
}

// LookupAll returns every entry for file in order.
func (db CompilationDatabase) LookupAll(file string) []*CompileCommand {
	var matches []*CompileCommand
	for _, entry := range db {
		if entry.matches(file) {
			matches = append(matches, entry)
		}
	}
	return matches
}

// Validate validates every entry and returns the first failure.
func (db CompilationDatabase) Validate() error {
	for i, entry := range db {
		if entry == nil {
			return &SchemaError{Index: i, Err: ErrInvalidEntry}
		}
		if err := entry.validate(i); err != nil {
			return err
		}
	}
	return nil
}

// Normalize resolves every entry to its argv form. The first entry whose
// command cannot be tokenized aborts the conversion.
func (db CompilationDatabase) Normalize() ([]*models.NormalizedEntry, error) {
	normalized := make([]*models.NormalizedEntry, 0, len(db))
	for i, entry := range db {
		args, err := entry.Args()
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, entry.File, err)
		}
		normalized = append(normalized, &models.NormalizedEntry{
			Directory: entry.Directory,
			File:      entry.File,
			Arguments: args,
			Output:    entry.Output,
		})
	}
	return normalized, nil
}

func (c *CompileCommand) matches(file string) bool {
	return c.File == file || c.AbsFile() == filepath.Clean(file)
}
