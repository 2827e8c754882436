// -----------------------------------------------------------------------
// Compile Database Records - Persisted form of imported compilation databases
// -----------------------------------------------------------------------

package models

import "time"

// DatabaseKind identifies the file format an import was read from
type DatabaseKind string

const (
	// DatabaseKindJSON is a compile_commands.json file
	DatabaseKindJSON DatabaseKind = "json"
	// DatabaseKindFlags is a compile_flags.txt file converted with a file list
	DatabaseKindFlags DatabaseKind = "flags"
)

// DatabaseRecord describes one imported compilation database
type DatabaseRecord struct {
	// cdb_{uuid}
	ID string `json:"id" yaml:"id" badgerhold:"key"`
	// Absolute path of the imported file
	SourcePath string       `json:"source_path" yaml:"source_path" badgerhold:"index"`
	Kind       DatabaseKind `json:"kind" yaml:"kind"`
	// Base directory of a flags import
	Directory  string    `json:"directory,omitempty" yaml:"directory,omitempty"`
	EntryCount int       `json:"entry_count" yaml:"entry_count"`
	ImportedAt time.Time `json:"imported_at" yaml:"imported_at"`
}

// EntryRecord is one compile command of an imported database
type EntryRecord struct {
	// {database_id}:{index}
	ID         string `json:"id" yaml:"id" badgerhold:"key"`
	DatabaseID string `json:"database_id" yaml:"database_id" badgerhold:"index"`
	// Position in the source database
	Index     int    `json:"index" yaml:"index"`
	Directory string `json:"directory" yaml:"directory"`
	File      string `json:"file" yaml:"file"`
	// File resolved against Directory
	AbsFile string `json:"abs_file" yaml:"abs_file" badgerhold:"index"`

	// Gob drops empty slices, so presence of the arguments form is stored explicitly
	HasArguments bool     `json:"has_arguments" yaml:"has_arguments"`
	Arguments    []string `json:"arguments,omitempty" yaml:"arguments,omitempty"`
	Command      string   `json:"command,omitempty" yaml:"command,omitempty"`
	Output       string   `json:"output,omitempty" yaml:"output,omitempty"`
}

// NormalizedEntry is a compile command with its argv resolved, whatever form
// it was written in
type NormalizedEntry struct {
	Directory string   `json:"directory" yaml:"directory"`
	File      string   `json:"file" yaml:"file"`
	Arguments []string `json:"arguments" yaml:"arguments"`
	Output    string   `json:"output,omitempty" yaml:"output,omitempty"`
}
