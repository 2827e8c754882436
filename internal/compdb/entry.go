// Package compdb models JSON compilation databases (compile_commands.json)
// and compile_flags.txt files.
//
// Both formats are converted into a CompilationDatabase: an ordered list of
// CompileCommand entries, each exposing its normalized argv through Args
// regardless of whether it was written as an "arguments" array or as a
// shell-escaped "command" string.
//
// See https://clang.llvm.org/docs/JSONCompilationDatabase.html
package compdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/ternarybob/compdb/internal/shellwords"
)

// CommandForm identifies which representation of the command line is authoritative.
type CommandForm int

const (
	FormNone      CommandForm = iota // Neither arguments nor command (malformed)
	FormArguments                    // The "arguments" array
	FormCommand                      // The shell-escaped "command" string
)

func (f CommandForm) String() string {
	switch f {
	case FormArguments:
		return "arguments"
	case FormCommand:
		return "command"
	default:
		return "none"
	}
}

// CompileCommand is a single entry of a compilation database.
//
// Arguments is present when non-nil and takes precedence over Command when
// both are set. Entries are shared by pointer and must not be modified after
// construction.
type CompileCommand struct {
	// Working directory of the compilation. Paths in File, Arguments and
	// Command are absolute or relative to it.
	Directory string `json:"directory" validate:"required"`
	// Main translation unit processed by this step.
	File string `json:"file" validate:"required"`
	// Compile command argv, Arguments[0] being the executable. Not escaped.
	Arguments []string `json:"arguments,omitzero" validate:"required_without=Command"`
	// Compile command as a single shell-escaped string.
	Command string `json:"command,omitempty" validate:"required_without=Arguments"`
	// Output created by this step. Informational only.
	Output string `json:"output,omitempty"`

	once    sync.Once
	args    []string
	argsErr error
}

// NewFromArguments creates an entry whose authoritative form is an argv slice.
// The slice is copied.
func NewFromArguments(directory, file string, args []string) *CompileCommand {
	return &CompileCommand{
		Directory: directory,
		File:      file,
		Arguments: slices.Clone(args),
	}
}

// NewFromCommand creates an entry whose authoritative form is a shell-escaped command line.
func NewFromCommand(directory, file, command string) *CompileCommand {
	return &CompileCommand{
		Directory: directory,
		File:      file,
		Command:   command,
	}
}

// Form reports which representation Args reads from.
func (c *CompileCommand) Form() CommandForm {
	switch {
	case c.Arguments != nil:
		return FormArguments
	case c.Command != "":
		return FormCommand
	default:
		return FormNone
	}
}

// Args returns the normalized argv of the entry.
//
// Arguments is returned as-is when present. Otherwise Command is split with
// shell quoting rules on first call and the result is cached; an unbalanced
// quote yields a *shellwords.TokenizationError on every call. The returned
// slice is a copy owned by the caller.
func (c *CompileCommand) Args() ([]string, error) {
	if c.Arguments != nil {
		return slices.Clone(c.Arguments), nil
	}

	c.once.Do(func() {
		if c.Command == "" {
			c.argsErr = &SchemaError{Index: -1, Field: "command", Err: ErrMissingCommand}
			return
		}
		c.args, c.argsErr = shellwords.Split(c.Command)
	})
	if c.argsErr != nil {
		return nil, c.argsErr
	}

	return slices.Clone(c.args), nil
}

// AbsFile returns File resolved against Directory. It is purely lexical.
func (c *CompileCommand) AbsFile() string {
	if filepath.IsAbs(c.File) || c.Directory == "" {
		return filepath.Clean(c.File)
	}
	return filepath.Join(c.Directory, c.File)
}

// Validate checks that the entry has a directory, a file and a command line.
func (c *CompileCommand) Validate() error {
	return c.validate(-1)
}

func (c *CompileCommand) validate(index int) error {
	err := entryValidator.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &SchemaError{Index: index, Err: err}
	}

	// Struct field order puts directory and file first, so the first failure
	// is the most fundamental one.
	fe := fieldErrs[0]
	if fe.Tag() == "required_without" {
		return &SchemaError{Index: index, Field: "command", Err: ErrMissingCommand}
	}
	return &SchemaError{Index: index, Field: fe.Field(), Err: ErrMissingField}
}

// String renders the entry as single-line JSON.
func (c *CompileCommand) String() string {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Sprintf("%s: %s", c.Directory, c.File)
	}
	return string(data)
}

var entryValidator = newValidator()

// newValidator reports JSON field names in validation errors.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
