// -----------------------------------------------------------------------
// Compile Flags - Structured view of a C/C++ compiler invocation
// -----------------------------------------------------------------------

package models

// CompileFlags groups the arguments of one compiler invocation by purpose.
type CompileFlags struct {
	// argv[0]
	Compiler string `json:"compiler" yaml:"compiler"`
	// -x and -std=
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	Standard string `json:"standard,omitempty" yaml:"standard,omitempty"`

	// Include search paths
	IncludeDirs       []string `json:"include_dirs,omitempty" yaml:"include_dirs,omitempty"`               // -I
	SystemIncludeDirs []string `json:"system_include_dirs,omitempty" yaml:"system_include_dirs,omitempty"` // -isystem, -idirafter
	QuoteIncludeDirs  []string `json:"quote_include_dirs,omitempty" yaml:"quote_include_dirs,omitempty"`   // -iquote

	// Preprocessor
	Defines   []string `json:"defines,omitempty" yaml:"defines,omitempty"`     // -D
	Undefines []string `json:"undefines,omitempty" yaml:"undefines,omitempty"` // -U

	Warnings    []string `json:"warnings,omitempty" yaml:"warnings,omitempty"` // -W (excluding -Wl, -Wa, -Wp)
	Output      string   `json:"output,omitempty" yaml:"output,omitempty"`     // -o
	CompileOnly bool     `json:"compile_only" yaml:"compile_only"`             // -c

	// Positional arguments, normally the translation unit
	Inputs []string `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	// Everything else, in order, with values kept next to their flag
	Other []string `json:"other,omitempty" yaml:"other,omitempty"`
}
