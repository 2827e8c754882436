package compdb

import (
	"strings"
)

// DefaultProgramName is the argv[0] placeholder of entries synthesized from a
// compile_flags.txt file, which never names a compiler.
const DefaultProgramName = "cc"

// FlagsOptions controls compile_flags.txt conversion.
type FlagsOptions struct {
	// ProgramName is argv[0] of every synthesized entry. Empty means DefaultProgramName.
	ProgramName string
	// CommentPrefix, when set, skips trimmed lines starting with it. The
	// upstream format has no comment syntax, so it is empty by default.
	CommentPrefix string
}

// DefaultFlagsOptions returns the options used by FromCompileFlags.
func DefaultFlagsOptions() FlagsOptions {
	return FlagsOptions{ProgramName: DefaultProgramName}
}

// ParseCompileFlags returns the flags of a compile_flags.txt file: one flag
// per line, surrounding whitespace trimmed, blank lines skipped. Lines are
// never split further, so a flag and its value must be on separate lines.
func ParseCompileFlags(text string) []string {
	return parseCompileFlags(text, "")
}

// FromCompileFlags converts a compile_flags.txt file into a compilation
// database with one entry per file, all in directory and sharing the same
// flags. Each entry's arguments are the program name, the flags, then the
// file. No filesystem access takes place and an empty file list yields an
// empty database.
func FromCompileFlags(directory, text string, files []string) CompilationDatabase {
	return ConvertCompileFlags(directory, text, files, DefaultFlagsOptions())
}

// ConvertCompileFlags is FromCompileFlags with explicit options.
func ConvertCompileFlags(directory, text string, files []string, opts FlagsOptions) CompilationDatabase {
	program := opts.ProgramName
	if program == "" {
		program = DefaultProgramName
	}
	flags := parseCompileFlags(text, opts.CommentPrefix)

	db := make(CompilationDatabase, 0, len(files))
	for _, file := range files {
		args := make([]string, 0, len(flags)+2)
		args = append(args, program)
		args = append(args, flags...)
		args = append(args, file)

		db = append(db, &CompileCommand{
			Directory: directory,
			File:      file,
			Arguments: args,
		})
	}

	return db
}

func parseCompileFlags(text, commentPrefix string) []string {
	var flags []string
	for _, line := range strings.Split(text, "\n") {
		flag := strings.TrimSpace(line)
		if flag == "" {
			continue
		}
		if commentPrefix != "" && strings.HasPrefix(flag, commentPrefix) {
			continue
		}
		flags = append(flags, flag)
	}
	return flags
}
