package compdb

import (
	"strings"

	"github.com/ternarybob/compdb/internal/models"
)

// Flags whose value is the following argument and which are not summarized
// on their own. Keeping them paired stops the value from being taken as an input.
var separateValueFlags = map[string]bool{
	"-include":  true,
	"-imacros":  true,
	"-isysroot": true,
	"--sysroot": true,
	"-target":   true,
	"-arch":     true,
	"-MF":       true,
	"-MT":       true,
	"-MQ":       true,
	"-Xclang":   true,
	"-Xlinker":  true,
	"-mllvm":    true,
	"-iprefix":  true,
}

// Summarize groups normalized arguments by purpose. args[0] is the compiler.
func Summarize(args []string) *models.CompileFlags {
	summary := &models.CompileFlags{}
	if len(args) == 0 {
		return summary
	}
	summary.Compiler = args[0]

	for i := 1; i < len(args); i++ {
		arg := args[i]

		// value returns the argument after the current one, consuming it.
		value := func() (string, bool) {
			if i+1 >= len(args) {
				return "", false
			}
			i++
			return args[i], true
		}

		switch {
		case arg == "-c":
			summary.CompileOnly = true
		case arg == "-o":
			if v, ok := value(); ok {
				summary.Output = v
			}
		case arg == "-I":
			if v, ok := value(); ok {
				summary.IncludeDirs = append(summary.IncludeDirs, v)
			}
		case arg == "-isystem", arg == "-idirafter":
			if v, ok := value(); ok {
				summary.SystemIncludeDirs = append(summary.SystemIncludeDirs, v)
			}
		case arg == "-iquote":
			if v, ok := value(); ok {
				summary.QuoteIncludeDirs = append(summary.QuoteIncludeDirs, v)
			}
		case arg == "-D":
			if v, ok := value(); ok {
				summary.Defines = append(summary.Defines, v)
			}
		case arg == "-U":
			if v, ok := value(); ok {
				summary.Undefines = append(summary.Undefines, v)
			}
		case arg == "-x":
			if v, ok := value(); ok {
				summary.Language = v
			}
		case strings.HasPrefix(arg, "-isystem"):
			summary.SystemIncludeDirs = append(summary.SystemIncludeDirs, strings.TrimPrefix(arg, "-isystem"))
		case strings.HasPrefix(arg, "-idirafter"):
			summary.SystemIncludeDirs = append(summary.SystemIncludeDirs, strings.TrimPrefix(arg, "-idirafter"))
		case strings.HasPrefix(arg, "-iquote"):
			summary.QuoteIncludeDirs = append(summary.QuoteIncludeDirs, strings.TrimPrefix(arg, "-iquote"))
		case strings.HasPrefix(arg, "-I"):
			summary.IncludeDirs = append(summary.IncludeDirs, strings.TrimPrefix(arg, "-I"))
		case strings.HasPrefix(arg, "-D"):
			summary.Defines = append(summary.Defines, strings.TrimPrefix(arg, "-D"))
		case strings.HasPrefix(arg, "-U"):
			summary.Undefines = append(summary.Undefines, strings.TrimPrefix(arg, "-U"))
		case strings.HasPrefix(arg, "-std="):
			summary.Standard = strings.TrimPrefix(arg, "-std=")
		case strings.HasPrefix(arg, "-x"):
			summary.Language = strings.TrimPrefix(arg, "-x")
		case strings.HasPrefix(arg, "-W") && !isPassThroughWarning(arg):
			summary.Warnings = append(summary.Warnings, arg)
		case separateValueFlags[arg]:
			summary.Other = append(summary.Other, arg)
			if v, ok := value(); ok {
				summary.Other = append(summary.Other, v)
			}
		case !strings.HasPrefix(arg, "-") || arg == "-":
			summary.Inputs = append(summary.Inputs, arg)
		default:
			summary.Other = append(summary.Other, arg)
		}
	}

	return summary
}

// isPassThroughWarning reports -W options that forward flags to another tool.
func isPassThroughWarning(arg string) bool {
	return strings.HasPrefix(arg, "-Wl,") || strings.HasPrefix(arg, "-Wa,") || strings.HasPrefix(arg, "-Wp,")
}

// Summary returns the flag summary of the entry's normalized arguments.
func (c *CompileCommand) Summary() (*models.CompileFlags, error) {
	args, err := c.Args()
	if err != nil {
		return nil, err
	}
	return Summarize(args), nil
}
