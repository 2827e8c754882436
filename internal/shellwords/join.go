package shellwords

import "strings"

// Join quotes args into a single command line that Split turns back into args.
func Join(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = Quote(arg)
	}
	return strings.Join(quoted, " ")
}

// Quote returns arg unchanged when it contains only safe characters,
// otherwise wrapped in single quotes.
func Quote(arg string) string {
	if arg == "" {
		return "''"
	}
	if strings.IndexFunc(arg, isUnsafe) < 0 {
		return arg
	}
	// A single quote cannot appear inside a single-quoted span: close,
	// emit an escaped quote, reopen.
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

func isUnsafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("-_./=:+,@%^", r)
}
