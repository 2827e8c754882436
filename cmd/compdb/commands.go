package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/ternarybob/compdb/internal/common"
	"github.com/ternarybob/compdb/internal/compdb"
	"github.com/ternarybob/compdb/internal/services/compilation"
	"github.com/ternarybob/compdb/internal/shellwords"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, c *cli, args []string) error
}

var commands = []command{
	{"parse", "<path> print the database with normalized arguments", runParse},
	{"args", "<path> <file> print the arguments of the last entry for file", runArgs},
	{"convert", "<compile_flags.txt> [files...] print an equivalent compile_commands.json", runConvert},
	{"summary", "<path> <file> print the flags of a file grouped by purpose", runSummary},
	{"import", "<path> [files...] save a database to the import index", runImport},
	{"lookup", "<file> print indexed entries for a file", runLookup},
	{"list", "list imported databases", runList},
	{"show", "<id> print an imported database", runShow},
	{"remove", "<id> delete an imported database", runRemove},
	{"version", "print version information", runVersion},
}

// newFlagSet creates a subcommand flag set that reports errors instead of exiting
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseArgs parses subcommand flags and checks the positional argument count.
// maxArgs < 0 means unbounded.
func parseArgs(fs *flag.FlagSet, args []string, minArgs, maxArgs int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	rest := fs.Args()
	if len(rest) < minArgs || (maxArgs >= 0 && len(rest) > maxArgs) {
		return nil, fmt.Errorf("%w: %s: wrong number of arguments", errUsage, fs.Name())
	}
	return rest, nil
}

func runParse(ctx context.Context, c *cli, args []string) error {
	rest, err := parseArgs(newFlagSet("parse"), args, 1, 1)
	if err != nil {
		return err
	}

	loaded, err := c.fileService().Load(ctx, rest[0], nil)
	if err != nil {
		return err
	}

	normalized, err := loaded.Entries.Normalize()
	if err != nil {
		return err
	}
	return writeOutput(c.out, c.config.Output, normalized)
}

func runArgs(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet("args")
	shell := fs.Bool("shell", false, "Print a single shell-quoted command line")
	rest, err := parseArgs(fs, args, 2, 2)
	if err != nil {
		return err
	}

	entry, err := findEntry(ctx, c, rest[0], rest[1])
	if err != nil {
		return err
	}

	argv, err := entry.Args()
	if err != nil {
		return err
	}

	if *shell {
		_, err = fmt.Fprintln(c.out, shellwords.Join(argv))
		return err
	}
	for _, arg := range argv {
		if _, err := fmt.Fprintln(c.out, arg); err != nil {
			return err
		}
	}
	return nil
}

func runConvert(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet("convert")
	program := fs.String("program", "", "Program name for argv[0] (overrides config)")
	comment := fs.String("comment", "", "Skip lines starting with this prefix (overrides config)")
	rest, err := parseArgs(fs, args, 1, -1)
	if err != nil {
		return err
	}

	config := common.DeepCloneConfig(c.config)
	if *program != "" {
		config.Flags.ProgramName = *program
	}
	if *comment != "" {
		config.Flags.CommentPrefix = *comment
	}

	svc := compilation.NewService(nil, config, c.logger)
	db, err := svc.LoadCompileFlags(ctx, rest[0], rest[1:])
	if err != nil {
		return err
	}

	// compile_commands.json is always JSON
	return writeJSON(c.out, c.config.Output.Indent, db)
}

func runSummary(ctx context.Context, c *cli, args []string) error {
	rest, err := parseArgs(newFlagSet("summary"), args, 2, 2)
	if err != nil {
		return err
	}

	entry, err := findEntry(ctx, c, rest[0], rest[1])
	if err != nil {
		return err
	}

	summary, err := entry.Summary()
	if err != nil {
		return err
	}
	return writeOutput(c.out, c.config.Output, summary)
}

func runImport(ctx context.Context, c *cli, args []string) error {
	rest, err := parseArgs(newFlagSet("import"), args, 1, -1)
	if err != nil {
		return err
	}

	svc, err := c.indexService()
	if err != nil {
		return err
	}

	record, err := svc.Import(ctx, rest[0], rest[1:])
	if err != nil {
		return err
	}
	return writeOutput(c.out, c.config.Output, record)
}

func runLookup(ctx context.Context, c *cli, args []string) error {
	rest, err := parseArgs(newFlagSet("lookup"), args, 1, 1)
	if err != nil {
		return err
	}

	svc, err := c.indexService()
	if err != nil {
		return err
	}

	entries, err := svc.Lookup(ctx, rest[0])
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no indexed entry for %s", rest[0])
	}
	return writeOutput(c.out, c.config.Output, entries)
}

func runList(ctx context.Context, c *cli, args []string) error {
	if _, err := parseArgs(newFlagSet("list"), args, 0, 0); err != nil {
		return err
	}

	svc, err := c.indexService()
	if err != nil {
		return err
	}

	records, err := svc.List(ctx)
	if err != nil {
		return err
	}
	return writeOutput(c.out, c.config.Output, records)
}

func runShow(ctx context.Context, c *cli, args []string) error {
	rest, err := parseArgs(newFlagSet("show"), args, 1, 1)
	if err != nil {
		return err
	}

	svc, err := c.indexService()
	if err != nil {
		return err
	}

	db, err := svc.Get(ctx, rest[0])
	if err != nil {
		return err
	}
	normalized, err := db.Normalize()
	if err != nil {
		return err
	}
	return writeOutput(c.out, c.config.Output, normalized)
}

func runRemove(ctx context.Context, c *cli, args []string) error {
	rest, err := parseArgs(newFlagSet("remove"), args, 1, 1)
	if err != nil {
		return err
	}

	svc, err := c.indexService()
	if err != nil {
		return err
	}
	return svc.Remove(ctx, rest[0])
}

func runVersion(ctx context.Context, c *cli, args []string) error {
	_, err := fmt.Fprintln(c.out, common.GetFullVersion())
	return err
}

func findEntry(ctx context.Context, c *cli, path, file string) (*compdb.CompileCommand, error) {
	return c.fileService().FindEntry(ctx, path, file)
}
