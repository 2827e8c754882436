package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/compdb/internal/common"
	"github.com/ternarybob/compdb/internal/interfaces"
	"github.com/ternarybob/compdb/internal/services/compilation"
	"github.com/ternarybob/compdb/internal/storage"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	// Command-line flags
	configFiles  configPaths // Multiple -config flags supported
	outputFormat = flag.String("format", "", "Output format: json or yaml (overrides config)")
	storagePath  = flag.String("storage", "", "Import index directory (overrides config)")
	logLevel     = flag.String("log-level", "", "Log level (overrides config)")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func init() {
	// Register custom flag for multiple config files
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
	flag.Usage = usage
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: compdb [flags] <command> [arguments]\n\n")
	fmt.Fprintf(out, "Commands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(out, "  %-10s %s\n", cmd.name, cmd.summary)
	}
	fmt.Fprintf(out, "\nFlags:\n")
	flag.PrintDefaults()
}

// errUsage marks errors caused by bad command-line input
var errUsage = errors.New("usage")

// cli holds the state shared by every command
type cli struct {
	config  *common.Config
	logger  arbor.ILogger
	out     io.Writer
	storage interfaces.StorageManager
}

// fileService returns a compilation service for file operations only
func (c *cli) fileService() *compilation.Service {
	return compilation.NewService(nil, c.config, c.logger)
}

// indexService returns a compilation service backed by the import index,
// opening the index on first use
func (c *cli) indexService() (*compilation.Service, error) {
	if c.storage == nil {
		manager, err := storage.NewStorageManager(c.logger, c.config)
		if err != nil {
			return nil, fmt.Errorf("failed to open import index: %w", err)
		}
		c.storage = manager
	}
	return compilation.NewService(c.storage.CompileCommandStorage(), c.config, c.logger), nil
}

func (c *cli) close() {
	if c.storage != nil {
		if err := c.storage.Close(); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to close import index")
		}
	}
}

func main() {
	// Crash reports go next to the file logs; the directory is only created
	// when file logging is enabled
	if logsDir, err := common.LogsDir(); err == nil {
		common.CrashLogDir = logsDir
	}
	defer common.RecoverWithCrashFile()

	// Parse command-line flags
	flag.Parse()

	// Handle version flag
	if *showVersion || *showVersionV {
		common.PrintBanner(common.GetVersion())
		fmt.Println(common.GetFullVersion())
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	// Startup sequence:
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Apply CLI overrides (highest priority)
	// 3. Initialize logger

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("compdb.toml"); err == nil {
			configFiles = append(configFiles, "compdb.toml")
		}
	}

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		// Use temporary logger for startup errors
		common.GetLogger().Error().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration files")
		os.Exit(1)
	}

	common.ApplyFlagOverrides(config, *outputFormat, *storagePath, *logLevel)
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "compdb: %v\n", err)
		os.Exit(2)
	}

	logger := common.InitLogger(config)
	logger.Debug().
		Strs("config_files", configFiles).
		Str("format", config.Output.Format).
		Str("storage_path", config.Storage.Badger.Path).
		Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli{config: config, logger: logger, out: os.Stdout}
	err = app.run(ctx, flag.Args())
	app.close()

	if err != nil {
		fmt.Fprintf(os.Stderr, "compdb: %v\n", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// run dispatches to the named command
func (c *cli) run(ctx context.Context, args []string) error {
	name := args[0]
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd.run(ctx, c, args[1:])
		}
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, name)
}
