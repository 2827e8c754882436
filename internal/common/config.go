package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Logging     LoggingConfig   `toml:"logging"`
	Storage     StorageConfig   `toml:"storage"`
	Flags       FlagsConfig     `toml:"flags"`
	Discovery   DiscoveryConfig `toml:"discovery"`
	Output      OutputConfig    `toml:"output"`
}

type LoggingConfig struct {
	Level      string   `toml:"level" validate:"oneof=trace debug info warn error fatal"` // "debug", "info", "warn", "error"
	Output     []string `toml:"output" validate:"dive,oneof=stdout console file"`         // "stdout", "file"
	TimeFormat string   `toml:"time_format"`                                              // Time format for logs (default: "15:04:05")
}

type StorageConfig struct {
	Type   string       `toml:"type" validate:"omitempty,eq=badger"` // Only "badger" is supported
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration for the import index
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
	InMemory       bool   `toml:"in_memory"`        // Keep the index in memory only (nothing written to Path)
}

// FlagsConfig controls compile_flags.txt conversion
type FlagsConfig struct {
	ProgramName   string `toml:"program_name" validate:"required"` // argv[0] of synthesized entries (default: "cc")
	CommentPrefix string `toml:"comment_prefix"`                   // Skip lines starting with this prefix (default: none)
}

// DiscoveryConfig controls source enumeration when a flags file is loaded without a file list
type DiscoveryConfig struct {
	Extensions  []string `toml:"extensions" validate:"min=1"` // Source file extensions, with leading dot
	ExcludeDirs []string `toml:"exclude_dirs"`                // Directory names never descended into
	MaxFiles    int      `toml:"max_files" validate:"gte=0"`  // Stop after this many files (0 = unlimited)
}

// OutputConfig controls how the CLI prints databases
type OutputConfig struct {
	Format string `toml:"format" validate:"oneof=json yaml"` // "json" or "yaml"
	Indent int    `toml:"indent" validate:"gte=0"`           // Spaces per indent level
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Logging: LoggingConfig{
			Level:      "warn",             // CLI output goes to stdout, keep logs quiet
			Output:     []string{"stdout"}, // Console only by default
			TimeFormat: "15:04:05",
		},
		Storage: StorageConfig{
			Type: "badger",
			Badger: BadgerConfig{
				Path: "./data/compdb",
			},
		},
		Flags: FlagsConfig{
			ProgramName: "cc",
		},
		Discovery: DiscoveryConfig{
			Extensions: []string{".c", ".cc", ".cpp", ".cxx", ".c++", ".m", ".mm"},
			ExcludeDirs: []string{
				".git", ".svn", ".hg", ".cache", "node_modules", "vendor",
				"build", "out", "bin", "obj", ".vs", ".vscode", ".idea",
			},
			MaxFiles: 0,
		},
		Output: OutputConfig{
			Format: "json",
			Indent: 2,
		},
	}
}

// LoadFromFile loads configuration from a single file
func LoadFromFile(path string) (*Config, error) {
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority: defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier ones. Empty paths are skipped.
func LoadFromFiles(paths ...string) (*Config, error) {
	// Start with defaults
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal into config (merges with existing values, later values override)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// Apply environment variables (overrides all file configs)
	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("COMPDB_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Logging configuration
	if level := os.Getenv("COMPDB_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("COMPDB_LOG_OUTPUT"); output != "" {
		if outputs := splitList(output); len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Storage configuration
	if badgerPath := os.Getenv("COMPDB_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if inMemory := os.Getenv("COMPDB_BADGER_IN_MEMORY"); inMemory != "" {
		if im, err := strconv.ParseBool(inMemory); err == nil {
			config.Storage.Badger.InMemory = im
		}
	}

	// Flags file conversion
	if programName := os.Getenv("COMPDB_FLAGS_PROGRAM_NAME"); programName != "" {
		config.Flags.ProgramName = programName
	}
	if commentPrefix, ok := os.LookupEnv("COMPDB_FLAGS_COMMENT_PREFIX"); ok {
		config.Flags.CommentPrefix = commentPrefix
	}

	// Source discovery
	if extensions := os.Getenv("COMPDB_DISCOVERY_EXTENSIONS"); extensions != "" {
		if exts := splitList(extensions); len(exts) > 0 {
			config.Discovery.Extensions = exts
		}
	}
	if maxFiles := os.Getenv("COMPDB_DISCOVERY_MAX_FILES"); maxFiles != "" {
		if mf, err := strconv.Atoi(maxFiles); err == nil {
			config.Discovery.MaxFiles = mf
		}
	}

	// Output
	if format := os.Getenv("COMPDB_OUTPUT_FORMAT"); format != "" {
		config.Output.Format = format
	}
	if indent := os.Getenv("COMPDB_OUTPUT_INDENT"); indent != "" {
		if i, err := strconv.Atoi(indent); err == nil {
			config.Output.Indent = i
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, format string, storagePath string, logLevel string) {
	// Command-line flags have highest priority
	if format != "" {
		config.Output.Format = format
	}
	if storagePath != "" {
		config.Storage.Badger.Path = storagePath
	}
	if logLevel != "" {
		config.Logging.Level = logLevel
	}
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return env == "production" || env == "prod"
}

// DeepCloneConfig creates a deep copy of the Config struct
func DeepCloneConfig(c *Config) *Config {
	if c == nil {
		return nil
	}

	// Clone the config struct (shallow copy first)
	clone := *c

	// Deep clone slice fields to prevent shared memory
	if len(c.Logging.Output) > 0 {
		clone.Logging.Output = make([]string, len(c.Logging.Output))
		copy(clone.Logging.Output, c.Logging.Output)
	}

	if len(c.Discovery.Extensions) > 0 {
		clone.Discovery.Extensions = make([]string, len(c.Discovery.Extensions))
		copy(clone.Discovery.Extensions, c.Discovery.Extensions)
	}

	if len(c.Discovery.ExcludeDirs) > 0 {
		clone.Discovery.ExcludeDirs = make([]string, len(c.Discovery.ExcludeDirs))
		copy(clone.Discovery.ExcludeDirs, c.Discovery.ExcludeDirs)
	}

	return &clone
}

// splitList splits a comma-separated environment value, dropping empty items
func splitList(s string) []string {
	items := []string{}
	for _, item := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
