package compilation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/compdb/internal/common"
	"github.com/ternarybob/compdb/internal/compdb"
	"github.com/ternarybob/compdb/internal/interfaces"
	"github.com/ternarybob/compdb/internal/models"
)

const (
	// CompileCommandsFileName is the conventional JSON compilation database name
	CompileCommandsFileName = "compile_commands.json"
	// CompileFlagsFileName is the conventional flags file name
	CompileFlagsFileName = "compile_flags.txt"
)

var (
	// ErrNoDatabase is returned when a directory holds neither database file
	ErrNoDatabase = errors.New("no compilation database found")
	// ErrEntryNotFound is returned when a database has no entry for a file
	ErrEntryNotFound = errors.New("no entry for file")
	// ErrStorageUnavailable is returned by index operations on a service created without storage
	ErrStorageUnavailable = errors.New("import index not configured")
)

// Database is a loaded compilation database together with where it came from
type Database struct {
	SourcePath string
	Kind       models.DatabaseKind
	Directory  string // Base directory of a flags file
	Entries    compdb.CompilationDatabase
}

// Service loads compilation databases from disk and maintains the import index
type Service struct {
	storage interfaces.CompileCommandStorage
	config  *common.Config
	logger  arbor.ILogger
}

// NewService creates a new compilation database service. storage may be nil
// when only file operations are needed.
func NewService(storage interfaces.CompileCommandStorage, config *common.Config, logger arbor.ILogger) *Service {
	if config == nil {
		config = common.NewDefaultConfig()
	}
	return &Service{
		storage: storage,
		config:  config,
		logger:  logger,
	}
}

// LoadCompileCommands reads and parses a compile_commands.json file
func (s *Service) LoadCompileCommands(ctx context.Context, path string) (compdb.CompilationDatabase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read compilation database %s: %w", path, err)
	}

	db, err := compdb.ParseBytes(data)
	if err != nil {
		s.logger.Debug().Err(err).Str("path", path).Msg("Compilation database rejected")
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	s.logger.Debug().Str("path", path).Int("entries", db.Len()).Msg("Loaded compilation database")
	return db, nil
}

// LoadCompileFlags reads a compile_flags.txt file and applies it to files.
// The flags file's directory is the base directory of every entry. When files
// is empty, sources are discovered under that directory.
func (s *Service) LoadCompileFlags(ctx context.Context, path string, files []string) (compdb.CompilationDatabase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flags file %s: %w", path, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	directory := filepath.Dir(absPath)

	if len(files) == 0 {
		files, err = s.DiscoverSources(ctx, directory)
		if err != nil {
			return nil, err
		}
	}

	db := compdb.ConvertCompileFlags(directory, string(data), files, compdb.FlagsOptions{
		ProgramName:   s.config.Flags.ProgramName,
		CommentPrefix: s.config.Flags.CommentPrefix,
	})

	s.logger.Debug().Str("path", path).Int("entries", db.Len()).Msg("Converted flags file")
	return db, nil
}

// Load loads the database at path. A directory is searched for
// compile_commands.json first and compile_flags.txt second; a file named
// compile_flags.txt is read as a flags file and anything else as JSON.
func (s *Service) Load(ctx context.Context, path string, files []string) (*Database, error) {
	source, err := s.Resolve(path)
	if err != nil {
		return nil, err
	}

	if filepath.Base(source) == CompileFlagsFileName {
		entries, err := s.LoadCompileFlags(ctx, source, files)
		if err != nil {
			return nil, err
		}
		return &Database{
			SourcePath: source,
			Kind:       models.DatabaseKindFlags,
			Directory:  filepath.Dir(source),
			Entries:    entries,
		}, nil
	}

	entries, err := s.LoadCompileCommands(ctx, source)
	if err != nil {
		return nil, err
	}
	return &Database{
		SourcePath: source,
		Kind:       models.DatabaseKindJSON,
		Entries:    entries,
	}, nil
}

// FindEntry loads the database at path and returns the last entry for file.
// A flags file synthesizes the entry for file. A relative file that matches
// nothing is retried against the working directory.
func (s *Service) FindEntry(ctx context.Context, path, file string) (*compdb.CompileCommand, error) {
	loaded, err := s.Load(ctx, path, []string{file})
	if err != nil {
		return nil, err
	}

	if entry, ok := loaded.Entries.Lookup(file); ok {
		return entry, nil
	}
	if !filepath.IsAbs(file) {
		if absFile, err := filepath.Abs(file); err == nil {
			if entry, ok := loaded.Entries.Lookup(absFile); ok {
				return entry, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrEntryNotFound, file, loaded.SourcePath)
}

// Resolve returns the absolute path of the database file Load would read
func (s *Service) Resolve(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", absPath, err)
	}
	if !info.IsDir() {
		return absPath, nil
	}

	for _, name := range []string{CompileCommandsFileName, CompileFlagsFileName} {
		candidate := filepath.Join(absPath, name)
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w in %s", ErrNoDatabase, absPath)
}

// Import loads the database at path and saves it to the import index,
// replacing any earlier import of the same file
func (s *Service) Import(ctx context.Context, path string, files []string) (*models.DatabaseRecord, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	loaded, err := s.Load(ctx, path, files)
	if err != nil {
		return nil, err
	}

	record := &models.DatabaseRecord{
		SourcePath: loaded.SourcePath,
		Kind:       loaded.Kind,
		Directory:  loaded.Directory,
	}
	if err := s.storage.SaveDatabase(ctx, record, loaded.Entries); err != nil {
		s.logger.Error().Err(err).Str("source", loaded.SourcePath).Msg("Failed to save import")
		return nil, fmt.Errorf("failed to import %s: %w", loaded.SourcePath, err)
	}

	s.logger.Info().
		Str("id", record.ID).
		Str("source", record.SourcePath).
		Str("kind", string(record.Kind)).
		Int("entries", record.EntryCount).
		Msg("Imported compilation database")

	return record, nil
}

// Lookup returns the indexed entries compiling file, resolved against the
// working directory when relative
func (s *Service) Lookup(ctx context.Context, file string) ([]*models.EntryRecord, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	absFile, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", file, err)
	}

	entries, err := s.storage.FindEntries(ctx, absFile)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Str("file", absFile).Int("matches", len(entries)).Msg("Looked up file")
	return entries, nil
}

// List returns every import, most recent first
func (s *Service) List(ctx context.Context) ([]*models.DatabaseRecord, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	return s.storage.ListDatabases(ctx)
}

// Get rebuilds the compilation database of an import
func (s *Service) Get(ctx context.Context, id string) (compdb.CompilationDatabase, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	return s.storage.LoadDatabase(ctx, id)
}

// Remove deletes an import
func (s *Service) Remove(ctx context.Context, id string) error {
	if s.storage == nil {
		return ErrStorageUnavailable
	}
	if err := s.storage.DeleteDatabase(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("id", id).Msg("Removed import")
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
