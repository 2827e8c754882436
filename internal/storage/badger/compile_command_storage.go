package badger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/compdb/internal/common"
	"github.com/ternarybob/compdb/internal/compdb"
	"github.com/ternarybob/compdb/internal/interfaces"
	"github.com/ternarybob/compdb/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// entryBatchSize bounds the number of entries written per badger transaction
const entryBatchSize = 500

// CompileCommandStorage implements the CompileCommandStorage interface for Badger
type CompileCommandStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewCompileCommandStorage creates a new CompileCommandStorage instance
func NewCompileCommandStorage(db *BadgerDB, logger arbor.ILogger) interfaces.CompileCommandStorage {
	return &CompileCommandStorage{
		db:     db,
		logger: logger,
	}
}

// SaveDatabase stores an import and its entries. An earlier import of the same
// source path is removed only after the new one is fully written, so a failed
// save leaves the previous import intact. The database record is written after
// all entries, so a listed import never has missing entries.
func (s *CompileCommandStorage) SaveDatabase(ctx context.Context, record *models.DatabaseRecord, db compdb.CompilationDatabase) error {
	if record == nil {
		return fmt.Errorf("database record cannot be nil")
	}
	if record.SourcePath == "" {
		return fmt.Errorf("database record requires a source path")
	}

	previous, err := s.GetDatabaseBySource(ctx, record.SourcePath)
	if err != nil && !errors.Is(err, interfaces.ErrDatabaseNotFound) {
		return err
	}

	if record.ID == "" || (previous != nil && previous.ID == record.ID) {
		record.ID = common.NewDatabaseID()
	}
	if record.ImportedAt.IsZero() {
		record.ImportedAt = time.Now()
	}
	record.EntryCount = len(db)

	store := s.db.Store()
	cleanup := func() {
		// Best effort removal of the partial import
		_ = store.DeleteMatching(&models.EntryRecord{}, badgerhold.Where("DatabaseID").Eq(record.ID))
	}

	for start := 0; start < len(db); start += entryBatchSize {
		if err := ctx.Err(); err != nil {
			cleanup()
			return err
		}
		end := min(start+entryBatchSize, len(db))

		err := store.Badger().Update(func(tx *badger.Txn) error {
			for i := start; i < end; i++ {
				entry := newEntryRecord(record.ID, i, db[i])
				if err := store.TxUpsert(tx, entry.ID, entry); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			cleanup()
			return fmt.Errorf("failed to save entries: %w", err)
		}
	}

	if err := store.Upsert(record.ID, record); err != nil {
		cleanup()
		return fmt.Errorf("failed to save database record: %w", err)
	}

	if previous != nil {
		s.logger.Debug().Str("id", previous.ID).Str("source", previous.SourcePath).Msg("Replacing previous import")
		if err := s.DeleteDatabase(ctx, previous.ID); err != nil && !errors.Is(err, interfaces.ErrDatabaseNotFound) {
			return fmt.Errorf("failed to remove previous import: %w", err)
		}
	}

	s.logger.Debug().
		Str("id", record.ID).
		Str("source", record.SourcePath).
		Int("entries", record.EntryCount).
		Msg("Compilation database saved")

	return nil
}

// GetDatabase retrieves an import by id
func (s *CompileCommandStorage) GetDatabase(ctx context.Context, id string) (*models.DatabaseRecord, error) {
	var record models.DatabaseRecord
	err := s.db.Store().Get(id, &record)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrDatabaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get database: %w", err)
	}
	return &record, nil
}

// GetDatabaseBySource retrieves the import of a source file
func (s *CompileCommandStorage) GetDatabaseBySource(ctx context.Context, sourcePath string) (*models.DatabaseRecord, error) {
	var records []models.DatabaseRecord
	if err := s.db.Store().Find(&records, badgerhold.Where("SourcePath").Eq(sourcePath).Index("SourcePath")); err != nil {
		return nil, fmt.Errorf("failed to find database by source: %w", err)
	}
	if len(records) == 0 {
		return nil, interfaces.ErrDatabaseNotFound
	}
	return &records[0], nil
}

// ListDatabases returns all imports, most recent first
func (s *CompileCommandStorage) ListDatabases(ctx context.Context) ([]*models.DatabaseRecord, error) {
	var records []models.DatabaseRecord
	if err := s.db.Store().Find(&records, badgerhold.Where("ID").Ne("").SortBy("ImportedAt").Reverse()); err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}

	result := make([]*models.DatabaseRecord, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result, nil
}

// LoadDatabase rebuilds the compilation database of an import in its original order
func (s *CompileCommandStorage) LoadDatabase(ctx context.Context, id string) (compdb.CompilationDatabase, error) {
	if _, err := s.GetDatabase(ctx, id); err != nil {
		return nil, err
	}

	var entries []models.EntryRecord
	if err := s.db.Store().Find(&entries, badgerhold.Where("DatabaseID").Eq(id).Index("DatabaseID").SortBy("Index")); err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}

	db := make(compdb.CompilationDatabase, 0, len(entries))
	for i := range entries {
		db = append(db, toCompileCommand(&entries[i]))
	}
	return db, nil
}

// DeleteDatabase removes an import and its entries
func (s *CompileCommandStorage) DeleteDatabase(ctx context.Context, id string) error {
	store := s.db.Store()
	if err := store.DeleteMatching(&models.EntryRecord{}, badgerhold.Where("DatabaseID").Eq(id).Index("DatabaseID")); err != nil {
		return fmt.Errorf("failed to delete entries: %w", err)
	}

	err := store.Delete(id, &models.DatabaseRecord{})
	if err == badgerhold.ErrNotFound {
		return interfaces.ErrDatabaseNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}
	return nil
}

// FindEntries returns every stored entry compiling file, across all imports
func (s *CompileCommandStorage) FindEntries(ctx context.Context, file string) ([]*models.EntryRecord, error) {
	var entries []models.EntryRecord
	query := badgerhold.Where("AbsFile").Eq(filepath.Clean(file)).Index("AbsFile").SortBy("DatabaseID", "Index")
	if err := s.db.Store().Find(&entries, query); err != nil {
		return nil, fmt.Errorf("failed to find entries: %w", err)
	}

	result := make([]*models.EntryRecord, len(entries))
	for i := range entries {
		result[i] = &entries[i]
	}
	return result, nil
}

// ClearAll removes every import
func (s *CompileCommandStorage) ClearAll(ctx context.Context) error {
	if err := s.db.Store().DeleteMatching(&models.EntryRecord{}, nil); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}
	if err := s.db.Store().DeleteMatching(&models.DatabaseRecord{}, nil); err != nil {
		return fmt.Errorf("failed to clear databases: %w", err)
	}
	return nil
}

func newEntryRecord(databaseID string, index int, entry *compdb.CompileCommand) *models.EntryRecord {
	return &models.EntryRecord{
		ID:           fmt.Sprintf("%s:%d", databaseID, index),
		DatabaseID:   databaseID,
		Index:        index,
		Directory:    entry.Directory,
		File:         entry.File,
		AbsFile:      entry.AbsFile(),
		HasArguments: entry.Form() == compdb.FormArguments,
		Arguments:    entry.Arguments,
		Command:      entry.Command,
		Output:       entry.Output,
	}
}

func toCompileCommand(record *models.EntryRecord) *compdb.CompileCommand {
	var entry *compdb.CompileCommand
	if record.HasArguments {
		args := record.Arguments
		if args == nil {
			args = []string{}
		}
		entry = compdb.NewFromArguments(record.Directory, record.File, args)
		entry.Command = record.Command
	} else {
		entry = compdb.NewFromCommand(record.Directory, record.File, record.Command)
	}
	entry.Output = record.Output
	return entry
}
