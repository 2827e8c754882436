package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/compdb/internal/compdb"
	"github.com/ternarybob/compdb/internal/models"
)

// ErrDatabaseNotFound is returned when no import matches an id or source path
var ErrDatabaseNotFound = errors.New("compilation database not found")

// CompileCommandStorage - interface for the import index
type CompileCommandStorage interface {
	// Database operations
	SaveDatabase(ctx context.Context, record *models.DatabaseRecord, db compdb.CompilationDatabase) error
	GetDatabase(ctx context.Context, id string) (*models.DatabaseRecord, error)
	GetDatabaseBySource(ctx context.Context, sourcePath string) (*models.DatabaseRecord, error)
	ListDatabases(ctx context.Context) ([]*models.DatabaseRecord, error)
	LoadDatabase(ctx context.Context, id string) (compdb.CompilationDatabase, error)
	DeleteDatabase(ctx context.Context, id string) error

	// Entry operations
	FindEntries(ctx context.Context, file string) ([]*models.EntryRecord, error)

	// Bulk operations
	ClearAll(ctx context.Context) error
}

// StorageManager - composite interface for all storage operations
type StorageManager interface {
	CompileCommandStorage() CompileCommandStorage
	Close() error
}
