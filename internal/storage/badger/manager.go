package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/compdb/internal/common"
	"github.com/ternarybob/compdb/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db             *BadgerDB
	compileCommand interfaces.CompileCommandStorage
	logger         arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:             db,
		compileCommand: NewCompileCommandStorage(db, logger),
		logger:         logger,
	}

	logger.Debug().Msg("Badger storage manager initialized")

	return manager, nil
}

// CompileCommandStorage returns the import index storage interface
func (m *Manager) CompileCommandStorage() interfaces.CompileCommandStorage {
	return m.compileCommand
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		m.logger.Debug().Msg("Closing Badger storage")
		return m.db.Close()
	}
	return nil
}
