package common

import (
	"github.com/google/uuid"
)

// NewDatabaseID generates a unique import ID with the "cdb_" prefix
// Format: cdb_<uuid>
func NewDatabaseID() string {
	return "cdb_" + uuid.New().String()
}
