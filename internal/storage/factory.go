// Package storage selects and constructs the persistence backend.
package storage

import (
	"fmt"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/storage/filedb"
	"github.com/bobmcallan/folio/internal/storage/surrealdb"
)

// Backend type constants.
const (
	BackendFile    = "file"
	BackendSurreal = "surrealdb"
)

// NewStorageManager creates a storage manager based on the configuration.
// Supported backends: "file" (default), "surrealdb".
func NewStorageManager(logger *common.Logger, config *common.Config) (interfaces.StorageManager, error) {
	backend := config.Storage.Type
	if backend == "" {
		backend = BackendFile
	}

	switch backend {
	case BackendFile:
		return filedb.NewManager(logger, config.Storage.Path)

	case BackendSurreal:
		return surrealdb.NewManager(logger, config)

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: file, surrealdb)", backend)
	}
}
