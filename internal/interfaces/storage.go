package interfaces

import (
	"context"

	"github.com/bobmcallan/folio/internal/models"
)

// StorageManager coordinates the storage backends.
type StorageManager interface {
	HoldingStore() HoldingStore
	TransactionStore() TransactionStore

	// Lifecycle
	Close() error
}

// HoldingStore persists holding sets keyed by username.
// Save must be atomic from the caller's point of view: it either fully
// succeeds or returns an error, never a partially-written set.
type HoldingStore interface {
	// LoadHoldings returns the user's holding set, empty for unknown users.
	LoadHoldings(ctx context.Context, username string) (*models.HoldingSet, error)

	// SaveHoldings replaces the user's holding set.
	SaveHoldings(ctx context.Context, username string, set *models.HoldingSet) error
}

// TransactionStore persists the append-only transaction log per user.
type TransactionStore interface {
	// AppendTransaction appends one record to the user's log.
	AppendTransaction(ctx context.Context, record *models.TransactionRecord) error

	// LoadTransactions returns the user's log, newest first.
	LoadTransactions(ctx context.Context, username string) ([]models.TransactionRecord, error)
}
