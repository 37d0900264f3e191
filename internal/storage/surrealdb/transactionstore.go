package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

type TransactionStore struct {
	conn   *surrealdb.DB
	logger *common.Logger
}

func NewTransactionStore(db *surrealdb.DB, logger *common.Logger) *TransactionStore {
	return &TransactionStore{
		conn:   db,
		logger: logger,
	}
}

// AppendTransaction appends one record to the user's log. Records are
// immutable once written; the UPSERT keyed by record ID makes retries of
// the same append idempotent.
func (s *TransactionStore) AppendTransaction(ctx context.Context, record *models.TransactionRecord) error {
	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{
		"rid":    surrealmodels.NewRecordID("transactions", record.ID),
		"record": record,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.TransactionRecord](ctx, s.conn, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to append transaction %s after retries: %w", record.ID, lastErr)
}

// LoadTransactions returns the user's log, newest first.
func (s *TransactionStore) LoadTransactions(ctx context.Context, username string) ([]models.TransactionRecord, error) {
	sql := "SELECT * FROM transactions WHERE username = $username ORDER BY timestamp DESC"
	vars := map[string]any{"username": username}

	results, err := surrealdb.Query[[]models.TransactionRecord](ctx, s.conn, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for %s: %w", username, err)
	}

	if results != nil && len(*results) > 0 {
		return (*results)[0].Result, nil
	}
	return nil, nil
}
