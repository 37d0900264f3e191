package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

// holdingSetRecord is the stored form of a user's holding set: one record
// per user so SaveHoldings replaces the set atomically.
type holdingSetRecord struct {
	Username  string           `json:"username"`
	Holdings  []models.Holding `json:"holdings"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type HoldingStore struct {
	conn   *surrealdb.DB
	logger *common.Logger
}

func NewHoldingStore(db *surrealdb.DB, logger *common.Logger) *HoldingStore {
	return &HoldingStore{
		conn:   db,
		logger: logger,
	}
}

// LoadHoldings returns the user's holding set, empty for unknown users.
func (s *HoldingStore) LoadHoldings(ctx context.Context, username string) (*models.HoldingSet, error) {
	record, err := surrealdb.Select[holdingSetRecord](ctx, s.conn, surrealmodels.NewRecordID("holdings", username))
	if err != nil {
		if isNotFoundError(err) {
			return models.NewHoldingSet(), nil
		}
		return nil, fmt.Errorf("failed to select holdings for %s: %w", username, err)
	}
	if record == nil {
		return models.NewHoldingSet(), nil
	}
	return models.NewHoldingSetFrom(record.Holdings), nil
}

// SaveHoldings replaces the user's holding set.
func (s *HoldingStore) SaveHoldings(ctx context.Context, username string, set *models.HoldingSet) error {
	record := holdingSetRecord{
		Username:  username,
		Holdings:  set.Holdings(),
		UpdatedAt: time.Now().UTC(),
	}

	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{
		"rid":    surrealmodels.NewRecordID("holdings", username),
		"record": record,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]holdingSetRecord](ctx, s.conn, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save holdings for %s after retries: %w", username, lastErr)
}
