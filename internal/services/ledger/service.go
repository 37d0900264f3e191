package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Service implements LedgerService. It orchestrates persistence around the
// pure Apply functions: load, mutate a copy, save, append the transaction.
type Service struct {
	storage interfaces.StorageManager
	prices  interfaces.PriceClient
	logger  *common.Logger
	now     func() time.Time // injectable clock for testing
	newID   func() string
}

// NewService creates a new ledger service.
func NewService(storage interfaces.StorageManager, prices interfaces.PriceClient, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		prices:  prices,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// resolveSymbol confirms the price oracle knows the symbol and returns its
// current quote. The ledger arithmetic itself never talks to the oracle;
// validation happens here before any mutation.
func (s *Service) resolveSymbol(ctx context.Context, symbol string) (float64, error) {
	price, found, err := s.prices.GetCurrentPrice(ctx, symbol)
	if err != nil {
		return 0, fmt.Errorf("price lookup for %s: %w", symbol, err)
	}
	if !found {
		return 0, &models.UnknownSymbolError{Symbol: symbol}
	}
	return price, nil
}

// Buy adds shares at the given price to the user's holding set.
func (s *Service) Buy(ctx context.Context, username, symbol string, shares, price float64) (*models.TransactionRecord, error) {
	symbol = models.NormalizeSymbol(symbol)

	if _, err := s.resolveSymbol(ctx, symbol); err != nil {
		return nil, err
	}

	set, err := s.storage.HoldingStore().LoadHoldings(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load holdings for %s: %w", username, err)
	}

	now := s.now()
	next, err := ApplyBuy(set, symbol, shares, price, now)
	if err != nil {
		return nil, err
	}

	if err := s.storage.HoldingStore().SaveHoldings(ctx, username, next); err != nil {
		return nil, fmt.Errorf("failed to save holdings for %s: %w", username, err)
	}

	record := &models.TransactionRecord{
		ID:        s.newID(),
		Username:  username,
		Action:    models.ActionBuy,
		Symbol:    symbol,
		Shares:    shares,
		Price:     price,
		Timestamp: now,
	}
	if err := s.storage.TransactionStore().AppendTransaction(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to append transaction: %w", err)
	}

	s.logger.Info().
		Str("username", username).
		Str("symbol", symbol).
		Float64("shares", shares).
		Float64("price", price).
		Msg("Buy applied")

	return record, nil
}

// Sell removes shares from the user's holding set at the current quote.
func (s *Service) Sell(ctx context.Context, username, symbol string, shares float64) (*models.TransactionRecord, error) {
	symbol = models.NormalizeSymbol(symbol)

	price, err := s.resolveSymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}

	set, err := s.storage.HoldingStore().LoadHoldings(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load holdings for %s: %w", username, err)
	}

	now := s.now()
	next, realized, err := ApplySell(set, symbol, shares, price, now)
	if err != nil {
		return nil, err
	}

	if err := s.storage.HoldingStore().SaveHoldings(ctx, username, next); err != nil {
		return nil, fmt.Errorf("failed to save holdings for %s: %w", username, err)
	}

	record := &models.TransactionRecord{
		ID:               s.newID(),
		Username:         username,
		Action:           models.ActionSell,
		Symbol:           symbol,
		Shares:           shares,
		Price:            price,
		Timestamp:        now,
		RealizedGainLoss: realized,
	}
	if err := s.storage.TransactionStore().AppendTransaction(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to append transaction: %w", err)
	}

	s.logger.Info().
		Str("username", username).
		Str("symbol", symbol).
		Float64("shares", shares).
		Float64("price", price).
		Float64("realized", realized).
		Msg("Sell applied")

	return record, nil
}

// RemoveHolding deletes a holding unconditionally. No transaction record is
// written; this is a correction, not a market transaction.
func (s *Service) RemoveHolding(ctx context.Context, username, symbol string) error {
	set, err := s.storage.HoldingStore().LoadHoldings(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to load holdings for %s: %w", username, err)
	}

	next, removed := ApplyRemove(set, symbol)
	if !removed {
		return nil
	}

	if err := s.storage.HoldingStore().SaveHoldings(ctx, username, next); err != nil {
		return fmt.Errorf("failed to save holdings for %s: %w", username, err)
	}

	s.logger.Info().
		Str("username", username).
		Str("symbol", models.NormalizeSymbol(symbol)).
		Msg("Holding removed")

	return nil
}

// GetHoldings returns the user's current holding set.
func (s *Service) GetHoldings(ctx context.Context, username string) (*models.HoldingSet, error) {
	return s.storage.HoldingStore().LoadHoldings(ctx, username)
}

// GetTransactions returns the user's transaction log, newest first.
func (s *Service) GetTransactions(ctx context.Context, username string) ([]models.TransactionRecord, error) {
	return s.storage.TransactionStore().LoadTransactions(ctx, username)
}
