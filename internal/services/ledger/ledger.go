// Package ledger applies ownership-changing operations to a holding set
// with weighted-average cost-basis accounting.
package ledger

import (
	"math"
	"time"

	"github.com/bobmcallan/folio/internal/models"
)

// validateOrder checks shares and price preconditions shared by buy and sell.
func validateOrder(symbol string, shares, price float64) error {
	if models.NormalizeSymbol(symbol) == "" {
		return &models.InvalidInputError{Field: "symbol", Reason: "must not be empty"}
	}
	if shares <= 0 || math.IsNaN(shares) || math.IsInf(shares, 0) {
		return &models.InvalidInputError{Field: "shares", Reason: "must be positive"}
	}
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return &models.InvalidInputError{Field: "price", Reason: "must be a finite non-negative value"}
	}
	return nil
}

// ApplyBuy returns a new holding set with the purchase applied. The input
// set is never mutated, so a rejected operation leaves the caller's state
// untouched.
//
// A new symbol creates a holding with cost basis equal to the buy price.
// An existing holding folds the purchase into the share-weighted average:
//
//	newBasis = (basis*held + price*bought) / (held + bought)
func ApplyBuy(set *models.HoldingSet, symbol string, shares, price float64, now time.Time) (*models.HoldingSet, error) {
	if err := validateOrder(symbol, shares, price); err != nil {
		return nil, err
	}

	symbol = models.NormalizeSymbol(symbol)
	next := set.Clone()

	if existing, ok := next.Get(symbol); ok {
		totalShares := existing.Shares + shares
		existing.CostBasis = (existing.CostBasis*existing.Shares + price*shares) / totalShares
		existing.Shares = totalShares
		existing.UpdatedAt = now
		next.Set(existing)
	} else {
		next.Set(models.Holding{
			Symbol:    symbol,
			Shares:    shares,
			CostBasis: price,
			UpdatedAt: now,
		})
	}

	return next, nil
}

// ApplySell returns a new holding set with the sale applied, plus the
// realized gain/loss on the sold shares. Cost basis is a property of the
// remaining shares and is never changed by a sell. Selling the entire
// position removes the holding from the set.
func ApplySell(set *models.HoldingSet, symbol string, shares, price float64, now time.Time) (*models.HoldingSet, float64, error) {
	if err := validateOrder(symbol, shares, price); err != nil {
		return nil, 0, err
	}

	symbol = models.NormalizeSymbol(symbol)

	holding, ok := set.Get(symbol)
	if !ok {
		return nil, 0, &models.NoSuchHoldingError{Symbol: symbol}
	}
	if shares > holding.Shares {
		return nil, 0, &models.InsufficientSharesError{
			Symbol:    symbol,
			Requested: shares,
			Held:      holding.Shares,
		}
	}

	next := set.Clone()
	realized := (price - holding.CostBasis) * shares

	holding.Shares -= shares
	if holding.Shares == 0 {
		next.Remove(symbol)
	} else {
		holding.UpdatedAt = now
		next.Set(holding)
	}

	return next, realized, nil
}

// ApplyRemove returns a new holding set with the symbol deleted regardless
// of share count. Removing an absent symbol returns removed=false; whether
// that is surfaced as an error is the caller's choice.
func ApplyRemove(set *models.HoldingSet, symbol string) (*models.HoldingSet, bool) {
	next := set.Clone()
	removed := next.Remove(symbol)
	return next, removed
}
