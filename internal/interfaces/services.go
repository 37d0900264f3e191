package interfaces

import (
	"context"

	"github.com/bobmcallan/folio/internal/models"
)

// LedgerService applies ownership-changing operations to a user's holding
// set. Operations are all-or-nothing: a failed operation leaves the stored
// set exactly as it was and appends no transaction record.
type LedgerService interface {
	// Buy adds shares at a price, creating the holding or folding the
	// purchase into the weighted-average cost basis.
	Buy(ctx context.Context, username, symbol string, shares, price float64) (*models.TransactionRecord, error)

	// Sell removes shares at the current quoted price. Cost basis is
	// unchanged; selling the full position removes the holding.
	Sell(ctx context.Context, username, symbol string, shares float64) (*models.TransactionRecord, error)

	// RemoveHolding deletes a holding unconditionally with no transaction
	// record. A correction action, not a market transaction. Removing an
	// absent symbol is a no-op.
	RemoveHolding(ctx context.Context, username, symbol string) error

	// GetHoldings returns the user's current holding set.
	GetHoldings(ctx context.Context, username string) (*models.HoldingSet, error)

	// GetTransactions returns the user's transaction log, newest first.
	GetTransactions(ctx context.Context, username string) ([]models.TransactionRecord, error)
}

// ValuationService derives summaries from a holding set plus oracle data.
// It holds no state; summaries are deterministic given their inputs.
type ValuationService interface {
	// Value computes per-holding and portfolio-level valuation against
	// current prices. Unavailable prices flag the row and drop out of the
	// totals; they never fail the call.
	Value(ctx context.Context, username string) (*models.ValuationSummary, error)

	// Forecast aggregates per-symbol predictions into per-horizon totals.
	// Each symbol/horizon cell degrades independently.
	Forecast(ctx context.Context, username string, horizons []models.Horizon) (*models.ForecastSummary, error)

	// RenderChart renders a PNG chart of invested vs current value.
	RenderChart(ctx context.Context, username string) ([]byte, error)
}

// ReportService produces the portfolio review: valuation plus best-effort
// AI narrative.
type ReportService interface {
	Review(ctx context.Context, username string) (*models.PortfolioReview, error)
}
