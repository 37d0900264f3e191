// Package valuation derives portfolio summaries from a holding set plus
// price and forecast oracle data.
package valuation

import (
	"context"
	"sync"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/forecast"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Service implements ValuationService. It holds no state across calls;
// every summary is recomputed from the holding set and live oracle data.
type Service struct {
	storage      interfaces.StorageManager
	prices       interfaces.PriceClient
	forecaster   interfaces.Forecaster
	lookbackDays int
	logger       *common.Logger
	now          func() time.Time // injectable clock for testing
}

// NewService creates a new valuation service.
func NewService(storage interfaces.StorageManager, prices interfaces.PriceClient, forecaster interfaces.Forecaster, lookbackDays int, logger *common.Logger) *Service {
	if lookbackDays <= 0 {
		lookbackDays = 30
	}
	return &Service{
		storage:      storage,
		prices:       prices,
		forecaster:   forecaster,
		lookbackDays: lookbackDays,
		logger:       logger,
		now:          time.Now,
	}
}

// priceResult is one symbol's outcome from the concurrent quote fan-out.
type priceResult struct {
	price float64
	found bool
}

// fetchPrices quotes all symbols concurrently. Oracle calls are independent
// per symbol; a failure on one never cancels its siblings.
func (s *Service) fetchPrices(ctx context.Context, symbols []string) map[string]priceResult {
	results := make([]priceResult, len(symbols))

	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			price, found, err := s.prices.GetCurrentPrice(ctx, symbol)
			if err != nil {
				s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Price lookup failed")
				return
			}
			results[i] = priceResult{price: price, found: found}
		}(i, symbol)
	}
	wg.Wait()

	out := make(map[string]priceResult, len(symbols))
	for i, symbol := range symbols {
		out[symbol] = results[i]
	}
	return out
}

// Value computes the valuation summary for a user's holdings. A holding
// whose price lookup fails is flagged price_unavailable and excluded from
// the totals; it never fails the whole call. An empty set yields zero
// totals.
func (s *Service) Value(ctx context.Context, username string) (*models.ValuationSummary, error) {
	set, err := s.storage.HoldingStore().LoadHoldings(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.valueSet(ctx, username, set), nil
}

// valueSet computes the summary for an already-loaded set.
func (s *Service) valueSet(ctx context.Context, username string, set *models.HoldingSet) *models.ValuationSummary {
	holdings := set.Holdings()
	quotes := s.fetchPrices(ctx, set.Symbols())

	summary := &models.ValuationSummary{
		Username:    username,
		Holdings:    make([]models.HoldingValuation, 0, len(holdings)),
		GeneratedAt: s.now(),
	}

	for _, h := range holdings {
		row := models.HoldingValuation{
			Symbol:        h.Symbol,
			Shares:        h.Shares,
			CostBasis:     h.CostBasis,
			InvestedValue: h.InvestedValue(),
		}

		quote := quotes[h.Symbol]
		if !quote.found {
			row.PriceUnavailable = true
			summary.Holdings = append(summary.Holdings, row)
			continue
		}

		row.CurrentPrice = quote.price
		row.CurrentValue = h.Shares * quote.price
		row.GainLoss = row.CurrentValue - row.InvestedValue
		summary.Holdings = append(summary.Holdings, row)

		summary.TotalInvested += row.InvestedValue
		summary.TotalCurrent += row.CurrentValue
	}

	summary.OverallGainLoss = summary.TotalCurrent - summary.TotalInvested
	return summary
}

// historyResult is one symbol's outcome from the concurrent history fan-out.
type historyResult struct {
	series []float64
	err    error
}

// fetchHistories loads the close series for all symbols concurrently.
func (s *Service) fetchHistories(ctx context.Context, symbols []string) map[string]historyResult {
	results := make([]historyResult, len(symbols))

	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			series, err := s.prices.GetHistory(ctx, symbol, s.lookbackDays)
			if err != nil {
				s.logger.Warn().Err(err).Str("symbol", symbol).Msg("History lookup failed")
			}
			results[i] = historyResult{series: series, err: err}
		}(i, symbol)
	}
	wg.Wait()

	out := make(map[string]historyResult, len(symbols))
	for i, symbol := range symbols {
		out[symbol] = results[i]
	}
	return out
}

// Forecast aggregates per-symbol predictions into per-horizon totals. Each
// symbol/horizon cell degrades independently: short history marks the
// symbol insufficient_data across every horizon, a failed fit excludes only
// that cell, and neither aborts the rest of the summary.
func (s *Service) Forecast(ctx context.Context, username string, horizons []models.Horizon) (*models.ForecastSummary, error) {
	set, err := s.storage.HoldingStore().LoadHoldings(ctx, username)
	if err != nil {
		return nil, err
	}

	holdings := set.Holdings()
	histories := s.fetchHistories(ctx, set.Symbols())

	summary := &models.ForecastSummary{
		Username:      username,
		Horizons:      make([]models.HorizonForecast, 0, len(horizons)),
		TotalInvested: set.TotalInvested(),
		GeneratedAt:   s.now(),
	}

	for _, horizon := range horizons {
		hf := models.HorizonForecast{
			Label:   horizon.Label,
			Periods: horizon.Periods,
			Symbols: make([]models.SymbolForecast, 0, len(holdings)),
		}

		for _, h := range holdings {
			cell := models.SymbolForecast{Symbol: h.Symbol}
			hist := histories[h.Symbol]

			switch {
			case hist.err != nil:
				cell.Status = models.ForecastHistoryUnavailable
				cell.Detail = hist.err.Error()
			case len(hist.series) < forecast.MinObservations:
				cell.Status = models.ForecastInsufficientData
			default:
				predicted, err := s.forecaster.Predict(hist.series, horizon.Periods)
				if err != nil {
					cell.Status = models.ForecastFailed
					cell.Detail = err.Error()
					s.logger.Warn().Err(err).
						Str("symbol", h.Symbol).
						Str("horizon", horizon.Label).
						Msg("Forecast failed")
					break
				}
				cell.Status = models.ForecastOK
				cell.PredictedPrice = predicted
				cell.PredictedValue = h.Shares * predicted
				cell.PredictedGainLoss = cell.PredictedValue - h.InvestedValue()
				hf.TotalPredictedValue += cell.PredictedValue
			}

			hf.Symbols = append(hf.Symbols, cell)
		}

		hf.PredictedOverallGainLoss = hf.TotalPredictedValue - summary.TotalInvested
		summary.Horizons = append(summary.Horizons, hf)
	}

	return summary, nil
}
