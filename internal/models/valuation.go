package models

import "time"

// HoldingValuation is one row of a valuation summary. When the price oracle
// has no quote for the symbol, PriceUnavailable is set and the row is
// excluded from portfolio totals; it is neither an error nor a zero value.
type HoldingValuation struct {
	Symbol           string  `json:"symbol"`
	Shares           float64 `json:"shares"`
	CostBasis        float64 `json:"cost_basis"`
	CurrentPrice     float64 `json:"current_price,omitempty"`
	InvestedValue    float64 `json:"invested_value"`
	CurrentValue     float64 `json:"current_value,omitempty"`
	GainLoss         float64 `json:"gain_loss,omitempty"`
	PriceUnavailable bool    `json:"price_unavailable,omitempty"`
}

// ValuationSummary is the derived valuation of a holding set against live
// prices. It is recomputed on demand and never cached, since prices move.
type ValuationSummary struct {
	Username        string             `json:"username"`
	Holdings        []HoldingValuation `json:"holdings"`
	TotalInvested   float64            `json:"total_invested"`
	TotalCurrent    float64            `json:"total_current"`
	OverallGainLoss float64            `json:"overall_gain_loss"`
	GeneratedAt     time.Time          `json:"generated_at"`
}

// Horizon pairs a display label with the number of periods projected ahead.
type Horizon struct {
	Label   string `json:"label"`
	Periods int    `json:"periods"`
}

// ForecastStatus describes the outcome of a single symbol/horizon forecast.
type ForecastStatus string

const (
	ForecastOK                  ForecastStatus = "ok"
	ForecastInsufficientData    ForecastStatus = "insufficient_data"
	ForecastFailed              ForecastStatus = "forecast_failed"
	ForecastHistoryUnavailable  ForecastStatus = "history_unavailable"
)

// SymbolForecast is the prediction for one symbol at one horizon. Anything
// other than ForecastOK contributes zero weight to the horizon totals.
type SymbolForecast struct {
	Symbol            string         `json:"symbol"`
	Status            ForecastStatus `json:"status"`
	PredictedPrice    float64        `json:"predicted_price,omitempty"`
	PredictedValue    float64        `json:"predicted_value,omitempty"`
	PredictedGainLoss float64        `json:"predicted_gain_loss,omitempty"`
	Detail            string         `json:"detail,omitempty"`
}

// HorizonForecast aggregates predictions for one horizon across all symbols
// that produced a valid prediction. Horizons degrade independently.
type HorizonForecast struct {
	Label                    string           `json:"label"`
	Periods                  int              `json:"periods"`
	Symbols                  []SymbolForecast `json:"symbols"`
	TotalPredictedValue      float64          `json:"total_predicted_value"`
	PredictedOverallGainLoss float64          `json:"predicted_overall_gain_loss"`
}

// ForecastSummary is the derived multi-horizon projection for a holding set.
// TotalInvested is the same figure the valuation reports, not recomputed per
// horizon.
type ForecastSummary struct {
	Username      string            `json:"username"`
	Horizons      []HorizonForecast `json:"horizons"`
	TotalInvested float64           `json:"total_invested"`
	GeneratedAt   time.Time         `json:"generated_at"`
}

// PortfolioReview couples a valuation with the best-effort AI narrative.
// Narrative generation failure never blocks the valuation output.
type PortfolioReview struct {
	Valuation      *ValuationSummary `json:"valuation"`
	Narrative      string            `json:"narrative,omitempty"`
	NarrativeError string            `json:"narrative_error,omitempty"`
}
