// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"
)

// PriceClient is the price oracle: live quotes and historical close series.
type PriceClient interface {
	// GetCurrentPrice returns the latest price for a symbol, or false when
	// the oracle has no quote for it.
	GetCurrentPrice(ctx context.Context, symbol string) (float64, bool, error)

	// GetHistory returns the chronological daily close series for a symbol,
	// oldest first, covering up to lookbackDays. An empty series means the
	// oracle could not supply history; callers degrade, they do not abort.
	GetHistory(ctx context.Context, symbol string, lookbackDays int) ([]float64, error)
}

// Forecaster is the forecast oracle. Predict fails explicitly when the
// series is too short or the model cannot fit, never via sentinel values.
type Forecaster interface {
	Predict(series []float64, periodsAhead int) (float64, error)
}

// GeminiClient provides access to the Gemini API for narrative generation.
type GeminiClient interface {
	// GenerateContent generates AI content from a prompt
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
