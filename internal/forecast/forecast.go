// Package forecast provides price projection from historical series
package forecast

import (
	"fmt"
	"math"

	"github.com/bobmcallan/folio/internal/models"
)

// MinObservations is the minimum series length required to fit a trend.
// Shorter series fail with ErrInsufficientHistory.
const MinObservations = 10

// TrendForecaster projects future prices by least-squares linear trend over
// the observed series. Each Predict call fits from scratch, so horizons are
// independent and share no model state.
type TrendForecaster struct{}

// NewTrendForecaster creates a new trend forecaster.
func NewTrendForecaster() *TrendForecaster {
	return &TrendForecaster{}
}

// Predict returns the projected price periodsAhead beyond the end of the
// series. The series is chronological, oldest first.
func (f *TrendForecaster) Predict(series []float64, periodsAhead int) (float64, error) {
	if periodsAhead <= 0 {
		return 0, fmt.Errorf("%w: periodsAhead must be positive, got %d", models.ErrInvalidInput, periodsAhead)
	}
	if len(series) < MinObservations {
		return 0, fmt.Errorf("%w: need at least %d observations, got %d",
			models.ErrInsufficientHistory, MinObservations, len(series))
	}
	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: non-finite observation at index %d", models.ErrInvalidInput, i)
		}
	}

	intercept, slope := fitLine(series)
	predicted := intercept + slope*float64(len(series)-1+periodsAhead)

	// A falling trend extrapolated far enough crosses zero; prices don't.
	if predicted < 0 {
		predicted = 0
	}
	return predicted, nil
}

// fitLine computes the ordinary least-squares line y = intercept + slope*x
// over x = 0..n-1.
func fitLine(series []float64) (intercept, slope float64) {
	n := float64(len(series))

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range series {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		// Single observation cannot happen here (MinObservations), but a
		// degenerate denominator still means a flat projection.
		return sumY / n, 0
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return intercept, slope
}
