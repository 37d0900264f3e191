package forecast

import (
	"errors"
	"math"
	"testing"

	"github.com/bobmcallan/folio/internal/models"
)

func TestPredict_ShortSeriesFails(t *testing.T) {
	f := NewTrendForecaster()
	series := []float64{100, 101, 102, 103, 104, 105, 106, 107, 108} // 9 points

	_, err := f.Predict(series, 12)
	if err == nil {
		t.Fatal("expected error for series shorter than MinObservations")
	}
	if !errors.Is(err, models.ErrInsufficientHistory) {
		t.Errorf("error = %v, want ErrInsufficientHistory", err)
	}
}

func TestPredict_LinearSeriesExtrapolatesExactly(t *testing.T) {
	f := NewTrendForecaster()

	// y = 100 + 2x for x = 0..11
	series := make([]float64, 12)
	for i := range series {
		series[i] = 100 + 2*float64(i)
	}

	got, err := f.Predict(series, 6)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	want := 100 + 2*float64(11+6)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Predict = %g, want %g", got, want)
	}
}

func TestPredict_FlatSeriesStaysFlat(t *testing.T) {
	f := NewTrendForecaster()
	series := make([]float64, 30)
	for i := range series {
		series[i] = 50
	}

	got, err := f.Predict(series, 60)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if math.Abs(got-50) > 1e-9 {
		t.Errorf("Predict = %g, want 50", got)
	}
}

func TestPredict_DownTrendClampsAtZero(t *testing.T) {
	f := NewTrendForecaster()

	// Steeply falling series projected far ahead would go negative.
	series := make([]float64, 10)
	for i := range series {
		series[i] = 100 - 10*float64(i)
	}

	got, err := f.Predict(series, 60)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got != 0 {
		t.Errorf("Predict = %g, want clamp to 0", got)
	}
}

func TestPredict_RejectsNonFiniteObservations(t *testing.T) {
	f := NewTrendForecaster()
	series := make([]float64, 12)
	for i := range series {
		series[i] = 100
	}
	series[5] = math.NaN()

	_, err := f.Predict(series, 12)
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestPredict_RejectsNonPositiveHorizon(t *testing.T) {
	f := NewTrendForecaster()
	series := make([]float64, 12)
	for i := range series {
		series[i] = 100
	}

	if _, err := f.Predict(series, 0); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestPredict_HorizonsAreIndependent(t *testing.T) {
	f := NewTrendForecaster()
	series := make([]float64, 20)
	for i := range series {
		series[i] = 10 + float64(i)
	}

	first, err := f.Predict(series, 12)
	if err != nil {
		t.Fatal(err)
	}
	// An intervening different horizon must not affect a repeat of the first.
	if _, err := f.Predict(series, 36); err != nil {
		t.Fatal(err)
	}
	again, err := f.Predict(series, 12)
	if err != nil {
		t.Fatal(err)
	}
	if first != again {
		t.Errorf("repeat Predict differs: %g vs %g", first, again)
	}
}
