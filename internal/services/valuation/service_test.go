package valuation

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/forecast"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// --- Mocks ---

type mockPriceClient struct {
	prices     map[string]float64
	histories  map[string][]float64
	priceErrs  map[string]error
	historyErr map[string]error
}

func (m *mockPriceClient) GetCurrentPrice(_ context.Context, symbol string) (float64, bool, error) {
	if err, ok := m.priceErrs[symbol]; ok {
		return 0, false, err
	}
	price, ok := m.prices[symbol]
	return price, ok, nil
}

func (m *mockPriceClient) GetHistory(_ context.Context, symbol string, _ int) ([]float64, error) {
	if err, ok := m.historyErr[symbol]; ok {
		return nil, err
	}
	return m.histories[symbol], nil
}

type stubForecaster struct {
	predictions map[string]float64 // keyed by horizon label via periods
	err         error
}

// Predict returns the last observation scaled by periodsAhead so tests can
// distinguish horizons deterministically.
func (f *stubForecaster) Predict(series []float64, periodsAhead int) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return series[len(series)-1] + float64(periodsAhead), nil
}

type memHoldingStore struct {
	sets map[string]*models.HoldingSet
}

func (m *memHoldingStore) LoadHoldings(_ context.Context, username string) (*models.HoldingSet, error) {
	if set, ok := m.sets[username]; ok {
		return set.Clone(), nil
	}
	return models.NewHoldingSet(), nil
}

func (m *memHoldingStore) SaveHoldings(_ context.Context, username string, set *models.HoldingSet) error {
	m.sets[username] = set.Clone()
	return nil
}

type memTransactionStore struct{}

func (m *memTransactionStore) AppendTransaction(_ context.Context, _ *models.TransactionRecord) error {
	return nil
}

func (m *memTransactionStore) LoadTransactions(_ context.Context, _ string) ([]models.TransactionRecord, error) {
	return nil, nil
}

type memStorage struct {
	holdings *memHoldingStore
}

func newMemStorage(holdings ...models.Holding) *memStorage {
	return &memStorage{
		holdings: &memHoldingStore{sets: map[string]*models.HoldingSet{
			"alice": models.NewHoldingSetFrom(holdings),
		}},
	}
}

func (m *memStorage) HoldingStore() interfaces.HoldingStore         { return m.holdings }
func (m *memStorage) TransactionStore() interfaces.TransactionStore { return &memTransactionStore{} }
func (m *memStorage) Close() error                                  { return nil }

func newTestService(storage *memStorage, prices *mockPriceClient, forecaster interfaces.Forecaster) *Service {
	svc := NewService(storage, prices, forecaster, 30, common.NewSilentLogger())
	svc.now = func() time.Time { return time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC) }
	return svc
}

func flatSeries(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// --- Tests ---

func TestValue_ComputesPerHoldingAndTotals(t *testing.T) {
	storage := newMemStorage(
		models.Holding{Symbol: "AAPL", Shares: 10, CostBasis: 100},
		models.Holding{Symbol: "MSFT", Shares: 5, CostBasis: 200},
	)
	prices := &mockPriceClient{prices: map[string]float64{"AAPL": 150, "MSFT": 180}}
	svc := newTestService(storage, prices, forecast.NewTrendForecaster())

	summary, err := svc.Value(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, summary.Holdings, 2)

	aapl := summary.Holdings[0]
	assert.Equal(t, "AAPL", aapl.Symbol)
	assert.Equal(t, 1000.0, aapl.InvestedValue)
	assert.Equal(t, 1500.0, aapl.CurrentValue)
	assert.Equal(t, 500.0, aapl.GainLoss)

	msft := summary.Holdings[1]
	assert.Equal(t, 1000.0, msft.InvestedValue)
	assert.Equal(t, 900.0, msft.CurrentValue)
	assert.Equal(t, -100.0, msft.GainLoss)

	assert.Equal(t, 2000.0, summary.TotalInvested)
	assert.Equal(t, 2400.0, summary.TotalCurrent)
	assert.Equal(t, 400.0, summary.OverallGainLoss)
}

func TestValue_UnavailablePriceExcludedFromTotals(t *testing.T) {
	storage := newMemStorage(
		models.Holding{Symbol: "AAPL", Shares: 10, CostBasis: 100},
		models.Holding{Symbol: "GONE", Shares: 5, CostBasis: 200},
	)
	prices := &mockPriceClient{prices: map[string]float64{"AAPL": 150}}
	svc := newTestService(storage, prices, forecast.NewTrendForecaster())

	summary, err := svc.Value(context.Background(), "alice")
	require.NoError(t, err)

	require.Len(t, summary.Holdings, 2, "unavailable holding still appears as a row")

	var gone models.HoldingValuation
	for _, row := range summary.Holdings {
		if row.Symbol == "GONE" {
			gone = row
		}
	}
	assert.True(t, gone.PriceUnavailable)
	assert.Equal(t, 1000.0, gone.InvestedValue, "invested value is known without a quote")
	assert.Zero(t, gone.CurrentValue)

	assert.Equal(t, 1000.0, summary.TotalInvested, "totals cover priced holdings only")
	assert.Equal(t, 1500.0, summary.TotalCurrent)
	assert.Equal(t, 500.0, summary.OverallGainLoss)
}

func TestValue_OracleErrorDegradesNotFails(t *testing.T) {
	storage := newMemStorage(
		models.Holding{Symbol: "AAPL", Shares: 10, CostBasis: 100},
		models.Holding{Symbol: "ERR", Shares: 1, CostBasis: 50},
	)
	prices := &mockPriceClient{
		prices:    map[string]float64{"AAPL": 150},
		priceErrs: map[string]error{"ERR": errors.New("oracle timeout")},
	}
	svc := newTestService(storage, prices, forecast.NewTrendForecaster())

	summary, err := svc.Value(context.Background(), "alice")
	require.NoError(t, err, "one symbol's oracle failure never aborts the call")
	assert.Equal(t, 1500.0, summary.TotalCurrent)
}

func TestValue_EmptySetZeroTotals(t *testing.T) {
	storage := newMemStorage()
	svc := newTestService(storage, &mockPriceClient{}, forecast.NewTrendForecaster())

	summary, err := svc.Value(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, summary.Holdings)
	assert.Zero(t, summary.TotalInvested)
	assert.Zero(t, summary.TotalCurrent)
	assert.Zero(t, summary.OverallGainLoss)
}

func TestForecast_PerHorizonAggregation(t *testing.T) {
	storage := newMemStorage(
		models.Holding{Symbol: "AAPL", Shares: 10, CostBasis: 100},
	)
	prices := &mockPriceClient{
		histories: map[string][]float64{"AAPL": flatSeries(30, 150)},
	}
	svc := newTestService(storage, prices, &stubForecaster{})

	horizons := []models.Horizon{
		{Label: "1 year", Periods: 12},
		{Label: "3 years", Periods: 36},
	}
	summary, err := svc.Forecast(context.Background(), "alice", horizons)
	require.NoError(t, err)
	require.Len(t, summary.Horizons, 2)

	assert.Equal(t, 1000.0, summary.TotalInvested)

	oneYear := summary.Horizons[0]
	assert.Equal(t, "1 year", oneYear.Label)
	require.Len(t, oneYear.Symbols, 1)
	assert.Equal(t, models.ForecastOK, oneYear.Symbols[0].Status)
	assert.Equal(t, 162.0, oneYear.Symbols[0].PredictedPrice) // 150 + 12
	assert.Equal(t, 1620.0, oneYear.TotalPredictedValue)
	assert.Equal(t, 620.0, oneYear.PredictedOverallGainLoss)

	threeYears := summary.Horizons[1]
	assert.Equal(t, 1860.0, threeYears.TotalPredictedValue) // (150+36)*10
	assert.Equal(t, 860.0, threeYears.PredictedOverallGainLoss)
}

func TestForecast_ShortHistoryDegradesSymbolOnly(t *testing.T) {
	storage := newMemStorage(
		models.Holding{Symbol: "AAPL", Shares: 10, CostBasis: 100},
		models.Holding{Symbol: "NEWCO", Shares: 4, CostBasis: 25},
	)
	prices := &mockPriceClient{
		histories: map[string][]float64{
			"AAPL":  flatSeries(30, 150),
			"NEWCO": flatSeries(5, 30), // under the minimum threshold
		},
	}
	svc := newTestService(storage, prices, &stubForecaster{})

	horizons := []models.Horizon{
		{Label: "1 year", Periods: 12},
		{Label: "5 years", Periods: 60},
	}
	summary, err := svc.Forecast(context.Background(), "alice", horizons)
	require.NoError(t, err)

	for _, hf := range summary.Horizons {
		require.Len(t, hf.Symbols, 2)
		for _, cell := range hf.Symbols {
			if cell.Symbol == "NEWCO" {
				assert.Equal(t, models.ForecastInsufficientData, cell.Status,
					"short history marks every horizon insufficient_data")
				assert.Zero(t, cell.PredictedValue)
			} else {
				assert.Equal(t, models.ForecastOK, cell.Status,
					"sibling symbols are unaffected")
			}
		}
		// Only AAPL contributes to the totals.
		wantTotal := (150.0 + float64(hf.Periods)) * 10
		assert.Equal(t, wantTotal, hf.TotalPredictedValue)
	}

	// TotalInvested still covers the whole set.
	assert.Equal(t, 1100.0, summary.TotalInvested)
}

func TestForecast_FitFailureExcludesCellOnly(t *testing.T) {
	storage := newMemStorage(
		models.Holding{Symbol: "AAPL", Shares: 10, CostBasis: 100},
	)
	prices := &mockPriceClient{
		histories: map[string][]float64{"AAPL": flatSeries(30, 150)},
	}
	svc := newTestService(storage, prices, &stubForecaster{err: errors.New("model diverged")})

	summary, err := svc.Forecast(context.Background(), "alice", []models.Horizon{{Label: "1 year", Periods: 12}})
	require.NoError(t, err, "fit failure never aborts the summary")

	cell := summary.Horizons[0].Symbols[0]
	assert.Equal(t, models.ForecastFailed, cell.Status)
	assert.Contains(t, cell.Detail, "model diverged")
	assert.Zero(t, summary.Horizons[0].TotalPredictedValue)
	assert.Equal(t, -1000.0, summary.Horizons[0].PredictedOverallGainLoss)
}

func TestForecast_HistoryErrorIsolatedPerSymbol(t *testing.T) {
	storage := newMemStorage(
		models.Holding{Symbol: "AAPL", Shares: 10, CostBasis: 100},
		models.Holding{Symbol: "ERR", Shares: 1, CostBasis: 50},
	)
	prices := &mockPriceClient{
		histories:  map[string][]float64{"AAPL": flatSeries(30, 150)},
		historyErr: map[string]error{"ERR": errors.New("oracle down")},
	}
	svc := newTestService(storage, prices, &stubForecaster{})

	summary, err := svc.Forecast(context.Background(), "alice", []models.Horizon{{Label: "1 year", Periods: 12}})
	require.NoError(t, err)

	var errCell, okCell models.SymbolForecast
	for _, cell := range summary.Horizons[0].Symbols {
		if cell.Symbol == "ERR" {
			errCell = cell
		} else {
			okCell = cell
		}
	}
	assert.Equal(t, models.ForecastHistoryUnavailable, errCell.Status)
	assert.Equal(t, models.ForecastOK, okCell.Status)
}

func TestForecast_WithRealTrendForecaster(t *testing.T) {
	// y = 100 + x over 30 days projected 12 periods ahead.
	series := make([]float64, 30)
	for i := range series {
		series[i] = 100 + float64(i)
	}

	storage := newMemStorage(
		models.Holding{Symbol: "AAPL", Shares: 2, CostBasis: 100},
	)
	prices := &mockPriceClient{histories: map[string][]float64{"AAPL": series}}
	svc := newTestService(storage, prices, forecast.NewTrendForecaster())

	summary, err := svc.Forecast(context.Background(), "alice", []models.Horizon{{Label: "1 year", Periods: 12}})
	require.NoError(t, err)

	cell := summary.Horizons[0].Symbols[0]
	require.Equal(t, models.ForecastOK, cell.Status)
	assert.InDelta(t, 100+29+12, cell.PredictedPrice, 1e-6)
}

func TestRenderChart_ProducesPNG(t *testing.T) {
	storage := newMemStorage(
		models.Holding{Symbol: "AAPL", Shares: 10, CostBasis: 100},
		models.Holding{Symbol: "MSFT", Shares: 5, CostBasis: 200},
	)
	prices := &mockPriceClient{
		histories: map[string][]float64{
			"AAPL": flatSeries(30, 150),
			"MSFT": flatSeries(20, 180),
		},
	}
	svc := newTestService(storage, prices, forecast.NewTrendForecaster())

	png, err := svc.RenderChart(context.Background(), "alice")
	require.NoError(t, err)
	require.NotEmpty(t, png)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")), "output should be a PNG")
}

func TestRenderChart_NoHoldingsFails(t *testing.T) {
	storage := newMemStorage()
	svc := newTestService(storage, &mockPriceClient{}, forecast.NewTrendForecaster())

	_, err := svc.RenderChart(context.Background(), "alice")
	assert.Error(t, err)
}
