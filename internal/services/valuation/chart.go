package valuation

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/folio/internal/models"
)

// RenderChart renders a PNG line chart of total portfolio value over the
// history lookback, against the flat invested-capital line. Symbols whose
// history is missing simply contribute nothing to the value series.
func (s *Service) RenderChart(ctx context.Context, username string) ([]byte, error) {
	set, err := s.storage.HoldingStore().LoadHoldings(ctx, username)
	if err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		return nil, fmt.Errorf("no holdings for %s: %w", username, models.ErrNoSuchHolding)
	}

	holdings := set.Holdings()
	histories := s.fetchHistories(ctx, set.Symbols())

	// Align series by their most recent observation: days counts back from
	// today, so shorter series cover only the tail of the window.
	days := 0
	for _, h := range holdings {
		if n := len(histories[h.Symbol].series); n > days {
			days = n
		}
	}
	if days < 2 {
		return nil, fmt.Errorf("not enough history to chart %s: %w", username, models.ErrInsufficientHistory)
	}

	now := s.now()
	xValues := make([]time.Time, days)
	valueY := make([]float64, days)
	investedY := make([]float64, days)
	invested := set.TotalInvested()

	for i := 0; i < days; i++ {
		back := days - 1 - i
		xValues[i] = now.AddDate(0, 0, -back)
		investedY[i] = invested

		for _, h := range holdings {
			series := histories[h.Symbol].series
			idx := len(series) - 1 - back
			if idx < 0 || idx >= len(series) {
				continue
			}
			valueY[i] += h.Shares * series[idx]
		}
	}

	valueSeries := chart.TimeSeries{
		Name: "Portfolio Value",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"),
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: valueY,
	}

	investedSeries := chart.TimeSeries{
		Name: "Invested Capital",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"),
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: investedY,
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s - Portfolio Value", username),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{valueSeries, investedSeries},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.Bytes(), nil
}
