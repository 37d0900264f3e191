package models

import (
	"errors"
	"testing"
)

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"aapl", "AAPL"},
		{" msft ", "MSFT"},
		{"BHP.AU", "BHP.AU"},
		{"", ""},
	}
	for _, tt := range tests {
		got := NormalizeSymbol(tt.input)
		if got != tt.want {
			t.Errorf("NormalizeSymbol(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestHoldingSet_GetNormalizesSymbol(t *testing.T) {
	set := NewHoldingSet()
	set.Set(Holding{Symbol: "aapl", Shares: 10, CostBasis: 100})

	h, ok := set.Get("AAPL")
	if !ok {
		t.Fatal("expected holding for AAPL")
	}
	if h.Symbol != "AAPL" {
		t.Errorf("stored symbol = %q, want AAPL", h.Symbol)
	}
}

func TestHoldingSet_CloneIsIndependent(t *testing.T) {
	set := NewHoldingSet()
	set.Set(Holding{Symbol: "AAPL", Shares: 10, CostBasis: 100})

	clone := set.Clone()
	clone.Set(Holding{Symbol: "AAPL", Shares: 99, CostBasis: 1})
	clone.Set(Holding{Symbol: "MSFT", Shares: 5, CostBasis: 200})

	orig, _ := set.Get("AAPL")
	if orig.Shares != 10 {
		t.Errorf("clone mutation leaked into original: shares = %g", orig.Shares)
	}
	if set.Len() != 1 {
		t.Errorf("original Len() = %d, want 1", set.Len())
	}
}

func TestHoldingSet_HoldingsSorted(t *testing.T) {
	set := NewHoldingSetFrom([]Holding{
		{Symbol: "msft", Shares: 1, CostBasis: 1},
		{Symbol: "AAPL", Shares: 1, CostBasis: 1},
		{Symbol: "GOOG", Shares: 1, CostBasis: 1},
	})

	holdings := set.Holdings()
	want := []string{"AAPL", "GOOG", "MSFT"}
	for i, w := range want {
		if holdings[i].Symbol != w {
			t.Errorf("Holdings()[%d].Symbol = %q, want %q", i, holdings[i].Symbol, w)
		}
	}
}

func TestHoldingSet_TotalInvested(t *testing.T) {
	set := NewHoldingSetFrom([]Holding{
		{Symbol: "AAPL", Shares: 10, CostBasis: 100},
		{Symbol: "MSFT", Shares: 5, CostBasis: 200},
	})
	if got := set.TotalInvested(); got != 2000 {
		t.Errorf("TotalInvested() = %g, want 2000", got)
	}
}

func TestTypedErrors_MatchSentinels(t *testing.T) {
	var err error = &InsufficientSharesError{Symbol: "AAPL", Requested: 20, Held: 10}
	if !errors.Is(err, ErrInsufficientShares) {
		t.Error("InsufficientSharesError should match ErrInsufficientShares")
	}

	var insuff *InsufficientSharesError
	if !errors.As(err, &insuff) || insuff.Held != 10 {
		t.Errorf("errors.As failed to extract detail: %+v", insuff)
	}

	if !errors.Is(&NoSuchHoldingError{Symbol: "X"}, ErrNoSuchHolding) {
		t.Error("NoSuchHoldingError should match ErrNoSuchHolding")
	}
	if !errors.Is(&InvalidInputError{Field: "shares", Reason: "must be positive"}, ErrInvalidInput) {
		t.Error("InvalidInputError should match ErrInvalidInput")
	}
	if !errors.Is(&UnknownSymbolError{Symbol: "ZZZ"}, ErrOracleUnavailable) {
		t.Error("UnknownSymbolError should match ErrOracleUnavailable")
	}
}
