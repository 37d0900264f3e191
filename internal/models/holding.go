// Package models defines data structures for Folio
package models

import (
	"sort"
	"strings"
	"time"
)

// NormalizeSymbol canonicalizes a ticker symbol for storage and lookup.
// Matching is exact-string after uppercase normalization, no fuzzy matching.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Holding represents one position in a user's holding set.
// A Holding only exists while Shares > 0; selling down to exactly zero
// removes it from the set rather than persisting a zero-share entry.
type Holding struct {
	Symbol    string    `json:"symbol"`
	Shares    float64   `json:"shares"`
	CostBasis float64   `json:"cost_basis"` // weighted-average price paid per currently-held share
	UpdatedAt time.Time `json:"updated_at"`
}

// InvestedValue returns the capital attributed to the currently-held shares.
func (h Holding) InvestedValue() float64 {
	return h.Shares * h.CostBasis
}

// HoldingSet is the collection of holdings for a single user, unique by
// symbol. It is mutated only through ledger operations.
type HoldingSet struct {
	holdings map[string]Holding
}

// NewHoldingSet creates an empty holding set.
func NewHoldingSet() *HoldingSet {
	return &HoldingSet{holdings: make(map[string]Holding)}
}

// NewHoldingSetFrom builds a holding set from a slice of holdings, as read
// back from persistence. Symbols are normalized; later duplicates win.
func NewHoldingSetFrom(holdings []Holding) *HoldingSet {
	set := NewHoldingSet()
	for _, h := range holdings {
		h.Symbol = NormalizeSymbol(h.Symbol)
		set.holdings[h.Symbol] = h
	}
	return set
}

// Get returns the holding for a symbol, if present.
func (s *HoldingSet) Get(symbol string) (Holding, bool) {
	h, ok := s.holdings[NormalizeSymbol(symbol)]
	return h, ok
}

// Set inserts or replaces a holding.
func (s *HoldingSet) Set(h Holding) {
	h.Symbol = NormalizeSymbol(h.Symbol)
	s.holdings[h.Symbol] = h
}

// Remove deletes the holding for a symbol. Returns true if it was present.
func (s *HoldingSet) Remove(symbol string) bool {
	key := NormalizeSymbol(symbol)
	_, ok := s.holdings[key]
	delete(s.holdings, key)
	return ok
}

// Len returns the number of holdings in the set.
func (s *HoldingSet) Len() int {
	return len(s.holdings)
}

// Holdings returns the holdings sorted by symbol for stable output.
func (s *HoldingSet) Holdings() []Holding {
	out := make([]Holding, 0, len(s.holdings))
	for _, h := range s.holdings {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Symbols returns the symbols in the set, sorted.
func (s *HoldingSet) Symbols() []string {
	out := make([]string, 0, len(s.holdings))
	for sym := range s.holdings {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// Clone returns a deep copy of the set. Ledger operations mutate a clone so
// a failed operation leaves the caller's set untouched.
func (s *HoldingSet) Clone() *HoldingSet {
	clone := &HoldingSet{holdings: make(map[string]Holding, len(s.holdings))}
	for k, v := range s.holdings {
		clone.holdings[k] = v
	}
	return clone
}

// TotalInvested returns the sum of invested value across all holdings.
func (s *HoldingSet) TotalInvested() float64 {
	total := 0.0
	for _, h := range s.holdings {
		total += h.InvestedValue()
	}
	return total
}
