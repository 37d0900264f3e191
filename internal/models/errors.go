package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the ledger and aggregator error taxonomy. Typed errors
// below wrap these so callers can branch with errors.Is and still pull
// structured detail out with errors.As.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNoSuchHolding       = errors.New("no such holding")
	ErrInsufficientShares  = errors.New("insufficient shares")
	ErrOracleUnavailable   = errors.New("oracle unavailable")
	ErrInsufficientHistory = errors.New("insufficient history")
)

// InvalidInputError rejects an operation before any mutation occurs.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// NoSuchHoldingError indicates the target symbol is absent from the set.
type NoSuchHoldingError struct {
	Symbol string
}

func (e *NoSuchHoldingError) Error() string {
	return fmt.Sprintf("no holding for symbol %s", e.Symbol)
}

func (e *NoSuchHoldingError) Unwrap() error { return ErrNoSuchHolding }

// InsufficientSharesError carries the requested and held quantities so the
// caller can render an actionable message without re-deriving them.
type InsufficientSharesError struct {
	Symbol    string
	Requested float64
	Held      float64
}

func (e *InsufficientSharesError) Error() string {
	return fmt.Sprintf("insufficient shares of %s: requested %g, held %g", e.Symbol, e.Requested, e.Held)
}

func (e *InsufficientSharesError) Unwrap() error { return ErrInsufficientShares }

// UnknownSymbolError indicates the price oracle could not resolve a symbol
// when validating a buy.
type UnknownSymbolError struct {
	Symbol string
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("symbol %s not found or unavailable", e.Symbol)
}

func (e *UnknownSymbolError) Unwrap() error { return ErrOracleUnavailable }
