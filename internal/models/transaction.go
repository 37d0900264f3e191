package models

import "time"

// TransactionAction identifies the side of a transaction.
type TransactionAction string

const (
	ActionBuy  TransactionAction = "buy"
	ActionSell TransactionAction = "sell"
)

// TransactionRecord is one append-only log entry. Records are written once
// per successful ledger operation and never edited or reordered. Failed or
// rejected operations produce no record.
type TransactionRecord struct {
	ID        string            `json:"id"`
	Username  string            `json:"username"`
	Action    TransactionAction `json:"action"`
	Symbol    string            `json:"symbol"`
	Shares    float64           `json:"shares"`
	Price     float64           `json:"price"`
	Timestamp time.Time         `json:"timestamp"`

	// Realized gain/loss on the sold shares relative to the holding's
	// weighted-average cost basis. Set on sell records only.
	RealizedGainLoss float64 `json:"realized_gain_loss,omitempty"`
}
