package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies the side of a ledger entry.
type TransactionType string

const (
	// TransactionTypeBuy is a purchase of shares.
	TransactionTypeBuy TransactionType = "buy"
	// TransactionTypeSell is a disposal of shares.
	TransactionTypeSell TransactionType = "sell"
)

// Transaction is one immutable entry in the append-only trade ledger.
// TotalCost is always the exact product of Quantity and CostPerShare at
// creation time and is never recomputed afterwards.
type Transaction struct {
	// ID is the UUID of the ledger entry.
	ID string

	// UserID is the user the entry belongs to.
	UserID uint

	// StockID references the traded stock.
	StockID string

	// Type is the side of the trade, buy or sell.
	Type TransactionType

	// Quantity is the number of shares traded, always >= 1.
	Quantity int64

	// CostPerShare is the price the user locked in, always > 0.
	CostPerShare decimal.Decimal

	// TotalCost is Quantity x CostPerShare, computed once at creation.
	TotalCost decimal.Decimal

	// Stock is the referenced stock, populated by repository lookups
	// that fetch it explicitly.
	Stock *Stock

	// CreatedAt is the timestamp the entry was recorded.
	CreatedAt time.Time
}
