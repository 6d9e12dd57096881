package entity

import "time"

// Holding is a user's aggregate position in one stock.
// At most one holding exists per (user, stock) pair. A persisted holding
// always has quantity >= 1; a sell that brings the quantity to zero deletes
// the row instead of storing a zero.
type Holding struct {
	// ID is the UUID of the holding row.
	ID string

	// UserID is the owning user.
	UserID uint

	// StockID references the stock the position is in.
	StockID string

	// Quantity is the number of shares currently held.
	Quantity int64

	// Stock is the referenced stock, populated by repository lookups
	// that fetch it explicitly.
	Stock *Stock

	// CreatedAt is the timestamp of the first buy.
	CreatedAt time.Time

	// UpdatedAt is the timestamp of the last quantity change.
	UpdatedAt time.Time
}
