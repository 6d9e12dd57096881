// Package entity defines the domain entities for the portfolio feature.
package entity

import "time"

// Stock is the shared reference record for a tradable symbol.
// Rows are created lazily the first time any user trades a symbol and are
// never updated or deleted afterwards.
type Stock struct {
	// ID is the UUID of the stock row.
	ID string

	// Symbol is the exchange ticker, stored trimmed and uppercased.
	// It is globally unique and immutable once created.
	Symbol string

	// CompanyName is the issuer's full name as reported by the market data provider.
	CompanyName string

	// Industry is the issuer's industry classification.
	Industry string

	// Sector is the issuer's sector classification.
	Sector string

	// CreatedAt is the timestamp when the stock was first recorded.
	CreatedAt time.Time
}
