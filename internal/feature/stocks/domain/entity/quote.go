// Package entity defines the domain entities for the stocks feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockQuote is a live quote for one symbol, combined with the issuer
// metadata the market data provider reports for it.
type StockQuote struct {
	Symbol        string
	CompanyName   string
	Exchange      string
	Currency      string
	Industry      string
	Sector        string
	CurrentPrice  decimal.Decimal
	PreviousClose decimal.Decimal
}

// PricePoint is one daily closing price of a symbol.
type PricePoint struct {
	Symbol string
	Time   time.Time
	Close  decimal.Decimal
}
