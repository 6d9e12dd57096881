// Package usecase implements the business logic for the portfolio feature.
package usecase

import "errors"

var (
	// ErrInvalidInput is returned when the symbol, quantity or price of a
	// trade request is malformed or out of range.
	ErrInvalidInput = errors.New("invalid trade input")

	// ErrPriceMismatch is returned when the client-supplied price falls
	// outside the tolerance band around the live quote.
	ErrPriceMismatch = errors.New("client price outside quote tolerance")

	// ErrStockNotFound is returned on sell when the symbol was never bought
	// through this system.
	ErrStockNotFound = errors.New("stock not found")

	// ErrNotOwned is returned on sell when the user holds no position in the stock.
	ErrNotOwned = errors.New("stock not owned by user")

	// ErrInsufficientShares is returned on sell when the held quantity is
	// smaller than the requested quantity.
	ErrInsufficientShares = errors.New("not enough shares to sell")

	// ErrStoreConflict is returned when a uniqueness race could not be
	// resolved after the fallback retry.
	ErrStoreConflict = errors.New("ledger store conflict")
)
