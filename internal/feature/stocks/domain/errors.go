// Package domain defines domain-level errors for the stocks feature.
package domain

import "errors"

// Errors reported by the market data gateway. Callers must distinguish the
// two: an unknown symbol is a client mistake, an unreachable provider is a
// server-side outage that is safe for the caller to retry.
var (
	// ErrSymbolNotFound indicates the provider has no such symbol.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrQuoteUnavailable indicates the provider timed out, is unreachable,
	// or returned an unusable response.
	ErrQuoteUnavailable = errors.New("quote service unavailable")
)
