// Package entity defines the domain models for the stocks feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock is one tracked ticker symbol together with its latest known fundamentals.
// The numeric fields stay invalid (unset) until an enrichment run has written them.
type Stock struct {
	ID     uint
	Symbol string // Ticker symbol (e.g., "AAPL"), immutable after creation

	Price         decimal.NullDecimal // Previous close
	ForwardPE     decimal.NullDecimal
	ForwardEPS    decimal.NullDecimal
	DividendYield decimal.NullDecimal // Percentage (3.00 means 3%)
	MA200         decimal.NullDecimal // 200-day moving average
	MA50          decimal.NullDecimal // 50-day moving average

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Enriched reports whether at least one enrichment run has completed for the stock.
func (s Stock) Enriched() bool {
	return s.Price.Valid
}
