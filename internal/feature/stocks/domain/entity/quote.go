package entity

import "github.com/shopspring/decimal"

// Quote is the raw market data returned by a provider for one symbol.
// A nil field means the provider did not report that value.
type Quote struct {
	Symbol               string   `json:"symbol"`
	PreviousClose        *float64 `json:"previous_close,omitempty"`
	FiftyDayAverage      *float64 `json:"fifty_day_average,omitempty"`
	TwoHundredDayAverage *float64 `json:"two_hundred_day_average,omitempty"`
	ForwardPE            *float64 `json:"forward_pe,omitempty"`
	ForwardEPS           *float64 `json:"forward_eps,omitempty"`
	DividendYield        *float64 `json:"dividend_yield,omitempty"` // Fraction (0.03 means 3%)
}

// Fundamentals holds storage-ready values derived from a Quote.
// Every value is already truncated to the column scale. An invalid
// DividendYield means the stored value must be left untouched.
type Fundamentals struct {
	Price         decimal.Decimal
	ForwardPE     decimal.Decimal
	ForwardEPS    decimal.Decimal
	DividendYield decimal.NullDecimal
	MA200         decimal.Decimal
	MA50          decimal.Decimal
}
