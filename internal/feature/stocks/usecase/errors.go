// Package usecase implements the business logic for tracked stocks and their enrichment.
package usecase

import "errors"

var (
	// ErrStockNotFound is returned when no stock exists for the given ID.
	ErrStockNotFound = errors.New("stock not found")

	// ErrSymbolAlreadyExists is returned when creating a stock whose symbol is already tracked.
	ErrSymbolAlreadyExists = errors.New("symbol already exists")

	// ErrInvalidSymbol is returned when a symbol is empty or malformed.
	ErrInvalidSymbol = errors.New("invalid symbol")

	// ErrQuoteNotFound is returned by providers that know nothing about the symbol.
	ErrQuoteNotFound = errors.New("quote not found")

	// ErrIncompleteQuote is returned when a provider response lacks a required field.
	ErrIncompleteQuote = errors.New("incomplete quote")
)
