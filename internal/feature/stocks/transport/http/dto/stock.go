// Package dto defines data transfer objects for the stocks feature's HTTP transport layer.
package dto

import (
	"github.com/shopspring/decimal"

	"stock_tracker/internal/feature/stocks/domain/entity"
)

const (
	CodeSuccess = "success"
	CodeError   = "error"
)

// CreateStockRequest represents the request body for POST /stock.
type CreateStockRequest struct {
	Symbol string `json:"symbol" binding:"required,max=20"`
}

// MessageResponse is the envelope returned by POST /stock for both success and failure.
type MessageResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DashboardRow is one table row on the dashboard. Unset values render as "-".
type DashboardRow struct {
	Symbol        string
	Price         string
	ForwardPE     string
	ForwardEPS    string
	DividendYield string
	MA50          string
	MA200         string
	Enriched      bool
}

// Placeholder is shown for values no enrichment has written yet.
const Placeholder = "-"

// NewDashboardRow formats a stock for display.
func NewDashboardRow(s entity.Stock) DashboardRow {
	row := DashboardRow{
		Symbol:        s.Symbol,
		Price:         format(s.Price),
		ForwardPE:     format(s.ForwardPE),
		ForwardEPS:    format(s.ForwardEPS),
		DividendYield: format(s.DividendYield),
		MA50:          format(s.MA50),
		MA200:         format(s.MA200),
		Enriched:      s.Enriched(),
	}
	if s.DividendYield.Valid {
		row.DividendYield += "%"
	}
	return row
}

func format(d decimal.NullDecimal) string {
	if !d.Valid {
		return Placeholder
	}
	return d.Decimal.StringFixed(2)
}
