package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

type Investment struct {
	ID             int64           `db:"id" json:"id"`
	Date           *time.Time      `db:"date" json:"date"`
	Instrument     string          `db:"instrument" json:"instrument"`
	BuyPrice       decimal.Decimal `db:"buy_price" json:"buy_price"`
	CurrentPrice   decimal.Decimal `db:"current_price" json:"current_price"`
	InstrumentType string          `db:"instrument_type" json:"instrument_type"`
}

// Profit is current_price - buy_price. It is never persisted.
func (i Investment) Profit() decimal.Decimal {
	return i.CurrentPrice.Sub(i.BuyPrice)
}

// DateString formats the purchase date, or "" when the row has none.
func (i Investment) DateString() string {
	if i.Date == nil {
		return ""
	}
	return i.Date.Format(DateLayout)
}

// InvestmentInput holds the user-editable fields shared by create and update.
type InvestmentInput struct {
	Date           time.Time
	Instrument     string
	BuyPrice       decimal.Decimal
	CurrentPrice   decimal.Decimal
	InstrumentType string
}
