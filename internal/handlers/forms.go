package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"investdash/internal/models"

	"github.com/shopspring/decimal"
)

// investmentForm is the HTML form payload. Fields stay strings so a rejected
// submission can be echoed back into the form unchanged.
type investmentForm struct {
	ID             string `form:"id"`
	Date           string `form:"date"`
	Instrument     string `form:"instrument"`
	BuyPrice       string `form:"buy_price"`
	CurrentPrice   string `form:"current_price"`
	InstrumentType string `form:"instrument_type"`
}

func (f investmentForm) toInput() (models.InvestmentInput, error) {
	d, err := parseDate(f.Date)
	if err != nil {
		return models.InvestmentInput{}, err
	}
	buy, err := parsePrice("buy price", f.BuyPrice)
	if err != nil {
		return models.InvestmentInput{}, err
	}
	cur, err := parsePrice("current price", f.CurrentPrice)
	if err != nil {
		return models.InvestmentInput{}, err
	}
	return models.InvestmentInput{
		Date:           d,
		Instrument:     strings.TrimSpace(f.Instrument),
		BuyPrice:       buy,
		CurrentPrice:   cur,
		InstrumentType: strings.TrimSpace(f.InstrumentType),
	}, nil
}

func formFromInvestment(inv models.Investment) investmentForm {
	return investmentForm{
		Date:           inv.DateString(),
		Instrument:     inv.Instrument,
		BuyPrice:       inv.BuyPrice.String(),
		CurrentPrice:   inv.CurrentPrice.String(),
		InstrumentType: inv.InstrumentType,
	}
}

type investmentRequest struct {
	Date           string          `json:"date" binding:"required"`
	Instrument     string          `json:"instrument"`
	BuyPrice       decimal.Decimal `json:"buy_price"`
	CurrentPrice   decimal.Decimal `json:"current_price"`
	InstrumentType string          `json:"instrument_type"`
}

func (r investmentRequest) toInput() (models.InvestmentInput, error) {
	d, err := parseDate(r.Date)
	if err != nil {
		return models.InvestmentInput{}, err
	}
	if r.BuyPrice.IsNegative() {
		return models.InvestmentInput{}, errors.New("buy price must not be negative")
	}
	if r.CurrentPrice.IsNegative() {
		return models.InvestmentInput{}, errors.New("current price must not be negative")
	}
	return models.InvestmentInput{
		Date:           d,
		Instrument:     strings.TrimSpace(r.Instrument),
		BuyPrice:       r.BuyPrice,
		CurrentPrice:   r.CurrentPrice,
		InstrumentType: strings.TrimSpace(r.InstrumentType),
	}, nil
}

type investmentResponse struct {
	ID             int64  `json:"id"`
	Date           string `json:"date"`
	Instrument     string `json:"instrument"`
	BuyPrice       string `json:"buy_price"`
	CurrentPrice   string `json:"current_price"`
	InstrumentType string `json:"instrument_type"`
}

type profitResponse struct {
	investmentResponse
	Profit string `json:"profit"`
}

func toResponse(inv models.Investment) investmentResponse {
	return investmentResponse{
		ID:             inv.ID,
		Date:           inv.DateString(),
		Instrument:     inv.Instrument,
		BuyPrice:       inv.BuyPrice.String(),
		CurrentPrice:   inv.CurrentPrice.String(),
		InstrumentType: inv.InstrumentType,
	}
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("date is required")
	}
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

// parsePrice treats an empty field as zero, the way a blank number input submits.
func parsePrice(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	p, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s format", field)
	}
	if p.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", field)
	}
	return p, nil
}
