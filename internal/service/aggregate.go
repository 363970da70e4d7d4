package service

import (
	"sort"
	"time"

	"investdash/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultTopK is how many rows the profit chart shows.
const DefaultTopK = 10

type MonthTotal struct {
	Month    time.Time       `json:"-"`
	Label    string          `json:"month"`
	BuyTotal decimal.Decimal `json:"total_buy_price"`
}

type ProfitRow struct {
	models.Investment
	Profit decimal.Decimal `json:"profit"`
}

// MonthWiseTotals sums buy_price per calendar month, oldest month first.
// Rows without a date are left out.
func MonthWiseTotals(records []models.Investment) []MonthTotal {
	totals := map[time.Time]decimal.Decimal{}
	for _, r := range records {
		if r.Date == nil {
			continue
		}
		m := time.Date(r.Date.Year(), r.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		totals[m] = totals[m].Add(r.BuyPrice)
	}
	res := make([]MonthTotal, 0, len(totals))
	for m, total := range totals {
		res = append(res, MonthTotal{Month: m, Label: m.Format(models.MonthLayout), BuyTotal: total})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Month.Before(res[j].Month) })
	return res
}

// TopProfitable ranks records by profit, highest first, and keeps at most k.
// Equal profits keep their input order.
func TopProfitable(records []models.Investment, k int) []ProfitRow {
	if k <= 0 {
		return []ProfitRow{}
	}
	rows := make([]ProfitRow, len(records))
	for i, r := range records {
		rows[i] = ProfitRow{Investment: r, Profit: r.Profit()}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Profit.GreaterThan(rows[j].Profit) })
	if len(rows) > k {
		rows = rows[:k]
	}
	return rows
}
