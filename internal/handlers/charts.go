package handlers

import (
	"investdash/internal/service"

	"github.com/shopspring/decimal"
)

const maxBarWidth = 400

type bar struct {
	Label    string
	Value    string
	Width    int64
	Negative bool
}

func monthlyBars(totals []service.MonthTotal) []bar {
	values := make([]decimal.Decimal, len(totals))
	labels := make([]string, len(totals))
	for i, t := range totals {
		values[i] = t.BuyTotal
		labels[i] = t.Label
	}
	return scaleBars(labels, values)
}

func profitBars(rows []service.ProfitRow) []bar {
	values := make([]decimal.Decimal, len(rows))
	labels := make([]string, len(rows))
	for i, r := range rows {
		values[i] = r.Profit
		labels[i] = r.Instrument
	}
	return scaleBars(labels, values)
}

// scaleBars sizes each bar against the largest absolute value in the set.
func scaleBars(labels []string, values []decimal.Decimal) []bar {
	peak := decimal.Zero
	for _, v := range values {
		if v.Abs().GreaterThan(peak) {
			peak = v.Abs()
		}
	}
	res := make([]bar, len(values))
	for i, v := range values {
		b := bar{Label: labels[i], Value: v.StringFixed(2), Negative: v.IsNegative()}
		if !peak.IsZero() {
			b.Width = v.Abs().Mul(decimal.NewFromInt(maxBarWidth)).Div(peak).IntPart()
			if b.Width == 0 && !v.IsZero() {
				b.Width = 1
			}
		}
		res[i] = b
	}
	return res
}
