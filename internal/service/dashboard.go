package service

import (
	"context"

	"investdash/internal/models"

	"github.com/sirupsen/logrus"
)

type InvestmentReader interface {
	ListInvestments(ctx context.Context) ([]models.Investment, error)
}

// View is everything the dashboard page renders for one request.
type View struct {
	Investments   []models.Investment
	MonthlyTotals []MonthTotal
	TopProfitable []ProfitRow
}

type Dashboard struct {
	repo InvestmentReader
	topK int
	log  *logrus.Logger
}

func NewDashboard(r InvestmentReader, topK int, log *logrus.Logger) *Dashboard {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Dashboard{repo: r, topK: topK, log: log}
}

// Build reads the whole table and derives both chart datasets from it.
func (d *Dashboard) Build(ctx context.Context) (View, error) {
	records, err := d.repo.ListInvestments(ctx)
	if err != nil {
		return View{}, err
	}
	v := View{
		Investments:   records,
		MonthlyTotals: MonthWiseTotals(records),
		TopProfitable: TopProfitable(records, d.topK),
	}
	d.log.Debugf("dashboard built: %d investments, %d months", len(records), len(v.MonthlyTotals))
	return v, nil
}

func (d *Dashboard) TopK() int {
	return d.topK
}
