package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"investdash/internal/config"
	"investdash/internal/database"
	"investdash/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func main() {
	godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	if err := database.RunMigrations(cfg.DSN()); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer db.Close()

	r := database.New(db, logrus.New())
	ctx := context.Background()

	// A year of monthly purchases across a few instruments.
	samples := []struct {
		instrument, kind string
		buy, current     string
	}{
		{"AAPL", "stock", "150.25", "189.10"},
		{"MSFT", "stock", "310.00", "298.40"},
		{"VWCE", "etf", "98.60", "112.35"},
		{"GOLD", "commodity", "1890.00", "2015.50"},
		{"BTC", "crypto", "26500.00", "61200.00"},
		{"TLT", "bond", "101.20", "92.80"},
	}
	start := time.Now().UTC().AddDate(-1, 0, 0)
	n := 0
	for i := 0; i < 12; i++ {
		s := samples[i%len(samples)]
		in := models.InvestmentInput{
			Date:           time.Date(start.Year(), start.Month()+time.Month(i), 15, 0, 0, 0, 0, time.UTC),
			Instrument:     s.instrument,
			BuyPrice:       decimal.RequireFromString(s.buy),
			CurrentPrice:   decimal.RequireFromString(s.current),
			InstrumentType: s.kind,
		}
		id, err := r.CreateInvestment(ctx, in)
		if err != nil {
			fmt.Printf("Warning: could not insert %s: %v\n", s.instrument, err)
			continue
		}
		fmt.Printf("Inserted %s (%s) as id %d\n", s.instrument, in.Date.Format(models.DateLayout), id)
		n++
	}

	fmt.Printf("Seeded %d investments.\n", n)
}
