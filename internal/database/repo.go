package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"investdash/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("investment not found")

const investmentColumns = `id, date, instrument, buy_price, current_price, instrument_type`

type Repo struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func New(db *sqlx.DB, log *logrus.Logger) *Repo {
	return &Repo{db: db, log: log}
}

// CreateInvestment inserts one row and returns the id assigned by the table.
func (r *Repo) CreateInvestment(ctx context.Context, in models.InvestmentInput) (int64, error) {
	var id int64
	q := `INSERT INTO investments (date, instrument, buy_price, current_price, instrument_type) VALUES ($1::date, $2, $3::numeric, $4::numeric, $5) RETURNING id`
	if err := r.db.QueryRowContext(ctx, q, in.Date.Format(models.DateLayout), in.Instrument, in.BuyPrice.String(), in.CurrentPrice.String(), in.InstrumentType).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert investment: %w", err)
	}
	return id, nil
}

// ListInvestments returns every stored row ordered by id.
func (r *Repo) ListInvestments(ctx context.Context) ([]models.Investment, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT `+investmentColumns+` FROM investments ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	defer rows.Close()
	res := []models.Investment{}
	for rows.Next() {
		var m models.Investment
		if err := rows.StructScan(&m); err != nil {
			return nil, fmt.Errorf("scan investment: %w", err)
		}
		res = append(res, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	return res, nil
}

func (r *Repo) GetInvestment(ctx context.Context, id int64) (models.Investment, error) {
	var m models.Investment
	err := r.db.GetContext(ctx, &m, `SELECT `+investmentColumns+` FROM investments WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Investment{}, ErrNotFound
	}
	if err != nil {
		return models.Investment{}, fmt.Errorf("get investment %d: %w", id, err)
	}
	return m, nil
}

// UpdateInvestment overwrites every field of the row with the given id.
// An unknown id leaves the table untouched and is not an error.
func (r *Repo) UpdateInvestment(ctx context.Context, id int64, in models.InvestmentInput) error {
	q := `UPDATE investments SET date = $1::date, instrument = $2, buy_price = $3::numeric, current_price = $4::numeric, instrument_type = $5 WHERE id = $6`
	res, err := r.db.ExecContext(ctx, q, in.Date.Format(models.DateLayout), in.Instrument, in.BuyPrice.String(), in.CurrentPrice.String(), in.InstrumentType, id)
	if err != nil {
		return fmt.Errorf("update investment %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		r.log.Debugf("update investment %d: no such row", id)
	}
	return nil
}

// DeleteInvestment removes the row with the given id; unknown ids are a no-op.
func (r *Repo) DeleteInvestment(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM investments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete investment %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		r.log.Debugf("delete investment %d: no such row", id)
	}
	return nil
}
