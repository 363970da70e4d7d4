package database

import (
	"context"
	"errors"
	"io"
	"os"
	"regexp"
	"testing"
	"time"

	"investdash/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newMockRepo(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return New(sqlx.NewDb(mockDB, "postgres"), quietLogger()), mock
}

func input(date, instrument, buy, current, typ string) models.InvestmentInput {
	d, _ := time.Parse(models.DateLayout, date)
	return models.InvestmentInput{
		Date:           d,
		Instrument:     instrument,
		BuyPrice:       decimal.RequireFromString(buy),
		CurrentPrice:   decimal.RequireFromString(current),
		InstrumentType: typ,
	}
}

func TestCreateInvestment_ReturnsAssignedID(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO investments (date, instrument, buy_price, current_price, instrument_type)`)).
		WithArgs("2024-01-05", "AAPL", "100", "150", "stock").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := r.CreateInvestment(context.Background(), input("2024-01-05", "AAPL", "100", "150", "stock"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvestment_ConnectivityErrorPropagates(t *testing.T) {
	r, mock := newMockRepo(t)
	boom := errors.New("connection refused")

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO investments`)).WillReturnError(boom)

	_, err := r.CreateInvestment(context.Background(), input("2024-01-05", "AAPL", "100", "150", "stock"))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestListInvestments_OrderedByIDWithNullDates(t *testing.T) {
	r, mock := newMockRepo(t)
	jan5 := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "date", "instrument", "buy_price", "current_price", "instrument_type"}).
		AddRow(int64(1), jan5, "AAPL", "100.0000", "150.0000", "stock").
		AddRow(int64(2), nil, "GOLD", "50.5000", "49.0000", "commodity")
	mock.ExpectQuery(regexp.QuoteMeta(`FROM investments ORDER BY id ASC`)).WillReturnRows(rows)

	got, err := r.ListInvestments(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(1), got[0].ID)
	require.NotNil(t, got[0].Date)
	assert.Equal(t, "2024-01-05", got[0].DateString())
	assert.True(t, got[0].BuyPrice.Equal(decimal.NewFromInt(100)))
	assert.True(t, got[0].Profit().Equal(decimal.NewFromInt(50)))

	assert.Nil(t, got[1].Date)
	assert.Equal(t, "", got[1].DateString())
	assert.Equal(t, "commodity", got[1].InstrumentType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetInvestment_NotFound(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM investments WHERE id = $1`)).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "date", "instrument", "buy_price", "current_price", "instrument_type"}))

	_, err := r.GetInvestment(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateInvestment_UnknownIDIsNoop(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE investments SET`)).
		WithArgs("2024-02-01", "MSFT", "200", "180", "stock", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := r.UpdateInvestment(context.Background(), 99, input("2024-02-01", "MSFT", "200", "180", "stock"))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateInvestment_OverwritesMatchingRow(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE investments SET date = $1::date, instrument = $2, buy_price = $3::numeric, current_price = $4::numeric, instrument_type = $5 WHERE id = $6`)).
		WithArgs("2024-03-01", "AAPL", "110.5", "120", "etf", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := r.UpdateInvestment(context.Background(), 1, input("2024-03-01", "AAPL", "110.5", "120", "etf"))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvestment_SendsPricesUnrounded(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO investments`)).
		WithArgs("2024-01-05", "SHIB", "0.000012", "100000000000000000000", "crypto").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	_, err := r.CreateInvestment(context.Background(), input("2024-01-05", "SHIB", "0.000012", "1e20", "crypto"))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteInvestment(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM investments WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM investments WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, r.DeleteInvestment(context.Background(), 3))
	require.NoError(t, r.DeleteInvestment(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func setupDB(t *testing.T) *sqlx.DB {
	url := os.Getenv("POSTGRES_URL")
	if url == "" {
		t.Skip("POSTGRES_URL is not set; skipping integration tests")
	}
	if err := RunMigrations(url); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	db, err := sqlx.Open("postgres", url)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRepo_CRUDRoundTrip(t *testing.T) {
	db := setupDB(t)
	r := New(db, quietLogger())
	ctx := context.Background()

	const prefix = "it-crud-"
	_, _ = db.ExecContext(ctx, `DELETE FROM investments WHERE instrument LIKE $1`, prefix+"%")

	idA, err := r.CreateInvestment(ctx, input("2024-01-05", prefix+"AAPL", "100", "150", "stock"))
	require.NoError(t, err)
	idB, err := r.CreateInvestment(ctx, input("2024-01-20", prefix+"MSFT", "200", "180", "stock"))
	require.NoError(t, err)
	assert.NotEqual(t, idA, idB)

	got, err := r.GetInvestment(ctx, idA)
	require.NoError(t, err)
	assert.Equal(t, prefix+"AAPL", got.Instrument)
	assert.Equal(t, "2024-01-05", got.DateString())
	assert.True(t, got.CurrentPrice.Equal(decimal.NewFromInt(150)))

	require.NoError(t, r.UpdateInvestment(ctx, idA, input("2024-03-01", prefix+"AAPL2", "110", "120", "etf")))
	got, err = r.GetInvestment(ctx, idA)
	require.NoError(t, err)
	assert.Equal(t, prefix+"AAPL2", got.Instrument)
	assert.Equal(t, "etf", got.InstrumentType)
	assert.Equal(t, "2024-03-01", got.DateString())

	other, err := r.GetInvestment(ctx, idB)
	require.NoError(t, err)
	assert.Equal(t, prefix+"MSFT", other.Instrument)

	before, err := r.ListInvestments(ctx)
	require.NoError(t, err)
	require.NoError(t, r.DeleteInvestment(ctx, idA))
	after, err := r.ListInvestments(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before)-1)
	for _, inv := range after {
		assert.NotEqual(t, idA, inv.ID)
	}

	require.NoError(t, r.DeleteInvestment(ctx, idA))
	again, err := r.ListInvestments(ctx)
	require.NoError(t, err)
	assert.Equal(t, after, again)

	_, _ = db.ExecContext(ctx, `DELETE FROM investments WHERE instrument LIKE $1`, prefix+"%")
}

func TestRepo_PricesRoundTripExactly(t *testing.T) {
	db := setupDB(t)
	r := New(db, quietLogger())
	ctx := context.Background()

	const prefix = "it-precision-"
	_, _ = db.ExecContext(ctx, `DELETE FROM investments WHERE instrument LIKE $1`, prefix+"%")
	defer db.ExecContext(ctx, `DELETE FROM investments WHERE instrument LIKE $1`, prefix+"%")

	id, err := r.CreateInvestment(ctx, input("2024-01-05", prefix+"SHIB", "0.000012", "123456789012345678901.5", "crypto"))
	require.NoError(t, err)

	got, err := r.GetInvestment(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.BuyPrice.Equal(decimal.RequireFromString("0.000012")), "buy price %s", got.BuyPrice)
	assert.True(t, got.CurrentPrice.Equal(decimal.RequireFromString("123456789012345678901.5")), "current price %s", got.CurrentPrice)
}
