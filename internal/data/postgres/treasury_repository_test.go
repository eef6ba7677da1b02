package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebank-ledger/internal/domain/treasury"
)

func TestTreasuryRepository_EnsureExists(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TreasuryRepository{querier: mock, logger: logger}

	seed := &treasury.Treasury{
		Balance:                  decimal.RequireFromString("10000000.00"),
		TransactionFeePercentage: decimal.RequireFromString("1.00"),
		InterestRate:             decimal.RequireFromString("5.00"),
	}

	query := `
		INSERT INTO bank \(id, balance, transaction_fee_percentage, interest_rate\)
		VALUES \(1, \$1, \$2, \$3\)
		ON CONFLICT \(id\) DO NOTHING
	`

	t.Run("seeds missing row", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(seed.Balance, seed.TransactionFeePercentage, seed.InterestRate).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		assert.NoError(t, repo.EnsureExists(ctx, seed))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("existing row untouched", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(seed.Balance, seed.TransactionFeePercentage, seed.InterestRate).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))

		assert.NoError(t, repo.EnsureExists(ctx, seed))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTreasuryRepository_LockForUpdate(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TreasuryRepository{querier: mock, logger: logger}

	query := `
		SELECT balance, transaction_fee_percentage, interest_rate
		FROM bank
		WHERE id = 1
		FOR UPDATE
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"balance", "transaction_fee_percentage", "interest_rate"}).
			AddRow(decimal.RequireFromString("9999000.00"), decimal.RequireFromString("1.00"), decimal.RequireFromString("5.00"))
		mock.ExpectQuery(query).WillReturnRows(rows)

		treas, err := repo.LockForUpdate(ctx)
		assert.NoError(t, err)
		assert.True(t, treas.Balance.Equal(decimal.RequireFromString("9999000.00")))
		assert.True(t, treas.TransactionFeePercentage.Equal(decimal.RequireFromString("1.00")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectQuery(query).WillReturnError(pgx.ErrNoRows)

		treas, err := repo.LockForUpdate(ctx)
		assert.Nil(t, treas)
		assert.ErrorIs(t, err, treasury.ErrTreasuryMissing)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTreasuryRepository_AddToBalance(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TreasuryRepository{querier: mock, logger: logger}
	delta := decimal.RequireFromString("1.00")

	query := `
		UPDATE bank
		SET balance = balance \+ \$1
		WHERE id = 1
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(delta).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.AddToBalance(ctx, delta))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(delta).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		assert.ErrorIs(t, repo.AddToBalance(ctx, delta), treasury.ErrTreasuryMissing)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("some db error")
		mock.ExpectExec(query).
			WithArgs(delta).
			WillReturnError(dbErr)

		err := repo.AddToBalance(ctx, delta)
		assert.Error(t, err)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
