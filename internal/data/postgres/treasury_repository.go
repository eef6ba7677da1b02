package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/corebank-ledger/internal/domain/treasury"
	"github.com/corebank-ledger/internal/platform/persistence"
)

// TreasuryRepository implements the treasury.Repository interface for PostgreSQL.
// The bank table holds exactly one row, enforced at the schema level.
type TreasuryRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewTreasuryRepository creates a new PostgreSQL treasury repository
func NewTreasuryRepository(logger *slog.Logger, db *persistence.PostgresDB) treasury.Repository {
	return &TreasuryRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction for atomic operations
func (r *TreasuryRepository) WithTx(tx pgx.Tx) treasury.Repository {
	return &TreasuryRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// EnsureExists seeds the singleton bank row if it is missing. Safe to call
// on every startup; an existing row is left untouched.
func (r *TreasuryRepository) EnsureExists(ctx context.Context, t *treasury.Treasury) error {
	query := `
		INSERT INTO bank (id, balance, transaction_fee_percentage, interest_rate)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.querier.Exec(ctx, query,
		t.Balance,
		t.TransactionFeePercentage,
		t.InterestRate,
	)
	if err != nil {
		r.logger.Error("Failed to seed bank treasury", "error", err)
		return fmt.Errorf("failed to seed bank treasury: %w", err)
	}

	return nil
}

// Get retrieves the current treasury state
func (r *TreasuryRepository) Get(ctx context.Context) (*treasury.Treasury, error) {
	query := `
		SELECT balance, transaction_fee_percentage, interest_rate
		FROM bank
		WHERE id = 1
	`

	t, err := r.scanRow(r.querier.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, treasury.ErrTreasuryMissing
		}
		r.logger.Error("Failed to get bank treasury", "error", err)
		return nil, fmt.Errorf("failed to get bank treasury: %w", err)
	}

	return t, nil
}

// LockForUpdate obtains a pessimistic lock on the bank row and returns its
// current state. This must be used within a transaction.
func (r *TreasuryRepository) LockForUpdate(ctx context.Context) (*treasury.Treasury, error) {
	query := `
		SELECT balance, transaction_fee_percentage, interest_rate
		FROM bank
		WHERE id = 1
		FOR UPDATE
	`

	t, err := r.scanRow(r.querier.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, treasury.ErrTreasuryMissing
		}
		r.logger.Error("Failed to lock bank treasury", "error", err)
		return nil, fmt.Errorf("failed to lock bank treasury: %w", err)
	}

	return t, nil
}

// AddToBalance applies a signed delta to the treasury balance
func (r *TreasuryRepository) AddToBalance(ctx context.Context, delta decimal.Decimal) error {
	query := `
		UPDATE bank
		SET balance = balance + $1
		WHERE id = 1
	`

	result, err := r.querier.Exec(ctx, query, delta)
	if err != nil {
		r.logger.Error("Failed to update treasury balance", "error", err)
		return fmt.Errorf("failed to update treasury balance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return treasury.ErrTreasuryMissing
	}

	return nil
}

func (r *TreasuryRepository) scanRow(row pgx.Row) (*treasury.Treasury, error) {
	var t treasury.Treasury
	err := row.Scan(
		&t.Balance,
		&t.TransactionFeePercentage,
		&t.InterestRate,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
