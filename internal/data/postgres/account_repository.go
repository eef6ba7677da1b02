// Package postgres provides PostgreSQL implementations of the domain repositories.
// It handles all database operations while maintaining transaction safety and
// proper error handling for the core bank ledger.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/corebank-ledger/internal/domain/account"
	"github.com/corebank-ledger/internal/platform/persistence"
)

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic operations
// across multiple repository calls. The returned repository will use the provided
// transaction for all database operations.
func (r *AccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new account in the database
func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (id, user_id, account_number, balance, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.querier.Exec(ctx, query,
		acc.ID,
		acc.UserID,
		acc.AccountNumber,
		acc.Balance,
		acc.Status,
		acc.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create account", "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `
		SELECT id, user_id, account_number, balance, status, created_at
		FROM accounts
		WHERE id = $1
	`

	var acc account.Account
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&acc.ID,
		&acc.UserID,
		&acc.AccountNumber,
		&acc.Balance,
		&acc.Status,
		&acc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to get account", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &acc, nil
}

// ListByUser retrieves all accounts owned by a user, oldest first
func (r *AccountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	query := `
		SELECT id, user_id, account_number, balance, status, created_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.querier.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list accounts", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		var acc account.Account
		err := rows.Scan(
			&acc.ID,
			&acc.UserID,
			&acc.AccountNumber,
			&acc.Balance,
			&acc.Status,
			&acc.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan account", "error", err)
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &acc)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over accounts", "error", err)
		return nil, fmt.Errorf("error iterating over accounts: %w", err)
	}

	return accounts, nil
}

// LockForUpdate obtains a pessimistic lock on the account and returns its current state.
// This must be used within a transaction when strong consistency is required.
func (r *AccountRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `
		SELECT id, user_id, account_number, balance, status, created_at
		FROM accounts
		WHERE id = $1
		FOR UPDATE
	`

	var acc account.Account
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&acc.ID,
		&acc.UserID,
		&acc.AccountNumber,
		&acc.Balance,
		&acc.Status,
		&acc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to lock account for update", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to lock account for update: %w", err)
	}

	return &acc, nil
}

// AddToBalance applies a signed delta to the account balance. The caller is
// expected to hold the row lock, so this never races a concurrent writer.
func (r *AccountRepository) AddToBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = balance + $1
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, delta, id)
	if err != nil {
		r.logger.Error("Failed to update account balance", "id", id.String(), "error", err)
		return fmt.Errorf("failed to update account balance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound{AccountID: id}
	}

	return nil
}

// UpdateStatus persists a lifecycle status change
func (r *AccountRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status account.Status) error {
	query := `
		UPDATE accounts
		SET status = $1
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to update account status", "id", id.String(), "error", err)
		return fmt.Errorf("failed to update account status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound{AccountID: id}
	}

	return nil
}
