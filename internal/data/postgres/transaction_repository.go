package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/corebank-ledger/internal/domain/ledger"
	"github.com/corebank-ledger/internal/platform/persistence"
)

// TransactionRepository implements the ledger.Repository interface for PostgreSQL.
// The transactions table is append-only; this repository exposes no update or
// delete operations.
type TransactionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL ledger repository
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so ledger rows commit
// atomically with the balance mutations they describe
func (r *TransactionRepository) WithTx(tx pgx.Tx) ledger.Repository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create appends an immutable ledger record
func (r *TransactionRepository) Create(ctx context.Context, tx *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (id, account_id, type, amount, fee, currency, source_account_id, target_account_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.querier.Exec(ctx, query,
		tx.ID,
		tx.AccountID,
		tx.Type,
		tx.Amount,
		tx.Fee,
		tx.Currency,
		tx.SourceAccountID,
		tx.TargetAccountID,
		tx.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create transaction", "id", tx.ID.String(), "error", err)
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a single ledger record
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	query := `
		SELECT id, account_id, type, amount, fee, currency, source_account_id, target_account_id, created_at
		FROM transactions
		WHERE id = $1
	`

	tx, err := r.scanRow(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrTransactionNotFound{TransactionID: id}
		}
		r.logger.Error("Failed to get transaction", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return tx, nil
}

// ListByUser retrieves paginated transactions across all of the user's
// accounts, newest first
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*ledger.Transaction, error) {
	query := `
		SELECT t.id, t.account_id, t.type, t.amount, t.fee, t.currency, t.source_account_id, t.target_account_id, t.created_at
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = $1
		ORDER BY t.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list transactions", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// CountByUser counts all transactions across the user's accounts
func (r *TransactionRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = $1
	`

	var count int64
	if err := r.querier.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.logger.Error("Failed to count transactions", "user_id", userID.String(), "error", err)
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	return count, nil
}

// ListByAccount retrieves paginated transactions for one account owned by the
// user, newest first. The ownership join keeps one user from reading another's
// history.
func (r *TransactionRepository) ListByAccount(ctx context.Context, userID, accountID uuid.UUID, limit, offset int) ([]*ledger.Transaction, error) {
	query := `
		SELECT t.id, t.account_id, t.type, t.amount, t.fee, t.currency, t.source_account_id, t.target_account_id, t.created_at
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = $1 AND t.account_id = $2
		ORDER BY t.created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.querier.Query(ctx, query, userID, accountID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list transactions", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// CountByAccount counts transactions for one account owned by the user
func (r *TransactionRepository) CountByAccount(ctx context.Context, userID, accountID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = $1 AND t.account_id = $2
	`

	var count int64
	if err := r.querier.QueryRow(ctx, query, userID, accountID).Scan(&count); err != nil {
		r.logger.Error("Failed to count transactions", "account_id", accountID.String(), "error", err)
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	return count, nil
}

func (r *TransactionRepository) scanRow(row pgx.Row) (*ledger.Transaction, error) {
	var tx ledger.Transaction
	err := row.Scan(
		&tx.ID,
		&tx.AccountID,
		&tx.Type,
		&tx.Amount,
		&tx.Fee,
		&tx.Currency,
		&tx.SourceAccountID,
		&tx.TargetAccountID,
		&tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *TransactionRepository) collect(rows pgx.Rows) ([]*ledger.Transaction, error) {
	var transactions []*ledger.Transaction
	for rows.Next() {
		tx, err := r.scanRow(rows)
		if err != nil {
			r.logger.Error("Failed to scan transaction", "error", err)
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over transactions", "error", err)
		return nil, fmt.Errorf("error iterating over transactions: %w", err)
	}

	return transactions, nil
}
