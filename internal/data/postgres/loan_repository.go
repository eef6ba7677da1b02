package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/corebank-ledger/internal/domain/loan"
	"github.com/corebank-ledger/internal/platform/persistence"
)

// LoanRepository implements the loan.Repository interface for PostgreSQL
type LoanRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewLoanRepository creates a new PostgreSQL loan repository
func NewLoanRepository(logger *slog.Logger, db *persistence.PostgresDB) loan.Repository {
	return &LoanRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction for atomic operations
func (r *LoanRepository) WithTx(tx pgx.Tx) loan.Repository {
	return &LoanRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new loan
func (r *LoanRepository) Create(ctx context.Context, l *loan.Loan) error {
	query := `
		INSERT INTO loans (id, account_id, amount, principal, interest_rate, status, created_at, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.querier.Exec(ctx, query,
		l.ID,
		l.AccountID,
		l.Amount,
		l.Principal,
		l.InterestRate,
		l.Status,
		l.CreatedAt,
		l.DueDate,
	)
	if err != nil {
		r.logger.Error("Failed to create loan", "id", l.ID.String(), "error", err)
		return fmt.Errorf("failed to create loan: %w", err)
	}

	return nil
}

// GetByID retrieves a loan by its ID
func (r *LoanRepository) GetByID(ctx context.Context, id uuid.UUID) (*loan.Loan, error) {
	query := `
		SELECT id, account_id, amount, principal, interest_rate, status, created_at, due_date
		FROM loans
		WHERE id = $1
	`

	l, err := r.scanRow(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, loan.ErrLoanNotFound{LoanID: id}
		}
		r.logger.Error("Failed to get loan", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}

	return l, nil
}

// ListByUser retrieves all loans across the user's accounts, newest first
func (r *LoanRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*loan.Loan, error) {
	query := `
		SELECT l.id, l.account_id, l.amount, l.principal, l.interest_rate, l.status, l.created_at, l.due_date
		FROM loans l
		JOIN accounts a ON a.id = l.account_id
		WHERE a.user_id = $1
		ORDER BY l.created_at DESC
	`

	rows, err := r.querier.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list loans", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var loans []*loan.Loan
	for rows.Next() {
		l, err := r.scanRow(rows)
		if err != nil {
			r.logger.Error("Failed to scan loan", "error", err)
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, l)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over loans", "error", err)
		return nil, fmt.Errorf("error iterating over loans: %w", err)
	}

	return loans, nil
}

// LockForUpdate obtains a pessimistic lock on the loan and returns its
// current state. This must be used within a transaction.
func (r *LoanRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*loan.Loan, error) {
	query := `
		SELECT id, account_id, amount, principal, interest_rate, status, created_at, due_date
		FROM loans
		WHERE id = $1
		FOR UPDATE
	`

	l, err := r.scanRow(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, loan.ErrLoanNotFound{LoanID: id}
		}
		r.logger.Error("Failed to lock loan for update", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to lock loan for update: %w", err)
	}

	return l, nil
}

// Update persists the outstanding amount and status. The caller is expected to
// hold the row lock via LockForUpdate.
func (r *LoanRepository) Update(ctx context.Context, l *loan.Loan) error {
	query := `
		UPDATE loans
		SET amount = $1, status = $2
		WHERE id = $3
	`

	result, err := r.querier.Exec(ctx, query, l.Amount, l.Status, l.ID)
	if err != nil {
		r.logger.Error("Failed to update loan", "id", l.ID.String(), "error", err)
		return fmt.Errorf("failed to update loan: %w", err)
	}

	if result.RowsAffected() == 0 {
		return loan.ErrLoanNotFound{LoanID: l.ID}
	}

	return nil
}

func (r *LoanRepository) scanRow(row pgx.Row) (*loan.Loan, error) {
	var l loan.Loan
	err := row.Scan(
		&l.ID,
		&l.AccountID,
		&l.Amount,
		&l.Principal,
		&l.InterestRate,
		&l.Status,
		&l.CreatedAt,
		&l.DueDate,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
