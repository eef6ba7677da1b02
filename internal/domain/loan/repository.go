package loan

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines loan persistence operations
type Repository interface {
	Create(ctx context.Context, loan *Loan) error
	GetByID(ctx context.Context, id uuid.UUID) (*Loan, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Loan, error)

	// LockForUpdate acquires a row lock for the span of the enclosing
	// transaction and returns the current loan state
	LockForUpdate(ctx context.Context, id uuid.UUID) (*Loan, error)

	// Update persists the outstanding amount and status. Callers must
	// hold the row lock via LockForUpdate.
	Update(ctx context.Context, loan *Loan) error

	WithTx(tx pgx.Tx) Repository
}

// ErrLoanNotFound indicates a missing loan, or one the caller does not
// own
type ErrLoanNotFound struct {
	LoanID uuid.UUID
}

func (e ErrLoanNotFound) Error() string {
	return "loan not found: " + e.LoanID.String()
}

func (e ErrLoanNotFound) Is(target error) bool {
	t, ok := target.(ErrLoanNotFound)
	if !ok {
		return false
	}
	if t.LoanID == uuid.Nil {
		return true
	}
	return e.LoanID == t.LoanID
}
