package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository manages the append-only transaction ledger. There are no
// update or delete operations: the ledger is the audit trail.
type Repository interface {
	Create(ctx context.Context, tx *Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// ListByUser returns transactions across all of the user's accounts,
	// most recent first
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Transaction, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// ListByAccount returns transactions for one account owned by the
	// user, most recent first
	ListByAccount(ctx context.Context, userID, accountID uuid.UUID, limit, offset int) ([]*Transaction, error)
	CountByAccount(ctx context.Context, userID, accountID uuid.UUID) (int64, error)

	WithTx(tx pgx.Tx) Repository
}

// ErrTransactionNotFound indicates a missing ledger record
type ErrTransactionNotFound struct {
	TransactionID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + e.TransactionID.String()
}

func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}
