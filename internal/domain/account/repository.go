package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Repository defines account persistence operations
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Account, error)

	// LockForUpdate acquires a row lock for the span of the enclosing
	// transaction and returns the current account state
	LockForUpdate(ctx context.Context, id uuid.UUID) (*Account, error)

	// AddToBalance applies a signed delta to the balance. Callers must
	// hold the row lock via LockForUpdate.
	AddToBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error

	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	WithTx(tx pgx.Tx) Repository
}

// ErrAccountNotFound indicates a missing account, or one the caller
// does not own
type ErrAccountNotFound struct {
	AccountID uuid.UUID
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.AccountID.String()
}

func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	if t.AccountID == uuid.Nil {
		return true
	}
	return e.AccountID == t.AccountID
}

// ErrAccountNotActive indicates the account's lifecycle state blocks
// the requested operation
type ErrAccountNotActive struct {
	AccountID uuid.UUID
	Status    Status
}

func (e ErrAccountNotActive) Error() string {
	return "account " + e.AccountID.String() + " is not active: " + string(e.Status)
}

func (e ErrAccountNotActive) Is(target error) bool {
	t, ok := target.(ErrAccountNotActive)
	if !ok {
		return false
	}
	if t.AccountID == uuid.Nil {
		return true
	}
	return e.AccountID == t.AccountID
}

// ErrInsufficientFunds indicates the balance cannot cover the requested
// debit including fees
type ErrInsufficientFunds struct {
	AccountID uuid.UUID
}

func (e ErrInsufficientFunds) Error() string {
	return "insufficient funds in account: " + e.AccountID.String()
}

func (e ErrInsufficientFunds) Is(target error) bool {
	t, ok := target.(ErrInsufficientFunds)
	if !ok {
		return false
	}
	if t.AccountID == uuid.Nil {
		return true
	}
	return e.AccountID == t.AccountID
}
