package treasury

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Repository manages the singleton treasury row. Every accessor fails
// with ErrTreasuryMissing when the row has not been provisioned rather
// than silently taking "the first" row.
type Repository interface {
	// EnsureExists provisions the singleton row at bootstrap. It is a
	// no-op when the row already exists and never creates a second one.
	EnsureExists(ctx context.Context, initial *Treasury) error

	Get(ctx context.Context) (*Treasury, error)

	// LockForUpdate acquires the treasury row lock for the span of the
	// enclosing transaction. The treasury is the highest-contention row
	// in the system; callers keep the transaction short.
	LockForUpdate(ctx context.Context) (*Treasury, error)

	// AddToBalance applies a signed delta to the treasury balance.
	// Callers must hold the row lock via LockForUpdate.
	AddToBalance(ctx context.Context, delta decimal.Decimal) error

	WithTx(tx pgx.Tx) Repository
}
