package engine

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrSameAccountTransfer indicates a transfer naming one account as
// both source and target
var ErrSameAccountTransfer = errors.New("source and target accounts must differ")

// ErrDueDateInPast indicates a loan due date that is not in the future
var ErrDueDateInPast = errors.New("loan due date must be in the future")

// ErrLoanCeilingExceeded indicates a loan request above the bank's
// per-loan ceiling
type ErrLoanCeilingExceeded struct {
	Ceiling decimal.Decimal
}

func (e ErrLoanCeilingExceeded) Error() string {
	return "loan amount exceeds the ceiling of " + e.Ceiling.StringFixed(2)
}

func (e ErrLoanCeilingExceeded) Is(target error) bool {
	_, ok := target.(ErrLoanCeilingExceeded)
	return ok
}
