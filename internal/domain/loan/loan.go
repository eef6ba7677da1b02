package loan

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status defines the lifecycle state of a loan
type Status string

const (
	StatusActive    Status = "active"
	StatusPaid      Status = "paid"
	StatusDefaulted Status = "defaulted"
)

var (
	ErrAlreadyPaid             = errors.New("loan is already paid")
	ErrRepaymentExceedsBalance = errors.New("repayment amount exceeds outstanding loan amount")
)

// Loan represents a loan funded by the treasury. Amount is the
// outstanding balance and decreases on repayment; Principal is the
// amount originally granted. InterestRate is snapshotted from the
// treasury at grant time.
type Loan struct {
	ID           uuid.UUID       `json:"id"`
	AccountID    uuid.UUID       `json:"account_id"`
	Amount       decimal.Decimal `json:"amount"`
	Principal    decimal.Decimal `json:"principal"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	Status       Status          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	DueDate      time.Time       `json:"due_date"`
}

// NewLoan creates an active loan with the full principal outstanding
func NewLoan(accountID uuid.UUID, principal, interestRate decimal.Decimal, dueDate time.Time) *Loan {
	return &Loan{
		ID:           uuid.New(),
		AccountID:    accountID,
		Amount:       principal,
		Principal:    principal,
		InterestRate: interestRate,
		Status:       StatusActive,
		CreatedAt:    time.Now(),
		DueDate:      dueDate,
	}
}

// Repay reduces the outstanding amount. Reaching exactly zero flips the
// status to paid; the caller persists both in the same transaction as
// the balance mutation.
func (l *Loan) Repay(amount decimal.Decimal) error {
	if l.Status == StatusPaid {
		return ErrAlreadyPaid
	}
	if amount.GreaterThan(l.Amount) {
		return ErrRepaymentExceedsBalance
	}

	l.Amount = l.Amount.Sub(amount)
	if l.Amount.IsZero() {
		l.Status = StatusPaid
	}
	return nil
}
