package account

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status defines the lifecycle state of an account
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusClosed    Status = "closed"
)

// Common errors
var (
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrNegativeBalance = errors.New("account cannot be closed with a negative balance")
)

// ErrInvalidTransition indicates a disallowed lifecycle status change
type ErrInvalidTransition struct {
	From Status
	To   Status
}

func (e ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// Account represents a bank account. The balance is always held in the
// treasury's base currency.
type Account struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	AccountNumber string          `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewAccount creates an active account with a zero balance and a
// generated account number.
func NewAccount(userID uuid.UUID) (*Account, error) {
	number, err := generateAccountNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to generate account number: %w", err)
	}

	return &Account{
		ID:            uuid.New(),
		UserID:        userID,
		AccountNumber: number,
		Balance:       decimal.Zero,
		Status:        StatusActive,
		CreatedAt:     time.Now(),
	}, nil
}

// CanOperate reports whether monetary operations may target the account.
// Only active accounts can move money.
func (a *Account) CanOperate() bool {
	return a.Status == StatusActive
}

// Suspend blocks all monetary operations on the account.
// Closed and already-suspended accounts cannot be suspended.
func (a *Account) Suspend() error {
	if a.Status != StatusActive {
		return ErrInvalidTransition{From: a.Status, To: StatusSuspended}
	}
	a.Status = StatusSuspended
	return nil
}

// Activate reinstates a suspended account. Only suspended accounts can
// be activated.
func (a *Account) Activate() error {
	if a.Status != StatusSuspended {
		return ErrInvalidTransition{From: a.Status, To: StatusActive}
	}
	a.Status = StatusActive
	return nil
}

// Close permanently locks the account. The row is kept so transaction
// history stays intact; closing requires a non-negative balance and is
// terminal.
func (a *Account) Close() error {
	if a.Status == StatusClosed {
		return ErrInvalidTransition{From: a.Status, To: StatusClosed}
	}
	if a.Balance.IsNegative() {
		return ErrNegativeBalance
	}
	a.Status = StatusClosed
	return nil
}

// Credit adds the amount to the account balance
func (a *Account) Credit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}

// Debit removes the amount from the account balance, refusing to
// overdraw.
func (a *Account) Debit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if a.Balance.LessThan(amount) {
		return ErrInsufficientFunds{AccountID: a.ID}
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// generateAccountNumber produces a random 12-digit account number
func generateAccountNumber() (string, error) {
	limit := big.NewInt(0).Exp(big.NewInt(10), big.NewInt(12), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%012d", n), nil
}
