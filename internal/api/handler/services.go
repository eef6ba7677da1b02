package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebank-ledger/internal/domain/account"
	"github.com/corebank-ledger/internal/domain/currency"
	"github.com/corebank-ledger/internal/domain/ledger"
	"github.com/corebank-ledger/internal/domain/loan"
	"github.com/corebank-ledger/internal/engine"
	"github.com/corebank-ledger/internal/history"
)

// AccountService drives the account lifecycle
type AccountService interface {
	Open(ctx context.Context, userID uuid.UUID) (*account.Account, error)
	Get(ctx context.Context, userID, accountID uuid.UUID) (*account.Account, error)
	List(ctx context.Context, userID uuid.UUID) ([]*account.Account, error)
	Suspend(ctx context.Context, userID, accountID uuid.UUID) (*account.Account, error)
	Activate(ctx context.Context, userID, accountID uuid.UUID) (*account.Account, error)
	Close(ctx context.Context, userID, accountID uuid.UUID) (*account.Account, error)
}

// OperationService executes monetary operations
type OperationService interface {
	Deposit(ctx context.Context, userID, accountID uuid.UUID, amount decimal.Decimal, currencyCode string) (*engine.OperationResult, error)
	Withdraw(ctx context.Context, userID, accountID uuid.UUID, amount decimal.Decimal, currencyCode string) (*engine.OperationResult, error)
	Transfer(ctx context.Context, userID, sourceID, targetID uuid.UUID, amount decimal.Decimal, currencyCode string) (*engine.TransferResult, error)
	Balance(ctx context.Context, userID, accountID uuid.UUID) (decimal.Decimal, error)
}

// LoanService grants and collects loans against the treasury
type LoanService interface {
	GrantLoan(ctx context.Context, userID, accountID uuid.UUID, amount decimal.Decimal, dueDate time.Time) (*engine.LoanResult, error)
	RepayLoan(ctx context.Context, userID, loanID uuid.UUID, amount decimal.Decimal) (*engine.RepaymentResult, error)
	ListLoans(ctx context.Context, userID uuid.UUID) ([]*loan.Loan, error)
}

// HistoryService serves the read-only transaction history
type HistoryService interface {
	List(ctx context.Context, userID uuid.UUID, accountID *uuid.UUID, page, perPage int) (*history.Page, error)
	Get(ctx context.Context, userID, transactionID uuid.UUID) (*ledger.Transaction, error)
}

// CurrencyService exposes the supported foreign currencies
type CurrencyService interface {
	List(ctx context.Context) ([]*currency.ForeignCurrency, error)
}
