package handler

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebank-ledger/internal/domain/account"
	"github.com/corebank-ledger/internal/domain/currency"
	"github.com/corebank-ledger/internal/domain/ledger"
	"github.com/corebank-ledger/internal/domain/loan"
)

// AmountRequest carries a monetary amount as a decimal string, with an
// optional currency code for conversion into the base currency
type AmountRequest struct {
	Amount   string `json:"amount" binding:"required"`
	Currency string `json:"currency"`
}

// TransferRequest moves money from the path account to the target
type TransferRequest struct {
	AmountRequest
	TargetAccountID string `json:"target_account_id" binding:"required,uuid"`
}

// GrantLoanRequest asks the treasury to fund a loan. DueDate is
// optional RFC 3339; when omitted the bank's default term applies.
type GrantLoanRequest struct {
	AccountID string `json:"account_id" binding:"required,uuid"`
	Amount    string `json:"amount" binding:"required"`
	DueDate   string `json:"due_date" binding:"omitempty"`
}

// RepayLoanRequest pays down an outstanding loan
type RepayLoanRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// parseAmount validates a monetary amount string: a positive decimal
// with at most two fraction digits
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.New("amount is not a valid decimal number")
	}
	if !amount.IsPositive() {
		return decimal.Zero, errors.New("amount must be positive")
	}
	if amount.Exponent() < -2 {
		return decimal.Zero, errors.New("amount cannot have more than two decimal places")
	}
	return amount, nil
}

// AccountResponse is the API shape of an account
type AccountResponse struct {
	ID            uuid.UUID `json:"id"`
	AccountNumber string    `json:"account_number"`
	Balance       string    `json:"balance"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func toAccountResponse(a *account.Account) *AccountResponse {
	return &AccountResponse{
		ID:            a.ID,
		AccountNumber: a.AccountNumber,
		Balance:       a.Balance.StringFixed(2),
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt,
	}
}

func toAccountResponses(accounts []*account.Account) []*AccountResponse {
	out := make([]*AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	return out
}

// BalanceResponse reports an account balance in the base currency
type BalanceResponse struct {
	AccountID uuid.UUID `json:"account_id"`
	Balance   string    `json:"balance"`
	Currency  string    `json:"currency"`
}

// TransactionResponse is the API shape of a ledger record
type TransactionResponse struct {
	ID              uuid.UUID  `json:"id"`
	AccountID       uuid.UUID  `json:"account_id"`
	Type            string     `json:"type"`
	Amount          string     `json:"amount"`
	Fee             string     `json:"fee"`
	Currency        string     `json:"currency"`
	CreatedAt       time.Time  `json:"created_at"`
	SourceAccountID *uuid.UUID `json:"source_account_id,omitempty"`
	TargetAccountID *uuid.UUID `json:"target_account_id,omitempty"`
}

func toTransactionResponse(tx *ledger.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:              tx.ID,
		AccountID:       tx.AccountID,
		Type:            string(tx.Type),
		Amount:          tx.Amount.StringFixed(2),
		Fee:             tx.Fee.StringFixed(2),
		Currency:        tx.Currency,
		CreatedAt:       tx.CreatedAt,
		SourceAccountID: tx.SourceAccountID,
		TargetAccountID: tx.TargetAccountID,
	}
}

func toTransactionResponses(transactions []*ledger.Transaction) []*TransactionResponse {
	out := make([]*TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		out = append(out, toTransactionResponse(tx))
	}
	return out
}

// OperationResponse reports a completed monetary operation
type OperationResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	Balance     string               `json:"balance"`
}

// TransferResponse reports a completed transfer from the source side
type TransferResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	Balance     string               `json:"balance"`
}

// LoanResponse is the API shape of a loan
type LoanResponse struct {
	ID           uuid.UUID `json:"id"`
	AccountID    uuid.UUID `json:"account_id"`
	Amount       string    `json:"amount"`
	Principal    string    `json:"principal"`
	InterestRate string    `json:"interest_rate"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	DueDate      time.Time `json:"due_date"`
}

func toLoanResponse(l *loan.Loan) *LoanResponse {
	return &LoanResponse{
		ID:           l.ID,
		AccountID:    l.AccountID,
		Amount:       l.Amount.StringFixed(2),
		Principal:    l.Principal.StringFixed(2),
		InterestRate: l.InterestRate.StringFixed(2),
		Status:       string(l.Status),
		CreatedAt:    l.CreatedAt,
		DueDate:      l.DueDate,
	}
}

func toLoanResponses(loans []*loan.Loan) []*LoanResponse {
	out := make([]*LoanResponse, 0, len(loans))
	for _, l := range loans {
		out = append(out, toLoanResponse(l))
	}
	return out
}

// RepaymentResponse reports a loan repayment including the interest
// collected on top of the principal
type RepaymentResponse struct {
	Loan     *LoanResponse `json:"loan"`
	Interest string        `json:"interest"`
	Balance  string        `json:"balance"`
}

// CurrencyResponse is the API shape of a supported foreign currency
type CurrencyResponse struct {
	Code         string `json:"code"`
	ExchangeRate string `json:"exchange_rate"`
}

func toCurrencyResponses(currencies []*currency.ForeignCurrency) []*CurrencyResponse {
	out := make([]*CurrencyResponse, 0, len(currencies))
	for _, c := range currencies {
		out = append(out, &CurrencyResponse{
			Code:         c.Code,
			ExchangeRate: c.ExchangeRate.StringFixed(4),
		})
	}
	return out
}
