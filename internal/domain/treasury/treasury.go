package treasury

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Common errors
var (
	// ErrTreasuryMissing indicates the singleton bank row has not been
	// provisioned. This is a misconfiguration, not a business failure.
	ErrTreasuryMissing = errors.New("bank treasury row is missing")

	// ErrInsufficientFunds indicates the treasury cannot fund the
	// requested loan
	ErrInsufficientFunds = errors.New("treasury has insufficient funds")
)

// Treasury is the bank's own balance sheet: the singleton counterparty
// that collects transaction fees, funds loans and receives repayments.
// Exactly one row exists for the system lifetime.
type Treasury struct {
	Balance                  decimal.Decimal `json:"balance"`
	TransactionFeePercentage decimal.Decimal `json:"transaction_fee_percentage"`
	InterestRate             decimal.Decimal `json:"interest_rate"`
}

// CanFund reports whether the treasury balance covers a loan principal
func (t *Treasury) CanFund(amount decimal.Decimal) bool {
	return t.Balance.GreaterThanOrEqual(amount)
}
