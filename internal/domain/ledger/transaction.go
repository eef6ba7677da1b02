package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type defines the kind of a ledger transaction
type Type string

const (
	TypeDeposit     Type = "deposit"
	TypeWithdrawal  Type = "withdrawal"
	TypeTransferIn  Type = "transfer_in"
	TypeTransferOut Type = "transfer_out"
)

// Transaction is an immutable ledger record. Rows are appended inside
// the same database transaction as the balance mutation they describe
// and are never updated or deleted afterwards.
type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	AccountID uuid.UUID       `json:"account_id"`
	Type      Type            `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Fee       decimal.Decimal `json:"fee"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`

	// Populated only for transfer_in / transfer_out rows
	SourceAccountID *uuid.UUID `json:"source_account_id,omitempty"`
	TargetAccountID *uuid.UUID `json:"target_account_id,omitempty"`
}

// NewTransaction builds a non-transfer ledger record in the given
// currency
func NewTransaction(accountID uuid.UUID, txType Type, amount, fee decimal.Decimal, currency string) *Transaction {
	return &Transaction{
		ID:        uuid.New(),
		AccountID: accountID,
		Type:      txType,
		Amount:    amount,
		Fee:       fee,
		Currency:  currency,
		CreatedAt: time.Now(),
	}
}

// NewTransferPair builds the matched transfer_out/transfer_in records
// for a transfer. The fee is carried on the outgoing side only; the pair
// must be persisted in one atomic unit.
func NewTransferPair(sourceID, targetID uuid.UUID, amount, fee decimal.Decimal, currency string) (*Transaction, *Transaction) {
	now := time.Now()

	out := &Transaction{
		ID:              uuid.New(),
		AccountID:       sourceID,
		Type:            TypeTransferOut,
		Amount:          amount,
		Fee:             fee,
		Currency:        currency,
		CreatedAt:       now,
		SourceAccountID: &sourceID,
		TargetAccountID: &targetID,
	}
	in := &Transaction{
		ID:              uuid.New(),
		AccountID:       targetID,
		Type:            TypeTransferIn,
		Amount:          amount,
		Fee:             decimal.Zero,
		Currency:        currency,
		CreatedAt:       now,
		SourceAccountID: &sourceID,
		TargetAccountID: &targetID,
	}
	return out, in
}
