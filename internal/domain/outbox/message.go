package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/corebank-ledger/internal/domain/ledger"
)

// Status defines message publishing states
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusProcessed       Status = "PROCESSED"
	StatusFailedToPublish Status = "FAILED_TO_PUBLISH"
)

// Message stores a committed ledger transaction for reliable event
// publishing. Rows are written in the same database transaction as the
// ledger record they describe, so an event exists if and only if the
// transaction committed.
type Message struct {
	ID            int64           `json:"id"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	AccountID     uuid.UUID       `json:"account_id"`
	Payload       json.RawMessage `json:"payload"`
	Status        Status          `json:"status"`
	Attempts      int             `json:"attempts"`
	CreatedAt     time.Time       `json:"created_at"`
	LastAttemptAt *time.Time      `json:"last_attempt_at,omitempty"`
}

func NewMessage(tx *ledger.Transaction) (*Message, error) {
	payload, err := json.Marshal(tx)
	if err != nil {
		return nil, err
	}

	return &Message{
		TransactionID: tx.ID,
		AccountID:     tx.AccountID,
		Payload:       payload,
		Status:        StatusPending,
		Attempts:      0,
		CreatedAt:     time.Now(),
	}, nil
}

// GetTransaction extracts the ledger transaction from the payload
func (m *Message) GetTransaction() (*ledger.Transaction, error) {
	var tx ledger.Transaction
	if err := json.Unmarshal(m.Payload, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}
