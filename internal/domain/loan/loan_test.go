package loan

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoan(t *testing.T) {
	accountID := uuid.New()
	principal := decimal.RequireFromString("5000.00")
	rate := decimal.RequireFromString("5.00")
	due := time.Now().AddDate(1, 0, 0)

	l := NewLoan(accountID, principal, rate, due)

	assert.NotEqual(t, uuid.Nil, l.ID)
	assert.Equal(t, accountID, l.AccountID)
	assert.True(t, l.Amount.Equal(principal))
	assert.True(t, l.Principal.Equal(principal))
	assert.True(t, l.InterestRate.Equal(rate))
	assert.Equal(t, StatusActive, l.Status)
	assert.Equal(t, due, l.DueDate)
}

func TestLoan_Repay(t *testing.T) {
	newLoan := func(outstanding string) *Loan {
		return &Loan{
			ID:        uuid.New(),
			Amount:    decimal.RequireFromString(outstanding),
			Principal: decimal.RequireFromString("1000.00"),
			Status:    StatusActive,
		}
	}

	t.Run("PartialRepayment", func(t *testing.T) {
		l := newLoan("1000.00")
		require.NoError(t, l.Repay(decimal.RequireFromString("400.00")))
		assert.True(t, l.Amount.Equal(decimal.RequireFromString("600.00")))
		assert.Equal(t, StatusActive, l.Status)
	})

	t.Run("FullRepaymentFlipsToPaid", func(t *testing.T) {
		l := newLoan("1000.00")
		require.NoError(t, l.Repay(decimal.RequireFromString("1000.00")))
		assert.True(t, l.Amount.IsZero())
		assert.Equal(t, StatusPaid, l.Status)
	})

	t.Run("RepaymentAboveOutstandingFails", func(t *testing.T) {
		l := newLoan("100.00")
		err := l.Repay(decimal.RequireFromString("100.01"))
		assert.ErrorIs(t, err, ErrRepaymentExceedsBalance)
		assert.True(t, l.Amount.Equal(decimal.RequireFromString("100.00")))
	})

	t.Run("RepayPaidLoanFails", func(t *testing.T) {
		l := newLoan("0.00")
		l.Status = StatusPaid
		assert.ErrorIs(t, l.Repay(decimal.NewFromInt(1)), ErrAlreadyPaid)
	})
}
