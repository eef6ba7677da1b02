package history

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/corebank-ledger/internal/domain/account"
	"github.com/corebank-ledger/internal/domain/ledger"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

func (m *MockAccountRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) AddToBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status account.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockAccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return m
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *ledger.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*ledger.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, userID, accountID uuid.UUID, limit, offset int) ([]*ledger.Transaction, error) {
	args := m.Called(ctx, userID, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CountByAccount(ctx context.Context, userID, accountID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) WithTx(tx pgx.Tx) ledger.Repository {
	return m
}

func newTestReader(accounts *MockAccountRepository, transactions *MockTransactionRepository) *Reader {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewReader(logger, accounts, transactions)
}

func TestReader_List(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("user scoped with defaults", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		transactions := new(MockTransactionRepository)
		reader := newTestReader(accounts, transactions)

		expected := []*ledger.Transaction{
			ledger.NewTransaction(uuid.New(), ledger.TypeDeposit, decimal.RequireFromString("99.00"), decimal.RequireFromString("1.00"), "ILS"),
		}
		transactions.On("ListByUser", ctx, userID, 20, 0).Return(expected, nil)
		transactions.On("CountByUser", ctx, userID).Return(int64(1), nil)

		page, err := reader.List(ctx, userID, nil, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, expected, page.Transactions)
		assert.Equal(t, int64(1), page.Total)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 20, page.PerPage)
		transactions.AssertExpectations(t)
	})

	t.Run("page two offset", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		transactions := new(MockTransactionRepository)
		reader := newTestReader(accounts, transactions)

		transactions.On("ListByUser", ctx, userID, 10, 10).Return([]*ledger.Transaction{}, nil)
		transactions.On("CountByUser", ctx, userID).Return(int64(25), nil)

		page, err := reader.List(ctx, userID, nil, 2, 10)
		require.NoError(t, err)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 10, page.PerPage)
		transactions.AssertExpectations(t)
	})

	t.Run("oversized per page falls back to default", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		transactions := new(MockTransactionRepository)
		reader := newTestReader(accounts, transactions)

		transactions.On("ListByUser", ctx, userID, 20, 0).Return([]*ledger.Transaction{}, nil)
		transactions.On("CountByUser", ctx, userID).Return(int64(0), nil)

		page, err := reader.List(ctx, userID, nil, 1, 500)
		require.NoError(t, err)
		assert.Equal(t, 20, page.PerPage)
		transactions.AssertExpectations(t)
	})

	t.Run("account scoped", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		transactions := new(MockTransactionRepository)
		reader := newTestReader(accounts, transactions)

		acc, err := account.NewAccount(userID)
		require.NoError(t, err)
		accounts.On("GetByID", ctx, acc.ID).Return(acc, nil)
		transactions.On("ListByAccount", ctx, userID, acc.ID, 20, 0).Return([]*ledger.Transaction{}, nil)
		transactions.On("CountByAccount", ctx, userID, acc.ID).Return(int64(0), nil)

		page, err := reader.List(ctx, userID, &acc.ID, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(0), page.Total)
		accounts.AssertExpectations(t)
		transactions.AssertExpectations(t)
	})

	t.Run("account owned by someone else", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		transactions := new(MockTransactionRepository)
		reader := newTestReader(accounts, transactions)

		other, err := account.NewAccount(uuid.New())
		require.NoError(t, err)
		accounts.On("GetByID", ctx, other.ID).Return(other, nil)

		page, err := reader.List(ctx, userID, &other.ID, 1, 20)
		assert.Nil(t, page)
		assert.ErrorIs(t, err, account.ErrAccountNotFound{})
		transactions.AssertNotCalled(t, "ListByAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReader_Get(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		transactions := new(MockTransactionRepository)
		reader := newTestReader(accounts, transactions)

		acc, err := account.NewAccount(userID)
		require.NoError(t, err)
		tx := ledger.NewTransaction(acc.ID, ledger.TypeDeposit, decimal.RequireFromString("50.00"), decimal.RequireFromString("0.50"), "ILS")

		transactions.On("GetByID", ctx, tx.ID).Return(tx, nil)
		accounts.On("GetByID", ctx, acc.ID).Return(acc, nil)

		got, err := reader.Get(ctx, userID, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, tx, got)
	})

	t.Run("not found", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		transactions := new(MockTransactionRepository)
		reader := newTestReader(accounts, transactions)

		txID := uuid.New()
		transactions.On("GetByID", ctx, txID).Return(nil, ledger.ErrTransactionNotFound{TransactionID: txID})

		got, err := reader.Get(ctx, userID, txID)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, ledger.ErrTransactionNotFound{})
	})

	t.Run("foreign transaction reads as not found", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		transactions := new(MockTransactionRepository)
		reader := newTestReader(accounts, transactions)

		other, err := account.NewAccount(uuid.New())
		require.NoError(t, err)
		tx := ledger.NewTransaction(other.ID, ledger.TypeDeposit, decimal.RequireFromString("50.00"), decimal.RequireFromString("0.50"), "ILS")

		transactions.On("GetByID", ctx, tx.ID).Return(tx, nil)
		accounts.On("GetByID", ctx, other.ID).Return(other, nil)

		got, err := reader.Get(ctx, userID, tx.ID)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, ledger.ErrTransactionNotFound{})
	})
}
