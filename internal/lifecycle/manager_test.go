package lifecycle

import (
	"context"
	"errors"
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
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, a *account.Account) error {
	args := m.Called(ctx, a)
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

type stubTxRunner struct{}

func (stubTxRunner) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

func newTestManager(t *testing.T) (*Manager, *MockAccountRepository) {
	t.Helper()
	repo := new(MockAccountRepository)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewManager(logger, stubTxRunner{}, repo), repo
}

func TestManager_Open(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mgr, repo := newTestManager(t)

		repo.On("Create", ctx, mock.MatchedBy(func(a *account.Account) bool {
			return a.UserID == userID && a.Status == account.StatusActive && a.Balance.IsZero()
		})).Return(nil).Once()

		acct, err := mgr.Open(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, userID, acct.UserID)
		assert.Len(t, acct.AccountNumber, 12)
		repo.AssertExpectations(t)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		mgr, repo := newTestManager(t)
		repoErr := errors.New("db error")

		repo.On("Create", ctx, mock.AnythingOfType("*account.Account")).Return(repoErr).Once()

		_, err := mgr.Open(ctx, userID)
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestManager_Get(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("OtherUsersAccountReportsNotFound", func(t *testing.T) {
		mgr, repo := newTestManager(t)
		acct := &account.Account{ID: uuid.New(), UserID: uuid.New(), Status: account.StatusActive}

		repo.On("GetByID", ctx, acct.ID).Return(acct, nil).Once()

		_, err := mgr.Get(ctx, userID, acct.ID)
		assert.True(t, errors.Is(err, account.ErrAccountNotFound{AccountID: acct.ID}))
	})
}

func TestManager_Transitions(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	newAccount := func(status account.Status) *account.Account {
		return &account.Account{
			ID:      uuid.New(),
			UserID:  userID,
			Balance: decimal.NewFromInt(100),
			Status:  status,
		}
	}

	t.Run("Suspend", func(t *testing.T) {
		mgr, repo := newTestManager(t)
		acct := newAccount(account.StatusActive)

		repo.On("LockForUpdate", ctx, acct.ID).Return(acct, nil).Once()
		repo.On("UpdateStatus", ctx, acct.ID, account.StatusSuspended).Return(nil).Once()

		updated, err := mgr.Suspend(ctx, userID, acct.ID)
		require.NoError(t, err)
		assert.Equal(t, account.StatusSuspended, updated.Status)
		repo.AssertExpectations(t)
	})

	t.Run("Activate", func(t *testing.T) {
		mgr, repo := newTestManager(t)
		acct := newAccount(account.StatusSuspended)

		repo.On("LockForUpdate", ctx, acct.ID).Return(acct, nil).Once()
		repo.On("UpdateStatus", ctx, acct.ID, account.StatusActive).Return(nil).Once()

		updated, err := mgr.Activate(ctx, userID, acct.ID)
		require.NoError(t, err)
		assert.Equal(t, account.StatusActive, updated.Status)
	})

	t.Run("Close", func(t *testing.T) {
		mgr, repo := newTestManager(t)
		acct := newAccount(account.StatusActive)

		repo.On("LockForUpdate", ctx, acct.ID).Return(acct, nil).Once()
		repo.On("UpdateStatus", ctx, acct.ID, account.StatusClosed).Return(nil).Once()

		updated, err := mgr.Close(ctx, userID, acct.ID)
		require.NoError(t, err)
		assert.Equal(t, account.StatusClosed, updated.Status)
	})

	t.Run("CloseIsTerminal", func(t *testing.T) {
		mgr, repo := newTestManager(t)
		acct := newAccount(account.StatusClosed)

		repo.On("LockForUpdate", ctx, acct.ID).Return(acct, nil).Once()

		_, err := mgr.Close(ctx, userID, acct.ID)
		var transitionErr account.ErrInvalidTransition
		assert.ErrorAs(t, err, &transitionErr)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("OwnershipEnforced", func(t *testing.T) {
		mgr, repo := newTestManager(t)
		acct := &account.Account{ID: uuid.New(), UserID: uuid.New(), Status: account.StatusActive}

		repo.On("LockForUpdate", ctx, acct.ID).Return(acct, nil).Once()

		_, err := mgr.Suspend(ctx, userID, acct.ID)
		assert.True(t, errors.Is(err, account.ErrAccountNotFound{}))
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}
