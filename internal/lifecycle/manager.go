package lifecycle

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/corebank-ledger/internal/domain/account"
	"github.com/corebank-ledger/internal/platform/persistence"
)

// Manager drives the account lifecycle: opening accounts and moving
// them between active, suspended and closed. Status changes run under a
// row lock so they cannot race a monetary operation on the same
// account.
type Manager struct {
	logger   *slog.Logger
	db       persistence.TxRunner
	accounts account.Repository
}

// NewManager creates an account lifecycle manager
func NewManager(logger *slog.Logger, db persistence.TxRunner, accounts account.Repository) *Manager {
	return &Manager{
		logger:   logger,
		db:       db,
		accounts: accounts,
	}
}

// Open creates a new active account for the user
func (m *Manager) Open(ctx context.Context, userID uuid.UUID) (*account.Account, error) {
	acct, err := account.NewAccount(userID)
	if err != nil {
		return nil, err
	}
	if err := m.accounts.Create(ctx, acct); err != nil {
		return nil, err
	}

	m.logger.Info("Account opened", "account_id", acct.ID.String(), "user_id", userID.String())
	return acct, nil
}

// Get returns an account owned by the user
func (m *Manager) Get(ctx context.Context, userID, accountID uuid.UUID) (*account.Account, error) {
	acct, err := m.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acct.UserID != userID {
		return nil, account.ErrAccountNotFound{AccountID: accountID}
	}
	return acct, nil
}

// List returns all accounts owned by the user
func (m *Manager) List(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	return m.accounts.ListByUser(ctx, userID)
}

// Suspend blocks monetary operations on the account until it is
// activated again
func (m *Manager) Suspend(ctx context.Context, userID, accountID uuid.UUID) (*account.Account, error) {
	return m.transition(ctx, userID, accountID, (*account.Account).Suspend)
}

// Activate reinstates a suspended account
func (m *Manager) Activate(ctx context.Context, userID, accountID uuid.UUID) (*account.Account, error) {
	return m.transition(ctx, userID, accountID, (*account.Account).Activate)
}

// Close permanently locks the account. The row and its transaction
// history are kept.
func (m *Manager) Close(ctx context.Context, userID, accountID uuid.UUID) (*account.Account, error) {
	return m.transition(ctx, userID, accountID, (*account.Account).Close)
}

func (m *Manager) transition(ctx context.Context, userID, accountID uuid.UUID, change func(*account.Account) error) (*account.Account, error) {
	var acct *account.Account
	err := m.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		accounts := m.accounts.WithTx(tx)

		locked, err := accounts.LockForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		if locked.UserID != userID {
			return account.ErrAccountNotFound{AccountID: accountID}
		}

		if err := change(locked); err != nil {
			return err
		}
		if err := accounts.UpdateStatus(ctx, locked.ID, locked.Status); err != nil {
			return err
		}

		acct = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("Account status changed",
		"account_id", accountID.String(),
		"status", string(acct.Status))
	return acct, nil
}
