package history

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/corebank-ledger/internal/domain/account"
	"github.com/corebank-ledger/internal/domain/ledger"
)

// Page is a slice of a user's transaction history, newest first
type Page struct {
	Transactions []*ledger.Transaction
	Total        int64
	Page         int
	PerPage      int
}

// Reader serves the read-only transaction history. History remains
// available for suspended and closed accounts.
type Reader struct {
	logger       *slog.Logger
	accounts     account.Repository
	transactions ledger.Repository
}

// NewReader creates a transaction history reader
func NewReader(logger *slog.Logger, accounts account.Repository, transactions ledger.Repository) *Reader {
	return &Reader{
		logger:       logger,
		accounts:     accounts,
		transactions: transactions,
	}
}

// List returns a page of the user's transactions. When accountID is
// non-nil the page is limited to that account, which must belong to the
// user.
func (r *Reader) List(ctx context.Context, userID uuid.UUID, accountID *uuid.UUID, page, perPage int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	var (
		transactions []*ledger.Transaction
		total        int64
		err          error
	)
	if accountID != nil {
		if err := r.checkOwnership(ctx, userID, *accountID); err != nil {
			return nil, err
		}
		transactions, err = r.transactions.ListByAccount(ctx, userID, *accountID, perPage, offset)
		if err != nil {
			return nil, err
		}
		total, err = r.transactions.CountByAccount(ctx, userID, *accountID)
	} else {
		transactions, err = r.transactions.ListByUser(ctx, userID, perPage, offset)
		if err != nil {
			return nil, err
		}
		total, err = r.transactions.CountByUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	return &Page{
		Transactions: transactions,
		Total:        total,
		Page:         page,
		PerPage:      perPage,
	}, nil
}

// Get returns a single transaction, verifying the owning account
// belongs to the user
func (r *Reader) Get(ctx context.Context, userID, transactionID uuid.UUID) (*ledger.Transaction, error) {
	tx, err := r.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := r.checkOwnership(ctx, userID, tx.AccountID); err != nil {
		return nil, ledger.ErrTransactionNotFound{TransactionID: transactionID}
	}
	return tx, nil
}

func (r *Reader) checkOwnership(ctx context.Context, userID, accountID uuid.UUID) error {
	acct, err := r.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if acct.UserID != userID {
		return account.ErrAccountNotFound{AccountID: accountID}
	}
	return nil
}
