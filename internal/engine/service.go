package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/corebank-ledger/internal/domain/account"
	"github.com/corebank-ledger/internal/domain/ledger"
	"github.com/corebank-ledger/internal/domain/loan"
	"github.com/corebank-ledger/internal/domain/outbox"
	"github.com/corebank-ledger/internal/domain/treasury"
	"github.com/corebank-ledger/internal/platform/persistence"
)

// Service executes the monetary operations of the ledger. Every
// operation runs in a single database transaction: row locks are taken
// on each touched account (and the bank treasury last), balances move,
// and the immutable ledger record plus its outbox event are written
// before commit.
type Service struct {
	logger       *slog.Logger
	db           persistence.TxRunner
	accounts     account.Repository
	transactions ledger.Repository
	loans        loan.Repository
	bank         treasury.Repository
	events       outbox.Repository
	converter    *Converter
	loanCeiling  decimal.Decimal
}

// NewService creates the ledger operation service
func NewService(
	logger *slog.Logger,
	db persistence.TxRunner,
	accounts account.Repository,
	transactions ledger.Repository,
	loans loan.Repository,
	bank treasury.Repository,
	events outbox.Repository,
	converter *Converter,
	loanCeiling decimal.Decimal,
) *Service {
	return &Service{
		logger:       logger,
		db:           db,
		accounts:     accounts,
		transactions: transactions,
		loans:        loans,
		bank:         bank,
		events:       events,
		converter:    converter,
		loanCeiling:  loanCeiling,
	}
}

// OperationResult reports a completed deposit or withdrawal
type OperationResult struct {
	Transaction *ledger.Transaction
	Balance     decimal.Decimal
}

// TransferResult reports a completed transfer. Out and In are the
// matched ledger records written for the source and target accounts.
type TransferResult struct {
	Out           *ledger.Transaction
	In            *ledger.Transaction
	SourceBalance decimal.Decimal
}

// Deposit converts the amount to the base currency, deducts the bank's
// transaction fee from it and credits the remainder to the account.
func (s *Service) Deposit(ctx context.Context, userID, accountID uuid.UUID, amount decimal.Decimal, currencyCode string) (*OperationResult, error) {
	converted, err := s.converter.Convert(ctx, amount, currencyCode)
	if err != nil {
		return nil, err
	}

	var result OperationResult
	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		accounts := s.accounts.WithTx(tx)

		acct, err := s.lockOwnedActiveAccount(ctx, accounts, userID, accountID)
		if err != nil {
			return err
		}

		bank := s.bank.WithTx(tx)
		treas, err := bank.LockForUpdate(ctx)
		if err != nil {
			return err
		}

		fee := calculateFee(converted, treas.TransactionFeePercentage)
		net := converted.Sub(fee)
		if !net.IsPositive() {
			return account.ErrInvalidAmount
		}

		if err := accounts.AddToBalance(ctx, acct.ID, net); err != nil {
			return err
		}
		if err := bank.AddToBalance(ctx, fee); err != nil {
			return err
		}

		record := ledger.NewTransaction(acct.ID, ledger.TypeDeposit, net, fee, s.converter.BaseCurrency())
		if err := s.record(ctx, tx, record); err != nil {
			return err
		}

		result = OperationResult{
			Transaction: record,
			Balance:     acct.Balance.Add(net),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Deposit completed",
		"account_id", accountID.String(),
		"transaction_id", result.Transaction.ID.String(),
		"amount", result.Transaction.Amount.String())
	return &result, nil
}

// Withdraw converts the amount to the base currency and debits it plus
// the bank's transaction fee from the account. The account must cover
// both or the operation fails without side effects.
func (s *Service) Withdraw(ctx context.Context, userID, accountID uuid.UUID, amount decimal.Decimal, currencyCode string) (*OperationResult, error) {
	converted, err := s.converter.Convert(ctx, amount, currencyCode)
	if err != nil {
		return nil, err
	}
	if !converted.IsPositive() {
		return nil, account.ErrInvalidAmount
	}

	var result OperationResult
	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		accounts := s.accounts.WithTx(tx)

		acct, err := s.lockOwnedActiveAccount(ctx, accounts, userID, accountID)
		if err != nil {
			return err
		}

		bank := s.bank.WithTx(tx)
		treas, err := bank.LockForUpdate(ctx)
		if err != nil {
			return err
		}

		fee := calculateFee(converted, treas.TransactionFeePercentage)
		total := converted.Add(fee)
		if acct.Balance.LessThan(total) {
			return account.ErrInsufficientFunds{AccountID: acct.ID}
		}

		if err := accounts.AddToBalance(ctx, acct.ID, total.Neg()); err != nil {
			return err
		}
		if err := bank.AddToBalance(ctx, fee); err != nil {
			return err
		}

		record := ledger.NewTransaction(acct.ID, ledger.TypeWithdrawal, converted, fee, s.converter.BaseCurrency())
		if err := s.record(ctx, tx, record); err != nil {
			return err
		}

		result = OperationResult{
			Transaction: record,
			Balance:     acct.Balance.Sub(total),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Withdrawal completed",
		"account_id", accountID.String(),
		"transaction_id", result.Transaction.ID.String(),
		"amount", result.Transaction.Amount.String())
	return &result, nil
}

// Transfer moves the converted amount from a source account owned by
// the user to any active target account. The fee is carried by the
// source; the target receives the converted amount in full. Both
// account rows are locked in a fixed order so concurrent transfers
// between the same pair cannot deadlock.
func (s *Service) Transfer(ctx context.Context, userID, sourceID, targetID uuid.UUID, amount decimal.Decimal, currencyCode string) (*TransferResult, error) {
	if sourceID == targetID {
		return nil, ErrSameAccountTransfer
	}

	converted, err := s.converter.Convert(ctx, amount, currencyCode)
	if err != nil {
		return nil, err
	}
	if !converted.IsPositive() {
		return nil, account.ErrInvalidAmount
	}

	var result TransferResult
	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		accounts := s.accounts.WithTx(tx)

		source, target, err := s.lockTransferPair(ctx, accounts, sourceID, targetID)
		if err != nil {
			return err
		}
		if source.UserID != userID {
			return account.ErrAccountNotFound{AccountID: sourceID}
		}
		if !source.CanOperate() {
			return account.ErrAccountNotActive{AccountID: source.ID, Status: source.Status}
		}
		if !target.CanOperate() {
			return account.ErrAccountNotActive{AccountID: target.ID, Status: target.Status}
		}

		bank := s.bank.WithTx(tx)
		treas, err := bank.LockForUpdate(ctx)
		if err != nil {
			return err
		}

		fee := calculateFee(converted, treas.TransactionFeePercentage)
		total := converted.Add(fee)
		if source.Balance.LessThan(total) {
			return account.ErrInsufficientFunds{AccountID: source.ID}
		}

		if err := accounts.AddToBalance(ctx, source.ID, total.Neg()); err != nil {
			return err
		}
		if err := accounts.AddToBalance(ctx, target.ID, converted); err != nil {
			return err
		}
		if err := bank.AddToBalance(ctx, fee); err != nil {
			return err
		}

		out, in := ledger.NewTransferPair(source.ID, target.ID, converted, fee, s.converter.BaseCurrency())
		if err := s.record(ctx, tx, out); err != nil {
			return err
		}
		if err := s.record(ctx, tx, in); err != nil {
			return err
		}

		result = TransferResult{
			Out:           out,
			In:            in,
			SourceBalance: source.Balance.Sub(total),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transfer completed",
		"source_account_id", sourceID.String(),
		"target_account_id", targetID.String(),
		"transaction_id", result.Out.ID.String(),
		"amount", result.Out.Amount.String())
	return &result, nil
}

// Balance returns the current balance of an active account owned by
// the user
func (s *Service) Balance(ctx context.Context, userID, accountID uuid.UUID) (decimal.Decimal, error) {
	acct, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	if acct.UserID != userID {
		return decimal.Zero, account.ErrAccountNotFound{AccountID: accountID}
	}
	if !acct.CanOperate() {
		return decimal.Zero, account.ErrAccountNotActive{AccountID: acct.ID, Status: acct.Status}
	}
	return acct.Balance, nil
}

// record writes the ledger row and its outbox event inside the
// operation's transaction
func (s *Service) record(ctx context.Context, tx pgx.Tx, record *ledger.Transaction) error {
	if err := s.transactions.WithTx(tx).Create(ctx, record); err != nil {
		return err
	}

	msg, err := outbox.NewMessage(record)
	if err != nil {
		return fmt.Errorf("failed to build outbox message: %w", err)
	}
	return s.events.WithTx(tx).Create(ctx, msg)
}

// lockOwnedActiveAccount locks the account row and verifies ownership
// and lifecycle state. Accounts owned by other users are reported as
// not found.
func (s *Service) lockOwnedActiveAccount(ctx context.Context, accounts account.Repository, userID, accountID uuid.UUID) (*account.Account, error) {
	acct, err := accounts.LockForUpdate(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acct.UserID != userID {
		return nil, account.ErrAccountNotFound{AccountID: accountID}
	}
	if !acct.CanOperate() {
		return nil, account.ErrAccountNotActive{AccountID: acct.ID, Status: acct.Status}
	}
	return acct, nil
}

// lockTransferPair locks both accounts ordered by id so two opposing
// transfers always acquire the locks in the same sequence
func (s *Service) lockTransferPair(ctx context.Context, accounts account.Repository, sourceID, targetID uuid.UUID) (*account.Account, *account.Account, error) {
	first, second := sourceID, targetID
	if bytes.Compare(targetID[:], sourceID[:]) < 0 {
		first, second = targetID, sourceID
	}

	locked := make(map[uuid.UUID]*account.Account, 2)
	for _, id := range []uuid.UUID{first, second} {
		acct, err := accounts.LockForUpdate(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		locked[id] = acct
	}
	return locked[sourceID], locked[targetID], nil
}
