package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/corebank-ledger/internal/domain/account"
	"github.com/corebank-ledger/internal/domain/loan"
	"github.com/corebank-ledger/internal/domain/treasury"
)

// defaultLoanTerm applies when the caller does not name a due date
const defaultLoanTerm = 365 * 24 * time.Hour

// LoanResult reports a granted loan and the resulting account balance
type LoanResult struct {
	Loan    *loan.Loan
	Balance decimal.Decimal
}

// RepaymentResult reports a repayment. Interest is charged on the
// repaid amount at the rate snapshotted when the loan was granted and
// is collected by the treasury on top of the principal.
type RepaymentResult struct {
	Loan     *loan.Loan
	Interest decimal.Decimal
	Balance  decimal.Decimal
}

// GrantLoan funds a loan from the treasury and credits the principal to
// the account. The principal must not exceed the bank's per-loan
// ceiling and the treasury must be able to cover it. A zero dueDate
// falls back to one year from grant.
func (s *Service) GrantLoan(ctx context.Context, userID, accountID uuid.UUID, amount decimal.Decimal, dueDate time.Time) (*LoanResult, error) {
	if !amount.IsPositive() {
		return nil, account.ErrInvalidAmount
	}
	if amount.GreaterThan(s.loanCeiling) {
		return nil, ErrLoanCeilingExceeded{Ceiling: s.loanCeiling}
	}
	if dueDate.IsZero() {
		dueDate = time.Now().Add(defaultLoanTerm)
	}
	if !dueDate.After(time.Now()) {
		return nil, ErrDueDateInPast
	}

	var result LoanResult
	err := s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
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
		if !treas.CanFund(amount) {
			return treasury.ErrInsufficientFunds
		}

		if err := bank.AddToBalance(ctx, amount.Neg()); err != nil {
			return err
		}
		if err := accounts.AddToBalance(ctx, acct.ID, amount); err != nil {
			return err
		}

		granted := loan.NewLoan(acct.ID, amount, treas.InterestRate, dueDate)
		if err := s.loans.WithTx(tx).Create(ctx, granted); err != nil {
			return err
		}

		result = LoanResult{
			Loan:    granted,
			Balance: acct.Balance.Add(amount),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Loan granted",
		"loan_id", result.Loan.ID.String(),
		"account_id", accountID.String(),
		"amount", result.Loan.Principal.String())
	return &result, nil
}

// RepayLoan pays down the outstanding amount of a loan from its
// account. Interest on the repaid portion goes to the treasury together
// with the principal; the account must cover both.
func (s *Service) RepayLoan(ctx context.Context, userID, loanID uuid.UUID, amount decimal.Decimal) (*RepaymentResult, error) {
	if !amount.IsPositive() {
		return nil, account.ErrInvalidAmount
	}

	var result RepaymentResult
	err := s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		loans := s.loans.WithTx(tx)

		l, err := loans.LockForUpdate(ctx, loanID)
		if err != nil {
			return err
		}

		accounts := s.accounts.WithTx(tx)
		acct, err := s.lockOwnedActiveAccount(ctx, accounts, userID, l.AccountID)
		if err != nil {
			return err
		}

		interest := calculateInterest(amount, l.InterestRate)
		total := amount.Add(interest)
		if acct.Balance.LessThan(total) {
			return account.ErrInsufficientFunds{AccountID: acct.ID}
		}

		if err := l.Repay(amount); err != nil {
			return err
		}

		if err := accounts.AddToBalance(ctx, acct.ID, total.Neg()); err != nil {
			return err
		}

		bank := s.bank.WithTx(tx)
		if _, err := bank.LockForUpdate(ctx); err != nil {
			return err
		}
		if err := bank.AddToBalance(ctx, total); err != nil {
			return err
		}

		if err := loans.Update(ctx, l); err != nil {
			return err
		}

		result = RepaymentResult{
			Loan:     l,
			Interest: interest,
			Balance:  acct.Balance.Sub(total),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Loan repayment completed",
		"loan_id", loanID.String(),
		"amount", amount.String(),
		"interest", result.Interest.String(),
		"status", string(result.Loan.Status))
	return &result, nil
}

// ListLoans returns all loans across the user's accounts
func (s *Service) ListLoans(ctx context.Context, userID uuid.UUID) ([]*loan.Loan, error) {
	return s.loans.ListByUser(ctx, userID)
}
