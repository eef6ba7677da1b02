package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/corebank-ledger/internal/domain/account"
	"github.com/corebank-ledger/internal/domain/currency"
	"github.com/corebank-ledger/internal/domain/ledger"
	"github.com/corebank-ledger/internal/domain/loan"
	"github.com/corebank-ledger/internal/domain/treasury"
	"github.com/corebank-ledger/internal/engine"
)

// respondDomainError maps domain failures to HTTP responses. Anything
// unrecognized is treated as an internal error and logged.
func respondDomainError(c *gin.Context, logger *slog.Logger, err error) {
	var transition account.ErrInvalidTransition

	switch {
	case errors.Is(err, account.ErrAccountNotFound{}),
		errors.Is(err, ledger.ErrTransactionNotFound{}),
		errors.Is(err, loan.ErrLoanNotFound{}):
		RespondNotFound(c, err.Error())

	case errors.Is(err, account.ErrAccountNotActive{}):
		RespondConflict(c, "ACCOUNT_NOT_ACTIVE", err.Error())

	case errors.As(err, &transition):
		RespondConflict(c, "INVALID_STATUS_TRANSITION", err.Error())

	case errors.Is(err, account.ErrNegativeBalance):
		RespondConflict(c, "NEGATIVE_BALANCE", err.Error())

	case errors.Is(err, loan.ErrAlreadyPaid):
		RespondConflict(c, "LOAN_ALREADY_PAID", err.Error())

	case errors.Is(err, account.ErrInsufficientFunds{}):
		RespondUnprocessable(c, "INSUFFICIENT_FUNDS", err.Error())

	case errors.Is(err, treasury.ErrInsufficientFunds):
		RespondUnprocessable(c, "TREASURY_INSUFFICIENT_FUNDS", err.Error())

	case errors.Is(err, engine.ErrLoanCeilingExceeded{}):
		RespondUnprocessable(c, "LOAN_CEILING_EXCEEDED", err.Error())

	case errors.Is(err, loan.ErrRepaymentExceedsBalance):
		RespondUnprocessable(c, "REPAYMENT_EXCEEDS_BALANCE", err.Error())

	case errors.Is(err, account.ErrInvalidAmount),
		errors.Is(err, engine.ErrSameAccountTransfer),
		errors.Is(err, engine.ErrDueDateInPast),
		errors.Is(err, currency.ErrUnsupportedCurrency{}):
		RespondBadRequest(c, err.Error())

	default:
		logger.Error("Unhandled error in request", "path", c.Request.URL.Path, "error", err)
		RespondInternalError(c)
	}
}
