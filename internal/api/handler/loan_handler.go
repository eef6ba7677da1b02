package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/corebank-ledger/internal/api/middleware"
)

// LoanHandler serves the loan endpoints
type LoanHandler struct {
	logger  *slog.Logger
	service LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(logger *slog.Logger, service LoanService) *LoanHandler {
	return &LoanHandler{
		logger:  logger,
		service: service,
	}
}

// Grant handles POST /api/v1/loans
func (h *LoanHandler) Grant(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req GrantLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}
	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		RespondBadRequest(c, "account_id is not a valid UUID")
		return
	}
	var dueDate time.Time
	if req.DueDate != "" {
		dueDate, err = time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			RespondBadRequest(c, "due_date is not a valid RFC 3339 timestamp")
			return
		}
	}

	result, err := h.service.GrantLoan(c.Request.Context(), userID, accountID, amount, dueDate)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondCreated(c, &struct {
		Loan    *LoanResponse `json:"loan"`
		Balance string        `json:"balance"`
	}{
		Loan:    toLoanResponse(result.Loan),
		Balance: result.Balance.StringFixed(2),
	})
}

// List handles GET /api/v1/loans
func (h *LoanHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	loans, err := h.service.ListLoans(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, toLoanResponses(loans))
}

// Repay handles POST /api/v1/loans/:id/repay
func (h *LoanHandler) Repay(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "loan id is not a valid UUID")
		return
	}

	var req RepayLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.service.RepayLoan(c.Request.Context(), userID, loanID, amount)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, &RepaymentResponse{
		Loan:     toLoanResponse(result.Loan),
		Interest: result.Interest.StringFixed(2),
		Balance:  result.Balance.StringFixed(2),
	})
}
