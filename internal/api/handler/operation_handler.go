package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/corebank-ledger/internal/api/middleware"
)

// OperationHandler serves the monetary operation endpoints
type OperationHandler struct {
	logger       *slog.Logger
	service      OperationService
	baseCurrency string
}

// NewOperationHandler creates a new operation handler
func NewOperationHandler(logger *slog.Logger, service OperationService, baseCurrency string) *OperationHandler {
	return &OperationHandler{
		logger:       logger,
		service:      service,
		baseCurrency: baseCurrency,
	}
}

// Deposit handles POST /api/v1/accounts/:id/deposit
func (h *OperationHandler) Deposit(c *gin.Context) {
	userID, accountID, ok := h.requestIdentity(c)
	if !ok {
		return
	}

	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.service.Deposit(c.Request.Context(), userID, accountID, amount, req.Currency)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondCreated(c, &OperationResponse{
		Transaction: toTransactionResponse(result.Transaction),
		Balance:     result.Balance.StringFixed(2),
	})
}

// Withdraw handles POST /api/v1/accounts/:id/withdraw
func (h *OperationHandler) Withdraw(c *gin.Context) {
	userID, accountID, ok := h.requestIdentity(c)
	if !ok {
		return
	}

	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.service.Withdraw(c.Request.Context(), userID, accountID, amount, req.Currency)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondCreated(c, &OperationResponse{
		Transaction: toTransactionResponse(result.Transaction),
		Balance:     result.Balance.StringFixed(2),
	})
}

// Transfer handles POST /api/v1/accounts/:id/transfer
func (h *OperationHandler) Transfer(c *gin.Context) {
	userID, sourceID, ok := h.requestIdentity(c)
	if !ok {
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}
	targetID, err := uuid.Parse(req.TargetAccountID)
	if err != nil {
		RespondBadRequest(c, "target_account_id is not a valid UUID")
		return
	}

	result, err := h.service.Transfer(c.Request.Context(), userID, sourceID, targetID, amount, req.Currency)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondCreated(c, &TransferResponse{
		Transaction: toTransactionResponse(result.Out),
		Balance:     result.SourceBalance.StringFixed(2),
	})
}

// Balance handles GET /api/v1/accounts/:id/balance
func (h *OperationHandler) Balance(c *gin.Context) {
	userID, accountID, ok := h.requestIdentity(c)
	if !ok {
		return
	}

	balance, err := h.service.Balance(c.Request.Context(), userID, accountID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, &BalanceResponse{
		AccountID: accountID,
		Balance:   balance.StringFixed(2),
		Currency:  h.baseCurrency,
	})
}

func (h *OperationHandler) requestIdentity(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return uuid.Nil, uuid.Nil, false
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "account id is not a valid UUID")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, accountID, true
}
