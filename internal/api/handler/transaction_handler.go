package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/corebank-ledger/internal/api/middleware"
)

// TransactionHandler serves the read-only transaction history
type TransactionHandler struct {
	logger  *slog.Logger
	service HistoryService
}

// NewTransactionHandler creates a new transaction history handler
func NewTransactionHandler(logger *slog.Logger, service HistoryService) *TransactionHandler {
	return &TransactionHandler{
		logger:  logger,
		service: service,
	}
}

// List handles GET /api/v1/transactions
func (h *TransactionHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	page, perPage := paginationParams(c)

	result, err := h.service.List(c.Request.Context(), userID, nil, page, perPage)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondWithPaginatedData(c, http.StatusOK, toTransactionResponses(result.Transactions),
		result.Page, result.PerPage, int(result.Total))
}

// ListByAccount handles GET /api/v1/accounts/:id/transactions
func (h *TransactionHandler) ListByAccount(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "account id is not a valid UUID")
		return
	}

	page, perPage := paginationParams(c)

	result, err := h.service.List(c.Request.Context(), userID, &accountID, page, perPage)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondWithPaginatedData(c, http.StatusOK, toTransactionResponses(result.Transactions),
		result.Page, result.PerPage, int(result.Total))
}

// GetByID handles GET /api/v1/transactions/:id
func (h *TransactionHandler) GetByID(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "transaction id is not a valid UUID")
		return
	}

	tx, err := h.service.Get(c.Request.Context(), userID, transactionID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, toTransactionResponse(tx))
}

func paginationParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if err != nil || perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}
