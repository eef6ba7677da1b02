package handler

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/corebank-ledger/internal/api/middleware"
	"github.com/corebank-ledger/internal/domain/account"
)

// AccountHandler serves the account lifecycle endpoints
type AccountHandler struct {
	logger  *slog.Logger
	service AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, service AccountService) *AccountHandler {
	return &AccountHandler{
		logger:  logger,
		service: service,
	}
}

// Create handles POST /api/v1/accounts
func (h *AccountHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	acct, err := h.service.Open(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondCreated(c, toAccountResponse(acct))
}

// List handles GET /api/v1/accounts
func (h *AccountHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	accounts, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, toAccountResponses(accounts))
}

// GetByID handles GET /api/v1/accounts/:id
func (h *AccountHandler) GetByID(c *gin.Context) {
	userID, accountID, ok := h.requestIdentity(c)
	if !ok {
		return
	}

	acct, err := h.service.Get(c.Request.Context(), userID, accountID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, toAccountResponse(acct))
}

// Suspend handles POST /api/v1/accounts/:id/suspend
func (h *AccountHandler) Suspend(c *gin.Context) {
	h.transition(c, h.service.Suspend)
}

// Activate handles POST /api/v1/accounts/:id/activate
func (h *AccountHandler) Activate(c *gin.Context) {
	h.transition(c, h.service.Activate)
}

// Close handles POST /api/v1/accounts/:id/close
func (h *AccountHandler) Close(c *gin.Context) {
	h.transition(c, h.service.Close)
}

func (h *AccountHandler) transition(c *gin.Context, change func(ctx context.Context, userID, accountID uuid.UUID) (*account.Account, error)) {
	userID, accountID, ok := h.requestIdentity(c)
	if !ok {
		return
	}

	acct, err := change(c.Request.Context(), userID, accountID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, toAccountResponse(acct))
}

func (h *AccountHandler) requestIdentity(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
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
