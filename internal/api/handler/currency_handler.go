package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// CurrencyHandler serves the supported foreign currencies
type CurrencyHandler struct {
	logger  *slog.Logger
	service CurrencyService
}

// NewCurrencyHandler creates a new currency handler
func NewCurrencyHandler(logger *slog.Logger, service CurrencyService) *CurrencyHandler {
	return &CurrencyHandler{
		logger:  logger,
		service: service,
	}
}

// List handles GET /api/v1/currencies
func (h *CurrencyHandler) List(c *gin.Context) {
	currencies, err := h.service.List(c.Request.Context())
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, toCurrencyResponses(currencies))
}
