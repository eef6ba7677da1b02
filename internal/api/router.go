package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/corebank-ledger/internal/api/handler"
	"github.com/corebank-ledger/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	accountHandler *handler.AccountHandler,
	operationHandler *handler.OperationHandler,
	loanHandler *handler.LoanHandler,
	transactionHandler *handler.TransactionHandler,
	currencyHandler *handler.CurrencyHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Metrics())

	// API v1 endpoints, all scoped to the calling user
	v1 := r.Group("/api/v1")
	v1.Use(middleware.Identity())
	{
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", accountHandler.Create)
			accounts.GET("", accountHandler.List)
			accounts.GET("/:id", accountHandler.GetByID)
			accounts.POST("/:id/suspend", accountHandler.Suspend)
			accounts.POST("/:id/activate", accountHandler.Activate)
			accounts.POST("/:id/close", accountHandler.Close)

			accounts.GET("/:id/balance", operationHandler.Balance)
			accounts.POST("/:id/deposit", operationHandler.Deposit)
			accounts.POST("/:id/withdraw", operationHandler.Withdraw)
			accounts.POST("/:id/transfer", operationHandler.Transfer)

			accounts.GET("/:id/transactions", transactionHandler.ListByAccount)
		}

		transactions := v1.Group("/transactions")
		{
			transactions.GET("", transactionHandler.List)
			transactions.GET("/:id", transactionHandler.GetByID)
		}

		loans := v1.Group("/loans")
		{
			loans.POST("", loanHandler.Grant)
			loans.GET("", loanHandler.List)
			loans.POST("/:id/repay", loanHandler.Repay)
		}

		v1.GET("/currencies", currencyHandler.List)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
