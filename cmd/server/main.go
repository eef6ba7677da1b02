package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/corebank-ledger/internal/api"
	"github.com/corebank-ledger/internal/config"
	"github.com/corebank-ledger/internal/data/postgres"
	"github.com/corebank-ledger/internal/domain/treasury"
	"github.com/corebank-ledger/internal/engine"
	"github.com/corebank-ledger/internal/events"
	"github.com/corebank-ledger/internal/history"
	"github.com/corebank-ledger/internal/lifecycle"
	"github.com/corebank-ledger/internal/logger"
	"github.com/corebank-ledger/internal/platform/messaging/producers"
	"github.com/corebank-ledger/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("server")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize database with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	transactionRepo := postgres.NewTransactionRepository(log, postgresDB)
	loanRepo := postgres.NewLoanRepository(log, postgresDB)
	treasuryRepo := postgres.NewTreasuryRepository(log, postgresDB)
	currencyRepo := postgres.NewCurrencyRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)

	// Provision the bank treasury on first start
	err = treasuryRepo.EnsureExists(appCtx, &treasury.Treasury{
		Balance:                  cfg.InitialTreasuryBalance(),
		TransactionFeePercentage: cfg.TransactionFeePercentage(),
		InterestRate:             cfg.InterestRate(),
	})
	if err != nil {
		log.Error("Failed to provision bank treasury", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka producer for the transaction event feed
	eventProducer, err := producers.NewTransactionEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize Kafka event producer", "error", err)
		os.Exit(1)
	}

	// Initialize services
	converter := engine.NewConverter(cfg.BaseCurrency(), currencyRepo)
	ledgerService := engine.NewService(log, postgresDB, accountRepo, transactionRepo, loanRepo, treasuryRepo, outboxRepo, converter, cfg.LoanCeiling())
	accountService := lifecycle.NewManager(log, postgresDB, accountRepo)
	historyService := history.NewReader(log, accountRepo, transactionRepo)

	// Initialize the outbox publisher
	publisher, err := events.NewPublisher(&cfg.Outbox, outboxRepo, eventProducer, log)
	if err != nil {
		log.Error("Failed to initialize outbox publisher", "error", err)
		os.Exit(1)
	}
	go publisher.Start(appCtx)

	// Initialize REST server
	server := api.NewServer(log, cfg, api.Services{
		Accounts:     accountService,
		Operations:   ledgerService,
		Loans:        ledgerService,
		History:      historyService,
		Currencies:   currencyRepo,
		BaseCurrency: cfg.BaseCurrency(),
	})
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context to stop the outbox publisher
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	publisher.Shutdown()

	if err = eventProducer.Close(); err != nil {
		log.Error("Error closing Kafka event producer", "error", err)
	}

	postgresDB.Close()

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
