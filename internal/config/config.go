// Package config provides configuration structures and validation for the application.
// It handles environment-based configuration for all major components including
// server settings, database connections, the event outbox, and bank policy
// parameters.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds the complete application configuration with settings for all
// components. Each field represents a major subsystem's configuration and is
// validated during application startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Postgres    PostgresConfig
	Kafka       KafkaConfig
	Outbox      OutboxConfig
	Bank        BankConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// KafkaConfig contains Kafka configuration for the transaction event feed
type KafkaConfig struct {
	Brokers           string
	EventTopic        string
	NumPartitions     int // Number of partitions for topics
	ReplicationFactor int // Replication factor for topics
	MaxWait           time.Duration
}

// OutboxConfig contains outbox publisher configuration
type OutboxConfig struct {
	PollingInterval  time.Duration
	BatchSize        int
	MaxRetryAttempts int // Maximum number of publish attempts per message
	WorkerPoolSize   int // Concurrent publishers per batch
}

// BankConfig contains bank policy parameters. Monetary values are
// decimal strings so no float ever touches a money path.
type BankConfig struct {
	BaseCurrency             string
	InitialTreasuryBalance   string
	TransactionFeePercentage string
	InterestRate             string
	LoanCeiling              string
}

// validate performs comprehensive validation of all configuration values,
// ensuring they meet minimum requirements and logical constraints
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate PostgreSQL config
	if c.Postgres.URL == "" {
		validationErrors = append(validationErrors, "POSTGRES_URL is required")
	}
	if c.Postgres.MaxConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
	}
	if c.Postgres.MinConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
	}
	if c.Postgres.ConnMaxLifetime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	}
	if c.Postgres.ConnMaxIdleTime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	// Validate Kafka config
	if len(c.Kafka.Brokers) == 0 {
		validationErrors = append(validationErrors, "KAFKA_BROKERS is required")
	}
	if c.Kafka.EventTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_EVENT_TOPIC is required")
	}
	if c.Kafka.MaxWait <= 0 {
		validationErrors = append(validationErrors, "KAFKA_MAX_WAIT must be greater than 0")
	}

	// Validate Outbox config
	if c.Outbox.PollingInterval <= 0 {
		validationErrors = append(validationErrors, "OUTBOX_POLLING_INTERVAL must be greater than 0")
	}
	if c.Outbox.BatchSize <= 0 {
		validationErrors = append(validationErrors, "OUTBOX_BATCH_SIZE must be greater than 0")
	}
	if c.Outbox.MaxRetryAttempts <= 0 {
		validationErrors = append(validationErrors, "OUTBOX_MAX_RETRY_ATTEMPTS must be greater than 0")
	}
	if c.Outbox.WorkerPoolSize <= 0 {
		validationErrors = append(validationErrors, "OUTBOX_WORKER_POOL_SIZE must be greater than 0")
	}

	// Validate Bank config
	if len(c.Bank.BaseCurrency) != 3 {
		validationErrors = append(validationErrors, "BANK_BASE_CURRENCY must be a 3-letter code")
	}
	for name, value := range map[string]string{
		"BANK_INITIAL_TREASURY_BALANCE":   c.Bank.InitialTreasuryBalance,
		"BANK_TRANSACTION_FEE_PERCENTAGE": c.Bank.TransactionFeePercentage,
		"BANK_INTEREST_RATE":              c.Bank.InterestRate,
		"BANK_LOAN_CEILING":               c.Bank.LoanCeiling,
	} {
		d, err := decimal.NewFromString(value)
		if err != nil {
			validationErrors = append(validationErrors, name+" must be a decimal number")
			continue
		}
		if d.IsNegative() {
			validationErrors = append(validationErrors, name+" must not be negative")
		}
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}

// BaseCurrency returns the normalized base currency code
func (c *Config) BaseCurrency() string {
	return strings.ToUpper(c.Bank.BaseCurrency)
}

// InitialTreasuryBalance returns the bootstrap treasury balance.
// validate() guarantees the string parses.
func (c *Config) InitialTreasuryBalance() decimal.Decimal {
	return decimal.RequireFromString(c.Bank.InitialTreasuryBalance)
}

// TransactionFeePercentage returns the bootstrap fee percentage
func (c *Config) TransactionFeePercentage() decimal.Decimal {
	return decimal.RequireFromString(c.Bank.TransactionFeePercentage)
}

// InterestRate returns the bootstrap loan interest rate
func (c *Config) InterestRate() decimal.Decimal {
	return decimal.RequireFromString(c.Bank.InterestRate)
}

// LoanCeiling returns the per-loan principal ceiling
func (c *Config) LoanCeiling() decimal.Decimal {
	return decimal.RequireFromString(c.Bank.LoanCeiling)
}
