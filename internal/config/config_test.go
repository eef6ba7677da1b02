package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("nonexistent")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "migrations/postgres", cfg.Postgres.MigrationsPath)
	assert.Equal(t, "ledger_transactions", cfg.Kafka.EventTopic)
	assert.Equal(t, 5*time.Second, cfg.Outbox.PollingInterval)
	assert.Equal(t, 100, cfg.Outbox.BatchSize)
	assert.Equal(t, 5, cfg.Outbox.MaxRetryAttempts)
	assert.Equal(t, 10, cfg.Outbox.WorkerPoolSize)
	assert.Equal(t, "corebank-ledger", cfg.Application.Name)
	assert.Equal(t, "development", cfg.Application.Env)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig_BankDefaults(t *testing.T) {
	cfg, err := LoadConfig("nonexistent")
	require.NoError(t, err)

	assert.Equal(t, "ILS", cfg.BaseCurrency())
	assert.Equal(t, "10000000.00", cfg.InitialTreasuryBalance().StringFixed(2))
	assert.Equal(t, "1.00", cfg.TransactionFeePercentage().StringFixed(2))
	assert.Equal(t, "5.00", cfg.InterestRate().StringFixed(2))
	assert.Equal(t, "50000.00", cfg.LoanCeiling().StringFixed(2))
}

func TestLoadConfig_EnvironmentOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("BANK_BASE_CURRENCY", "usd")
	t.Setenv("BANK_TRANSACTION_FEE_PERCENTAGE", "2.50")

	cfg, err := LoadConfig("nonexistent")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "USD", cfg.BaseCurrency())
	assert.Equal(t, "2.50", cfg.TransactionFeePercentage().StringFixed(2))
}

func TestConfig_Validate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		t.Helper()
		cfg, err := LoadConfig("nonexistent")
		require.NoError(t, err)
		return cfg
	}

	t.Run("valid defaults pass", func(t *testing.T) {
		cfg := valid(t)
		assert.NoError(t, cfg.validate())
	})

	t.Run("invalid port", func(t *testing.T) {
		cfg := valid(t)
		cfg.Server.Port = 0
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SERVER_PORT")
	})

	t.Run("missing postgres url", func(t *testing.T) {
		cfg := valid(t)
		cfg.Postgres.URL = ""
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "POSTGRES_URL")
	})

	t.Run("missing event topic", func(t *testing.T) {
		cfg := valid(t)
		cfg.Kafka.EventTopic = ""
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "KAFKA_EVENT_TOPIC")
	})

	t.Run("bad base currency", func(t *testing.T) {
		cfg := valid(t)
		cfg.Bank.BaseCurrency = "SHEKEL"
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BANK_BASE_CURRENCY")
	})

	t.Run("non decimal fee", func(t *testing.T) {
		cfg := valid(t)
		cfg.Bank.TransactionFeePercentage = "one percent"
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BANK_TRANSACTION_FEE_PERCENTAGE must be a decimal number")
	})

	t.Run("negative treasury balance", func(t *testing.T) {
		cfg := valid(t)
		cfg.Bank.InitialTreasuryBalance = "-1.00"
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BANK_INITIAL_TREASURY_BALANCE must not be negative")
	})

	t.Run("multiple errors are collected", func(t *testing.T) {
		cfg := valid(t)
		cfg.Server.Port = -1
		cfg.Outbox.BatchSize = 0
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SERVER_PORT")
		assert.Contains(t, err.Error(), "OUTBOX_BATCH_SIZE")
	})
}
