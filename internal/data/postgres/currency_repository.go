package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/corebank-ledger/internal/domain/currency"
	"github.com/corebank-ledger/internal/platform/persistence"
)

// CurrencyRepository implements the currency.Repository interface for PostgreSQL
type CurrencyRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewCurrencyRepository creates a new PostgreSQL currency repository
func NewCurrencyRepository(logger *slog.Logger, db *persistence.PostgresDB) currency.Repository {
	return &CurrencyRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// GetByCode retrieves a supported foreign currency by its ISO code
func (r *CurrencyRepository) GetByCode(ctx context.Context, code string) (*currency.ForeignCurrency, error) {
	query := `
		SELECT code, exchange_rate, updated_at
		FROM currencies
		WHERE code = $1
	`

	var c currency.ForeignCurrency
	err := r.querier.QueryRow(ctx, query, strings.ToUpper(code)).Scan(
		&c.Code,
		&c.ExchangeRate,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, currency.ErrUnsupportedCurrency{Code: code}
		}
		r.logger.Error("Failed to get currency", "code", code, "error", err)
		return nil, fmt.Errorf("failed to get currency: %w", err)
	}

	return &c, nil
}

// List retrieves all supported foreign currencies
func (r *CurrencyRepository) List(ctx context.Context) ([]*currency.ForeignCurrency, error) {
	query := `
		SELECT code, exchange_rate, updated_at
		FROM currencies
		ORDER BY code
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list currencies", "error", err)
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	defer rows.Close()

	var currencies []*currency.ForeignCurrency
	for rows.Next() {
		var c currency.ForeignCurrency
		if err := rows.Scan(&c.Code, &c.ExchangeRate, &c.UpdatedAt); err != nil {
			r.logger.Error("Failed to scan currency", "error", err)
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		currencies = append(currencies, &c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over currencies", "error", err)
		return nil, fmt.Errorf("error iterating over currencies: %w", err)
	}

	return currencies, nil
}
