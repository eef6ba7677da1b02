package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/corebank-ledger/internal/domain/currency"
)

// Converter translates foreign amounts into the base currency using the
// stored exchange rates. Converted amounts are rounded half up to two
// fraction digits before any fee is applied.
type Converter struct {
	base  string
	rates currency.Repository
}

// NewConverter creates a converter for the given base currency
func NewConverter(base string, rates currency.Repository) *Converter {
	return &Converter{
		base:  strings.ToUpper(base),
		rates: rates,
	}
}

// BaseCurrency returns the currency all balances are held in
func (c *Converter) BaseCurrency() string {
	return c.base
}

// Convert returns the base-currency value of the amount. An empty code
// or the base currency itself passes through unchanged.
func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, code string) (decimal.Decimal, error) {
	code = strings.ToUpper(code)
	if code == "" || code == c.base {
		return amount, nil
	}

	fc, err := c.rates.GetByCode(ctx, code)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to resolve exchange rate: %w", err)
	}

	return amount.Mul(fc.ExchangeRate).Round(2), nil
}
