package currency

import (
	"time"

	"github.com/shopspring/decimal"
)

// ForeignCurrency is static reference data mapping a currency code to
// its exchange rate against the base currency. Rates carry 4 fraction
// digits and are read-only from the ledger engine's perspective.
type ForeignCurrency struct {
	Code         string          `json:"code"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ErrUnsupportedCurrency indicates no rate row exists for the code
type ErrUnsupportedCurrency struct {
	Code string
}

func (e ErrUnsupportedCurrency) Error() string {
	return "unsupported currency: " + e.Code
}

func (e ErrUnsupportedCurrency) Is(target error) bool {
	t, ok := target.(ErrUnsupportedCurrency)
	if !ok {
		return false
	}
	if t.Code == "" {
		return true
	}
	return e.Code == t.Code
}
