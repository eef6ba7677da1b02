package currency

import "context"

// Repository provides read access to the exchange-rate reference data
type Repository interface {
	GetByCode(ctx context.Context, code string) (*ForeignCurrency, error)
	List(ctx context.Context) ([]*ForeignCurrency, error)
}
