package engine

import "github.com/shopspring/decimal"

// calculateFee applies a percentage to a base-currency amount, rounded
// half up to two fraction digits. A zero percentage yields a zero fee.
func calculateFee(amount, percentage decimal.Decimal) decimal.Decimal {
	return amount.Mul(percentage).Div(decimal.NewFromInt(100)).Round(2)
}

// calculateInterest computes the interest owed on a repayment at the
// loan's snapshotted rate, rounded half up to two fraction digits.
func calculateInterest(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
}
