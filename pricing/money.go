package pricing

import "github.com/shopspring/decimal"

// moneyScale is the minor-unit precision of the currencies in use.
const moneyScale = 2

// RoundMoney rounds an amount to the currency's minor unit using round-half-up.
// Rounding is applied once at the end of each calculation stage, never
// repeatedly mid-calculation.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyScale)
}

// FloorZero clamps negative amounts to zero.
func FloorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
