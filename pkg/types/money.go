package types

import "github.com/shopspring/decimal"

var centsPerUnit = decimal.NewFromInt(100)

// CentsToAmount converts integer minor units to the float amount used on the wire.
func CentsToAmount(cents int64) float64 {
	amount, _ := decimal.NewFromInt(cents).Div(centsPerUnit).Float64()
	return amount
}

// AmountToCents converts a wire amount to integer minor units, rounding to the cent.
func AmountToCents(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(centsPerUnit).Round(0).IntPart()
}

// LineTotal computes price*quantity in minor units and returns the wire amount.
func LineTotal(unitCents int64, quantity int) float64 {
	total := decimal.NewFromInt(unitCents).Mul(decimal.NewFromInt(int64(quantity)))
	amount, _ := total.Div(centsPerUnit).Float64()
	return amount
}
