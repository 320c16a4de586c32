package domain

import "github.com/shopspring/decimal"

// CentTolerance is the largest debit/credit difference still treated as balanced.
var CentTolerance = decimal.New(1, -2)

// RoundCents rounds a money value to two decimal places.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
