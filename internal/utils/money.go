package utils

import "github.com/shopspring/decimal"

// Round2 rounds half away from zero to two decimal places.
func Round2(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

// Dec lifts a stored amount into decimal arithmetic.
func Dec(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

// Money converts a decimal back to a float rounded to two places.
func Money(value decimal.Decimal) float64 {
	return value.Round(2).InexactFloat64()
}

func MaxDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

func MinDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
