package domain

import (
	"github.com/shopspring/decimal"
)

// Money is a monetary amount in minor units (centavos). All ledger amounts
// share one implicit currency.
type Money int64

// MinorUnitDigits is the number of decimal places between minor and major units.
const MinorUnitDigits = 2

// IsPositive reports whether the amount is a valid allocation amount.
func (m Money) IsPositive() bool {
	return m > 0
}

// Major converts the amount to major units, exact.
func (m Money) Major() decimal.Decimal {
	return decimal.New(int64(m), -MinorUnitDigits)
}

// String renders the amount in major units with two decimals.
func (m Money) String() string {
	return m.Major().StringFixed(MinorUnitDigits)
}

// MoneyFromMajor converts a major-unit amount into minor units,
// rounding half away from zero at the second decimal.
func MoneyFromMajor(major decimal.Decimal) Money {
	return Money(major.Shift(MinorUnitDigits).Round(0).IntPart())
}

// SumMoney adds up a list of amounts.
func SumMoney(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}
