package utils

import (
	"github.com/Jonatasvm/backendGB/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatWithPrecision formats an amount with exactly precision decimal places.
// Example: 12.3 with precision 2 returns "12.30".
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.StringFixed(int32(precision))
}

// FormatMoney renders minor units as a major-unit decimal literal, e.g. 123456 -> "1234.56".
func FormatMoney(m domain.Money) string {
	return FormatWithPrecision(m.Major(), domain.MinorUnitDigits)
}
