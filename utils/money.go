package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount formats an amount with two decimals, comma thousands separators
// and the currency code as suffix, e.g. "12,500.00 EGP".
func FormatAmount(amount decimal.Decimal, currency string) string {
	neg := amount.IsNegative()
	if neg {
		amount = amount.Neg()
	}

	fixed := amount.StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	// Pre-allocate: digits + separators + sign + suffix
	b.Grow(len(fixed) + len(intPart)/3 + len(currency) + 2)
	if neg {
		b.WriteByte('-')
	}

	// Insert separators from the left.
	rem := len(intPart) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(intPart[:rem])
	for i := rem; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteByte('.')
	b.WriteString(fracPart)

	if currency != "" {
		b.WriteByte(' ')
		b.WriteString(currency)
	}
	return b.String()
}
