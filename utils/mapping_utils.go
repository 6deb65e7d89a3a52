package utils

import (
	"fmt"
	"strings"
	"time"
)

// MapPaymentMethodToCode maps payment method labels to their stored codes
// Input is normalized to lowercase before mapping
// Unknown values are returned normalized so validation can reject them
func MapPaymentMethodToCode(method string) string {
	methodLower := strings.ToLower(strings.TrimSpace(method))

	methodMap := map[string]string{
		"cash":          "cash",
		"credit card":   "credit_card",
		"credit_card":   "credit_card",
		"debit card":    "debit_card",
		"debit_card":    "debit_card",
		"bank transfer": "bank_transfer",
		"bank_transfer": "bank_transfer",
		"transfer":      "bank_transfer",
		"installment":   "installment",
		"installments":  "installment",
		"check":         "check",
		"cheque":        "check",
	}

	if code, exists := methodMap[methodLower]; exists {
		return code
	}

	return strings.ReplaceAll(methodLower, " ", "_")
}

// NormalizeCode lowercases and trims enum-like values (statuses, plan types)
func NormalizeCode(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// TruncateToDate returns midnight UTC of the calendar day of t
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date, falling back to today (UTC) when empty
func ParseDate(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return TruncateToDate(now), nil
	}

	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", value)
	}
	return t, nil
}
