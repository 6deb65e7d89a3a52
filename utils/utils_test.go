package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0.00 EGP"},
		{"183.333", "183.33 EGP"},
		{"1100", "1,100.00 EGP"},
		{"2075.5", "2,075.50 EGP"},
		{"1234567.891", "1,234,567.89 EGP"},
		{"-500", "-500.00 EGP"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatAmount(decimal.RequireFromString(tc.in), "EGP"))
		})
	}

	assert.Equal(t, "12,500.00", FormatAmount(decimal.NewFromInt(12500), ""))
}

func TestMapPaymentMethodToCode(t *testing.T) {
	assert.Equal(t, "credit_card", MapPaymentMethodToCode(" Credit Card "))
	assert.Equal(t, "bank_transfer", MapPaymentMethodToCode("transfer"))
	assert.Equal(t, "installment", MapPaymentMethodToCode("INSTALLMENT"))
	assert.Equal(t, "gift_card", MapPaymentMethodToCode("Gift Card"))
}

func TestParseDate(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 4, 5, 0, time.UTC)

	got, err := ParseDate("", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDate("2026-01-31", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("31/01/2026", now)
	assert.Error(t, err)
}

func TestTruncateToDate(t *testing.T) {
	cairo := time.FixedZone("UTC+3", 3*60*60)

	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		TruncateToDate(time.Date(2026, 10, 19, 23, 59, 59, 0, time.UTC)))
	// 01:30 at UTC+3 is still the previous day in UTC
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
		TruncateToDate(time.Date(2026, 10, 19, 1, 30, 0, 0, cairo)))
}
