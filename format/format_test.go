package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"5", "$5.00"},
		{"350", "$350.00"},
		{"1234.5", "$1,234.50"},
		{"1000000", "$1,000,000.00"},
		{"123456.789", "$123,456.79"},
		{"-42.1", "-$42.10"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Money(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestQuantity(t *testing.T) {
	assert.Equal(t, "2", Quantity(decimal.NewFromInt(2)))
	assert.Equal(t, "1.5", Quantity(decimal.RequireFromString("1.50")))
}

func TestPhone(t *testing.T) {
	assert.Equal(t, "602-555-1234", Phone("(602) 555-1234"))
	assert.Equal(t, "602-555-1234", Phone("60255512349999"))
	assert.Equal(t, "602-55", Phone("60255"))
	assert.Equal(t, "60", Phone("60"))
	assert.Equal(t, "", Phone("abc"))
}

func TestValidUntil(t *testing.T) {
	assert.Equal(t, "February 14, 2026", ValidUntil("2026-01-15", "", false))
	assert.Equal(t, "March 1, 2026", ValidUntil("January 15, 2026", "March 1, 2026", true))
	assert.Equal(t, "February 14, 2026", ValidUntil("January 15, 2026", "March 1, 2026", false))
	assert.Equal(t, "", ValidUntil("not a date", "", false))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, time.October, got.Month())

	_, err = ParseDate("yesterday")
	require.Error(t, err)
}
