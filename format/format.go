// Package format renders money, quantities, phone numbers and dates for display.
package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the display form of quote dates.
const DateLayout = "January 2, 2006"

// DefaultValidity is how long a quote stays valid when no custom date is set.
const DefaultValidity = 30 * 24 * time.Hour

// Money formats an amount as $1,234.50: two decimals, comma grouping.
// Grouping works on decimal's exact string so cents never pass through a float.
func Money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	out := "$" + group(intPart) + "." + frac
	if neg {
		return "-" + out
	}
	return out
}

// Quantity prints a quantity with no fixed precision: 2, 1.5, 0.25.
func Quantity(d decimal.Decimal) string {
	return d.String()
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Phone formats up to ten digits as NNN-NNN-NNNN, dropping any other characters.
// Partial input is formatted as far as it goes, the way the form field does.
func Phone(s string) string {
	var digits []byte
	for i := 0; i < len(s) && len(digits) < 10; i++ {
		if s[i] >= '0' && s[i] <= '9' {
			digits = append(digits, s[i])
		}
	}
	switch n := len(digits); {
	case n <= 3:
		return string(digits)
	case n <= 6:
		return string(digits[:3]) + "-" + string(digits[3:])
	default:
		return string(digits[:3]) + "-" + string(digits[3:6]) + "-" + string(digits[6:])
	}
}

// Date renders t in DateLayout.
func Date(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidUntil returns the display date a quote expires: the custom value when
// one is set, otherwise the quote date plus DefaultValidity. Unparseable quote
// dates yield the custom value unchanged.
func ValidUntil(quoteDate, custom string, useCustom bool) string {
	if useCustom && strings.TrimSpace(custom) != "" {
		return custom
	}
	t, err := ParseDate(quoteDate)
	if err != nil {
		return custom
	}
	return Date(t.Add(DefaultValidity))
}

// ParseDate accepts the display layout as well as ISO dates from date inputs.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}
