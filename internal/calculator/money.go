package calculator

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Commas groups the integer digits of v in threes: 1234567.8 -> "1,234,567.8".
func Commas(v float64) string {
	return humanize.Commaf(v)
}

// Money rounds d to places decimals and groups the integer digits.
// Trailing zeros are kept: Money(1000.1, 2) -> "1,000.10".
func Money(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	intPart, frac, hasFrac := strings.Cut(s, ".")

	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		// Beyond int64; leave ungrouped.
		return s
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(humanize.Comma(n))
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// Units renders a bitcoin amount with two decimals, ungrouped.
func Units(d decimal.Decimal) string {
	return d.StringFixed(2)
}
