package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// leadingNumber matches the numeric prefix of a stripped amount, so
// "12.5USD" reads as 12.5.
var leadingNumber = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// maxIntegerDigits bounds the amounts that are formatted. Larger amounts are
// returned stripped rather than expanded.
const maxIntegerDigits = 21

// Currency strips currency symbols, thousands separators and whitespace,
// then formats the leading number with two fraction digits, rounding half
// away from zero. When no number can be read, or the amount has more than
// maxIntegerDigits integer digits, the stripped string is returned.
func Currency(value string) string {
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', '¥', ',':
			return -1
		}
		if isSpace(r) {
			return -1
		}
		return r
	}, value)

	match := leadingNumber.FindString(stripped)
	if match == "" {
		return stripped
	}
	match = strings.TrimPrefix(match, "+")
	if i := strings.IndexAny(match, "eE"); i > 0 && match[i-1] == '.' {
		match = match[:i-1] + match[i:]
	}
	match = strings.TrimSuffix(match, ".")

	amount, err := decimal.NewFromString(match)
	if err != nil {
		return stripped
	}

	// Magnitude is below 10^magnitude.
	magnitude := int64(amount.NumDigits()) + int64(amount.Exponent())
	switch {
	case magnitude > maxIntegerDigits:
		return stripped
	case magnitude <= -3:
		return decimal.Zero.StringFixed(2)
	}
	return amount.StringFixed(2)
}
