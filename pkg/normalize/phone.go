package normalize

import (
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
)

// internationalRegion makes the parser require an explicit country code.
const internationalRegion = "ZZ"

// Phone formats a phone number as E.164. Numbers are parsed against region
// first, then as international numbers. Anything that is not a valid number
// is returned with every non-alphanumeric character removed.
func Phone(value, region string) string {
	value = strings.TrimSpace(value)

	if num, err := phonenumbers.Parse(value, region); err == nil && phonenumbers.IsValidNumber(num) {
		return phonenumbers.Format(num, phonenumbers.E164)
	}
	if num, err := phonenumbers.Parse(value, internationalRegion); err == nil && phonenumbers.IsValidNumber(num) {
		return phonenumbers.Format(num, phonenumbers.E164)
	}

	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, value)
}
