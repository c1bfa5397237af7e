package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/agentstation/factmerge/pkg/fields"
)

type abbreviationRule struct {
	pattern *regexp.Regexp
	full    string
}

// addressExpander expands whole-word abbreviations, in table order.
type addressExpander struct {
	rules []abbreviationRule
}

func newAddressExpander(abbrs []fields.Abbreviation) *addressExpander {
	e := &addressExpander{rules: make([]abbreviationRule, 0, len(abbrs))}
	for _, a := range abbrs {
		e.rules = append(e.rules, abbreviationRule{
			pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(a.Abbr) + `\b`),
			full:    a.Full,
		})
	}
	return e
}

// normalize lowercases, expands abbreviations and collapses whitespace.
func (e *addressExpander) normalize(value string) string {
	s := strings.ToLower(strings.TrimSpace(value))
	for _, rule := range e.rules {
		s = rule.pattern.ReplaceAllLiteralString(s, rule.full)
	}
	return strings.Join(strings.Fields(s), " ")
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}
