package normalize

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateLayout is the output layout of Date.
const DateLayout = "2006-01-02"

// dateLayouts are tried in order; the first successful parse wins. Month and
// day accept one or two digits and month names match case-insensitively.
var dateLayouts = []string{
	"2006-1-2",
	"1/2/2006",
	"2/1/2006",
	"1-2-2006",
	"2-1-2006",
	"2006/1/2",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// Date formats a date as yyyy-MM-dd. Values matching none of the known
// layouts go through a free-form parse; if that fails too the value is
// lowercased and trimmed.
func Date(value string) string {
	trimmed := strings.TrimSpace(value)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(DateLayout)
		}
	}

	if t, err := dateparse.ParseIn(trimmed, time.UTC); err == nil {
		return t.Format(DateLayout)
	}

	return Generic(value)
}
