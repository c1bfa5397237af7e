package extract

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/agentstation/factmerge/pkg/errors"
	"github.com/agentstation/factmerge/pkg/facts"
	"github.com/agentstation/factmerge/pkg/logging"
	"github.com/agentstation/factmerge/pkg/normalize"
)

// Limits applied to key/value pairs found in free text.
const (
	MinKeyLength   = 2
	MaxKeyLength   = 100
	MaxValueLength = 500
)

// keyValuePatterns are tried in order over every line of a page.
var keyValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(.+?)\s*:\s*(.+)$`),
	regexp.MustCompile(`^(.+?)\s*=\s*(.+)$`),
	regexp.MustCompile(`^(.+?)\s*\|\s*(.+)$`),
}

// headingKey matches keys that are document structure, not data.
var headingKey = regexp.MustCompile(`(?i)^(page|section|chapter|appendix|table|figure|note)`)

// Text extracts "key: value", "key = value" and "key | value" lines from
// plain text. Pages are separated by form feeds.
type Text struct {
	builder
}

// NewText returns a plain text extractor.
func NewText(n *normalize.Normalizer) *Text {
	return &Text{newBuilder(n)}
}

// Extract implements Extractor.
func (x *Text) Extract(ctx context.Context, name string, r io.Reader) ([]facts.Fact, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", name, err)
	}

	out := []facts.Fact{}
	pages := strings.Split(string(data), "\f")
	for i, page := range pages {
		if err := canceled(ctx); err != nil {
			return nil, err
		}
		out = append(out, x.page(name, i+1, page)...)
	}

	logging.FromContext(ctx).Debug().
		Str("file", name).
		Int("pages", len(pages)).
		Int("facts", len(out)).
		Msg("Extracted text facts")

	return out, nil
}

// page extracts the key/value pairs of one page. A pair found by more than
// one pattern is kept once.
func (x *Text) page(name string, number int, text string) []facts.Fact {
	lines := splitLines(text)
	src := facts.Source{
		FileName:   name,
		FileType:   facts.FileTypePDF,
		Location:   fmt.Sprintf("page %d", number),
		Confidence: TextConfidence,
	}

	seen := make(map[string]bool)
	var out []facts.Fact
	for _, pattern := range keyValuePatterns {
		for _, line := range lines {
			m := pattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			key, value := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
			if !validPair(key, value) {
				continue
			}

			pair := key + ":" + value
			if seen[pair] {
				continue
			}
			seen[pair] = true

			if headingKey.MatchString(key) {
				continue
			}
			out = append(out, x.fact(key, value, src))
		}
	}
	return out
}

func validPair(key, value string) bool {
	if key == "" || value == "" {
		return false
	}
	keyLen := utf8.RuneCountInString(key)
	return keyLen >= MinKeyLength && keyLen <= MaxKeyLength &&
		utf8.RuneCountInString(value) <= MaxValueLength
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
