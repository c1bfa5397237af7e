package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"

	"github.com/agentstation/factmerge/pkg/errors"
	"github.com/agentstation/factmerge/pkg/facts"
	"github.com/agentstation/factmerge/pkg/logging"
	"github.com/agentstation/factmerge/pkg/normalize"
)

// PDF extracts the plain text of each page and applies the Text rules to it.
type PDF struct {
	text *Text
}

// NewPDF returns a PDF extractor.
func NewPDF(n *normalize.Normalizer) *PDF {
	return &PDF{text: NewText(n)}
}

// Extract implements Extractor.
func (x *PDF) Extract(ctx context.Context, name string, r io.Reader) (out []facts.Fact, err error) {
	// The PDF reader panics on some malformed documents.
	defer func() {
		if p := recover(); p != nil {
			out, err = nil, errors.NewParseError("pdf", name, fmt.Sprint(p), nil)
		}
	}()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", name, err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.WrapParse("pdf", name, err)
	}

	out = []facts.Fact{}
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		if err := canceled(ctx); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, errors.NewParseError("pdf", name, err.Error(), err)
		}
		out = append(out, x.text.page(name, i, text)...)
	}

	logging.FromContext(ctx).Debug().
		Str("file", name).
		Int("pages", pages).
		Int("facts", len(out)).
		Msg("Extracted PDF facts")

	return out, nil
}
