// Package extract reads raw field/value observations out of documents.
//
// Every extractor canonicalizes field labels and normalizes values as it
// goes, so the facts it returns carry exactly one source each and are ready
// for the reconciler.
package extract

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/agentstation/factmerge/pkg/errors"
	"github.com/agentstation/factmerge/pkg/facts"
	"github.com/agentstation/factmerge/pkg/normalize"
)

// Extractor extracts facts from one document.
type Extractor interface {
	// Extract reads r, a document called name, and returns its facts in
	// document order.
	Extract(ctx context.Context, name string, r io.Reader) ([]facts.Fact, error)
}

// Confidence assigned to extracted facts.
const (
	CSVConfidence  = 1.0
	TextConfidence = 0.9
)

// Extensions lists the supported file extensions.
func Extensions() []string {
	return []string{".csv", ".pdf", ".txt"}
}

// Supported reports whether name has a supported extension.
func Supported(name string) bool {
	return slices.Contains(Extensions(), strings.ToLower(filepath.Ext(name)))
}

// ForFile returns the extractor for name, chosen by extension. A nil
// normalizer selects the default one.
func ForFile(name string, n *normalize.Normalizer) (Extractor, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv":
		return NewCSV(n), nil
	case ".pdf":
		return NewPDF(n), nil
	case ".txt":
		return NewText(n), nil
	default:
		return nil, &errors.UnsupportedError{File: name, Kind: strings.TrimPrefix(ext, ".")}
	}
}

// builder turns raw observations into facts.
type builder struct {
	normalizer *normalize.Normalizer
}

func newBuilder(n *normalize.Normalizer) builder {
	if n == nil {
		n = normalize.Default()
	}
	return builder{normalizer: n}
}

func (b builder) fact(label, value string, src facts.Source) facts.Fact {
	canonical := b.normalizer.Canonicalizer().Canonicalize(label)
	return facts.Fact{
		Field:           label,
		CanonicalField:  canonical,
		Value:           value,
		NormalizedValue: b.normalizer.Normalize(value, canonical),
		Sources:         []facts.Source{src},
	}
}

// canceled wraps a context error so callers can test for errors.ErrCanceled.
func canceled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrCanceled, err)
	}
	return nil
}
