package extract

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/factmerge/pkg/errors"
	"github.com/agentstation/factmerge/pkg/facts"
	"github.com/agentstation/factmerge/pkg/logging"
	"github.com/agentstation/factmerge/pkg/normalize"
)

// CSV extracts one fact per non-blank cell of a CSV file with a header row.
// Cells without a header are ignored.
// Locations are "row N" where N counts the header as row 1 and skips blank
// lines.
type CSV struct {
	builder
}

// NewCSV returns a CSV extractor.
func NewCSV(n *normalize.Normalizer) *CSV {
	return &CSV{newBuilder(n)}
}

// Extract implements Extractor.
func (x *CSV) Extract(ctx context.Context, name string, r io.Reader) ([]facts.Fact, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return []facts.Fact{}, nil
	}
	if err != nil {
		return nil, parseError(name, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	out := []facts.Fact{}
	rows := 0
	for {
		if err := canceled(ctx); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, parseError(name, err)
		}
		rows++

		src := facts.Source{
			FileName:   name,
			FileType:   facts.FileTypeCSV,
			Location:   fmt.Sprintf("row %d", rows+1),
			Confidence: CSVConfidence,
		}
		for i, value := range record {
			if i >= len(header) || strings.TrimSpace(header[i]) == "" || strings.TrimSpace(value) == "" {
				continue
			}
			out = append(out, x.fact(header[i], value, src))
		}
	}

	logging.FromContext(ctx).Debug().
		Str("file", name).
		Int("rows", rows).
		Int("facts", len(out)).
		Msg("Extracted CSV facts")

	return out, nil
}

func parseError(name string, err error) error {
	pe := errors.NewParseError("csv", name, err.Error(), err)
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		pe.Line = csvErr.Line
	}
	return pe
}
