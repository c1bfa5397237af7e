package provenance

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/factmerge/pkg/errors"
	"github.com/agentstation/factmerge/pkg/facts"
)

func source(file, loc string, confidence float64) facts.Source {
	return facts.Source{FileName: file, FileType: facts.FileTypeCSV, Location: loc, Confidence: confidence}
}

func sampleInput() []facts.Fact {
	return []facts.Fact{
		{Field: "Name", CanonicalField: "full_name", Value: "John Doe", NormalizedValue: "john doe",
			Sources: []facts.Source{source("a.csv", "row 2", 1)}},
		{Field: "name", CanonicalField: "full_name", Value: "John  Doe", NormalizedValue: "john doe",
			Sources: []facts.Source{source("b.pdf", "page 1", 0.9)}},
		{Field: "Invoice", CanonicalField: "invoice_number", Value: "INV-001", NormalizedValue: "inv001",
			Sources: []facts.Source{source("a.csv", "row 2", 1)}},
		{Field: "Invoice", CanonicalField: "invoice_number", Value: "INV-002", NormalizedValue: "inv002",
			Sources: []facts.Source{source("b.pdf", "page 1", 0.9)}},
	}
}

func sampleResult() *facts.MergeResult {
	in := sampleInput()
	return &facts.MergeResult{
		MergedFacts: []facts.Fact{
			in[0].WithSources(in[1].Sources...),
			in[2],
			in[3],
		},
		Conflicts: []facts.Conflict{{
			CanonicalField: "invoice_number",
			Values: []facts.ConflictValue{
				{Value: "INV-001", NormalizedValue: "inv001", Sources: in[2].Sources},
				{Value: "INV-002", NormalizedValue: "inv002", Sources: in[3].Sources},
			},
		}},
		TotalFilesProcessed: 2,
		TotalFactsExtracted: 4,
		TotalFactsMerged:    3,
	}
}

func TestGenerateReport(t *testing.T) {
	report := GenerateReport(sampleResult())
	require.Len(t, report.Fields, 2)

	name, ok := report.Field("full_name")
	require.True(t, ok)
	assert.False(t, name.Conflict)
	require.Len(t, name.Values, 1)
	assert.Len(t, name.Values[0].Observations, 2)
	assert.InDelta(t, 1.0, name.Values[0].Confidence(), 1e-9)

	invoice, ok := report.Field("invoice_number")
	require.True(t, ok)
	assert.True(t, invoice.Conflict)
	assert.Len(t, invoice.Values, 2)

	_, ok = report.Field("missing")
	assert.False(t, ok)

	assert.Empty(t, GenerateReport(nil).Fields)
}

func TestReportString(t *testing.T) {
	out := GenerateReport(sampleResult()).String()
	assert.Contains(t, out, "Provenance Report")
	assert.Contains(t, out, "invoice_number (conflict)")
	assert.Contains(t, out, "    - b.pdf, page 1 (confidence 0.90)")
}

func TestReportMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GenerateReport(sampleResult()).Markdown(&buf))

	out := buf.String()
	assert.Contains(t, out, "# Provenance Report")
	assert.Contains(t, out, "2 fields, 1 with conflicting values.")
	assert.Contains(t, out, "## full_name")
	assert.Contains(t, out, "| Value")
	assert.Contains(t, out, "a.csv (row 2), b.pdf (page 1)")
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	report := GenerateReport(sampleResult())
	require.NoError(t, report.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, report, loaded)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.IsNotFound(err))
}

func TestAuditValid(t *testing.T) {
	audit := Audit(sampleInput(), sampleResult())
	assert.True(t, audit.Valid, audit.Issues)
	assert.Empty(t, audit.Issues)
	assert.Equal(t, 4, audit.InputSources)
	assert.Equal(t, 4, audit.OutputSources)
	assert.Equal(t, 1, audit.Conflicts)
}

func TestAuditDetectsProblems(t *testing.T) {
	t.Run("dropped source", func(t *testing.T) {
		result := sampleResult()
		result.MergedFacts[0].Sources = result.MergedFacts[0].Sources[:1]

		audit := Audit(sampleInput(), result)
		assert.False(t, audit.Valid)
		assert.Contains(t, audit.Issues, "source b.pdf page 1 dropped 1 time(s)")
	})

	t.Run("duplicated source", func(t *testing.T) {
		result := sampleResult()
		result.MergedFacts[1] = result.MergedFacts[1].WithSources(source("a.csv", "row 2", 1))

		audit := Audit(sampleInput(), result)
		assert.False(t, audit.Valid)
		assert.Contains(t, audit.Issues, "source a.csv row 2 duplicated 1 time(s)")
	})

	t.Run("single value conflict", func(t *testing.T) {
		result := sampleResult()
		result.Conflicts[0].Values = result.Conflicts[0].Values[:1]

		audit := Audit(sampleInput(), result)
		assert.False(t, audit.Valid)
		assert.Contains(t, audit.Issues, "conflict for invoice_number has 1 value(s)")
	})

	t.Run("wrong totals", func(t *testing.T) {
		result := sampleResult()
		result.TotalFactsMerged = 9

		audit := Audit(sampleInput(), result)
		assert.False(t, audit.Valid)
		assert.Contains(t, audit.Issues, "totalFactsMerged is 9, expected 3")
	})

	t.Run("nil result", func(t *testing.T) {
		assert.False(t, Audit(nil, nil).Valid)
	})
}

func TestAuditWarnsOnLowConfidence(t *testing.T) {
	in := []facts.Fact{{
		CanonicalField: "notes", Value: "x", NormalizedValue: "x",
		Sources: []facts.Source{source("a.txt", "page 1", 0.2)},
	}}
	result := &facts.MergeResult{MergedFacts: in, TotalFactsExtracted: 1, TotalFactsMerged: 1}

	audit := Audit(in, result)
	assert.True(t, audit.Valid)
	require.Len(t, audit.Warnings, 1)
	assert.Contains(t, audit.Warnings[0], "confidence 0.20")
}
