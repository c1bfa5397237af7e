// Package output provides formatters for command output.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	md "github.com/nao1215/markdown"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/factmerge/internal/cmd/table"
	"github.com/agentstation/factmerge/pkg/facts"
	"github.com/agentstation/factmerge/pkg/provenance"
)

// Format types for output.
type Format string

const (
	// FormatTable represents table output format.
	FormatTable Format = "table"
	// FormatJSON represents JSON output format.
	FormatJSON Format = "json"
	// FormatYAML represents YAML output format.
	FormatYAML Format = "yaml"
	// FormatWide represents wide table output format.
	FormatWide Format = "wide"
	// FormatCSV represents comma-separated output format.
	FormatCSV Format = "csv"
	// FormatText represents one-line-per-fact plain text.
	FormatText Format = "text"
	// FormatMarkdown represents markdown output format.
	FormatMarkdown Format = "markdown"
)

// Data is an alias so callers can pass table rows without importing table.
type Data = table.Data

// Formatter interface for all output types.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// FormatterFunc allows functions to implement Formatter.
type FormatterFunc func(io.Writer, any) error

// Format implements the Formatter interface.
func (f FormatterFunc) Format(w io.Writer, data any) error {
	return f(w, data)
}

// NewFormatter creates appropriate formatter based on format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatCSV:
		return &CSVFormatter{}
	case FormatText:
		return &TextFormatter{}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	case FormatTable, FormatWide:
		return &TableFormatter{Wide: format == FormatWide}
	default:
		return &TableFormatter{}
	}
}

// JSONFormatter outputs JSON format.
type JSONFormatter struct {
	Indent string
}

// Format implements the Formatter interface for JSON output.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(data)
}

// YAMLFormatter outputs YAML format.
type YAMLFormatter struct{}

// Format outputs data in YAML format.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	yamlData, err := yaml.MarshalWithOptions(data,
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(yamlData)
	return err
}

// TableFormatter outputs table format.
type TableFormatter struct {
	Wide bool
}

// Format outputs data in table format.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case Data:
		return f.formatTable(w, v)
	case *facts.MergeResult:
		return f.formatResult(w, v)
	case *provenance.Report:
		return f.formatTable(w, table.ReportToTableData(v))
	default:
		// Try to convert structs/slices to table format using reflection
		if tableData := f.convertToTableData(data); tableData != nil {
			return f.formatTable(w, *tableData)
		}

		// Fall back to JSON for non-table data
		jsonFormatter := &JSONFormatter{Indent: "  "}
		return jsonFormatter.Format(w, data)
	}
}

// formatResult renders merged facts, then conflicts when there are any.
func (f *TableFormatter) formatResult(w io.Writer, result *facts.MergeResult) error {
	if err := f.formatTable(w, table.FactsToTableData(result.MergedFacts, f.Wide)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\n%d files, %d facts extracted, %d merged\n",
		result.TotalFilesProcessed, result.TotalFactsExtracted, result.TotalFactsMerged); err != nil {
		return err
	}
	if !result.HasConflicts() {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\n%d conflicting fields:\n", len(result.Conflicts)); err != nil {
		return err
	}
	return f.formatTable(w, table.ConflictsToTableData(result.Conflicts))
}

func (f *TableFormatter) formatTable(w io.Writer, data Data) error {
	opts := []tablewriter.Option{}

	config := tablewriter.Config{}

	if len(data.ColumnAlignment) > 0 {
		// Translate table.Align type to tablewriter's tw.Align type
		twAlign := make([]tw.Align, len(data.ColumnAlignment))
		for i, align := range data.ColumnAlignment {
			switch align {
			case table.AlignLeft:
				twAlign[i] = tw.AlignLeft
			case table.AlignCenter:
				twAlign[i] = tw.AlignCenter
			case table.AlignRight:
				twAlign[i] = tw.AlignRight
			default: // table.AlignDefault
				twAlign[i] = tw.Skip
			}
		}

		config.Header.Alignment = tw.CellAlignment{PerColumn: twAlign}
		config.Row.Alignment = tw.CellAlignment{PerColumn: twAlign}
	}

	opts = append(opts, tablewriter.WithConfig(config))
	tbl := tablewriter.NewTable(w, opts...)

	if len(data.Headers) > 0 {
		headers := make([]any, len(data.Headers))
		for i, h := range data.Headers {
			headers[i] = h
		}
		tbl.Header(headers...)
	}

	for _, row := range data.Rows {
		rowData := make([]any, len(row))
		for i, cell := range row {
			rowData[i] = cell
		}
		if err := tbl.Append(rowData...); err != nil {
			return err
		}
	}

	return tbl.Render()
}

// CSVFormatter outputs comma-separated values. Merge results use the export
// columns Field, Canonical Field, Value, Normalized Value, Sources.
type CSVFormatter struct{}

// Format outputs data in CSV format.
func (f *CSVFormatter) Format(w io.Writer, data any) error {
	var rows [][]string
	switch v := data.(type) {
	case *facts.MergeResult:
		rows = append(rows, []string{"Field", "Canonical Field", "Value", "Normalized Value", "Sources"})
		for _, fact := range v.MergedFacts {
			rows = append(rows, []string{
				fact.Field,
				fact.CanonicalField,
				fact.Value,
				fact.NormalizedValue,
				table.SourcesString(fact.Sources),
			})
		}
	case *provenance.Report:
		d := table.ReportToTableData(v)
		rows = append(rows, d.Headers)
		rows = append(rows, d.Rows...)
	case Data:
		rows = append(rows, v.Headers)
		rows = append(rows, v.Rows...)
	default:
		return fmt.Errorf("csv output is not supported for %T", data)
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// TextFormatter outputs one line per merged fact:
//
//	CANONICAL FIELD: value [Sources: file:location, ...]
type TextFormatter struct{}

// Format outputs data as plain text.
func (f *TextFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case *facts.MergeResult:
		for _, fact := range v.MergedFacts {
			if _, err := fmt.Fprintf(w, "%s: %s [Sources: %s]\n",
				TextLabel(fact.CanonicalField), fact.Value, sourceList(fact.Sources)); err != nil {
				return err
			}
		}
		return nil
	case *provenance.Report:
		_, err := io.WriteString(w, v.String())
		return err
	case Data:
		for _, row := range v.Rows {
			if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
				return err
			}
		}
		return nil
	default:
		_, err := fmt.Fprintln(w, data)
		return err
	}
}

// TextLabel upper-cases a canonical field and replaces underscores with
// spaces, e.g. "invoice_number" becomes "INVOICE NUMBER".
func TextLabel(field string) string {
	return strings.ToUpper(strings.ReplaceAll(field, "_", " "))
}

func sourceList(sources []facts.Source) string {
	parts := make([]string, len(sources))
	for i, s := range sources {
		parts[i] = s.FileName + ":" + s.Location
	}
	return strings.Join(parts, ", ")
}

// MarkdownFormatter outputs markdown. Merge results render as a provenance
// report.
type MarkdownFormatter struct{}

// Format outputs data in markdown format.
func (f *MarkdownFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case *facts.MergeResult:
		return provenance.GenerateReport(v).Markdown(w)
	case *provenance.Report:
		return v.Markdown(w)
	case Data:
		return md.NewMarkdown(w).
			Table(md.TableSet{Header: v.Headers, Rows: v.Rows}).
			Build()
	default:
		return fmt.Errorf("markdown output is not supported for %T", data)
	}
}

// DetectFormat auto-detects format based on terminal and environment.
func DetectFormat(explicitFormat string) Format {
	// Use explicit format if provided
	if explicitFormat != "" {
		return Format(strings.ToLower(explicitFormat))
	}

	// Check if output is a terminal
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}

	// Default to JSON for pipes/redirects
	return FormatJSON
}

// ParseFormat converts string to Format with validation.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	switch format {
	case FormatTable, FormatJSON, FormatYAML, FormatWide, FormatCSV, FormatText, FormatMarkdown, "":
		return format, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of: table, wide, json, yaml, csv, text, markdown", s)
	}
}

// FormatFromPath picks an export format from a file extension, defaulting
// to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".txt":
		return FormatText
	case ".md":
		return FormatMarkdown
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// convertToTableData attempts to convert struct slices to Data using reflection.
func (f *TableFormatter) convertToTableData(data any) *Data {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}

	// Handle slices
	if v.Kind() == reflect.Slice && v.Len() > 0 {
		if v.Index(0).Kind() == reflect.Struct {
			return f.structSliceToTableData(v)
		}
	}

	// Handle single structs
	if v.Kind() == reflect.Struct {
		return f.singleStructToTableData(v)
	}

	return nil
}

// structSliceToTableData converts a slice of structs to Data.
func (f *TableFormatter) structSliceToTableData(v reflect.Value) *Data {
	elemType := v.Index(0).Type()

	var headers []string
	for i := 0; i < elemType.NumField(); i++ {
		headers = append(headers, columnName(elemType.Field(i)))
	}

	var rows [][]string
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		var row []string
		for j := 0; j < elem.NumField(); j++ {
			row = append(row, fmt.Sprintf("%v", elem.Field(j).Interface()))
		}
		rows = append(rows, row)
	}

	return &Data{
		Headers: headers,
		Rows:    rows,
	}
}

// singleStructToTableData converts a single struct to a key-value table.
func (f *TableFormatter) singleStructToTableData(v reflect.Value) *Data {
	elemType := v.Type()

	headers := []string{"Property", "Value"}
	var rows [][]string

	for i := 0; i < elemType.NumField(); i++ {
		rows = append(rows, []string{
			columnName(elemType.Field(i)),
			fmt.Sprintf("%v", v.Field(i).Interface()),
		})
	}

	return &Data{
		Headers: headers,
		Rows:    rows,
	}
}

// columnName uses the json tag if available, otherwise the field name.
func columnName(field reflect.StructField) string {
	jsonTag := field.Tag.Get("json")
	if jsonTag == "" || jsonTag == "-" {
		return field.Name
	}
	if idx := strings.Index(jsonTag, ","); idx > 0 {
		jsonTag = jsonTag[:idx]
	}
	caser := cases.Title(language.English)
	return caser.String(strings.ReplaceAll(jsonTag, "_", " "))
}
