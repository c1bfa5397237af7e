package fields

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/factmerge/pkg/errors"
	"github.com/agentstation/factmerge/pkg/facts"
)

//go:embed tables.yaml
var defaultTablesYAML []byte

// Field describes one canonical field.
type Field struct {
	ID       string              `yaml:"id"                 json:"id"`
	Category facts.FieldCategory `yaml:"category,omitempty" json:"category"`
	Synonyms []string            `yaml:"synonyms,omitempty" json:"synonyms"`
}

// Abbreviation maps a short address token to its expanded form.
type Abbreviation struct {
	Abbr string `yaml:"abbr" json:"abbr"`
	Full string `yaml:"full" json:"full"`
}

// tablesFile is the on-disk layout of a tables file. Nil sections are
// absent from the file; an explicitly empty section is kept empty.
type tablesFile struct {
	Fields        []Field        `yaml:"fields"`
	Abbreviations []Abbreviation `yaml:"abbreviations"`
}

// Tables holds the synonym, category and abbreviation tables.
// Tables are immutable once built and safe for concurrent use.
type Tables struct {
	fields        []Field
	byID          map[string]int
	synonyms      map[string]string // collapsed synonym -> canonical id
	abbreviations []Abbreviation
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// DefaultTables returns the built-in tables.
func DefaultTables() *Tables {
	defaultOnce.Do(func() {
		t, err := ParseTables(defaultTablesYAML, "tables.yaml")
		if err != nil {
			panic(fmt.Sprintf("fields: embedded tables are invalid: %v", err))
		}
		defaultTables = t
	})
	return defaultTables
}

// LoadTables reads a YAML tables file. Any section the file omits keeps the
// built-in default.
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var file tablesFile
	if err := yaml.UnmarshalWithOptions(data, &file, yaml.DisallowUnknownField()); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}

	def := DefaultTables()
	if file.Fields == nil {
		file.Fields = def.fields
	}
	if file.Abbreviations == nil {
		file.Abbreviations = def.abbreviations
	}
	return newTables(file)
}

// ParseTables builds tables from YAML data. name is only used in errors.
func ParseTables(data []byte, name string) (*Tables, error) {
	var file tablesFile
	if err := yaml.UnmarshalWithOptions(data, &file, yaml.DisallowUnknownField()); err != nil {
		return nil, errors.WrapParse("yaml", name, err)
	}
	return newTables(file)
}

// NewTables builds tables from in-memory definitions.
func NewTables(fields []Field, abbreviations []Abbreviation) (*Tables, error) {
	return newTables(tablesFile{Fields: fields, Abbreviations: abbreviations})
}

func newTables(file tablesFile) (*Tables, error) {
	t := &Tables{
		fields:        make([]Field, 0, len(file.Fields)),
		byID:          make(map[string]int, len(file.Fields)),
		synonyms:      make(map[string]string),
		abbreviations: make([]Abbreviation, 0, len(file.Abbreviations)),
	}

	for i, f := range file.Fields {
		id := collapse(f.ID)
		if id == "" {
			return nil, errors.NewValidationError(fmt.Sprintf("fields[%d].id", i), f.ID, "must not be empty")
		}
		if _, dup := t.byID[id]; dup {
			return nil, errors.NewValidationError(fmt.Sprintf("fields[%d].id", i), f.ID, "duplicate canonical field")
		}
		if f.Category == "" {
			f.Category = facts.CategoryGeneric
		}
		if !f.Category.IsValid() {
			return nil, errors.NewValidationError(fmt.Sprintf("fields[%d].category", i), f.Category,
				fmt.Sprintf("unknown category for %s", id))
		}

		field := Field{ID: id, Category: f.Category, Synonyms: slices.Clone(f.Synonyms)}
		t.byID[id] = len(t.fields)
		t.fields = append(t.fields, field)
	}

	// Synonyms are indexed after all ids are known so declaration order
	// decides which field a shared synonym belongs to.
	for _, f := range t.fields {
		for _, syn := range f.Synonyms {
			key := collapse(syn)
			if key == "" {
				continue
			}
			if _, taken := t.synonyms[key]; !taken {
				t.synonyms[key] = f.ID
			}
		}
	}

	for i, a := range file.Abbreviations {
		abbr := strings.ToLower(strings.TrimSpace(a.Abbr))
		full := strings.ToLower(strings.TrimSpace(a.Full))
		if abbr == "" || full == "" || strings.ContainsFunc(abbr, isSeparator) {
			return nil, errors.NewValidationError(fmt.Sprintf("abbreviations[%d]", i), a.Abbr,
				"abbreviation must be a single non-empty word with a non-empty expansion")
		}
		t.abbreviations = append(t.abbreviations, Abbreviation{Abbr: abbr, Full: full})
	}

	return t, nil
}

// Fields returns the canonical fields in lookup order.
func (t *Tables) Fields() []Field {
	out := make([]Field, len(t.fields))
	for i, f := range t.fields {
		f.Synonyms = slices.Clone(f.Synonyms)
		out[i] = f
	}
	return out
}

// Field returns the definition of a canonical field.
func (t *Tables) Field(id string) (Field, bool) {
	i, ok := t.byID[id]
	if !ok {
		return Field{}, false
	}
	f := t.fields[i]
	f.Synonyms = slices.Clone(f.Synonyms)
	return f, true
}

// Category returns the category of a canonical field, or generic.
func (t *Tables) Category(id string) facts.FieldCategory {
	if i, ok := t.byID[id]; ok {
		return t.fields[i].Category
	}
	return facts.CategoryGeneric
}

// Abbreviations returns the address abbreviations in application order.
func (t *Tables) Abbreviations() []Abbreviation {
	return slices.Clone(t.abbreviations)
}

// lookup resolves a collapsed label against ids first, then synonyms.
func (t *Tables) lookup(collapsed string) (string, bool) {
	if _, ok := t.byID[collapsed]; ok {
		return collapsed, true
	}
	id, ok := t.synonyms[collapsed]
	return id, ok
}
