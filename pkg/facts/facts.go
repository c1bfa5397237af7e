package facts

// Source records where a fact was observed.
type Source struct {
	FileName   string   `json:"fileName"   yaml:"fileName"`
	FileType   FileType `json:"fileType"   yaml:"fileType"`
	Location   string   `json:"location"   yaml:"location"`   // e.g. "row 2" or "page 1"
	Confidence float64  `json:"confidence" yaml:"confidence"` // 0.0 to 1.0
}

// Fact is one field/value observation, possibly merged from several sources.
type Fact struct {
	Field           string   `json:"field"           yaml:"field"`
	CanonicalField  string   `json:"canonicalField"  yaml:"canonicalField"`
	Value           string   `json:"value"           yaml:"value"`
	NormalizedValue string   `json:"normalizedValue" yaml:"normalizedValue"`
	Sources         []Source `json:"sources"         yaml:"sources"`
}

// WithSources returns a copy of f whose sources are f's followed by more.
// The returned slice never shares backing storage with f.Sources.
func (f Fact) WithSources(more ...Source) Fact {
	merged := make([]Source, 0, len(f.Sources)+len(more))
	merged = append(merged, f.Sources...)
	merged = append(merged, more...)
	f.Sources = merged
	return f
}

// ConflictValue is one of the competing values for a field.
type ConflictValue struct {
	Value           string   `json:"value"           yaml:"value"`
	NormalizedValue string   `json:"normalizedValue" yaml:"normalizedValue"`
	Sources         []Source `json:"sources"         yaml:"sources"`
}

// Conflict lists two or more distinct normalized values seen for one field.
type Conflict struct {
	CanonicalField string          `json:"canonicalField" yaml:"canonicalField"`
	Values         []ConflictValue `json:"values"         yaml:"values"`
}

// MergeResult is the outcome of merging a batch of files.
type MergeResult struct {
	MergedFacts         []Fact     `json:"mergedFacts"         yaml:"mergedFacts"`
	Conflicts           []Conflict `json:"conflicts"           yaml:"conflicts"`
	TotalFilesProcessed int        `json:"totalFilesProcessed" yaml:"totalFilesProcessed"`
	TotalFactsExtracted int        `json:"totalFactsExtracted" yaml:"totalFactsExtracted"`
	TotalFactsMerged    int        `json:"totalFactsMerged"    yaml:"totalFactsMerged"`
}

// HasConflicts returns true if any field has competing values.
func (r *MergeResult) HasConflicts() bool {
	return r != nil && len(r.Conflicts) > 0
}

// SourceCount returns the number of sources across all merged facts.
func (r *MergeResult) SourceCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, f := range r.MergedFacts {
		n += len(f.Sources)
	}
	return n
}
