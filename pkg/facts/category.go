package facts

import "slices"

// FieldCategory selects the normalization strategy and fuzzy-match policy
// for a canonical field.
type FieldCategory string

// String returns the string representation of a FieldCategory.
func (c FieldCategory) String() string {
	return string(c)
}

// Field categories.
const (
	CategoryName     FieldCategory = "name"     // Person names
	CategoryAddress  FieldCategory = "address"  // Street addresses and cities
	CategoryID       FieldCategory = "id"       // Identifiers and reference numbers
	CategoryEmail    FieldCategory = "email"    // Email addresses
	CategoryPhone    FieldCategory = "phone"    // Telephone numbers
	CategoryDate     FieldCategory = "date"     // Calendar dates
	CategoryCurrency FieldCategory = "currency" // Monetary amounts
	CategoryGeneric  FieldCategory = "generic"  // Everything else
)

// Categories returns every field category.
func Categories() []FieldCategory {
	return []FieldCategory{
		CategoryName,
		CategoryAddress,
		CategoryID,
		CategoryEmail,
		CategoryPhone,
		CategoryDate,
		CategoryCurrency,
		CategoryGeneric,
	}
}

// IsValid returns true if the category is one of the defined constants.
func (c FieldCategory) IsValid() bool {
	return slices.Contains(Categories(), c)
}

// FuzzyEligible reports whether values of this category may be merged on
// similarity rather than strict equality.
func (c FieldCategory) FuzzyEligible() bool {
	return c == CategoryName || c == CategoryAddress
}

// FileType identifies the kind of document a fact was extracted from.
type FileType string

// String returns the string representation of a FileType.
func (t FileType) String() string {
	return string(t)
}

// File types.
const (
	FileTypeCSV FileType = "csv" // Tabular sources
	FileTypePDF FileType = "pdf" // Document sources, including plain text
)
