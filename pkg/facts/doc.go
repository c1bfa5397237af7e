// Package facts provides the shared data model for fact reconciliation.
//
// A Fact is a single (field, value) observation carrying the sources it was
// seen in. Facts flow from the extractors through canonicalization and
// normalization into the reconciler, which merges equivalent facts and
// reports conflicts. The package has no dependencies on the rest of the
// module so every other package can import it without cycles.
package facts
