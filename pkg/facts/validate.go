package facts

import (
	"fmt"

	"github.com/agentstation/factmerge/pkg/errors"
)

// Validate checks the invariants the reconciler relies on: every fact has a
// canonical field and at least one source, and every confidence lies in [0,1].
// All problems are reported together.
func Validate(facts []Fact) error {
	var errs []error
	for i, f := range facts {
		if f.CanonicalField == "" {
			errs = append(errs, &errors.ValidationError{
				Field:   fmt.Sprintf("facts[%d].canonicalField", i),
				Value:   f.Field,
				Message: "must not be empty",
			})
		}
		if len(f.Sources) == 0 {
			errs = append(errs, &errors.ValidationError{
				Field:   fmt.Sprintf("facts[%d].sources", i),
				Message: "at least one source is required",
			})
		}
		for j, s := range f.Sources {
			if s.Confidence < 0 || s.Confidence > 1 {
				errs = append(errs, &errors.ValidationError{
					Field:   fmt.Sprintf("facts[%d].sources[%d].confidence", i, j),
					Value:   s.Confidence,
					Message: "must be between 0 and 1",
				})
			}
		}
	}
	return errors.Join(errs...)
}
