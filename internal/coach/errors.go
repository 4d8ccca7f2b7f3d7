package coach

import (
	"fmt"
	"strings"
)

// InvalidInputError reports a malformed or out-of-range primitive input, such
// as an age outside the configured bounds. It is never retryable.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidationError reports every business-constraint violation found in a
// submitted record, not just the first, so callers can surface all problems
// at once.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// NoCandidatesError reports that contraindication filtering removed every
// catalog entry. Callers typically degrade to generic rest/consult advice
// rather than treating this as a hard failure.
type NoCandidatesError struct {
	Conditions int
}

func (e *NoCandidatesError) Error() string {
	return fmt.Sprintf("no exercise candidates remain after filtering %d health condition(s)", e.Conditions)
}
