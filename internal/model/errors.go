package model

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports a single rejected field during graph ingestion.
//
// Ingestion fails fast: malformed input is an error at the boundary, never
// a silent zero inside the solver. Missing optional numerics still default
// to zero; only contradictory or out-of-range values are errors.
type ValidationError struct {
	NodeID  string // empty for edge/graph-level errors
	EdgeID  string
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch {
	case e.NodeID != "":
		return fmt.Sprintf("node %s: %s: %s", e.NodeID, e.Field, e.Message)
	case e.EdgeID != "":
		return fmt.Sprintf("edge %s: %s: %s", e.EdgeID, e.Field, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsValidationErrors unwraps err into target when it is (or wraps) a
// ValidationErrors aggregate.
func AsValidationErrors(err error, target *ValidationErrors) bool {
	return errors.As(err, target)
}

// ValidationErrors aggregates every rejection found in one BuildGraph pass,
// so callers can surface all input problems at once instead of fixing them
// one at a time.
type ValidationErrors []*ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return fmt.Sprintf("%d validation errors: %s", len(e), strings.Join(msgs, "; "))
}

// Unwrap exposes the individual rejections to errors.Is and errors.As.
func (e ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, ve := range e {
		errs[i] = ve
	}
	return errs
}
