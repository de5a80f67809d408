package sim

import (
	"errors"
	"fmt"
)

// FailureCode categorizes why an operation check was infeasible.
//
// Infeasibility is an expected outcome, not an error: every code travels
// in-band through recursive return values and ends up in Result.RootCause.
// Nothing in the solver panics or returns a Go error for these.
type FailureCode string

const (
	// FailCircularDependency means the node was already on the active
	// recursion path. This is a guard, not a stack-overflow catch.
	FailCircularDependency FailureCode = "CIRCULAR_DEPENDENCY"

	// FailLeadTime means the backward-scheduled start date precedes now.
	FailLeadTime FailureCode = "LEAD_TIME_VIOLATION"

	// FailCapacity means the node's per-day time or quantity ledger could
	// not absorb the requested load.
	FailCapacity FailureCode = "CAPACITY_SHORTAGE"

	// FailMaterial means an upstream buffer could not cover the request.
	FailMaterial FailureCode = "MATERIAL_SHORTAGE"

	// FailNodeNotFound means the request referenced a node id that is not
	// in the graph. Returned infeasible rather than thrown so recursive
	// callers never need error handling.
	FailNodeNotFound FailureCode = "NODE_NOT_FOUND"
)

// RunError reports misuse of the Simulate contract itself (non-positive
// quantity, zero due date). Expected infeasibility never produces a
// RunError.
type RunError struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *RunError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsRunError reports whether err is (or wraps) a RunError.
func IsRunError(err error) bool {
	var re *RunError
	return errors.As(err, &re)
}

// outcome is the in-band result of one recursive feasibility check.
// fulfilled may be positive even when feasible is false - partial
// fulfillment is a first-class result, never rounded to zero or full.
type outcome struct {
	feasible  bool
	fulfilled int
	code      FailureCode
	reason    string
}

func feasibleOutcome(fulfilled int) outcome {
	return outcome{feasible: true, fulfilled: fulfilled}
}

func infeasibleOutcome(code FailureCode, fulfilled int, format string, args ...any) outcome {
	return outcome{
		feasible:  false,
		fulfilled: fulfilled,
		code:      code,
		reason:    fmt.Sprintf(format, args...),
	}
}
