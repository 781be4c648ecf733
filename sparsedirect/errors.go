package sparsedirect

import "fmt"

// FactorizationError carries the name of the failed factorization routine and its status code.
type FactorizationError struct {
	Routine string
	Status  int
}

func (e *FactorizationError) Error() string {
	var msg string
	switch e.Status {
	case WarningSingularMatrix:
		msg = "matrix is singular"
	case ErrorOutOfMemory:
		msg = "out of memory"
	case ErrorInvalidNumericObject:
		msg = "invalid numeric factorization"
	case ErrorInvalidSymbolicObject:
		msg = "invalid symbolic factorization"
	case ErrorArgumentMissing:
		msg = "argument missing"
	case ErrorNNonpositive:
		msg = "matrix dimension is not positive"
	case ErrorInvalidMatrix:
		msg = "invalid matrix structure"
	case ErrorInvalidSystem:
		msg = "invalid system"
	default:
		msg = "unknown failure"
	}
	return fmt.Sprintf("routine %s returned error status %d: %s", e.Routine, e.Status, msg)
}
