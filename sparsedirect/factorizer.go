package sparsedirect

// System selects the linear system a Factorizer solves with a numeric factorization of M.
type System int

const (
	SystemA  System = iota // M x = b
	SystemAt               // M^T x = b
)

// Status codes returned by Factorizer routines.
const (
	StatusOK                   = 0
	WarningSingularMatrix      = 1
	ErrorOutOfMemory           = -1
	ErrorInvalidNumericObject  = -3
	ErrorInvalidSymbolicObject = -4
	ErrorArgumentMissing       = -5
	ErrorNNonpositive          = -6
	ErrorInvalidMatrix         = -8
	ErrorInvalidSystem         = -13
)

// Symbolic and Numeric are opaque handles owned by the Factorizer that created them.
type (
	Symbolic interface{}
	Numeric  interface{}
)

/*
Factorizer is a direct factorization service for square matrices given in compressed column form: column j
holds rows Ai[Ap[j]:Ap[j+1]] with values Ax, row indices ascending. Routines report failure through a
nonzero status instead of an error.
*/
type Factorizer interface {
	Symbolic(n int, Ap, Ai []int, Ax []float64) (Symbolic, int)
	Numeric(Ap, Ai []int, Ax []float64, symbolic Symbolic) (Numeric, int)
	Solve(sys System, Ap, Ai []int, Ax []float64, x, b []float64, numeric Numeric) int
	FreeSymbolic(symbolic *Symbolic)
	FreeNumeric(numeric *Numeric)
}
