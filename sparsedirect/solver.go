package sparsedirect

import (
	"fmt"
	"log"
	"runtime"
)

// Verbose enables factorization statistics on the standard logger.
var Verbose bool

/*
Solver is a direct solver for square sparse systems. Factorize copies the matrix into compressed row arrays
and hands them to the Factorizer as they are. Read in compressed column order those arrays describe the
transpose of the matrix, so Solve asks the Factorizer for the transposed system and gets A x = b without
any reordering of the storage.

A Solver owns at most one numeric factorization at a time; Clear or Close releases it and a finalizer
releases it for Solvers that are dropped.
*/
type Solver struct {
	backend Factorizer
	n       int
	Ap, Ai  []int
	Ax      []float64
	numeric Numeric
}

// NewSolver returns a Solver on backend, or on an LUFactorizer if backend is nil.
func NewSolver(backend Factorizer) (s *Solver) {
	if backend == nil {
		backend = LUFactorizer{}
	}
	s = &Solver{backend: backend}
	runtime.SetFinalizer(s, (*Solver).Clear)
	return
}

// M and N are the dimensions of the factored matrix, zero when nothing is factored.
func (s *Solver) M() int { return s.n }

func (s *Solver) N() int { return s.n }

// Initialize is Factorize, for use of a Solver as a preconditioner.
func (s *Solver) Initialize(m SparseMatrix) error { return s.Factorize(m) }

/*
Factorize releases any previous factorization, builds the compressed arrays of m with ascending columns in
every row, and computes the symbolic and numeric factorizations. A failing routine is reported as a
*FactorizationError and leaves the Solver without a factorization.
*/
func (s *Solver) Factorize(m SparseMatrix) (err error) {
	nr, nc := m.Dims()
	if nr != nc {
		panic(fmt.Errorf("matrix is not square: %d x %d", nr, nc))
	}
	s.Clear()
	s.n = nr
	s.Ap = make([]int, nr+1)
	s.Ai = make([]int, 0, m.NNZ())
	s.Ax = make([]float64, 0, m.NNZ())
	for row := 0; row < nr; row++ {
		it := m.RowIterator(row)
		for it.Next() {
			s.Ai = append(s.Ai, it.Column())
			s.Ax = append(s.Ax, it.Value())
		}
		s.Ap[row+1] = len(s.Ai)
	}
	if bm, ok := m.(BlockMatrix); ok {
		SortArraysBlock(s.Ap, s.Ai, s.Ax, bm.NBlockCols())
	} else {
		SortArrays(s.Ap, s.Ai, s.Ax)
	}

	symbolic, status := s.backend.Symbolic(s.n, s.Ap, s.Ai, s.Ax)
	if status != StatusOK {
		return &FactorizationError{Routine: "umfpack_dl_symbolic", Status: status}
	}
	numeric, status := s.backend.Numeric(s.Ap, s.Ai, s.Ax, symbolic)
	s.backend.FreeSymbolic(&symbolic)
	if status != StatusOK {
		return &FactorizationError{Routine: "umfpack_dl_numeric", Status: status}
	}
	s.numeric = numeric
	if Verbose {
		if f, ok := numeric.(interface{ NNZ() int }); ok {
			log.Printf("sparse direct: factored n = %d, nnz = %d, nnz(L+U) = %d", s.n, len(s.Ai), f.NNZ())
		} else {
			log.Printf("sparse direct: factored n = %d, nnz = %d", s.n, len(s.Ai))
		}
	}
	return
}

// Solve overwrites rhsAndSolution, holding b on entry, with the solution of A x = b.
func (s *Solver) Solve(rhsAndSolution []float64) error {
	return s.solve(rhsAndSolution, false)
}

// SolveTranspose overwrites rhsAndSolution with the solution of A^T x = b.
func (s *Solver) SolveTranspose(rhsAndSolution []float64) error {
	return s.solve(rhsAndSolution, true)
}

func (s *Solver) solve(rhsAndSolution []float64, transpose bool) error {
	if s.numeric == nil {
		panic(fmt.Errorf("solver not initialized"))
	}
	if len(rhsAndSolution) != s.n {
		panic(fmt.Errorf("dimension mismatch: right hand side of length %d for a system of size %d",
			len(rhsAndSolution), s.n))
	}
	// the stored arrays hold A^T in compressed column form
	sys := SystemAt
	if transpose {
		sys = SystemA
	}
	x := make([]float64, s.n)
	status := s.backend.Solve(sys, s.Ap, s.Ai, s.Ax, x, rhsAndSolution, s.numeric)
	if status != StatusOK {
		return &FactorizationError{Routine: "umfpack_dl_solve", Status: status}
	}
	copy(rhsAndSolution, x)
	return nil
}

// SolveMatrix factorizes m and solves with it in one call.
func (s *Solver) SolveMatrix(m SparseMatrix, rhsAndSolution []float64) (err error) {
	if err = s.Factorize(m); err != nil {
		return
	}
	return s.Solve(rhsAndSolution)
}

// Vmult applies the inverse of the factored matrix: dst = A^{-1} src.
func (s *Solver) Vmult(dst, src []float64) error {
	if len(dst) != len(src) {
		panic(fmt.Errorf("dimension mismatch: dst %d, src %d", len(dst), len(src)))
	}
	copy(dst, src)
	return s.Solve(dst)
}

func (s *Solver) Tvmult(dst, src []float64) { panic(fmt.Errorf("Tvmult not implemented")) }

func (s *Solver) VmultAdd(dst, src []float64) { panic(fmt.Errorf("VmultAdd not implemented")) }

func (s *Solver) TvmultAdd(dst, src []float64) { panic(fmt.Errorf("TvmultAdd not implemented")) }

// Clear releases the factorization and the compressed arrays.
func (s *Solver) Clear() {
	if s.numeric != nil {
		s.backend.FreeNumeric(&s.numeric)
		s.numeric = nil
	}
	s.n = 0
	s.Ap, s.Ai, s.Ax = nil, nil, nil
}

// Close is Clear for deferred cleanup; the Solver may be factored again afterwards.
func (s *Solver) Close() {
	s.Clear()
}
