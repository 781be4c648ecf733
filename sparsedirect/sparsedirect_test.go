package sparsedirect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

// tridiagonal 4 / -1 with an extra symmetric coupling between rows 0 and 4
func spd5() *CSRMatrix {
	var rows, cols []int
	var vals []float64
	add := func(i, j int, v float64) {
		rows = append(rows, i)
		cols = append(cols, j)
		vals = append(vals, v)
	}
	for i := 0; i < 5; i++ {
		add(i, i, 4)
		if i > 0 {
			add(i, i-1, -1)
			add(i-1, i, -1)
		}
	}
	add(0, 4, 0.5)
	add(4, 0, 0.5)
	return NewCSRMatrixFromTriplets(5, 5, rows, cols, vals)
}

func TestCSRMatrix(t *testing.T) {
	m := spd5()
	nr, nc := m.Dims()
	assert.Equal(t, 5, nr)
	assert.Equal(t, 5, nc)
	assert.Equal(t, 15, m.NNZ())
	var cols []int
	for it := m.RowIterator(2); it.Next(); {
		cols = append(cols, it.Column())
	}
	assert.Equal(t, []int{2, 1, 3}, cols, "diagonal first, then ascending")
	cols = cols[:0]
	var vals []float64
	for it := m.RowIterator(4); it.Next(); {
		cols = append(cols, it.Column())
		vals = append(vals, it.Value())
	}
	assert.Equal(t, []int{4, 0, 3}, cols)
	assert.Equal(t, []float64{4, 0.5, -1}, vals)
	assert.Equal(t, 0.5, m.At(0, 4))
	assert.Equal(t, 0., m.At(0, 2))
	// duplicates are summed
	d := NewCSRMatrixFromTriplets(2, 2, []int{0, 0, 1}, []int{1, 1, 0}, []float64{1, 2, 3})
	assert.Equal(t, 3., d.At(0, 1))
	assert.Equal(t, 4, d.NNZ(), "square matrices store the diagonal")
	assert.Panics(t, func() { NewCSRMatrixFromTriplets(2, 2, []int{2}, []int{0}, []float64{1}) })
	assert.Panics(t, func() { m.RowIterator(5) })
}

func TestSortArrays(t *testing.T) {
	var (
		Ap = []int{0, 4, 6}
		Ai = []int{2, 0, 1, 3, 1, 0}
		Ax = []float64{20, 0, 10, 30, 11, 1}
	)
	SortArrays(Ap, Ai, Ax)
	assert.Equal(t, []int{0, 1, 2, 3, 0, 1}, Ai)
	assert.Equal(t, []float64{0, 10, 20, 30, 1, 11}, Ax)
	// already sorted rows are untouched
	SortArrays(Ap, Ai, Ax)
	assert.Equal(t, []int{0, 1, 2, 3, 0, 1}, Ai)
}

func TestSortArraysBlock(t *testing.T) {
	// one row of a 2x2 block matrix, each block column storing its diagonal first
	var (
		Ap = []int{0, 4}
		Ai = []int{1, 0, 3, 2}
		Ax = []float64{1, 0, 3, 2}
	)
	plainAi := append([]int{}, Ai...)
	plainAx := append([]float64{}, Ax...)
	SortArrays(Ap, plainAi, plainAx)
	assert.NotEqual(t, []int{0, 1, 2, 3}, plainAi, "a single pass cannot fix two misplaced entries")

	SortArraysBlock(Ap, Ai, Ax, 2)
	assert.Equal(t, []int{0, 1, 2, 3}, Ai)
	assert.Equal(t, []float64{0, 1, 2, 3}, Ax)

	Ap = []int{0, 3, 6}
	Ai = []int{0, 1, 2, 4, 3, 5}
	Ax = []float64{0, 1, 2, 4, 3, 5}
	SortArraysBlock(Ap, Ai, Ax, 3)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, Ai)
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5}, Ax)
}

func TestSolverRoundTrip(t *testing.T) {
	var (
		m      = spd5()
		xExact = []float64{1, 2, 3, 4, 5}
		b      = m.MulVec(xExact)
		s      = NewSolver(nil)
	)
	defer s.Close()
	require.NoError(t, s.Factorize(m))
	assert.Equal(t, 5, s.M())
	assert.Equal(t, 5, s.N())
	x := append([]float64{}, b...)
	require.NoError(t, s.Solve(x))
	for i := range x {
		assert.InDelta(t, xExact[i], x[i], 1.e-9)
	}
	dst := make([]float64, 5)
	require.NoError(t, s.Vmult(dst, b))
	assert.True(t, floats.EqualApprox(dst, xExact, 1.e-9))

	assert.Panics(t, func() { s.Tvmult(dst, b) })
	assert.Panics(t, func() { s.VmultAdd(dst, b) })
	assert.Panics(t, func() { s.TvmultAdd(dst, b) })
	assert.Panics(t, func() { _ = s.Solve(make([]float64, 4)) })

	s.Clear()
	assert.PanicsWithError(t, "solver not initialized", func() { _ = s.Solve(x) })
}

func TestSolverNonsymmetric(t *testing.T) {
	m := NewCSRMatrixFromTriplets(3, 3,
		[]int{0, 0, 1, 1, 2, 2},
		[]int{0, 2, 0, 1, 1, 2},
		[]float64{2, 1, 3, 4, -1, 5})
	var (
		xExact = []float64{1, -2, 0.5}
		b      = m.MulVec(xExact)
		s      = NewSolver(LUFactorizer{})
	)
	x := append([]float64{}, b...)
	require.NoError(t, s.SolveMatrix(m, x))
	assert.True(t, floats.EqualApprox(x, xExact, 1.e-12))
	// A^T y = c
	c := []float64{1, 2, 3}
	require.NoError(t, s.SolveTranspose(c))
	var check [3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			check[i] += m.At(j, i) * c[j]
		}
	}
	assert.True(t, floats.EqualApprox(check[:], []float64{1, 2, 3}, 1.e-12))
}

func TestSolverBlockMatrix(t *testing.T) {
	full := func(v ...float64) *CSRMatrix {
		return NewCSRMatrixFromTriplets(2, 2, []int{0, 0, 1, 1}, []int{0, 1, 0, 1}, v)
	}
	bm := NewBlockCSRMatrix([][]*CSRMatrix{
		{full(4, 1, 1, 4), full(1, 0.5, 0.5, 1)},
		{full(1, 0.5, 0.5, 1), full(5, 2, 2, 5)},
	})
	nr, nc := bm.Dims()
	assert.Equal(t, 4, nr)
	assert.Equal(t, 4, nc)
	assert.Equal(t, 16, bm.NNZ())
	assert.Equal(t, 2, bm.NBlockCols())
	var cols []int
	for it := bm.RowIterator(1); it.Next(); {
		cols = append(cols, it.Column())
	}
	assert.Equal(t, []int{1, 0, 3, 2}, cols)

	xExact := []float64{1, 2, 3, 4}
	b := make([]float64, 4)
	for i := 0; i < 4; i++ {
		for it := bm.RowIterator(i); it.Next(); {
			b[i] += it.Value() * xExact[it.Column()]
		}
	}
	s := NewSolver(nil)
	defer s.Close()
	require.NoError(t, s.SolveMatrix(bm, b))
	assert.True(t, floats.EqualApprox(b, xExact, 1.e-12))
	assert.Equal(t, []int{0, 1, 2, 3}, s.Ai[s.Ap[1]:s.Ap[2]])
}

func TestSolverFailures(t *testing.T) {
	s := NewSolver(nil)
	assert.PanicsWithError(t, "solver not initialized", func() { _ = s.Solve([]float64{1}) })

	singular := NewCSRMatrixFromTriplets(2, 2, []int{0, 0, 1, 1}, []int{0, 1, 0, 1}, []float64{1, 2, 2, 4})
	err := s.Factorize(singular)
	require.Error(t, err)
	var fe *FactorizationError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "umfpack_dl_numeric", fe.Routine)
	assert.Equal(t, WarningSingularMatrix, fe.Status)
	assert.Contains(t, err.Error(), "singular")
	assert.Panics(t, func() { _ = s.Solve([]float64{1, 2}) })

	rect := NewCSRMatrixFromTriplets(2, 3, []int{0}, []int{2}, []float64{1})
	assert.Panics(t, func() { _ = s.Factorize(rect) })

	var nilSym Symbolic
	_, status := LUFactorizer{}.Numeric([]int{0, 1}, []int{0}, []float64{1}, nilSym)
	assert.Equal(t, ErrorInvalidSymbolicObject, status)
	_, status = LUFactorizer{}.Symbolic(0, []int{0}, nil, nil)
	assert.Equal(t, ErrorNNonpositive, status)
	// unsorted column indices are rejected
	_, status = LUFactorizer{}.Symbolic(2, []int{0, 2, 3}, []int{1, 0, 1}, []float64{1, 1, 1})
	assert.Equal(t, ErrorInvalidMatrix, status)
	assert.Equal(t, ErrorInvalidNumericObject,
		LUFactorizer{}.Solve(SystemA, nil, nil, nil, []float64{0}, []float64{1}, nil))
}
