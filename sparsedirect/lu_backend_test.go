package sparsedirect

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

type triplets struct {
	rows, cols []int
	vals       []float64
}

func (tr *triplets) add(i, j int, v float64) {
	tr.rows = append(tr.rows, i)
	tr.cols = append(tr.cols, j)
	tr.vals = append(tr.vals, v)
}

func (tr *triplets) matrix(n int) *CSRMatrix {
	return NewCSRMatrixFromTriplets(n, n, tr.rows, tr.cols, tr.vals)
}

func (tr *triplets) transpose(n int) *CSRMatrix {
	return NewCSRMatrixFromTriplets(n, n, tr.cols, tr.rows, tr.vals)
}

// shuffledTridiagonal is the 4 / -1 tridiagonal matrix with rows and columns renumbered by a random permutation
func shuffledTridiagonal(n int, seed int64) (tr *triplets) {
	tr = &triplets{}
	label := rand.New(rand.NewSource(seed)).Perm(n)
	for i := 0; i < n; i++ {
		tr.add(label[i], label[i], 4)
		if i > 0 {
			tr.add(label[i], label[i-1], -1)
			tr.add(label[i-1], label[i], -1)
		}
	}
	return
}

func isPermutation(perm []int, n int) bool {
	if len(perm) != n {
		return false
	}
	seen := make([]bool, n)
	for _, p := range perm {
		if p < 0 || p >= n || seen[p] {
			return false
		}
		seen[p] = true
	}
	return true
}

func TestRCMOrdering(t *testing.T) {
	{ // a path with scrambled labels comes back in path order
		n := 30
		tr := shuffledTridiagonal(n, 11)
		m := tr.matrix(n)
		perm := rcmOrdering(n, m.indptr, m.ind, m.indptr, m.ind)
		require.True(t, isPermutation(perm, n))
		pos := make([]int, n)
		for k, i := range perm {
			pos[i] = k
		}
		var bandwidth int
		for i := 0; i < n; i++ {
			for p := m.indptr[i]; p < m.indptr[i+1]; p++ {
				if d := pos[i] - pos[m.ind[p]]; d > bandwidth {
					bandwidth = d
				}
			}
		}
		assert.Equal(t, 1, bandwidth)
	}
	{ // disconnected components, an isolated node and a one sided coupling
		tr := &triplets{}
		for i := 0; i < 7; i++ {
			tr.add(i, i, 1)
		}
		tr.add(0, 3, 1)
		tr.add(3, 5, 1)
		tr.add(5, 3, 1)
		tr.add(1, 6, 1)
		m := tr.matrix(7)
		tt := tr.transpose(7)
		perm := rcmOrdering(7, m.indptr, m.ind, tt.indptr, tt.ind)
		assert.True(t, isPermutation(perm, 7), "%v", perm)
	}
}

func TestLUFactorizerPivoting(t *testing.T) {
	// zero diagonal, so the rows must be exchanged
	tr := &triplets{}
	tr.add(0, 1, 2)
	tr.add(1, 0, 1)
	tr.add(1, 2, 3)
	tr.add(2, 1, 4)
	tr.add(2, 2, 5)
	var (
		m = tr.matrix(3)
		s = NewSolver(nil)
	)
	defer s.Close()
	require.NoError(t, s.Factorize(m))
	b := []float64{4, 10, 23}
	require.NoError(t, s.Solve(b))
	assert.InDeltaSlice(t, []float64{1, 2, 3}, b, 1.e-14)
	bt := []float64{2, 14, 21}
	require.NoError(t, s.SolveTranspose(bt))
	assert.InDeltaSlice(t, []float64{1, 2, 3}, bt, 1.e-14)
}

func TestLUFactorizerRandom(t *testing.T) {
	var (
		n   = 60
		rnd = rand.New(rand.NewSource(3))
		tr  = &triplets{}
	)
	for i := 0; i < n; i++ {
		// small diagonals force off diagonal pivots
		tr.add(i, i, 2*rnd.Float64()-1)
		for k := 0; k < 4; k++ {
			tr.add(i, rnd.Intn(n), 2*rnd.Float64()-1)
		}
	}
	var (
		m  = tr.matrix(n)
		mt = tr.transpose(n)
		s  = NewSolver(nil)
	)
	defer s.Close()
	require.NoError(t, s.Factorize(m))
	b := make([]float64, n)
	for i := range b {
		b[i] = rnd.Float64()
	}
	check := func(A *CSRMatrix, solve func([]float64) error) {
		x := append([]float64{}, b...)
		require.NoError(t, solve(x))
		r := A.MulVec(x)
		floats.Sub(r, b)
		assert.Less(t, floats.Norm(r, math.Inf(1)), 1.e-9*floats.Norm(x, math.Inf(1)))
	}
	check(m, s.Solve)
	check(mt, s.SolveTranspose)
}

func TestLUFactorizerFill(t *testing.T) {
	n := 200
	tr := shuffledTridiagonal(n, 5)
	s := NewSolver(nil)
	defer s.Close()
	require.NoError(t, s.Factorize(tr.matrix(n)))
	// once reordered into a band there is no fill: L and U keep one off diagonal each
	assert.Equal(t, 4*n-2, s.numeric.(*luNumeric).NNZ())

	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i % 7)
	}
	b := tr.matrix(n).MulVec(x)
	require.NoError(t, s.Solve(b))
	assert.InDeltaSlice(t, x, b, 1.e-12)
}

func TestLUFactorizerStatus(t *testing.T) {
	var (
		lu     = LUFactorizer{}
		Ap, Ai = []int{0, 1}, []int{0}
		Ax     = []float64{2}
	)
	sym, status := lu.Symbolic(1, Ap, Ai, Ax)
	require.Equal(t, StatusOK, status)
	num, status := lu.Numeric(Ap, Ai, Ax, sym)
	require.Equal(t, StatusOK, status)
	x := []float64{0}
	assert.Equal(t, StatusOK, lu.Solve(SystemA, Ap, Ai, Ax, x, []float64{1}, num))
	assert.Equal(t, []float64{0.5}, x)
	assert.Equal(t, ErrorInvalidSystem, lu.Solve(System(7), Ap, Ai, Ax, x, []float64{1}, num))
	assert.Contains(t, (&FactorizationError{Routine: "umfpack_dl_solve", Status: ErrorInvalidSystem}).Error(),
		"invalid system")
	// a column without entries
	_, status = lu.Numeric([]int{0, 1, 1}, []int{0}, []float64{1}, mustSymbolic(t, 2, []int{0, 1, 1}, []int{0}))
	assert.Equal(t, WarningSingularMatrix, status)
	// diagonal first, as the Solver stores square rows
	mustSymbolic(t, 2, []int{0, 1, 3}, []int{0, 1, 0})
	// repeated row index
	_, status = lu.Symbolic(2, []int{0, 1, 3}, []int{0, 1, 1}, []float64{1, 1, 1})
	assert.Equal(t, ErrorInvalidMatrix, status)
}

func mustSymbolic(t *testing.T, n int, Ap, Ai []int) Symbolic {
	sym, status := LUFactorizer{}.Symbolic(n, Ap, Ai, make([]float64, len(Ai)))
	require.Equal(t, StatusOK, status)
	return sym
}
