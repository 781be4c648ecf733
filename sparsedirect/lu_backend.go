package sparsedirect

import (
	"math"

	"github.com/james-bowman/sparse"
)

/*
LUFactorizer is a sparse Factorizer in pure Go.

The symbolic step validates the compressed column structure, forms the transpose with james-bowman/sparse and
orders the columns by reverse Cuthill-McKee on the pattern of M + M^T. The numeric step is a left looking LU
with threshold partial pivoting: column k is found by a sparse triangular solve over the rows reachable from
its pattern, so the work follows the fill instead of n^3. The diagonal of the ordered matrix is kept as the
pivot while it is at least pivotTolerance times the largest candidate.
*/
type LUFactorizer struct{}

type luSymbolic struct {
	n, nnz int
	q      []int // column order
}

// luNumeric holds P M Q = L U. L is unit lower triangular with its diagonal first in each column, U has its
// diagonal last; both are indexed in pivot order.
type luNumeric struct {
	n      int
	q      []int
	pinv   []int // row i of M is row pinv[i] of P M
	Lp, Li []int
	Lx     []float64
	Up, Ui []int
	Ux     []float64
}

const (
	eps            = 2.220446049250313e-16
	pivotTolerance = 0.1
)

var _ Factorizer = LUFactorizer{}

func (LUFactorizer) Symbolic(n int, Ap, Ai []int, Ax []float64) (Symbolic, int) {
	if n <= 0 {
		return nil, ErrorNNonpositive
	}
	if Ap == nil || Ai == nil || Ax == nil {
		return nil, ErrorArgumentMissing
	}
	if len(Ap) != n+1 || Ap[0] != 0 {
		return nil, ErrorInvalidMatrix
	}
	// row indices may come in any order within a column, but only once
	last := make([]int, n)
	for i := range last {
		last[i] = -1
	}
	for j := 0; j < n; j++ {
		if Ap[j+1] < Ap[j] || Ap[j+1] > len(Ai) {
			return nil, ErrorInvalidMatrix
		}
		for k := Ap[j]; k < Ap[j+1]; k++ {
			if Ai[k] < 0 || Ai[k] >= n || last[Ai[k]] == j {
				return nil, ErrorInvalidMatrix
			}
			last[Ai[k]] = j
		}
	}
	nnz := Ap[n]
	if len(Ax) < nnz {
		return nil, ErrorInvalidMatrix
	}
	// compressed rows of M are the compressed columns of M^T
	T := sparse.NewCSC(n, n, Ap, Ai[:nnz], Ax[:nnz]).ToCSR().RawMatrix()
	return &luSymbolic{n: n, nnz: nnz, q: rcmOrdering(n, Ap, Ai, T.Indptr, T.Ind)}, StatusOK
}

func (LUFactorizer) Numeric(Ap, Ai []int, Ax []float64, symbolic Symbolic) (Numeric, int) {
	sym, ok := symbolic.(*luSymbolic)
	if !ok || sym == nil {
		return nil, ErrorInvalidSymbolicObject
	}
	if len(Ap) != sym.n+1 || Ap[sym.n] != sym.nnz || len(Ai) < sym.nnz || len(Ax) < sym.nnz {
		return nil, ErrorInvalidMatrix
	}
	var (
		n   = sym.n
		M   = sparse.NewCSC(n, n, Ap, Ai[:sym.nnz], Ax[:sym.nnz])
		num = &luNumeric{
			n:    n,
			q:    sym.q,
			pinv: make([]int, n),
			Lp:   make([]int, n+1),
			Up:   make([]int, n+1),
			Li:   make([]int, 0, sym.nnz),
			Lx:   make([]float64, 0, sym.nnz),
			Ui:   make([]int, 0, sym.nnz),
			Ux:   make([]float64, 0, sym.nnz),
		}
		x     = make([]float64, n)
		xi    = make([]int, n)
		ws    = newReachWorkspace(n)
		anorm float64
	)
	for _, v := range Ax[:sym.nnz] {
		anorm = math.Max(anorm, math.Abs(v))
	}
	tiny := float64(n) * eps * anorm
	for i := range num.pinv {
		num.pinv[i] = -1
	}
	for k := 0; k < n; k++ {
		col := sym.q[k]
		num.Lp[k], num.Up[k] = len(num.Li), len(num.Ui)
		// x = L \ M(:,col), touching only the rows in xi[top:]
		top := num.reach(Ap, Ai, col, xi, ws)
		M.DoColNonZero(col, func(i, _ int, v float64) { x[i] = v })
		for p := top; p < n; p++ {
			j := xi[p]
			J := num.pinv[j]
			if J < 0 {
				continue
			}
			for pp := num.Lp[J] + 1; pp < num.Lp[J+1]; pp++ {
				x[num.Li[pp]] -= num.Lx[pp] * x[j]
			}
		}
		ipiv, a := -1, -1.
		for p := top; p < n; p++ {
			i := xi[p]
			if num.pinv[i] < 0 {
				if t := math.Abs(x[i]); t > a {
					ipiv, a = i, t
				}
			} else {
				num.Ui = append(num.Ui, num.pinv[i])
				num.Ux = append(num.Ux, x[i])
			}
		}
		if ipiv < 0 || a <= tiny {
			return nil, WarningSingularMatrix
		}
		if num.pinv[col] < 0 && math.Abs(x[col]) >= pivotTolerance*a {
			ipiv = col
		}
		pivot := x[ipiv]
		num.Ui = append(num.Ui, k)
		num.Ux = append(num.Ux, pivot)
		num.pinv[ipiv] = k
		num.Li = append(num.Li, ipiv)
		num.Lx = append(num.Lx, 1)
		for p := top; p < n; p++ {
			i := xi[p]
			if num.pinv[i] < 0 {
				num.Li = append(num.Li, i)
				num.Lx = append(num.Lx, x[i]/pivot)
			}
			x[i] = 0
		}
	}
	num.Lp[n], num.Up[n] = len(num.Li), len(num.Ui)
	for p, i := range num.Li {
		num.Li[p] = num.pinv[i]
	}
	return num, StatusOK
}

func (LUFactorizer) Solve(sys System, Ap, Ai []int, Ax []float64, x, b []float64, numeric Numeric) int {
	num, ok := numeric.(*luNumeric)
	if !ok || num == nil {
		return ErrorInvalidNumericObject
	}
	if len(x) != num.n || len(b) != num.n {
		return ErrorInvalidMatrix
	}
	w := make([]float64, num.n)
	switch sys {
	case SystemA:
		// L U Q^T x = P b
		for i, k := range num.pinv {
			w[k] = b[i]
		}
		num.lsolve(w)
		num.usolve(w)
		for k, j := range num.q {
			x[j] = w[k]
		}
	case SystemAt:
		// U^T L^T P x = Q^T b
		for k, j := range num.q {
			w[k] = b[j]
		}
		num.utsolve(w)
		num.ltsolve(w)
		for i, k := range num.pinv {
			x[i] = w[k]
		}
	default:
		return ErrorInvalidSystem
	}
	return StatusOK
}

func (LUFactorizer) FreeSymbolic(symbolic *Symbolic) { *symbolic = nil }

func (LUFactorizer) FreeNumeric(numeric *Numeric) { *numeric = nil }

// NNZ is the number of stored entries of L and U together.
func (num *luNumeric) NNZ() int { return num.Lp[num.n] + num.Up[num.n] }

func (num *luNumeric) lsolve(x []float64) {
	for j := 0; j < num.n; j++ {
		for p := num.Lp[j] + 1; p < num.Lp[j+1]; p++ {
			x[num.Li[p]] -= num.Lx[p] * x[j]
		}
	}
}

func (num *luNumeric) usolve(x []float64) {
	for j := num.n - 1; j >= 0; j-- {
		d := num.Up[j+1] - 1
		x[j] /= num.Ux[d]
		for p := num.Up[j]; p < d; p++ {
			x[num.Ui[p]] -= num.Ux[p] * x[j]
		}
	}
}

func (num *luNumeric) utsolve(x []float64) {
	for j := 0; j < num.n; j++ {
		d := num.Up[j+1] - 1
		for p := num.Up[j]; p < d; p++ {
			x[j] -= num.Ux[p] * x[num.Ui[p]]
		}
		x[j] /= num.Ux[d]
	}
}

func (num *luNumeric) ltsolve(x []float64) {
	for j := num.n - 1; j >= 0; j-- {
		for p := num.Lp[j] + 1; p < num.Lp[j+1]; p++ {
			x[j] -= num.Lx[p] * x[num.Li[p]]
		}
	}
}

type reachWorkspace struct {
	stack, pstack []int
	marked        []bool
}

func newReachWorkspace(n int) *reachWorkspace {
	return &reachWorkspace{
		stack:  make([]int, n),
		pstack: make([]int, n),
		marked: make([]bool, n),
	}
}

/*
reach stores in xi[top:] the rows that L \ M(:,col) can make nonzero, in topological order, from a depth
first search over the columns of L computed so far. Rows of L still hold their original numbering here.
*/
func (num *luNumeric) reach(Ap, Ai []int, col int, xi []int, ws *reachWorkspace) (top int) {
	top = num.n
	for p := Ap[col]; p < Ap[col+1]; p++ {
		if !ws.marked[Ai[p]] {
			top = num.dfs(Ai[p], top, xi, ws)
		}
	}
	for p := top; p < num.n; p++ {
		ws.marked[xi[p]] = false
	}
	return
}

func (num *luNumeric) dfs(j, top int, xi []int, ws *reachWorkspace) int {
	head := 0
	ws.stack[0] = j
	for head >= 0 {
		j = ws.stack[head]
		J := num.pinv[j]
		if !ws.marked[j] {
			ws.marked[j] = true
			ws.pstack[head] = 0
			if J >= 0 {
				// skip the unit diagonal
				ws.pstack[head] = num.Lp[J] + 1
			}
		}
		done := true
		if J >= 0 {
			for p := ws.pstack[head]; p < num.Lp[J+1]; p++ {
				i := num.Li[p]
				if ws.marked[i] {
					continue
				}
				ws.pstack[head] = p + 1
				head++
				ws.stack[head] = i
				done = false
				break
			}
		}
		if done {
			head--
			top--
			xi[top] = j
		}
	}
	return top
}
