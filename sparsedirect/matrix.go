package sparsedirect

import (
	"fmt"
	"sort"

	"github.com/james-bowman/sparse"
)

// RowIterator walks the stored entries of one matrix row in storage order.
type RowIterator interface {
	Next() bool
	Column() int
	Value() float64
}

/*
SparseMatrix is the row-iterable view the solver consumes. Entries of a row need not be sorted by column;
the solver expects at most one misplaced entry per row, the diagonal stored first.
*/
type SparseMatrix interface {
	Dims() (r, c int)
	NNZ() int
	RowIterator(row int) RowIterator
}

// BlockMatrix is a SparseMatrix made of block columns, each of which may store its own diagonal first.
type BlockMatrix interface {
	SparseMatrix
	NBlockCols() int
}

/*
CSRMatrix is a compressed row matrix whose square form stores the diagonal entry first in each row, followed
by the off-diagonal entries in ascending column order.
*/
type CSRMatrix struct {
	nr, nc      int
	indptr, ind []int
	data        []float64
}

// NewCSRMatrix reorders the rows of a james-bowman CSR matrix into diagonal-first storage, adding a zero
// diagonal entry to square rows that lack one.
func NewCSRMatrix(csr *sparse.CSR) (m *CSRMatrix) {
	var (
		raw    = csr.RawMatrix()
		nr, nc = csr.Dims()
	)
	m = &CSRMatrix{
		nr:     nr,
		nc:     nc,
		indptr: make([]int, nr+1),
		ind:    make([]int, 0, len(raw.Ind)),
		data:   make([]float64, 0, len(raw.Data)),
	}
	type entry struct {
		col int
		val float64
	}
	var row []entry
	for i := 0; i < nr; i++ {
		row = row[:0]
		for k := raw.Indptr[i]; k < raw.Indptr[i+1]; k++ {
			row = append(row, entry{raw.Ind[k], raw.Data[k]})
		}
		sort.Slice(row, func(a, b int) bool { return row[a].col < row[b].col })
		if nr == nc {
			diag := -1
			for k, e := range row {
				if e.col == i {
					diag = k
					break
				}
			}
			if diag < 0 {
				row = append(row, entry{col: i})
				diag = len(row) - 1
			}
			e := row[diag]
			copy(row[1:diag+1], row[:diag])
			row[0] = e
		}
		for _, e := range row {
			m.ind = append(m.ind, e.col)
			m.data = append(m.data, e.val)
		}
		m.indptr[i+1] = len(m.ind)
	}
	return
}

// NewCSRMatrixFromTriplets assembles (row, col, value) triplets, summing duplicates.
func NewCSRMatrixFromTriplets(nr, nc int, rows, cols []int, vals []float64) *CSRMatrix {
	if len(rows) != len(cols) || len(rows) != len(vals) {
		panic(fmt.Errorf("dimension mismatch: %d rows, %d columns and %d values", len(rows), len(cols), len(vals)))
	}
	dok := sparse.NewDOK(nr, nc)
	for k := range rows {
		i, j := rows[k], cols[k]
		if i < 0 || i >= nr || j < 0 || j >= nc {
			panic(fmt.Errorf("entry (%d,%d) outside a %d x %d matrix", i, j, nr, nc))
		}
		dok.Set(i, j, dok.At(i, j)+vals[k])
	}
	return NewCSRMatrix(dok.ToCSR())
}

func (m *CSRMatrix) Dims() (r, c int) { return m.nr, m.nc }

func (m *CSRMatrix) NNZ() int { return len(m.ind) }

func (m *CSRMatrix) At(i, j int) float64 {
	for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
		if m.ind[k] == j {
			return m.data[k]
		}
	}
	return 0
}

func (m *CSRMatrix) RowIterator(row int) RowIterator {
	if row < 0 || row >= m.nr {
		panic(fmt.Errorf("row %d out of range [0,%d)", row, m.nr))
	}
	return &csrRowIterator{m: m, pos: m.indptr[row] - 1, end: m.indptr[row+1]}
}

// MulVec returns m x.
func (m *CSRMatrix) MulVec(x []float64) (y []float64) {
	if len(x) != m.nc {
		panic(fmt.Errorf("dimension mismatch: vector of length %d for %d columns", len(x), m.nc))
	}
	y = make([]float64, m.nr)
	for i := range y {
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			y[i] += m.data[k] * x[m.ind[k]]
		}
	}
	return
}

type csrRowIterator struct {
	m        *CSRMatrix
	pos, end int
}

func (it *csrRowIterator) Next() bool {
	it.pos++
	return it.pos < it.end
}

func (it *csrRowIterator) Column() int { return it.m.ind[it.pos] }

func (it *csrRowIterator) Value() float64 { return it.m.data[it.pos] }

/*
BlockCSRMatrix joins a grid of CSRMatrix blocks. A row of the block matrix is the concatenation of the block
rows, so each square block contributes its own diagonal-first entry.
*/
type BlockCSRMatrix struct {
	Blocks               [][]*CSRMatrix
	rowStarts, colStarts []int
}

func NewBlockCSRMatrix(blocks [][]*CSRMatrix) (bm *BlockCSRMatrix) {
	if len(blocks) == 0 || len(blocks[0]) == 0 {
		panic(fmt.Errorf("block matrix needs at least one block"))
	}
	var (
		nbr, nbc = len(blocks), len(blocks[0])
	)
	bm = &BlockCSRMatrix{
		Blocks:    blocks,
		rowStarts: make([]int, nbr+1),
		colStarts: make([]int, nbc+1),
	}
	for bc := 0; bc < nbc; bc++ {
		_, nc := blocks[0][bc].Dims()
		bm.colStarts[bc+1] = bm.colStarts[bc] + nc
	}
	for br, brow := range blocks {
		if len(brow) != nbc {
			panic(fmt.Errorf("block row %d has %d blocks, expected %d", br, len(brow), nbc))
		}
		nr, _ := brow[0].Dims()
		for bc, b := range brow {
			r, c := b.Dims()
			if r != nr || c != bm.colStarts[bc+1]-bm.colStarts[bc] {
				panic(fmt.Errorf("block (%d,%d) is %d x %d and does not fit its block row and column", br, bc, r, c))
			}
		}
		bm.rowStarts[br+1] = bm.rowStarts[br] + nr
	}
	return
}

func (bm *BlockCSRMatrix) Dims() (r, c int) {
	return bm.rowStarts[len(bm.rowStarts)-1], bm.colStarts[len(bm.colStarts)-1]
}

func (bm *BlockCSRMatrix) NNZ() (nnz int) {
	for _, brow := range bm.Blocks {
		for _, b := range brow {
			nnz += b.NNZ()
		}
	}
	return
}

func (bm *BlockCSRMatrix) NBlockCols() int { return len(bm.colStarts) - 1 }

func (bm *BlockCSRMatrix) RowIterator(row int) RowIterator {
	nr, _ := bm.Dims()
	if row < 0 || row >= nr {
		panic(fmt.Errorf("row %d out of range [0,%d)", row, nr))
	}
	br := sort.SearchInts(bm.rowStarts, row+1) - 1
	it := &blockRowIterator{bm: bm, bc: -1}
	it.local = row - bm.rowStarts[br]
	it.brow = bm.Blocks[br]
	return it
}

type blockRowIterator struct {
	bm    *BlockCSRMatrix
	brow  []*CSRMatrix
	local int
	bc    int
	cur   RowIterator
}

func (it *blockRowIterator) Next() bool {
	for {
		if it.cur != nil && it.cur.Next() {
			return true
		}
		it.bc++
		if it.bc >= len(it.brow) {
			return false
		}
		it.cur = it.brow[it.bc].RowIterator(it.local)
	}
}

func (it *blockRowIterator) Column() int { return it.bm.colStarts[it.bc] + it.cur.Column() }

func (it *blockRowIterator) Value() float64 { return it.cur.Value() }
