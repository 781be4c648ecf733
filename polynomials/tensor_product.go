package polynomials

import (
	"fmt"
)

// MaxDerivative is the highest derivative order TensorProduct evaluates.
const MaxDerivative = 4

/*
TensorProduct is the dim-fold product of a one dimensional basis. Basis function k has one dimensional indices
(k mod n, (k/n) mod n, ...), with the x index varying fastest.
*/
type TensorProduct struct {
	Dim   int
	Basis []Polynomial
}

func NewTensorProduct(dim int, basis []Polynomial) (tp *TensorProduct) {
	if dim < 1 || dim > 3 {
		panic(fmt.Errorf("tensor product not implemented for dimension %d", dim))
	}
	tp = &TensorProduct{Dim: dim, Basis: basis}
	return
}

func (tp *TensorProduct) N() (n int) {
	n = 1
	for d := 0; d < tp.Dim; d++ {
		n *= len(tp.Basis)
	}
	return
}

func (tp *TensorProduct) indices(k int) (ind []int) {
	n1 := len(tp.Basis)
	ind = make([]int, tp.Dim)
	for d := 0; d < tp.Dim; d++ {
		ind[d] = k % n1
		k /= n1
	}
	return
}

/*
Compute evaluates every basis function at point p. derivs[r] receives the derivatives of order r, stored flat
as derivs[r][k*dim^r + c] where c enumerates the derivative directions (j_1..j_r) with j_r varying fastest.
derivs[0] holds the values. A nil entry, or a slice shorter than order, skips that order.
*/
func (tp *TensorProduct) Compute(p []float64, derivs [][]float64) {
	if len(p) != tp.Dim {
		panic(fmt.Errorf("dimension mismatch: point has %d coordinates, basis has dimension %d", len(p), tp.Dim))
	}
	maxOrder := len(derivs) - 1
	if maxOrder > MaxDerivative {
		panic(fmt.Errorf("derivatives of order %d not implemented", maxOrder))
	}
	var (
		n1  = len(tp.Basis)
		dim = tp.Dim
		// oneD[d][i][r] = r-th derivative of basis i in direction d
		oneD = make([][][]float64, dim)
	)
	for d := 0; d < dim; d++ {
		oneD[d] = make([][]float64, n1)
		for i := 0; i < n1; i++ {
			oneD[d][i] = make([]float64, maxOrder+1)
			tp.Basis[i].Values(p[d], oneD[d][i])
		}
	}
	counts := make([]int, dim)
	dirs := make([]int, MaxDerivative)
	for r := 0; r <= maxOrder; r++ {
		if derivs[r] == nil {
			continue
		}
		ncomp := 1
		for i := 0; i < r; i++ {
			ncomp *= dim
		}
		if len(derivs[r]) != tp.N()*ncomp {
			panic(fmt.Errorf("dimension mismatch: order %d output has length %d, expected %d",
				r, len(derivs[r]), tp.N()*ncomp))
		}
		for k := 0; k < tp.N(); k++ {
			ind := tp.indices(k)
			for c := 0; c < ncomp; c++ {
				// decode c into directions, last fastest
				rem := c
				for i := r - 1; i >= 0; i-- {
					dirs[i] = rem % dim
					rem /= dim
				}
				for d := range counts {
					counts[d] = 0
				}
				for i := 0; i < r; i++ {
					counts[dirs[i]]++
				}
				val := 1.
				for d := 0; d < dim; d++ {
					val *= oneD[d][ind[d]][counts[d]]
				}
				derivs[r][k*ncomp+c] = val
			}
		}
	}
}
