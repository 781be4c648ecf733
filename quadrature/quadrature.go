package quadrature

import (
	"fmt"
)

// Quadrature is a set of points on the reference cell [0,1]^Dim with associated weights.
type Quadrature struct {
	Dim     int
	Points  [][]float64
	Weights []float64
}

func (q *Quadrature) Size() int { return len(q.Weights) }

func (q *Quadrature) Point(i int) []float64 { return q.Points[i] }

func (q *Quadrature) Weight(i int) float64 { return q.Weights[i] }

// NewPointQuadrature is the zero-dimensional rule used for the faces of a 1D cell.
func NewPointQuadrature() (q *Quadrature) {
	q = &Quadrature{
		Dim:     0,
		Points:  [][]float64{{}},
		Weights: []float64{1},
	}
	return
}

// NewQuadrature wraps explicitly given points and weights, validating their shapes.
func NewQuadrature(dim int, points [][]float64, weights []float64) (q *Quadrature) {
	if len(points) != len(weights) {
		panic(fmt.Errorf("dimension mismatch: %d points and %d weights", len(points), len(weights)))
	}
	for i, p := range points {
		if len(p) != dim {
			panic(fmt.Errorf("point %d has %d coordinates, expected %d", i, len(p), dim))
		}
	}
	q = &Quadrature{Dim: dim, Points: points, Weights: weights}
	return
}

/*
TensorProduct forms the dim-fold product of a one-dimensional rule. Points are ordered with the x coordinate
varying fastest.
*/
func TensorProduct(q1 *Quadrature, dim int) (q *Quadrature) {
	if q1.Dim != 1 {
		panic(fmt.Errorf("tensor product needs a one dimensional base rule, have dimension %d", q1.Dim))
	}
	if dim == 0 {
		return NewPointQuadrature()
	}
	n1 := q1.Size()
	np := 1
	for d := 0; d < dim; d++ {
		np *= n1
	}
	q = &Quadrature{
		Dim:     dim,
		Points:  make([][]float64, np),
		Weights: make([]float64, np),
	}
	for k := 0; k < np; k++ {
		var (
			p   = make([]float64, dim)
			w   = 1.
			rem = k
		)
		for d := 0; d < dim; d++ {
			i := rem % n1
			rem /= n1
			p[d] = q1.Points[i][0]
			w *= q1.Weights[i]
		}
		q.Points[k] = p
		q.Weights[k] = w
	}
	return
}

// NewGauss returns the n^dim point Gauss-Legendre rule on [0,1]^dim.
func NewGauss(n, dim int) *Quadrature {
	return TensorProduct(Gauss(n), dim)
}

// NewGaussLobatto returns the n^dim point Gauss-Lobatto rule on [0,1]^dim.
func NewGaussLobatto(n, dim int) *Quadrature {
	return TensorProduct(GaussLobatto(n), dim)
}
