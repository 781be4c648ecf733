package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

func POW(x float64, pp int) (y float64) {
	var (
		p       = pp
		flipped bool
	)
	if pp > 4 || pp < -4 {
		return math.Pow(x, float64(pp))
	}
	if p < 0 {
		p = -pp
		flipped = true
	}
	switch p {
	case 0:
		y = 1
	case 1:
		y = x
	case 2:
		y = x * x
	case 3:
		y = x * x * x
	case 4:
		y = x * x
		y = y * y
	}
	if flipped {
		y = 1. / y
	}
	return
}

// Norm is the Euclidean length of v.
func Norm(v []float64) float64 {
	return floats.Norm(v, 2)
}

/*
CrossProduct returns the vector orthogonal to the spacedim-1 vectors in args, following the right hand rule:
in 2D the single argument (a, b) maps to (b, -a), in 3D the two arguments give their usual cross product.
*/
func CrossProduct(args ...[]float64) (r []float64) {
	switch len(args) {
	case 1:
		a := args[0]
		if len(a) != 2 {
			panic(fmt.Errorf("single argument cross product needs a 2D vector, have %d", len(a)))
		}
		r = []float64{a[1], -a[0]}
	case 2:
		a, b := args[0], args[1]
		if len(a) != 3 || len(b) != 3 {
			panic(fmt.Errorf("two argument cross product needs 3D vectors, have %d and %d", len(a), len(b)))
		}
		r = []float64{
			a[1]*b[2] - a[2]*b[1],
			a[2]*b[0] - a[0]*b[2],
			a[0]*b[1] - a[1]*b[0],
		}
	default:
		panic(fmt.Errorf("cross product of %d vectors not implemented", len(args)))
	}
	return
}

// Scaled returns a copy of v multiplied by s.
func Scaled(s float64, v []float64) (r []float64) {
	r = append([]float64{}, v...)
	floats.Scale(s, r)
	return
}
