package mapping

import (
	"fmt"
)

/*
computeShapeFunctionValuesQ1 fills the shape table of the multilinear map in closed form. Vertex v carries the
factor x_d along each direction d whose bit is set in v and 1-x_d otherwise, so every derivative of order two
or more is either a mixed product of +-1 factors or zero.
*/
func computeShapeFunctionValuesQ1(st *ShapeTable, spaceDim int, points [][]float64) {
	dim := st.Dim
	for k, p := range points {
		if st.Has(0) {
			v := st.Derivs[0][k*st.NShape : (k+1)*st.NShape]
			switch dim {
			case 1:
				x := p[0]
				v[0], v[1] = 1.-x, x
			case 2:
				x, y := p[0], p[1]
				v[0] = (1. - x) * (1. - y)
				v[1] = x * (1. - y)
				v[2] = (1. - x) * y
				v[3] = x * y
			case 3:
				x, y, z := p[0], p[1], p[2]
				v[0] = (1. - x) * (1. - y) * (1. - z)
				v[1] = x * (1. - y) * (1. - z)
				v[2] = (1. - x) * y * (1. - z)
				v[3] = x * y * (1. - z)
				v[4] = (1. - x) * (1. - y) * z
				v[5] = x * (1. - y) * z
				v[6] = (1. - x) * y * z
				v[7] = x * y * z
			}
		}
		if st.Has(1) {
			d := func(i int) []float64 { return st.Derivative(1, k, i) }
			switch dim {
			case 1:
				d(0)[0], d(1)[0] = -1., 1.
			case 2:
				x, y := p[0], p[1]
				d(0)[0], d(0)[1] = y-1., x-1.
				d(1)[0], d(1)[1] = 1.-y, -x
				d(2)[0], d(2)[1] = -y, 1.-x
				d(3)[0], d(3)[1] = y, x
			case 3:
				x, y, z := p[0], p[1], p[2]
				d(0)[0], d(0)[1], d(0)[2] = -(1.-y)*(1.-z), -(1.-x)*(1.-z), -(1.-x)*(1.-y)
				d(1)[0], d(1)[1], d(1)[2] = (1.-y)*(1.-z), -x*(1.-z), -x*(1.-y)
				d(2)[0], d(2)[1], d(2)[2] = -y*(1.-z), (1.-x)*(1.-z), -(1.-x)*y
				d(3)[0], d(3)[1], d(3)[2] = y*(1.-z), x*(1.-z), -x*y
				d(4)[0], d(4)[1], d(4)[2] = -(1.-y)*z, -(1.-x)*z, (1.-x)*(1.-y)
				d(5)[0], d(5)[1], d(5)[2] = (1.-y)*z, -x*z, x*(1.-y)
				d(6)[0], d(6)[1], d(6)[2] = -y*z, (1.-x)*z, (1.-x)*y
				d(7)[0], d(7)[1], d(7)[2] = y*z, x*z, x*y
			}
		}
		for r := 2; r < len(st.Derivs); r++ {
			if !st.Has(r) {
				continue
			}
			if (dim == 1 || dim == 3) && spaceDim != dim {
				panic(fmt.Errorf("closed form derivatives of order %d not implemented for dimension %d in %d",
					r, dim, spaceDim))
			}
			for i := 0; i < st.NShape; i++ {
				q1HigherDerivative(st.Derivative(r, k, i), i, dim, r, p)
			}
		}
	}
}

// q1HigherDerivative writes the order r derivative tensor of vertex function v at p into out.
func q1HigherDerivative(out []float64, v, dim, r int, p []float64) {
	var (
		dirs   = make([]int, r)
		counts = make([]int, dim)
	)
	for c := range out {
		rem := c
		for i := r - 1; i >= 0; i-- {
			dirs[i] = rem % dim
			rem /= dim
		}
		for d := range counts {
			counts[d] = 0
		}
		for _, d := range dirs {
			counts[d]++
		}
		val := 1.
		for d := 0; d < dim; d++ {
			upper := v&(1<<uint(d)) != 0
			switch counts[d] {
			case 0:
				if upper {
					val *= p[d]
				} else {
					val *= 1 - p[d]
				}
			case 1:
				if !upper {
					val = -val
				}
			default:
				val = 0
			}
		}
		out[c] = val
	}
}
