package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

/*
DerivativeForm holds the derivative of a map from a dim-dimensional reference space into a spacedim-dimensional
real space, stored as a spacedim x dim matrix: J[i][j] = d x_i / d xi_j.
*/
type DerivativeForm struct {
	*mat.Dense
}

func NewDerivativeForm(spaceDim, dim int) (df DerivativeForm) {
	if spaceDim < 1 || dim < 1 {
		panic(fmt.Errorf("invalid derivative form dimensions %d x %d", spaceDim, dim))
	}
	df = DerivativeForm{mat.NewDense(spaceDim, dim, nil)}
	return
}

func NewDerivativeFormFromData(spaceDim, dim int, data []float64) (df DerivativeForm) {
	df = DerivativeForm{mat.NewDense(spaceDim, dim, data)}
	return
}

func (df DerivativeForm) Copy() (R DerivativeForm) {
	R = DerivativeForm{mat.DenseCopyOf(df.Dense)}
	return
}

func (df DerivativeForm) SetZero() {
	df.Dense.Zero()
}

// Data is the row-major backing store.
func (df DerivativeForm) Data() []float64 {
	return df.RawMatrix().Data
}

// Transpose returns a new dim x spacedim form.
func (df DerivativeForm) Transpose() (R DerivativeForm) {
	R = DerivativeForm{mat.DenseCopyOf(df.T())}
	return
}

/*
CovariantForm returns J^{-T} for square forms and J (J^T J)^{-1} otherwise. Square forms of order up to three
are inverted in closed form so that a singular form yields Inf/NaN entries instead of failing, the cell
distortion check reports those cells.
*/
func (df DerivativeForm) CovariantForm() (R DerivativeForm) {
	nr, nc := df.Dims()
	if nr == nc {
		R = df.inverse().Transpose()
		return
	}
	var (
		G, Ginv mat.Dense
	)
	G.Mul(df.T(), df.Dense)
	if err := Ginv.Inverse(&G); err != nil {
		if _, ok := err.(mat.Condition); !ok {
			// Exactly singular metric: leave the form undefined rather than aborting
			R = NewDerivativeForm(nr, nc)
			for i := range R.Data() {
				R.Data()[i] = math.NaN()
			}
			return
		}
	}
	R = NewDerivativeForm(nr, nc)
	R.Mul(df.Dense, &Ginv)
	return
}

func (df DerivativeForm) inverse() (R DerivativeForm) {
	var (
		n, _ = df.Dims()
		a    = df.Data()
	)
	R = NewDerivativeForm(n, n)
	r := R.Data()
	switch n {
	case 1:
		r[0] = 1. / a[0]
	case 2:
		oodet := 1. / (a[0]*a[3] - a[1]*a[2])
		r[0], r[1] = a[3]*oodet, -a[1]*oodet
		r[2], r[3] = -a[2]*oodet, a[0]*oodet
	case 3:
		c00 := a[4]*a[8] - a[5]*a[7]
		c01 := a[5]*a[6] - a[3]*a[8]
		c02 := a[3]*a[7] - a[4]*a[6]
		oodet := 1. / (a[0]*c00 + a[1]*c01 + a[2]*c02)
		r[0] = c00 * oodet
		r[1] = (a[2]*a[7] - a[1]*a[8]) * oodet
		r[2] = (a[1]*a[5] - a[2]*a[4]) * oodet
		r[3] = c01 * oodet
		r[4] = (a[0]*a[8] - a[2]*a[6]) * oodet
		r[5] = (a[2]*a[3] - a[0]*a[5]) * oodet
		r[6] = c02 * oodet
		r[7] = (a[1]*a[6] - a[0]*a[7]) * oodet
		r[8] = (a[0]*a[4] - a[1]*a[3]) * oodet
	default:
		if err := R.Inverse(df.Dense); err != nil {
			if _, ok := err.(mat.Condition); !ok {
				panic(err)
			}
		}
	}
	return
}

/*
Determinant is the signed determinant for square forms and the generalized determinant sqrt(det(J^T J))
otherwise, which is the volume element of a codimension-one cell.
*/
func (df DerivativeForm) Determinant() (det float64) {
	nr, nc := df.Dims()
	if nr == nc {
		a := df.Data()
		switch nr {
		case 1:
			det = a[0]
		case 2:
			det = a[0]*a[3] - a[1]*a[2]
		case 3:
			det = a[0]*(a[4]*a[8]-a[5]*a[7]) +
				a[1]*(a[5]*a[6]-a[3]*a[8]) +
				a[2]*(a[3]*a[7]-a[4]*a[6])
		default:
			det = mat.Det(df.Dense)
		}
		return
	}
	var G mat.Dense
	G.Mul(df.T(), df.Dense)
	det = math.Sqrt(mat.Det(&G))
	return
}

// Transform returns J v for a reference-space vector v.
func (df DerivativeForm) Transform(v []float64) (r []float64) {
	nr, nc := df.Dims()
	if len(v) != nc {
		panic(fmt.Errorf("dimension mismatch: vector length %d, form has %d columns", len(v), nc))
	}
	r = make([]float64, nr)
	a := df.Data()
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			r[i] += a[i*nc+j] * v[j]
		}
	}
	return
}

// Column returns the image of the j-th reference direction.
func (df DerivativeForm) Column(j int) (c []float64) {
	nr, _ := df.Dims()
	c = make([]float64, nr)
	mat.Col(c, j, df.Dense)
	return
}
