package polynomials

import (
	"fmt"
)

// Polynomial is a one dimensional polynomial in monomial form, Coefficients[k] multiplies x^k.
type Polynomial struct {
	Coefficients []float64
}

func (p Polynomial) Degree() int { return len(p.Coefficients) - 1 }

/*
Values fills values[0..len(values)-1] with the polynomial and its derivatives at x, values[k] being the k-th
derivative, using a Horner scheme that carries all requested derivatives.
*/
func (p Polynomial) Values(x float64, values []float64) {
	var (
		nc = len(p.Coefficients)
		nd = len(values) - 1
	)
	if nd < 0 {
		return
	}
	if nc == 0 {
		panic(fmt.Errorf("polynomial has no coefficients"))
	}
	values[0] = p.Coefficients[nc-1]
	for j := 1; j <= nd; j++ {
		values[j] = 0
	}
	for i := nc - 2; i >= 0; i-- {
		nnd := nd
		if nc-1-i < nnd {
			nnd = nc - 1 - i
		}
		for j := nnd; j >= 1; j-- {
			values[j] = values[j]*x + values[j-1]
		}
		values[0] = values[0]*x + p.Coefficients[i]
	}
	fact := 1.
	for j := 2; j <= nd; j++ {
		fact *= float64(j)
		values[j] *= fact
	}
}

func (p Polynomial) Value(x float64) float64 {
	v := make([]float64, 1)
	p.Values(x, v)
	return v[0]
}

/*
LagrangeBasis returns the Lagrange interpolation polynomials of the given nodes: L_j(x_i) = delta_ij. The
product form is expanded once so that derivatives of any order come from Values.
*/
func LagrangeBasis(nodes []float64) (basis []Polynomial) {
	n := len(nodes)
	if n < 1 {
		panic(fmt.Errorf("lagrange basis needs at least one node"))
	}
	basis = make([]Polynomial, n)
	for j := 0; j < n; j++ {
		coeffs := []float64{1}
		denom := 1.
		for m := 0; m < n; m++ {
			if m == j {
				continue
			}
			// multiply by (x - x_m)
			next := make([]float64, len(coeffs)+1)
			for k, c := range coeffs {
				next[k+1] += c
				next[k] -= c * nodes[m]
			}
			coeffs = next
			denom *= nodes[j] - nodes[m]
		}
		if denom == 0 {
			panic(fmt.Errorf("lagrange nodes are not distinct: %v", nodes))
		}
		for k := range coeffs {
			coeffs[k] /= denom
		}
		basis[j] = Polynomial{Coefficients: coeffs}
	}
	return
}
