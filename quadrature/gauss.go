package quadrature

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Gauss returns the n point Gauss-Legendre rule on [0,1], exact for polynomials of degree 2n-1.
func Gauss(n int) (q *Quadrature) {
	if n < 1 {
		panic(fmt.Errorf("gauss rule needs at least one point, have %d", n))
	}
	x, w := JacobiGQ(0, 0, n-1)
	return toUnitInterval(x, w)
}

/*
GaussLobatto returns the n point Gauss-Lobatto rule on [0,1], which includes both end points and is exact for
polynomials of degree 2n-3. The points are sorted ascending.
*/
func GaussLobatto(n int) (q *Quadrature) {
	if n < 2 {
		panic(fmt.Errorf("gauss-lobatto rule needs at least two points, have %d", n))
	}
	x := JacobiGL(0, 0, n-1)
	// w_i = 2 / (N (N+1) P_N(x_i)^2) for Legendre P_N, N = n-1
	var (
		N = float64(n - 1)
		w = make([]float64, n)
	)
	for i, xi := range x {
		pn := legendre(n-1, xi)
		w[i] = 2. / (N * (N + 1) * pn * pn)
	}
	return toUnitInterval(x, w)
}

func toUnitInterval(x, w []float64) (q *Quadrature) {
	q = &Quadrature{
		Dim:     1,
		Points:  make([][]float64, len(x)),
		Weights: make([]float64, len(w)),
	}
	for i := range x {
		q.Points[i] = []float64{0.5 * (x[i] + 1)}
		q.Weights[i] = 0.5 * w[i]
	}
	return
}

// JacobiGL returns the N+1 Gauss-Lobatto nodes on [-1,1] of the Jacobi polynomial of order N.
func JacobiGL(alpha, beta float64, N int) (x []float64) {
	x = make([]float64, N+1)
	x[0], x[N] = -1, 1
	if N == 1 {
		return
	}
	xint, _ := JacobiGQ(alpha+1, beta+1, N-2)
	copy(x[1:N], xint)
	return
}

// JacobiGQ returns the N+1 Gauss nodes and weights on [-1,1] for the Jacobi weight (1-x)^alpha (1+x)^beta.
func JacobiGQ(alpha, beta float64, N int) (x, w []float64) {
	if N == 0 {
		x = []float64{-(alpha - beta) / (alpha + beta + 2.)}
		w = []float64{2.}
		return
	}
	var (
		h1 = make([]float64, N+1)
		J  = mat.NewSymDense(N+1, nil)
	)
	for i := 0; i < N+1; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}
	// main diagonal: -1/2*(alpha^2-beta^2)./(h1+2)./h1
	fac := -.5 * (alpha*alpha - beta*beta)
	for i := 0; i < N+1; i++ {
		J.SetSym(i, i, fac/(h1[i]*(h1[i]+2.)))
	}
	// Handle division by zero
	if alpha+beta < 10*1.e-16 {
		J.SetSym(0, 0, 0.)
	}
	for i := 0; i < N; i++ {
		ip1 := float64(i + 1)
		val := h1[i]
		d1 := 2. / (val + 2.) *
			math.Sqrt(ip1*(ip1+alpha+beta)*(ip1+alpha)*(ip1+beta)/((val+1.)*(val+3.)))
		J.SetSym(i, i+1, d1)
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(J, true); !ok {
		panic("eigenvalue decomposition failed")
	}
	x = eig.Values(nil)
	V := mat.NewDense(N+1, N+1, nil)
	eig.VectorsTo(V)
	w = make([]float64, N+1)
	g0 := gamma0(alpha, beta)
	for i := range w {
		v := V.At(0, i)
		w[i] = v * v * g0
	}
	return
}

func gamma0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1.
	a1 := alpha + 1.
	b1 := beta + 1.
	return math.Gamma(a1) * math.Gamma(b1) * math.Pow(2, ab1) / ab1 / math.Gamma(ab1)
}

func legendre(n int, x float64) (p float64) {
	var (
		p0, p1 = 1., x
	)
	if n == 0 {
		return p0
	}
	for k := 1; k < n; k++ {
		kf := float64(k)
		p0, p1 = p1, ((2*kf+1)*x*p1-kf*p0)/(kf+1)
	}
	return p1
}
