package mapping

import (
	"fmt"
	"math"
)

// OutsidePoint is returned by TransformRealToUnitCell when a 2D point cannot be located in the cell.
var OutsidePoint = []float64{2, 2}

/*
TransformRealToUnitCell inverts the multilinear map through the given cell vertices in closed form. In 1D the
inverse is exact. In 2D the bilinear map leads to a quadratic in eta; when it has no real root, or xi cannot be
recovered from eta, the point lies outside the cell and OutsidePoint (2,2) is returned. Points outside the
cell may also come back as real coordinates outside [0,1]^2, never as interior ones. 3D is not supported.
*/
func TransformRealToUnitCell(vertices [][]float64, p []float64) (xi []float64) {
	switch len(vertices) {
	case 2:
		if len(p) != 1 || len(vertices[0]) != 1 {
			panic(fmt.Errorf("closed form inverse of a 1D cell needs one space dimension, have %d", len(p)))
		}
		return []float64{(p[0] - vertices[0][0]) / (vertices[1][0] - vertices[0][0])}
	case 4:
		if len(p) != 2 || len(vertices[0]) != 2 {
			panic(fmt.Errorf("closed form inverse of a 2D cell needs two space dimensions, have %d", len(p)))
		}
		return transformRealToUnitCell2D(vertices, p)
	}
	panic(fmt.Errorf("closed form inverse not implemented for cells with %d vertices", len(vertices)))
}

func transformRealToUnitCell2D(v [][]float64, p []float64) []float64 {
	var (
		x, y           = p[0], p[1]
		x0, x1, x2, x3 = v[0][0], v[1][0], v[2][0], v[3][0]
		y0, y1, y2, y3 = v[0][1], v[1][1], v[2][1], v[3][1]
	)
	a := (x1-x3)*(y0-y2) - (x0-x2)*(y1-y3)
	b := -(x0-x1-x2+x3)*y + (x-2*x1+x3)*y0 - (x-2*x0+x2)*y1 - (x-x1)*y2 + (x-x0)*y3
	c := (x0-x1)*y - (x-x1)*y0 + (x-x0)*y1

	discriminant := b*b - 4*a*c
	// the only case where the discriminant is negative is a point outside the cell
	if discriminant < 0 {
		return append([]float64{}, OutsidePoint...)
	}
	var eta1, eta2 float64
	switch {
	case a == 0 && b != 0:
		// linear in eta
		eta1 = -c / b
		eta2 = -c / b
	case math.Abs(c/b) < 1.e-12:
		eta1 = (-b - math.Sqrt(discriminant)) / (2 * a)
		eta2 = (-b + math.Sqrt(discriminant)) / (2 * a)
	default:
		// numerically stable form of the quadratic formula
		eta1 = 2 * c / (-b - math.Sqrt(discriminant))
		eta2 = 2 * c / (-b + math.Sqrt(discriminant))
	}
	// pick the root closer to the center of the cell
	eta := eta2
	if math.Abs(eta1-0.5) < math.Abs(eta2-0.5) {
		eta = eta1
	}

	// either of two expressions gives xi, each may have a vanishing denominator
	subexpr0 := -eta*x2 + x0*(eta-1)
	xiDenominator0 := eta*x3 - x1*(eta-1) + subexpr0
	maxX := math.Max(math.Max(math.Abs(x0), math.Abs(x1)), math.Max(math.Abs(x2), math.Abs(x3)))
	if math.Abs(xiDenominator0) > 1.e-10*maxX {
		return []float64{(x + subexpr0) / xiDenominator0, eta}
	}
	maxY := math.Max(math.Max(math.Abs(y0), math.Abs(y1)), math.Max(math.Abs(y2), math.Abs(y3)))
	subexpr1 := -eta*y2 + y0*(eta-1)
	xiDenominator1 := eta*y3 - y1*(eta-1) + subexpr1
	if math.Abs(xiDenominator1) > 1.e-10*maxY {
		return []float64{(subexpr1 + y) / xiDenominator1, eta}
	}
	return append([]float64{}, OutsidePoint...)
}

// TransformRealToUnitCellQ1 inverts the multilinear map through the vertices of cell.
func (m *Mapping) TransformRealToUnitCellQ1(cell Cell, p []float64) []float64 {
	if m.Dim != m.SpaceDim {
		panic(fmt.Errorf("closed form inverse not implemented for dimension %d in %d", m.Dim, m.SpaceDim))
	}
	nv := 1 << uint(m.Dim)
	vertices := make([][]float64, nv)
	for i := range vertices {
		vertices[i] = cell.Vertex(i)
	}
	return TransformRealToUnitCell(vertices, p)
}
