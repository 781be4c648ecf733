package polynomials

import (
	"fmt"
)

/*
HierarchicToLexicographic lists, for each hierarchically numbered shape function of a degree p tensor product
element on the unit hypercube, its lexicographic index. Hierarchic order enumerates vertex functions first,
then the interior functions of each line, then of each quad, then of the hex, following the reference cell
numbering of vertices, lines and faces.
*/
func HierarchicToLexicographic(dim, degree int) (h2l []int) {
	if degree < 1 {
		panic(fmt.Errorf("degree must be at least one, have %d", degree))
	}
	var (
		n   = degree + 1
		dpl = degree - 1
	)
	switch dim {
	case 1:
		h2l = make([]int, 0, n)
		h2l = append(h2l, 0, degree)
		for i := 2; i < n; i++ {
			h2l = append(h2l, i-1)
		}
	case 2:
		h2l = make([]int, 0, n*n)
		h2l = append(h2l, 0, n-1, n*(n-1), n*n-1)
		for i := 0; i < dpl; i++ { // line 0, x=0
			h2l = append(h2l, (1+i)*n)
		}
		for i := 0; i < dpl; i++ { // line 1, x=1
			h2l = append(h2l, (2+i)*n-1)
		}
		for i := 0; i < dpl; i++ { // line 2, y=0
			h2l = append(h2l, 1+i)
		}
		for i := 0; i < dpl; i++ { // line 3, y=1
			h2l = append(h2l, n*(n-1)+i+1)
		}
		for i := 0; i < dpl; i++ {
			for j := 0; j < dpl; j++ {
				h2l = append(h2l, n*(i+1)+j+1)
			}
		}
	case 3:
		var (
			n2 = n * n
		)
		h2l = make([]int, 0, n2*n)
		h2l = append(h2l,
			0, degree, n*degree, (n+1)*degree,
			n2*degree, (n2+1)*degree, (n2+n)*degree, (n2+n+1)*degree)
		lines := []func(i int) int{
			func(i int) int { return (i + 1) * n },
			func(i int) int { return n - 1 + (i+1)*n },
			func(i int) int { return 1 + i },
			func(i int) int { return 1 + i + n*(n-1) },
			func(i int) int { return (n-1)*n2 + (i+1)*n },
			func(i int) int { return (n-1)*(n2+1) + (i+1)*n },
			func(i int) int { return n2*(n-1) + i + 1 },
			func(i int) int { return n2*(n-1) + i + 1 + n*(n-1) },
			func(i int) int { return (i + 1) * n2 },
			func(i int) int { return n - 1 + (i+1)*n2 },
			func(i int) int { return (i+1)*n2 + n*(n-1) },
			func(i int) int { return n - 1 + (i+1)*n2 + n*(n-1) },
		}
		for _, line := range lines {
			for i := 0; i < dpl; i++ {
				h2l = append(h2l, line(i))
			}
		}
		quads := []func(i, j int) int{
			func(i, j int) int { return (i+1)*n2 + n*(j+1) },
			func(i, j int) int { return (i+1)*n2 + n - 1 + n*(j+1) },
			func(i, j int) int { return (j+1)*n2 + i + 1 },
			func(i, j int) int { return (j+1)*n2 + n*(n-1) + i + 1 },
			func(i, j int) int { return n*(i+1) + j + 1 },
			func(i, j int) int { return (n-1)*n2 + n*(i+1) + j + 1 },
		}
		for _, quad := range quads {
			for i := 0; i < dpl; i++ {
				for j := 0; j < dpl; j++ {
					h2l = append(h2l, quad(i, j))
				}
			}
		}
		for i := 0; i < dpl; i++ {
			for j := 0; j < dpl; j++ {
				for k := 0; k < dpl; k++ {
					h2l = append(h2l, n2*(i+1)+n*(j+1)+k+1)
				}
			}
		}
	default:
		panic(fmt.Errorf("hierarchic numbering not implemented for dimension %d", dim))
	}
	return
}

// LexicographicToHierarchic is the inverse permutation of HierarchicToLexicographic.
func LexicographicToHierarchic(dim, degree int) (l2h []int) {
	h2l := HierarchicToLexicographic(dim, degree)
	l2h = make([]int, len(h2l))
	for h, l := range h2l {
		l2h[l] = h
	}
	return
}
