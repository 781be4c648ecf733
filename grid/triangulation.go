package grid

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/notargets/femapping/types"
	"github.com/notargets/femapping/utils"
)

// FaceOrientation holds the three orientation bits of a cell face; the standard orientation has Orientation true.
type FaceOrientation struct {
	Orientation, Flip, Rotation bool
}

var StandardOrientation = FaceOrientation{Orientation: true}

/*
Triangulation is a mesh of hypercube cells of dimension Dim embedded in SpaceDim dimensions. Cell vertices are
listed lexicographically (x fastest), matching the reference cell numbering used by the mapping.
*/
type Triangulation struct {
	Dim, SpaceDim  int
	Vertices       [][]float64
	CellVertices   [][]int
	DirectionFlags []bool
	Faces          [][]FaceOrientation
	SubfaceCases   [][]types.SubfaceCase
}

func NewTriangulation(dim, spaceDim int, vertices [][]float64, cellVertices [][]int) (tr *Triangulation) {
	if dim < 1 || dim > 3 || spaceDim < dim || spaceDim > 3 {
		panic(fmt.Errorf("triangulation of dimension %d in %d not implemented", dim, spaceDim))
	}
	nv := 1 << uint(dim)
	for k, cv := range cellVertices {
		if len(cv) != nv {
			panic(fmt.Errorf("cell %d has %d vertices, expected %d", k, len(cv), nv))
		}
		for _, v := range cv {
			if v < 0 || v >= len(vertices) {
				panic(fmt.Errorf("cell %d references vertex %d of %d", k, v, len(vertices)))
			}
		}
	}
	for i, v := range vertices {
		if len(v) != spaceDim {
			panic(fmt.Errorf("vertex %d has %d coordinates, expected %d", i, len(v), spaceDim))
		}
	}
	tr = &Triangulation{
		Dim:            dim,
		SpaceDim:       spaceDim,
		Vertices:       vertices,
		CellVertices:   cellVertices,
		DirectionFlags: make([]bool, len(cellVertices)),
		Faces:          make([][]FaceOrientation, len(cellVertices)),
		SubfaceCases:   make([][]types.SubfaceCase, len(cellVertices)),
	}
	for k := range cellVertices {
		tr.DirectionFlags[k] = true
		tr.Faces[k] = make([]FaceOrientation, 2*dim)
		for f := range tr.Faces[k] {
			tr.Faces[k][f] = StandardOrientation
		}
		tr.SubfaceCases[k] = make([]types.SubfaceCase, 2*dim)
	}
	return
}

/*
NewHyperRectangle subdivides the box [lower, upper] of dimension dim into a structured mesh. When spaceDim is
larger than dim the extra coordinates are zero; use Transform to bend the mesh into the embedding space.
*/
func NewHyperRectangle(dim, spaceDim int, lower, upper []float64, subdivisions []int) (tr *Triangulation) {
	if len(lower) != dim || len(upper) != dim || len(subdivisions) != dim {
		panic(fmt.Errorf("box bounds and subdivisions must have %d entries", dim))
	}
	var (
		nPts = make([]int, dim)
		nv   = 1
		nc   = 1
	)
	for d := 0; d < dim; d++ {
		if subdivisions[d] < 1 {
			panic(fmt.Errorf("subdivisions must be positive, have %v", subdivisions))
		}
		nPts[d] = subdivisions[d] + 1
		nv *= nPts[d]
		nc *= subdivisions[d]
	}
	vertices := make([][]float64, nv)
	ind := make([]int, dim)
	for k := range vertices {
		decode(k, nPts, ind)
		x := make([]float64, spaceDim)
		for d := 0; d < dim; d++ {
			x[d] = lower[d] + (upper[d]-lower[d])*float64(ind[d])/float64(subdivisions[d])
		}
		vertices[k] = x
	}
	cells := make([][]int, nc)
	for c := range cells {
		decode(c, subdivisions, ind)
		cv := make([]int, 1<<uint(dim))
		for v := range cv {
			var (
				k      = 0
				stride = 1
			)
			for d := 0; d < dim; d++ {
				i := ind[d]
				if v&(1<<uint(d)) != 0 {
					i++
				}
				k += i * stride
				stride *= nPts[d]
			}
			cv[v] = k
		}
		cells[c] = cv
	}
	tr = NewTriangulation(dim, spaceDim, vertices, cells)
	return
}

func decode(k int, n, ind []int) {
	for d := range n {
		ind[d] = k % n[d]
		k /= n[d]
	}
}

func (tr *Triangulation) NCells() int { return len(tr.CellVertices) }

func (tr *Triangulation) Cell(k int) *Cell {
	if k < 0 || k >= tr.NCells() {
		panic(fmt.Errorf("cell %d out of range [0,%d)", k, tr.NCells()))
	}
	return &Cell{tria: tr, index: k}
}

// Transform moves every vertex through f, which receives and returns SpaceDim coordinates.
func (tr *Triangulation) Transform(f func(x []float64) []float64) {
	for i, v := range tr.Vertices {
		nx := f(append([]float64{}, v...))
		if len(nx) != tr.SpaceDim {
			panic(fmt.Errorf("transform returned %d coordinates, expected %d", len(nx), tr.SpaceDim))
		}
		tr.Vertices[i] = nx
	}
}

/*
Perturb displaces every vertex not on the bounding box by a random offset of at most amplitude times the
local cell size h in each of the first Dim coordinates. The same seed gives the same mesh.
*/
func (tr *Triangulation) Perturb(amplitude, h float64, seed int64) {
	var (
		rng        = rand.New(rand.NewSource(seed))
		lower      = utils.ConstArray(tr.Dim, math.Inf(1))
		upper      = utils.ConstArray(tr.Dim, math.Inf(-1))
		onBoundary = func(x []float64) bool {
			for d := 0; d < tr.Dim; d++ {
				if x[d] == lower[d] || x[d] == upper[d] {
					return true
				}
			}
			return false
		}
	)
	for _, v := range tr.Vertices {
		for d := 0; d < tr.Dim; d++ {
			lower[d] = math.Min(lower[d], v[d])
			upper[d] = math.Max(upper[d], v[d])
		}
	}
	for _, v := range tr.Vertices {
		if onBoundary(v) {
			continue
		}
		for d := 0; d < tr.Dim; d++ {
			v[d] += amplitude * h * (2*rng.Float64() - 1)
		}
	}
}

func (tr *Triangulation) SetDirectionFlag(k int, flag bool) { tr.DirectionFlags[k] = flag }

func (tr *Triangulation) SetFaceOrientation(k, face int, fo FaceOrientation) { tr.Faces[k][face] = fo }

func (tr *Triangulation) SetSubfaceCase(k, face int, sc types.SubfaceCase) { tr.SubfaceCases[k][face] = sc }

/*
Similarity compares two cells of the same dimension: when cur is prev shifted by a constant vector it is a
translation, and an inverted translation if in addition the direction flags differ.
*/
func Similarity(prev, cur *Cell) types.CellSimilarity {
	if prev == nil || cur == nil || prev.tria.Dim != cur.tria.Dim || prev.tria.SpaceDim != cur.tria.SpaceDim {
		return types.SimilarityNone
	}
	var (
		p0    = prev.Vertex(0)
		c0    = cur.Vertex(0)
		shift = make([]float64, len(p0))
		tol   = 1.e-14 * prev.Diameter()
	)
	for i := range shift {
		shift[i] = c0[i] - p0[i]
	}
	for v := 1; v < prev.NVertices(); v++ {
		pv, cv := prev.Vertex(v), cur.Vertex(v)
		for i := range shift {
			if math.Abs(cv[i]-pv[i]-shift[i]) > tol {
				return types.SimilarityNone
			}
		}
	}
	if prev.DirectionFlag() != cur.DirectionFlag() {
		return types.SimilarityInvertedTranslation
	}
	return types.SimilarityTranslation
}

/*
BoundaryFaces lists the (cell, face) pairs whose face belongs to one cell only. Face f of a cell holds the
vertices whose bit f/2 equals f%2.
*/
func (tr *Triangulation) BoundaryFaces() (faces [][2]int) {
	var (
		nFaces = 2 * tr.Dim
		nv     = 1 << uint(tr.Dim)
		owners = make(map[[4]int][][2]int)
		order  [][4]int
	)
	for k, cv := range tr.CellVertices {
		for f := 0; f < nFaces; f++ {
			var (
				key = [4]int{-1, -1, -1, -1}
				n   int
			)
			for v := 0; v < nv; v++ {
				if (v>>uint(f/2))&1 == f%2 {
					key[n] = cv[v]
					n++
				}
			}
			sort.Ints(key[:n])
			if _, ok := owners[key]; !ok {
				order = append(order, key)
			}
			owners[key] = append(owners[key], [2]int{k, f})
		}
	}
	for _, key := range order {
		if o := owners[key]; len(o) == 1 {
			faces = append(faces, o[0])
		}
	}
	return
}
