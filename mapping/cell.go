package mapping

import (
	"github.com/notargets/femapping/types"
)

/*
Cell is the view of a mesh cell the mapping reads from. Vertices are numbered lexicographically, x fastest.
Triangulation must return a comparable identity for the owning mesh (a pointer), which together with Index
identifies the cell whose support points are cached.
*/
type Cell interface {
	Triangulation() interface{}
	Index() int
	Vertex(i int) []float64
	Diameter() float64
	Center() []float64
	DirectionFlag() bool
	FaceOrientation(face int) bool
	FaceFlip(face int) bool
	FaceRotation(face int) bool
	SubfaceCase(face int) types.SubfaceCase
}

// SupportPointsProvider is implemented by cells that carry their own higher order geometry description.
// The returned points are in hierarchic order.
type SupportPointsProvider interface {
	MappingSupportPoints(degree int) [][]float64
}

type cellKey struct {
	tria  interface{}
	index int
}

func keyOf(cell Cell) cellKey {
	return cellKey{tria: cell.Triangulation(), index: cell.Index()}
}
