package grid

import (
	"github.com/notargets/femapping/types"
	"github.com/notargets/femapping/utils"
)

// Cell is a handle on one cell of a Triangulation. Two handles are the same cell when they share both.
type Cell struct {
	tria  *Triangulation
	index int
}

func (c *Cell) Triangulation() interface{} { return c.tria }

func (c *Cell) Index() int { return c.index }

func (c *Cell) NVertices() int { return len(c.tria.CellVertices[c.index]) }

func (c *Cell) Vertex(i int) []float64 {
	return c.tria.Vertices[c.tria.CellVertices[c.index][i]]
}

func (c *Cell) Vertices() (v [][]float64) {
	v = make([][]float64, c.NVertices())
	for i := range v {
		v[i] = c.Vertex(i)
	}
	return
}

// Diameter is the length of the longest diagonal.
func (c *Cell) Diameter() (diam float64) {
	var (
		nv = c.NVertices()
	)
	// vertex i and its opposite nv-1-i span a diagonal
	for i := 0; i < nv/2; i++ {
		a, b := c.Vertex(i), c.Vertex(nv-1-i)
		d := make([]float64, len(a))
		for k := range d {
			d[k] = b[k] - a[k]
		}
		if l := utils.Norm(d); l > diam {
			diam = l
		}
	}
	return
}

// Center is the vertex average.
func (c *Cell) Center() (x []float64) {
	x = make([]float64, c.tria.SpaceDim)
	nv := c.NVertices()
	for i := 0; i < nv; i++ {
		for k, xv := range c.Vertex(i) {
			x[k] += xv / float64(nv)
		}
	}
	return
}

func (c *Cell) DirectionFlag() bool { return c.tria.DirectionFlags[c.index] }

func (c *Cell) FaceOrientation(face int) bool { return c.tria.Faces[c.index][face].Orientation }

func (c *Cell) FaceFlip(face int) bool { return c.tria.Faces[c.index][face].Flip }

func (c *Cell) FaceRotation(face int) bool { return c.tria.Faces[c.index][face].Rotation }

func (c *Cell) SubfaceCase(face int) types.SubfaceCase { return c.tria.SubfaceCases[c.index][face] }
