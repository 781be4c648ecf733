package grid

import (
	"math"
	"testing"

	"github.com/notargets/femapping/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHyperRectangle(t *testing.T) {
	tr := NewHyperRectangle(2, 2, []float64{0, 0}, []float64{2, 1}, []int{2, 1})
	require.Equal(t, 2, tr.NCells())
	require.Equal(t, 6, len(tr.Vertices))
	c := tr.Cell(1)
	assert.Equal(t, []float64{1, 0}, c.Vertex(0))
	assert.Equal(t, []float64{2, 0}, c.Vertex(1))
	assert.Equal(t, []float64{1, 1}, c.Vertex(2))
	assert.Equal(t, []float64{2, 1}, c.Vertex(3))
	assert.InDelta(t, math.Sqrt(2), c.Diameter(), 1.e-15)
	assert.Equal(t, []float64{1.5, 0.5}, c.Center())
	assert.True(t, c.DirectionFlag())
	assert.True(t, c.FaceOrientation(0))
	assert.Equal(t, types.SubfaceNone, c.SubfaceCase(3))
	assert.Equal(t, tr, c.Triangulation())
	assert.Panics(t, func() { tr.Cell(2) })

	tr3 := NewHyperRectangle(3, 3, []float64{0, 0, 0}, []float64{1, 1, 1}, []int{2, 2, 2})
	require.Equal(t, 8, tr3.NCells())
	c3 := tr3.Cell(7)
	assert.Equal(t, []float64{0.5, 0.5, 0.5}, c3.Vertex(0))
	assert.Equal(t, []float64{1, 1, 1}, c3.Vertex(7))
	assert.InDelta(t, math.Sqrt(0.75), c3.Diameter(), 1.e-15)
}

func TestSimilarity(t *testing.T) {
	tr := NewHyperRectangle(2, 2, []float64{0, 0}, []float64{3, 1}, []int{3, 1})
	assert.Equal(t, types.SimilarityTranslation, Similarity(tr.Cell(0), tr.Cell(1)))
	tr.SetDirectionFlag(2, false)
	assert.Equal(t, types.SimilarityInvertedTranslation, Similarity(tr.Cell(1), tr.Cell(2)))
	assert.Equal(t, types.SimilarityNone, Similarity(nil, tr.Cell(1)))

	tr.Transform(func(x []float64) []float64 { return []float64{x[0] * x[0], x[1]} })
	assert.Equal(t, types.SimilarityNone, Similarity(tr.Cell(0), tr.Cell(1)))
}

func TestPerturb(t *testing.T) {
	tr := NewHyperRectangle(2, 2, []float64{0, 0}, []float64{1, 1}, []int{4, 4})
	tr.Perturb(0.2, 0.25, 42)
	// the interior vertex of index 6 = (1,1) in the lattice moved, corners stay
	assert.Equal(t, []float64{0, 0}, tr.Vertices[0])
	assert.Equal(t, []float64{1, 1}, tr.Vertices[24])
	moved := tr.Vertices[6]
	assert.True(t, moved[0] != 0.25 || moved[1] != 0.25)
	assert.InDelta(t, 0.25, moved[0], 0.05+1.e-15)

	tr2 := NewHyperRectangle(2, 2, []float64{0, 0}, []float64{1, 1}, []int{4, 4})
	tr2.Perturb(0.2, 0.25, 42)
	assert.Equal(t, tr.Vertices, tr2.Vertices)
}

func TestBoundaryFaces(t *testing.T) {
	tr := NewHyperRectangle(2, 2, []float64{0, 0}, []float64{2, 1}, []int{2, 1})
	assert.Equal(t, [][2]int{{0, 0}, {0, 2}, {0, 3}, {1, 1}, {1, 2}, {1, 3}}, tr.BoundaryFaces())

	tr1 := NewHyperRectangle(1, 1, []float64{0}, []float64{1}, []int{3})
	assert.Equal(t, [][2]int{{0, 0}, {2, 1}}, tr1.BoundaryFaces())

	tr3 := NewHyperRectangle(3, 3, []float64{0, 0, 0}, []float64{1, 1, 1}, []int{2, 2, 2})
	bf := tr3.BoundaryFaces()
	assert.Len(t, bf, 24)
	for _, cf := range bf {
		// the face lies on the side of the unit cube given by its number
		var (
			c    = tr3.Cell(cf[0])
			d    = cf[1] / 2
			side = float64(cf[1] % 2)
		)
		for v := 0; v < 8; v++ {
			if (v>>uint(d))&1 == cf[1]%2 {
				assert.Equal(t, side, c.Vertex(v)[d])
			}
		}
	}
}
