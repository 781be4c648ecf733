package mapping

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/notargets/femapping/grid"
	"github.com/notargets/femapping/quadrature"
	"github.com/notargets/femapping/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func near(a, b float64, tolI ...float64) bool {
	tol := 1.e-12
	if len(tolI) > 0 {
		tol = tolI[0]
	}
	return math.Abs(a-b) <= tol
}

func sum(v []float64) (s float64) {
	for _, x := range v {
		s += x
	}
	return
}

func singleCell(dim, spaceDim int, vertices ...[]float64) *grid.Cell {
	cv := make([]int, len(vertices))
	for i := range cv {
		cv[i] = i
	}
	return grid.NewTriangulation(dim, spaceDim, vertices, [][]int{cv}).Cell(0)
}

var allFlags = []types.UpdateFlags{
	types.UpdateValues, types.UpdateGradients, types.UpdateHessians, types.UpdateQuadraturePoints,
	types.UpdateJxWValues, types.UpdateNormalVectors, types.UpdateBoundaryForms,
	types.UpdateCovariantTransformation, types.UpdateContravariantTransformation,
	types.UpdateVolumeElements, types.UpdateJacobians, types.UpdateJacobianGrads,
	types.UpdateInverseJacobians, types.UpdateJacobianPushedForwardGrads,
	types.UpdateJacobian2ndDerivatives, types.UpdateJacobianPushedForward2ndDerivatives,
	types.UpdateJacobian3rdDerivatives, types.UpdateJacobianPushedForward3rdDerivatives,
}

func TestRequiresUpdateFlags(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 500; trial++ {
		var f types.UpdateFlags
		for _, fl := range allFlags {
			if rng.Intn(4) == 0 {
				f |= fl
			}
		}
		c := RequiresUpdateFlags(f)
		assert.True(t, c.Has(f), "closure must contain its input")
		assert.Equal(t, c, RequiresUpdateFlags(c), "closure must be idempotent")
		// monotone: adding flags never removes closure flags
		g := f | allFlags[rng.Intn(len(allFlags))]
		assert.True(t, RequiresUpdateFlags(g).Has(c))
	}
	c := RequiresUpdateFlags(types.UpdateJxWValues)
	assert.True(t, c.Has(types.UpdateBoundaryForms|types.UpdateContravariantTransformation|
		types.UpdateVolumeElements))
	assert.False(t, c.Has(types.UpdateCovariantTransformation))
	c = RequiresUpdateFlags(types.UpdateInverseJacobians)
	assert.True(t, c.Has(types.UpdateCovariantTransformation|types.UpdateContravariantTransformation|
		types.UpdateJxWValues))
	assert.Equal(t, types.UpdateQuadraturePoints, RequiresUpdateFlags(types.UpdateQuadraturePoints))
	assert.Equal(t, types.UpdateDefault, RequiresUpdateFlags(types.UpdateDefault))
}

func vertexQuadrature(dim int) *quadrature.Quadrature {
	nv := 1 << uint(dim)
	pts := make([][]float64, nv)
	for v := range pts {
		pts[v] = make([]float64, dim)
		for d := 0; d < dim; d++ {
			if v&(1<<uint(d)) != 0 {
				pts[v][d] = 1
			}
		}
	}
	return quadrature.NewQuadrature(dim, pts, make([]float64, nv))
}

func TestShapeFunctionsNodal(t *testing.T) {
	for dim := 1; dim <= 3; dim++ {
		for degree := 1; degree <= 3; degree++ {
			for spaceDim := dim; spaceDim <= 3; spaceDim++ {
				m := NewMapping(degree, dim, spaceDim)
				q := vertexQuadrature(dim)
				data := m.GetData(types.UpdateQuadraturePoints, q)
				for v := 0; v < q.Size(); v++ {
					for k := 0; k < m.NShape; k++ {
						var exp float64
						if k == v {
							exp = 1
						}
						assert.InDeltaf(t, exp, data.Shapes.Shape(v, k), 1.e-12,
							"dim %d degree %d vertex %d shape %d", dim, degree, v, k)
					}
				}
			}
		}
	}
}

func TestQ1MatchesGeneralPath(t *testing.T) {
	for dim := 1; dim <= 3; dim++ {
		var (
			m   = NewMapping(1, dim, dim)
			q   = quadrature.NewGauss(3, dim)
			q1  = &ShapeTable{NShape: m.NShape, NPoints: q.Size(), Dim: dim}
			gen = &ShapeTable{NShape: m.NShape, NPoints: q.Size(), Dim: dim}
		)
		for r := range q1.Derivs {
			q1.allocate(r)
			gen.allocate(r)
		}
		computeShapeFunctionValuesQ1(q1, dim, q.Points)
		data := newInternalData(m)
		data.Shapes = gen
		computeShapeFunctionValuesGeneral(data, q.Points)
		for r := range q1.Derivs {
			require.Equal(t, len(q1.Derivs[r]), len(gen.Derivs[r]))
			for i := range q1.Derivs[r] {
				assert.InDeltaf(t, q1.Derivs[r][i], gen.Derivs[r][i], 1.e-12, "dim %d order %d entry %d", dim, r, i)
			}
		}
	}
	// Second derivatives of the closed form are only defined when the cell is not embedded
	st := &ShapeTable{NShape: 2, NPoints: 1, Dim: 1}
	st.allocate(2)
	assert.Panics(t, func() { computeShapeFunctionValuesQ1(st, 2, [][]float64{{0.5}}) })
}

// quadrilateral area from the shoelace formula, vertices in lexicographic order
func quadArea(v [][]float64) float64 {
	ring := [][]float64{v[0], v[1], v[3], v[2]}
	var a float64
	for i := range ring {
		j := (i + 1) % 4
		a += ring[i][0]*ring[j][1] - ring[j][0]*ring[i][1]
	}
	return 0.5 * a
}

func TestFillCellValuesArea(t *testing.T) {
	verts := [][]float64{{0, 0}, {2, 0.1}, {0.3, 1}, {1.5, 1.2}}
	cell := singleCell(2, 2, verts...)
	for degree := 1; degree <= 3; degree++ {
		m := NewMapping(degree, 2, 2)
		q := quadrature.NewGauss(3, 2)
		data := m.GetData(types.UpdateJxWValues|types.UpdateQuadraturePoints, q)
		out := data.NewOutputData(q.Size())
		sim, err := m.FillCellValues(cell, types.SimilarityNone, q, data, out)
		require.NoError(t, err)
		assert.Equal(t, types.SimilarityNone, sim)
		assert.InDelta(t, quadArea(verts), sum(out.JxWValues), 1.e-13)
		// quadrature points are the images of the reference points
		for i, p := range q.Points {
			x := m.TransformUnitToRealCell(cell, p)
			assert.InDelta(t, x[0], out.QuadraturePoints[i][0], 1.e-13)
			assert.InDelta(t, x[1], out.QuadraturePoints[i][1], 1.e-13)
		}
		for _, v := range data.VolumeElements {
			assert.Greater(t, v, 0.)
		}
	}
	{ // hexahedron volume
		tr := grid.NewHyperRectangle(3, 3, []float64{0, 0, 0}, []float64{1, 2, 3}, []int{1, 1, 1})
		m := NewMapping(2, 3, 3)
		q := quadrature.NewGauss(2, 3)
		data := m.GetData(types.UpdateJxWValues, q)
		out := data.NewOutputData(q.Size())
		_, err := m.FillCellValues(tr.Cell(0), types.SimilarityNone, q, data, out)
		require.NoError(t, err)
		assert.InDelta(t, 6., sum(out.JxWValues), 1.e-12)
	}
}

func TestTranslationReusesJacobians(t *testing.T) {
	tr := grid.NewHyperRectangle(2, 2, []float64{0, 0}, []float64{2, 1}, []int{2, 1})
	tr.Transform(func(x []float64) []float64 { return []float64{x[0] + 0.3*x[1], 1.1 * x[1]} })
	var (
		m     = NewMapping(1, 2, 2)
		q     = quadrature.NewGauss(2, 2)
		flags = types.UpdateJxWValues | types.UpdateQuadraturePoints | types.UpdateJacobians |
			types.UpdateInverseJacobians | types.UpdateJacobianGrads
		data = m.GetData(flags, q)
		out  = data.NewOutputData(q.Size())
	)
	_, err := m.FillCellValues(tr.Cell(0), types.SimilarityNone, q, data, out)
	require.NoError(t, err)
	var (
		contra = make([][]float64, len(data.Contravariant))
		cov    = make([][]float64, len(data.Covariant))
		jxw    = append([]float64{}, out.JxWValues...)
		qp0    = make([][]float64, q.Size())
	)
	for i := range contra {
		contra[i] = append([]float64{}, data.Contravariant[i].Data()...)
		cov[i] = append([]float64{}, data.Covariant[i].Data()...)
		qp0[i] = append([]float64{}, out.QuadraturePoints[i]...)
	}
	sim := grid.Similarity(tr.Cell(0), tr.Cell(1))
	require.Equal(t, types.SimilarityTranslation, sim)
	_, err = m.FillCellValues(tr.Cell(1), sim, q, data, out)
	require.NoError(t, err)
	for i := range contra {
		assert.Equal(t, contra[i], data.Contravariant[i].Data())
		assert.Equal(t, cov[i], data.Covariant[i].Data())
		assert.Equal(t, contra[i], out.Jacobians[i].Data())
		// quadrature points always follow the cell
		assert.InDelta(t, qp0[i][0]+1, out.QuadraturePoints[i][0], 1.e-14)
		assert.InDelta(t, qp0[i][1], out.QuadraturePoints[i][1], 1.e-14)
	}
	assert.Equal(t, jxw, out.JxWValues)
	// support points were recomputed for the new cell
	assert.Equal(t, tr.Cell(1).Vertex(0), data.MappingSupportPoints[0])
}

func TestSupportPointCache(t *testing.T) {
	tr := grid.NewHyperRectangle(2, 2, []float64{0, 0}, []float64{2, 1}, []int{2, 1})
	m := NewMapping(2, 2, 2)
	q := quadrature.NewGauss(2, 2)
	data := m.GetData(types.UpdateQuadraturePoints, q)
	out := data.NewOutputData(q.Size())
	_, err := m.FillCellValues(tr.Cell(0), types.SimilarityNone, q, data, out)
	require.NoError(t, err)
	first := &data.MappingSupportPoints[0][0]
	_, _ = m.FillCellValues(tr.Cell(0), types.SimilarityNone, q, data, out)
	assert.True(t, first == &data.MappingSupportPoints[0][0], "same cell must not recompute")
	_, _ = m.FillCellValues(tr.Cell(1), types.SimilarityNone, q, data, out)
	assert.False(t, first == &data.MappingSupportPoints[0][0])
	// same index on another triangulation is a different cell
	tr2 := grid.NewHyperRectangle(2, 2, []float64{5, 5}, []float64{7, 6}, []int{2, 1})
	_, _ = m.FillCellValues(tr2.Cell(1), types.SimilarityNone, q, data, out)
	assert.Equal(t, []float64{6, 5}, data.MappingSupportPoints[0])
	// hierarchic order: vertices, then line midpoints, then the center
	assert.Equal(t, 9, len(data.MappingSupportPoints))
	assert.InDelta(t, 6., data.MappingSupportPoints[4][0], 1.e-15)
	assert.InDelta(t, 5.5, data.MappingSupportPoints[4][1], 1.e-15)
	assert.InDelta(t, 6.5, data.MappingSupportPoints[8][0], 1.e-15)
}

type curvedCell struct {
	*grid.Cell
	bulge float64
}

// MappingSupportPoints bends the top edge of a unit square upward at its midpoint.
func (c curvedCell) MappingSupportPoints(degree int) [][]float64 {
	m := NewMapping(degree, 2, 2)
	pts := m.ComputeMappingSupportPoints(c.Cell)
	pts[7] = []float64{pts[7][0], pts[7][1] + c.bulge}
	return pts
}

func TestSupportPointsProvider(t *testing.T) {
	base := singleCell(2, 2, []float64{0, 0}, []float64{1, 0}, []float64{0, 1}, []float64{1, 1})
	cell := curvedCell{Cell: base, bulge: 0.25}
	m := NewMapping(2, 2, 2)
	q := quadrature.NewGauss(3, 2)
	data := m.GetData(types.UpdateJxWValues, q)
	out := data.NewOutputData(q.Size())
	_, err := m.FillCellValues(cell, types.SimilarityNone, q, data, out)
	require.NoError(t, err)
	// parabolic top edge y = 1 + 4 b x (1-x) adds 2b/3 to the area
	assert.InDelta(t, 1+2*0.25/3, sum(out.JxWValues), 1.e-13)
}

func TestDistortedCell(t *testing.T) {
	// vertices 2 and 3 swapped: a bow tie
	cell := singleCell(2, 2, []float64{0, 0}, []float64{1, 0}, []float64{1, 1}, []float64{0, 1})
	m := NewMapping(1, 2, 2)
	q := quadrature.NewGauss(2, 2)
	data := m.GetData(types.UpdateJxWValues, q)
	out := data.NewOutputData(q.Size())
	_, err := m.FillCellValues(cell, types.SimilarityNone, q, data, out)
	require.Error(t, err)
	var dce *DistortedCellError
	require.True(t, errors.As(err, &dce))
	assert.Equal(t, []float64{0.5, 0.5}, dce.Center)
	assert.LessOrEqual(t, dce.Det, 0.)
	assert.Contains(t, err.Error(), "distorted")
}

func TestCodimensionOne(t *testing.T) {
	{ // segments on the x axis in the plane
		tr := grid.NewHyperRectangle(1, 2, []float64{0}, []float64{2}, []int{2})
		m := NewMapping(1, 1, 2)
		q := quadrature.NewGauss(2, 1)
		data := m.GetData(types.UpdateJxWValues|types.UpdateNormalVectors, q)
		out := data.NewOutputData(q.Size())
		_, err := m.FillCellValues(tr.Cell(0), types.SimilarityNone, q, data, out)
		require.NoError(t, err)
		assert.InDelta(t, 1., sum(out.JxWValues), 1.e-14)
		for _, n := range out.NormalVectors {
			assert.InDelta(t, 0., n[0], 1.e-15)
			assert.InDelta(t, 1., n[1], 1.e-15)
		}
		tr.SetDirectionFlag(1, false)
		sim := grid.Similarity(tr.Cell(0), tr.Cell(1))
		require.Equal(t, types.SimilarityInvertedTranslation, sim)
		_, err = m.FillCellValues(tr.Cell(1), sim, q, data, out)
		require.NoError(t, err)
		for _, n := range out.NormalVectors {
			assert.InDelta(t, -1., n[1], 1.e-15)
		}
		// a fresh computation honors the direction flag directly
		_, err = m.FillCellValues(tr.Cell(1), types.SimilarityNone, q, data, out)
		require.NoError(t, err)
		for _, n := range out.NormalVectors {
			assert.InDelta(t, -1., n[1], 1.e-15)
			assert.InDelta(t, 1., math.Hypot(n[0], n[1]), 1.e-15)
		}
	}
	{ // a tilted square in space
		tr := grid.NewHyperRectangle(2, 3, []float64{0, 0}, []float64{1, 1}, []int{1, 1})
		tr.Transform(func(x []float64) []float64 { return []float64{x[0], x[1], x[1]} })
		m := NewMapping(1, 2, 3)
		q := quadrature.NewGauss(2, 2)
		data := m.GetData(types.UpdateJxWValues|types.UpdateNormalVectors, q)
		out := data.NewOutputData(q.Size())
		_, err := m.FillCellValues(tr.Cell(0), types.SimilarityNone, q, data, out)
		require.NoError(t, err)
		assert.InDelta(t, math.Sqrt(2), sum(out.JxWValues), 1.e-14)
		for _, n := range out.NormalVectors {
			assert.InDelta(t, 0., n[0], 1.e-15)
			assert.InDelta(t, -1/math.Sqrt(2), n[1], 1.e-15)
			assert.InDelta(t, 1/math.Sqrt(2), n[2], 1.e-15)
		}
	}
	{ // codimension two has no normal
		tr := grid.NewHyperRectangle(1, 3, []float64{0}, []float64{1}, []int{1})
		m := NewMapping(1, 1, 3)
		q := quadrature.NewGauss(1, 1)
		data := m.GetData(types.UpdateNormalVectors, q)
		out := data.NewOutputData(q.Size())
		assert.Panics(t, func() { _, _ = m.FillCellValues(tr.Cell(0), types.SimilarityNone, q, data, out) })
	}
}
