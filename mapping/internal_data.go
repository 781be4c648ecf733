package mapping

import (
	"fmt"

	"github.com/notargets/femapping/polynomials"
	"github.com/notargets/femapping/quadrature"
	"github.com/notargets/femapping/types"
	"github.com/notargets/femapping/utils"
)

/*
ShapeTable holds the mapping shape functions and their derivatives at a set of reference points. Derivs[0]
holds values, Derivs[r] the r-th derivatives stored at [(point*NShape+k)*Dim^r + c] where c enumerates the
derivative directions with the last one varying fastest. Orders that were not requested are left nil.
*/
type ShapeTable struct {
	NShape, NPoints, Dim int
	Derivs               [polynomials.MaxDerivative + 1][]float64
}

func (st *ShapeTable) ncomp(r int) (n int) {
	n = 1
	for i := 0; i < r; i++ {
		n *= st.Dim
	}
	return
}

func (st *ShapeTable) allocate(r int) {
	st.Derivs[r] = make([]float64, st.NPoints*st.NShape*st.ncomp(r))
}

func (st *ShapeTable) Has(r int) bool { return st.Derivs[r] != nil }

// Shape is the value of shape function k at point.
func (st *ShapeTable) Shape(point, k int) float64 {
	return st.Derivs[0][point*st.NShape+k]
}

// Derivative returns the r-th derivative of shape function k at point as a flat Dim^r slice.
func (st *ShapeTable) Derivative(r, point, k int) []float64 {
	if st.Derivs[r] == nil {
		panic(fmt.Errorf("shape derivatives of order %d were not computed", r))
	}
	nc := st.ncomp(r)
	off := (point*st.NShape + k) * nc
	return st.Derivs[r][off : off+nc]
}

/*
InternalData is the per-quadrature cache of a Mapping: precomputed shape tables, plus the per-point Jacobian
data and support points of the most recently processed cell. One InternalData must not be shared between
goroutines; each worker gets its own from GetData.
*/
type InternalData struct {
	Degree, Dim, SpaceDim, NShape int
	UpdateEach                    types.UpdateFlags
	Shapes                        *ShapeTable
	Covariant                     []utils.DerivativeForm
	Contravariant                 []utils.DerivativeForm
	VolumeElements                []float64
	// UnitTangentials[face + nFaces*d][q], the d-th tangential of each face on the reference cell
	UnitTangentials [][][]float64
	// Aux[d][q], the d-th unit tangential mapped to the real cell
	Aux                  [][][]float64
	MappingSupportPoints [][]float64
	NOriginalQPoints     int
	currentCell          *cellKey
	mapping              *Mapping
}

func newInternalData(m *Mapping) (data *InternalData) {
	data = &InternalData{
		Degree:   m.Degree,
		Dim:      m.Dim,
		SpaceDim: m.SpaceDim,
		NShape:   m.NShape,
		mapping:  m,
	}
	return
}

const derivativeFlags = types.UpdateCovariantTransformation | types.UpdateContravariantTransformation |
	types.UpdateJxWValues | types.UpdateBoundaryForms | types.UpdateNormalVectors |
	types.UpdateJacobians | types.UpdateJacobianGrads | types.UpdateInverseJacobians |
	types.UpdateJacobianPushedForwardGrads | types.UpdateJacobian2ndDerivatives |
	types.UpdateJacobianPushedForward2ndDerivatives | types.UpdateJacobian3rdDerivatives |
	types.UpdateJacobianPushedForward3rdDerivatives

// shapeOrderFlags[r] lists the flags that need r-th derivatives of the shape functions.
var shapeOrderFlags = [polynomials.MaxDerivative + 1]types.UpdateFlags{
	types.UpdateQuadraturePoints,
	derivativeFlags,
	types.UpdateJacobianGrads | types.UpdateJacobianPushedForwardGrads,
	types.UpdateJacobian2ndDerivatives | types.UpdateJacobianPushedForward2ndDerivatives,
	types.UpdateJacobian3rdDerivatives | types.UpdateJacobianPushedForward3rdDerivatives,
}

func (data *InternalData) initialize(flags types.UpdateFlags, q *quadrature.Quadrature, nOriginal int) {
	data.UpdateEach = flags
	data.NOriginalQPoints = nOriginal
	data.Shapes = &ShapeTable{
		NShape:  data.NShape,
		NPoints: q.Size(),
		Dim:     data.Dim,
	}
	for r, fl := range shapeOrderFlags {
		if flags.HasAny(fl) {
			data.Shapes.allocate(r)
		}
	}
	if flags.Has(types.UpdateCovariantTransformation) {
		data.Covariant = make([]utils.DerivativeForm, nOriginal)
		for i := range data.Covariant {
			data.Covariant[i] = utils.NewDerivativeForm(data.SpaceDim, data.Dim)
		}
	}
	if flags.Has(types.UpdateContravariantTransformation) {
		data.Contravariant = make([]utils.DerivativeForm, nOriginal)
		for i := range data.Contravariant {
			data.Contravariant[i] = utils.NewDerivativeForm(data.SpaceDim, data.Dim)
		}
	}
	if flags.Has(types.UpdateVolumeElements) {
		data.VolumeElements = make([]float64, nOriginal)
	}
	data.computeShapeFunctionValues(q.Points)
}

// unit normal direction and orientation of each face of the reference cube
var (
	unitNormalDirection   = []int{0, 0, 1, 1, 2, 2}
	unitNormalOrientation = []float64{-1, 1, -1, 1, -1, 1}
)

func (data *InternalData) initializeFace(flags types.UpdateFlags, q *quadrature.Quadrature, nOriginal int) {
	data.initialize(flags, q, nOriginal)
	if data.Dim == 1 || !flags.Has(types.UpdateBoundaryForms) {
		return
	}
	var (
		dim    = data.Dim
		nFaces = 2 * dim
	)
	data.Aux = make([][][]float64, dim-1)
	data.UnitTangentials = make([][][]float64, nFaces*(dim-1))
	fill := func(i int, tang []float64) {
		data.UnitTangentials[i] = make([][]float64, nOriginal)
		for q := range data.UnitTangentials[i] {
			data.UnitTangentials[i][q] = tang
		}
	}
	switch dim {
	case 2:
		// counterclockwise orientation of the tangentials
		tangentialOrientation := []float64{-1, 1, 1, -1}
		for i := 0; i < nFaces; i++ {
			tang := make([]float64, 2)
			tang[1-i/2] = tangentialOrientation[i]
			fill(i, tang)
		}
	case 3:
		for i := 0; i < nFaces; i++ {
			var (
				tang1, tang2 = make([]float64, 3), make([]float64, 3)
				nd           = unitNormalDirection[i]
			)
			// first tangential along the (nd+1)%3 axis, inverted for inward unit normals
			tang1[(nd+1)%3] = unitNormalOrientation[i]
			tang2[(nd+2)%3] = 1
			fill(i, tang1)
			fill(nFaces+i, tang2)
		}
	}
}

func (data *InternalData) computeShapeFunctionValues(points [][]float64) {
	if data.Degree == 1 && data.Dim == data.SpaceDim {
		computeShapeFunctionValuesQ1(data.Shapes, data.SpaceDim, points)
		return
	}
	computeShapeFunctionValuesGeneral(data, points)
}

func computeShapeFunctionValuesGeneral(data *InternalData, points [][]float64) {
	var (
		m      = data.mapping
		st     = data.Shapes
		derivs = make([][]float64, polynomials.MaxDerivative+1)
		maxR   = -1
	)
	for r := range st.Derivs {
		if st.Has(r) {
			derivs[r] = make([]float64, st.NShape*st.ncomp(r))
			maxR = r
		}
	}
	if maxR < 0 {
		return
	}
	derivs = derivs[:maxR+1]
	for point, p := range points {
		m.basis.Compute(p, derivs)
		for r, d := range derivs {
			if d == nil {
				continue
			}
			nc := st.ncomp(r)
			for lex := 0; lex < st.NShape; lex++ {
				h := m.lexToHier[lex]
				copy(st.Derivs[r][(point*st.NShape+h)*nc:(point*st.NShape+h+1)*nc], d[lex*nc:(lex+1)*nc])
			}
		}
	}
}

/*
ensureSupportPoints recomputes the mapping support points if none are cached or the cached ones belong to a
different cell or triangulation.
*/
func (m *Mapping) ensureSupportPoints(cell Cell, data *InternalData) {
	key := keyOf(cell)
	if len(data.MappingSupportPoints) == 0 || data.currentCell == nil ||
		data.currentCell.tria != key.tria || data.currentCell.index != key.index {
		data.MappingSupportPoints = m.ComputeMappingSupportPoints(cell)
		data.currentCell = &key
	}
}

/*
ComputeMappingSupportPoints returns the support points of cell in hierarchic order. The vertices come first;
the remaining points come from the cell itself when it implements SupportPointsProvider and otherwise from
multilinear interpolation of the vertices.
*/
func (m *Mapping) ComputeMappingSupportPoints(cell Cell) (pts [][]float64) {
	if m.Degree > 1 {
		if sp, ok := cell.(SupportPointsProvider); ok {
			pts = sp.MappingSupportPoints(m.Degree)
			assertDimension(len(pts), m.NShape, "number of mapping support points")
			return
		}
	}
	pts = make([][]float64, m.NShape)
	for lex, node := range m.supportNodes.Points {
		pts[m.lexToHier[lex]] = m.multilinear(cell, node)
	}
	return
}

func (m *Mapping) multilinear(cell Cell, xi []float64) (x []float64) {
	x = make([]float64, m.SpaceDim)
	nv := 1 << uint(m.Dim)
	for v := 0; v < nv; v++ {
		w := 1.
		for d := 0; d < m.Dim; d++ {
			if v&(1<<uint(d)) != 0 {
				w *= xi[d]
			} else {
				w *= 1 - xi[d]
			}
		}
		if w == 0 {
			continue
		}
		vert := cell.Vertex(v)
		assertDimension(len(vert), m.SpaceDim, "vertex coordinates")
		for i := range x {
			x[i] += w * vert[i]
		}
	}
	return
}
