package mapping

import (
	"fmt"
	"math"

	"github.com/notargets/femapping/quadrature"
	"github.com/notargets/femapping/types"
	"github.com/notargets/femapping/utils"
	"gonum.org/v1/gonum/floats"
)

// maybeComputeQPoints maps the reference points starting at dataSet; it runs regardless of cell similarity.
func (m *Mapping) maybeComputeQPoints(dataSet int, data *InternalData, qPoints [][]float64) {
	if !data.UpdateEach.Has(types.UpdateQuadraturePoints) {
		return
	}
	supp := data.MappingSupportPoints
	for point := range qPoints {
		res := qPoints[point]
		for i := range res {
			res[i] = 0
		}
		for k := 0; k < data.NShape; k++ {
			s := data.Shapes.Shape(point+dataSet, k)
			for i := range res {
				res[i] += s * supp[k][i]
			}
		}
	}
}

/*
maybeUpdateJacobians computes the contravariant (Jacobian) matrices, their covariant forms and determinants at
each point. All of it is left untouched when the cell is a translation of the previous one.
*/
func (m *Mapping) maybeUpdateJacobians(similarity types.CellSimilarity, dataSet int, data *InternalData) {
	if similarity == types.SimilarityTranslation {
		return
	}
	flags := data.UpdateEach
	if flags.Has(types.UpdateContravariantTransformation) {
		supp := data.MappingSupportPoints
		for point := range data.Contravariant {
			J := data.Contravariant[point].Data()
			for i := range J {
				J[i] = 0
			}
			for k := 0; k < data.NShape; k++ {
				deriv := data.Shapes.Derivative(1, point+dataSet, k)
				for i := 0; i < data.SpaceDim; i++ {
					for j := 0; j < data.Dim; j++ {
						J[i*data.Dim+j] += deriv[j] * supp[k][i]
					}
				}
			}
		}
	}
	if flags.Has(types.UpdateCovariantTransformation) {
		for point := range data.Contravariant {
			data.Covariant[point].Dense.Copy(data.Contravariant[point].CovariantForm())
		}
	}
	if flags.Has(types.UpdateVolumeElements) {
		for point := range data.Contravariant {
			data.VolumeElements[point] = data.Contravariant[point].Determinant()
		}
	}
}

/*
mapDerivative contracts the order r shape derivatives at point with the support points, giving the order r-1
derivative of the Jacobian with shape SpaceDim x Dim^r.
*/
func (m *Mapping) mapDerivative(r, point int, data *InternalData) (res *utils.Tensor) {
	shape := []int{data.SpaceDim}
	for i := 0; i < r; i++ {
		shape = append(shape, data.Dim)
	}
	res = utils.NewTensor(shape...)
	var (
		nc   = data.Shapes.ncomp(r)
		supp = data.MappingSupportPoints
	)
	for k := 0; k < data.NShape; k++ {
		deriv := data.Shapes.Derivative(r, point, k)
		for i := 0; i < data.SpaceDim; i++ {
			row := res.Data[i*nc : (i+1)*nc]
			for c, dv := range deriv {
				row[c] += dv * supp[k][i]
			}
		}
	}
	return
}

/*
maybeUpdateJacobianDerivatives fills the gradients, second and third derivatives of the Jacobian, and their
variants pushed forward to real space coordinates through the covariant matrices.
*/
func (m *Mapping) maybeUpdateJacobianDerivatives(similarity types.CellSimilarity, dataSet int,
	data *InternalData, out *OutputData) {
	if similarity == types.SimilarityTranslation {
		return
	}
	families := []struct {
		order               int
		plain, pushed       types.UpdateFlags
		plainOut, pushedOut []*utils.Tensor
	}{
		{2, types.UpdateJacobianGrads, types.UpdateJacobianPushedForwardGrads,
			out.JacobianGrads, out.JacobianPushedForwardGrads},
		{3, types.UpdateJacobian2ndDerivatives, types.UpdateJacobianPushedForward2ndDerivatives,
			out.Jacobian2ndDerivatives, out.JacobianPushedForward2ndDerivatives},
		{4, types.UpdateJacobian3rdDerivatives, types.UpdateJacobianPushedForward3rdDerivatives,
			out.Jacobian3rdDerivatives, out.JacobianPushedForward3rdDerivatives},
	}
	for _, fam := range families {
		if data.UpdateEach.Has(fam.plain) {
			for point := range fam.plainOut {
				res := m.mapDerivative(fam.order, point+dataSet, data)
				copy(fam.plainOut[point].Data, res.Data)
			}
		}
		if data.UpdateEach.Has(fam.pushed) {
			for point := range fam.pushedOut {
				res := m.mapDerivative(fam.order, point+dataSet, data)
				C := data.Covariant[point]
				var pushed *utils.Tensor
				switch fam.order {
				case 2:
					pushed = res.TransformLegs(nil, C, C)
				case 3:
					pushed = res.TransformLegs(nil, C, C, C)
				case 4:
					pushed = res.TransformLegs(nil, C, C, C, C)
				}
				copy(fam.pushedOut[point].Data, pushed.Data)
			}
		}
	}
}

/*
FillCellValues computes the quantities selected in data for cell at the points of q and writes them to out.
When similarity says the cell is a translation of the previous one, all Jacobian-derived data is reused from
the previous call; quadrature points are always recomputed. The returned similarity is the one passed in.
A *DistortedCellError is returned when a Jacobian determinant is not safely positive.
*/
func (m *Mapping) FillCellValues(cell Cell, similarity types.CellSimilarity, q *quadrature.Quadrature,
	data *InternalData, out *OutputData) (types.CellSimilarity, error) {
	nq := q.Size()
	m.ensureSupportPoints(cell, data)
	m.maybeComputeQPoints(0, data, out.QuadraturePoints)
	m.maybeUpdateJacobians(similarity, 0, data)

	flags := data.UpdateEach
	if flags.HasAny(types.UpdateNormalVectors | types.UpdateJxWValues) {
		assertDimension(len(out.JxWValues), nq, "JxW values")
		if flags.Has(types.UpdateNormalVectors) {
			assertDimension(len(out.NormalVectors), nq, "normal vectors")
		}
		if similarity != types.SimilarityTranslation {
			for point := 0; point < nq; point++ {
				if m.Dim == m.SpaceDim {
					det := data.Contravariant[point].Determinant()
					// allows anisotropies up to 1e6 in 3D and 1e12 in 2D
					tol := 1.e-12 * utils.POW(cell.Diameter()/math.Sqrt(float64(m.Dim)), m.Dim)
					if !(det > tol) {
						return similarity, &DistortedCellError{Center: cell.Center(), Det: det, Point: point}
					}
					out.JxWValues[point] = q.Weight(point) * det
					continue
				}
				J := data.Contravariant[point]
				out.JxWValues[point] = J.Determinant() * q.Weight(point)
				if similarity == types.SimilarityInvertedTranslation {
					if flags.Has(types.UpdateNormalVectors) {
						floats.Scale(-1, out.NormalVectors[point])
					}
					continue
				}
				if flags.Has(types.UpdateNormalVectors) {
					if m.SpaceDim-m.Dim != 1 {
						panic(fmt.Errorf("there is no cell normal in codimension %d", m.SpaceDim-m.Dim))
					}
					var n []float64
					if m.Dim == 1 {
						n = utils.CrossProduct(utils.Scaled(-1, J.Column(0)))
					} else {
						n = utils.CrossProduct(J.Column(0), J.Column(1))
					}
					n = utils.Scaled(1/utils.Norm(n), n)
					if !cell.DirectionFlag() {
						n = utils.Scaled(-1, n)
					}
					copy(out.NormalVectors[point], n)
				}
			}
		}
	}
	if flags.Has(types.UpdateJacobians) {
		assertDimension(len(out.Jacobians), nq, "jacobians")
		if similarity != types.SimilarityTranslation {
			for point := 0; point < nq; point++ {
				out.Jacobians[point].Dense.Copy(data.Contravariant[point])
			}
		}
	}
	if flags.Has(types.UpdateInverseJacobians) {
		assertDimension(len(out.InverseJacobians), nq, "inverse jacobians")
		if similarity != types.SimilarityTranslation {
			for point := 0; point < nq; point++ {
				out.InverseJacobians[point].Dense.Copy(data.Covariant[point].T())
			}
		}
	}
	m.maybeUpdateJacobianDerivatives(similarity, 0, data, out)
	return similarity, nil
}

/*
TransformUnitToRealCell maps a reference point onto cell using the full polynomial map through the cell's
support points.
*/
func (m *Mapping) TransformUnitToRealCell(cell Cell, unitPoint []float64) (x []float64) {
	assertDimension(len(unitPoint), m.Dim, "reference point")
	supp := m.ComputeMappingSupportPoints(cell)
	values := make([]float64, m.NShape)
	m.basis.Compute(unitPoint, [][]float64{values})
	x = make([]float64, m.SpaceDim)
	for lex, v := range values {
		k := m.lexToHier[lex]
		for i := range x {
			x[i] += v * supp[k][i]
		}
	}
	return
}
