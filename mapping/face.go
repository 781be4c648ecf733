package mapping

import (
	"fmt"

	"github.com/notargets/femapping/quadrature"
	"github.com/notargets/femapping/types"
	"github.com/notargets/femapping/utils"
)

// FillFaceValues computes the data selected in data at the points of qFace on the given face of cell.
func (m *Mapping) FillFaceValues(cell Cell, face int, qFace *quadrature.Quadrature,
	data *InternalData, out *OutputData) {
	m.checkFace(face)
	m.ensureSupportPoints(cell, data)
	dataSet := quadrature.FaceOffset(m.Dim, face,
		cell.FaceOrientation(face), cell.FaceFlip(face), cell.FaceRotation(face), qFace.Size())
	m.doFillFaceValues(cell, face, -1, dataSet, qFace, data, out)
}

// FillSubfaceValues is FillFaceValues for one child of a refined face; JxW values are scaled by the subface area.
func (m *Mapping) FillSubfaceValues(cell Cell, face, subface int, qFace *quadrature.Quadrature,
	data *InternalData, out *OutputData) {
	m.checkFace(face)
	m.ensureSupportPoints(cell, data)
	dataSet := quadrature.SubfaceOffset(m.Dim, face, subface,
		cell.FaceOrientation(face), cell.FaceFlip(face), cell.FaceRotation(face), qFace.Size())
	m.doFillFaceValues(cell, face, subface, dataSet, qFace, data, out)
}

func (m *Mapping) checkFace(face int) {
	if face < 0 || face >= m.NFaces() {
		panic(fmt.Errorf("face %d out of range for a cell of dimension %d", face, m.Dim))
	}
}

func (m *Mapping) doFillFaceValues(cell Cell, face, subface, dataSet int, qFace *quadrature.Quadrature,
	data *InternalData, out *OutputData) {
	m.maybeComputeQPoints(dataSet, data, out.QuadraturePoints)
	m.maybeUpdateJacobians(types.SimilarityNone, dataSet, data)
	m.maybeUpdateJacobianDerivatives(types.SimilarityNone, dataSet, data, out)
	m.maybeComputeFaceData(cell, face, subface, qFace, data, out)
}

func (m *Mapping) maybeComputeFaceData(cell Cell, face, subface int, qFace *quadrature.Quadrature,
	data *InternalData, out *OutputData) {
	var (
		flags = data.UpdateEach
		nq    = qFace.Size()
	)
	if !flags.Has(types.UpdateBoundaryForms) {
		return
	}
	assertDimension(len(out.BoundaryForms), nq, "boundary forms")
	if flags.Has(types.UpdateNormalVectors) {
		assertDimension(len(out.NormalVectors), nq, "normal vectors")
	}
	if flags.Has(types.UpdateJxWValues) {
		assertDimension(len(out.JxWValues), nq, "JxW values")
	}
	nFaces := m.NFaces()
	for d := 0; d < m.Dim-1; d++ {
		data.Aux[d] = m.TransformVectors(data.UnitTangentials[face+nFaces*d], types.MappingContravariant, data)
	}
	sign := 1.
	if face == 0 {
		sign = -1.
	}
	if m.Dim == m.SpaceDim {
		for i := 0; i < nq; i++ {
			switch m.Dim {
			case 1:
				// no tangentials in 1D, the face number gives the orientation
				out.BoundaryForms[i][0] = sign
			case 2:
				copy(out.BoundaryForms[i], utils.CrossProduct(data.Aux[0][i]))
			case 3:
				copy(out.BoundaryForms[i], utils.CrossProduct(data.Aux[0][i], data.Aux[1][i]))
			}
		}
	} else {
		assertDimension(len(data.Contravariant), nq, "contravariant transformations")
		for point := 0; point < nq; point++ {
			J := data.Contravariant[point]
			switch m.Dim {
			case 1:
				// J is a tangent vector
				t := J.Column(0)
				copy(out.BoundaryForms[point], utils.Scaled(1/(sign*utils.Norm(t)), t))
			case 2:
				cellNormal := utils.CrossProduct(J.Column(0), J.Column(1))
				cellNormal = utils.Scaled(1/utils.Norm(cellNormal), cellNormal)
				copy(out.BoundaryForms[point], utils.CrossProduct(data.Aux[0][point], cellNormal))
			default:
				panic(fmt.Errorf("face data not implemented for dimension %d in %d", m.Dim, m.SpaceDim))
			}
		}
	}
	if flags.HasAny(types.UpdateNormalVectors | types.UpdateJxWValues) {
		for i, bf := range out.BoundaryForms {
			norm := utils.Norm(bf)
			if flags.Has(types.UpdateJxWValues) {
				out.JxWValues[i] = norm * qFace.Weight(i)
				if subface >= 0 {
					sc := cell.SubfaceCase(face)
					if sc == types.SubfaceNone {
						sc = types.SubfaceIsotropic
					}
					out.JxWValues[i] *= sc.SubfaceRatio(m.Dim)
				}
			}
			if flags.Has(types.UpdateNormalVectors) {
				copy(out.NormalVectors[i], utils.Scaled(1/norm, bf))
			}
		}
	}
	if flags.Has(types.UpdateJacobians) {
		for point := 0; point < nq; point++ {
			out.Jacobians[point].Dense.Copy(data.Contravariant[point])
		}
	}
	if flags.Has(types.UpdateInverseJacobians) {
		for point := 0; point < nq; point++ {
			out.InverseJacobians[point].Dense.Copy(data.Covariant[point].T())
		}
	}
}
