package mapping

import (
	"fmt"

	"github.com/notargets/femapping/polynomials"
	"github.com/notargets/femapping/quadrature"
	"github.com/notargets/femapping/types"
)

/*
Mapping is the polynomial map of degree Degree from the reference hypercube [0,1]^Dim onto a cell embedded in
SpaceDim dimensions. The map is interpolated through (Degree+1)^Dim support points located at the tensor
product Gauss-Lobatto nodes. A Mapping is immutable after construction; all per-cell state lives in the
InternalData returned by GetData and friends.
*/
type Mapping struct {
	Degree, Dim, SpaceDim int
	NShape                int
	basis                 *polynomials.TensorProduct
	lexToHier             []int
	supportNodes          *quadrature.Quadrature
}

func NewMapping(degree, dim, spaceDim int) (m *Mapping) {
	if degree < 1 {
		panic(fmt.Errorf("mapping degree must be at least one, have %d", degree))
	}
	if dim < 1 || dim > 3 || spaceDim < dim || spaceDim > 3 {
		panic(fmt.Errorf("mapping from dimension %d into dimension %d not implemented", dim, spaceDim))
	}
	nodes := quadrature.GaussLobatto(degree + 1)
	x := make([]float64, nodes.Size())
	for i, p := range nodes.Points {
		x[i] = p[0]
	}
	m = &Mapping{
		Degree:       degree,
		Dim:          dim,
		SpaceDim:     spaceDim,
		basis:        polynomials.NewTensorProduct(dim, polynomials.LagrangeBasis(x)),
		lexToHier:    polynomials.LexicographicToHierarchic(dim, degree),
		supportNodes: quadrature.TensorProduct(nodes, dim),
	}
	m.NShape = m.basis.N()
	return
}

func (m *Mapping) NFaces() int { return 2 * m.Dim }

/*
RequiresUpdateFlags closes a flag set under the dependencies between the mapped quantities. The rules are
applied five times, enough for the set to stop changing; the result is a superset of the input and applying
the closure again does not change it.
*/
func (m *Mapping) RequiresUpdateFlags(in types.UpdateFlags) types.UpdateFlags {
	return RequiresUpdateFlags(in)
}

func RequiresUpdateFlags(in types.UpdateFlags) (out types.UpdateFlags) {
	out = in
	for i := 0; i < 5; i++ {
		// Boundary forms only make sense on faces and are ignored for cell interiors
		if out.HasAny(types.UpdateJxWValues | types.UpdateNormalVectors) {
			out |= types.UpdateBoundaryForms
		}
		if out.HasAny(types.UpdateCovariantTransformation | types.UpdateJxWValues |
			types.UpdateJacobians | types.UpdateJacobianGrads |
			types.UpdateBoundaryForms | types.UpdateNormalVectors) {
			out |= types.UpdateContravariantTransformation
		}
		if out.HasAny(types.UpdateInverseJacobians | types.UpdateJacobianPushedForwardGrads |
			types.UpdateJacobianPushedForward2ndDerivatives |
			types.UpdateJacobianPushedForward3rdDerivatives) {
			out |= types.UpdateCovariantTransformation
		}
		// Piola transforms need the determinant, which comes with the JxW values
		if out.Has(types.UpdateContravariantTransformation) {
			out |= types.UpdateJxWValues
		}
		if out.Has(types.UpdateNormalVectors) {
			out |= types.UpdateJxWValues
		}
		if out.Has(types.UpdateJxWValues) {
			out |= types.UpdateVolumeElements
		}
	}
	return
}

// GetData prepares the tables for evaluating the mapping at the points of a cell quadrature.
func (m *Mapping) GetData(flags types.UpdateFlags, q *quadrature.Quadrature) (data *InternalData) {
	assertDimension(q.Dim, m.Dim, "quadrature dimension")
	data = newInternalData(m)
	data.initialize(m.RequiresUpdateFlags(flags), q, q.Size())
	return
}

// GetFaceData prepares tables for a face quadrature, projected onto every face and orientation of the cell.
func (m *Mapping) GetFaceData(flags types.UpdateFlags, qFace *quadrature.Quadrature) (data *InternalData) {
	assertDimension(qFace.Dim, m.Dim-1, "face quadrature dimension")
	data = newInternalData(m)
	data.initializeFace(m.RequiresUpdateFlags(flags), quadrature.ProjectToAllFaces(qFace), qFace.Size())
	return
}

// GetSubfaceData is GetFaceData for the children of refined faces.
func (m *Mapping) GetSubfaceData(flags types.UpdateFlags, qFace *quadrature.Quadrature) (data *InternalData) {
	assertDimension(qFace.Dim, m.Dim-1, "face quadrature dimension")
	data = newInternalData(m)
	data.initializeFace(m.RequiresUpdateFlags(flags), quadrature.ProjectToAllSubfaces(qFace), qFace.Size())
	return
}
