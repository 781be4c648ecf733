package mapping

import (
	"github.com/notargets/femapping/types"
	"github.com/notargets/femapping/utils"
)

/*
OutputData receives the mapped quantities at each quadrature point. Only the fields whose flags are set in the
InternalData it was sized for are allocated. Jacobian derivative tensors have the real space index first:
JacobianGrads[q] is SpaceDim x Dim x Dim, the pushed forward variants are SpaceDim^(r+1).
*/
type OutputData struct {
	QuadraturePoints                    [][]float64
	JxWValues                           []float64
	Jacobians                           []utils.DerivativeForm
	InverseJacobians                    []utils.DerivativeForm
	JacobianGrads                       []*utils.Tensor
	JacobianPushedForwardGrads          []*utils.Tensor
	Jacobian2ndDerivatives              []*utils.Tensor
	JacobianPushedForward2ndDerivatives []*utils.Tensor
	Jacobian3rdDerivatives              []*utils.Tensor
	JacobianPushedForward3rdDerivatives []*utils.Tensor
	BoundaryForms                       [][]float64
	NormalVectors                       [][]float64
}

// NewOutputData allocates the fields selected by data.UpdateEach for nq quadrature points.
func (data *InternalData) NewOutputData(nq int) (out *OutputData) {
	var (
		flags = data.UpdateEach
		dim   = data.Dim
		sd    = data.SpaceDim
	)
	out = &OutputData{}
	vectors := func(n int) (v [][]float64) {
		v = make([][]float64, nq)
		for i := range v {
			v[i] = make([]float64, n)
		}
		return
	}
	forms := func(nr, nc int) (f []utils.DerivativeForm) {
		f = make([]utils.DerivativeForm, nq)
		for i := range f {
			f[i] = utils.NewDerivativeForm(nr, nc)
		}
		return
	}
	tensors := func(shape ...int) (t []*utils.Tensor) {
		t = make([]*utils.Tensor, nq)
		for i := range t {
			t[i] = utils.NewTensor(shape...)
		}
		return
	}
	derivShape := func(r int) (s []int) {
		s = []int{sd}
		for i := 0; i < r; i++ {
			s = append(s, dim)
		}
		return
	}
	pushedShape := func(r int) (s []int) {
		s = make([]int, r+1)
		for i := range s {
			s[i] = sd
		}
		return
	}
	if flags.Has(types.UpdateQuadraturePoints) {
		out.QuadraturePoints = vectors(sd)
	}
	if flags.Has(types.UpdateJxWValues) {
		out.JxWValues = make([]float64, nq)
	}
	if flags.Has(types.UpdateJacobians) {
		out.Jacobians = forms(sd, dim)
	}
	if flags.Has(types.UpdateInverseJacobians) {
		out.InverseJacobians = forms(dim, sd)
	}
	if flags.Has(types.UpdateJacobianGrads) {
		out.JacobianGrads = tensors(derivShape(2)...)
	}
	if flags.Has(types.UpdateJacobianPushedForwardGrads) {
		out.JacobianPushedForwardGrads = tensors(pushedShape(2)...)
	}
	if flags.Has(types.UpdateJacobian2ndDerivatives) {
		out.Jacobian2ndDerivatives = tensors(derivShape(3)...)
	}
	if flags.Has(types.UpdateJacobianPushedForward2ndDerivatives) {
		out.JacobianPushedForward2ndDerivatives = tensors(pushedShape(3)...)
	}
	if flags.Has(types.UpdateJacobian3rdDerivatives) {
		out.Jacobian3rdDerivatives = tensors(derivShape(4)...)
	}
	if flags.Has(types.UpdateJacobianPushedForward3rdDerivatives) {
		out.JacobianPushedForward3rdDerivatives = tensors(pushedShape(4)...)
	}
	if flags.Has(types.UpdateBoundaryForms) {
		out.BoundaryForms = vectors(sd)
	}
	if flags.Has(types.UpdateNormalVectors) {
		out.NormalVectors = vectors(sd)
	}
	return
}
