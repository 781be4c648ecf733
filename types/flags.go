package types

import (
	"strings"
)

/*
UpdateFlags selects which per-quadrature-point quantities a mapping computes. The flags form a bit set; the
mapping closes a requested set under its dependency rules before allocating any tables.
*/
type UpdateFlags uint64

const UpdateDefault UpdateFlags = 0

const (
	UpdateValues UpdateFlags = 1 << iota
	UpdateGradients
	UpdateHessians
	UpdateQuadraturePoints
	UpdateJxWValues
	UpdateNormalVectors
	UpdateBoundaryForms
	UpdateCovariantTransformation
	UpdateContravariantTransformation
	UpdateVolumeElements
	UpdateJacobians
	UpdateJacobianGrads
	UpdateInverseJacobians
	UpdateJacobianPushedForwardGrads
	UpdateJacobian2ndDerivatives
	UpdateJacobianPushedForward2ndDerivatives
	UpdateJacobian3rdDerivatives
	UpdateJacobianPushedForward3rdDerivatives
)

var updateFlagNames = []struct {
	Flag UpdateFlags
	Name string
}{
	{UpdateValues, "update_values"},
	{UpdateGradients, "update_gradients"},
	{UpdateHessians, "update_hessians"},
	{UpdateQuadraturePoints, "update_quadrature_points"},
	{UpdateJxWValues, "update_JxW_values"},
	{UpdateNormalVectors, "update_normal_vectors"},
	{UpdateBoundaryForms, "update_boundary_forms"},
	{UpdateCovariantTransformation, "update_covariant_transformation"},
	{UpdateContravariantTransformation, "update_contravariant_transformation"},
	{UpdateVolumeElements, "update_volume_elements"},
	{UpdateJacobians, "update_jacobians"},
	{UpdateJacobianGrads, "update_jacobian_grads"},
	{UpdateInverseJacobians, "update_inverse_jacobians"},
	{UpdateJacobianPushedForwardGrads, "update_jacobian_pushed_forward_grads"},
	{UpdateJacobian2ndDerivatives, "update_jacobian_2nd_derivatives"},
	{UpdateJacobianPushedForward2ndDerivatives, "update_jacobian_pushed_forward_2nd_derivatives"},
	{UpdateJacobian3rdDerivatives, "update_jacobian_3rd_derivatives"},
	{UpdateJacobianPushedForward3rdDerivatives, "update_jacobian_pushed_forward_3rd_derivatives"},
}

// Has reports whether every bit of f2 is set in f.
func (f UpdateFlags) Has(f2 UpdateFlags) bool { return f&f2 == f2 }

// HasAny reports whether at least one bit of f2 is set in f.
func (f UpdateFlags) HasAny(f2 UpdateFlags) bool { return f&f2 != 0 }

func (f UpdateFlags) String() string {
	if f == UpdateDefault {
		return "update_default"
	}
	var names []string
	for _, fn := range updateFlagNames {
		if f.Has(fn.Flag) {
			names = append(names, fn.Name)
		}
	}
	return strings.Join(names, "|")
}

// ParseUpdateFlags converts a list of flag names, as written in input files, into a flag set.
func ParseUpdateFlags(names []string) (f UpdateFlags, ok bool) {
	ok = true
	for _, name := range names {
		var found bool
		key := strings.ToLower(strings.TrimSpace(name))
		key = strings.TrimPrefix(key, "update_")
		for _, fn := range updateFlagNames {
			if strings.ToLower(strings.TrimPrefix(fn.Name, "update_")) == key {
				f |= fn.Flag
				found = true
				break
			}
		}
		if !found {
			ok = false
		}
	}
	return
}
