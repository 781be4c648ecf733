package mapping

import (
	"fmt"

	"github.com/notargets/femapping/types"
	"github.com/notargets/femapping/utils"
	"gonum.org/v1/gonum/floats"
)

func checkInputLength(n int, data *InternalData) {
	stored := len(data.Contravariant)
	if len(data.Covariant) > stored {
		stored = len(data.Covariant)
	}
	if stored > 0 && n > stored {
		panic(fmt.Errorf("dimension mismatch: %d inputs but Jacobians are stored for %d points", n, stored))
	}
}

func notImplemented(kind types.MappingKind, what string) {
	panic(fmt.Errorf("mapping kind %s not implemented for %s", kind, what))
}

/*
TransformVectors maps reference vector fields, one per quadrature point, into real space:
contravariant v -> J v, Piola v -> J v / det J, covariant v -> J^{-T} v.
*/
func (m *Mapping) TransformVectors(input [][]float64, kind types.MappingKind, data *InternalData) (output [][]float64) {
	checkInputLength(len(input), data)
	output = make([][]float64, len(input))
	switch kind {
	case types.MappingContravariant:
		assertFlag(data, types.UpdateContravariantTransformation)
		for i, v := range input {
			output[i] = data.Contravariant[i].Transform(v)
		}
	case types.MappingPiola:
		assertFlag(data, types.UpdateContravariantTransformation)
		assertFlag(data, types.UpdateVolumeElements)
		for i, v := range input {
			output[i] = data.Contravariant[i].Transform(v)
			floats.Scale(1/data.VolumeElements[i], output[i])
		}
	case types.MappingCovariant:
		assertFlag(data, types.UpdateCovariantTransformation)
		for i, v := range input {
			output[i] = data.Covariant[i].Transform(v)
		}
	default:
		notImplemented(kind, "vector fields")
	}
	return
}

/*
TransformDerivativeForms maps derivative forms (SpaceDim x Dim, e.g. gradients taken in reference coordinates
of a vector valued quantity) covariantly: out = D J^{-1}, a SpaceDim x SpaceDim tensor.
*/
func (m *Mapping) TransformDerivativeForms(input []utils.DerivativeForm, kind types.MappingKind,
	data *InternalData) (output []*utils.Tensor) {
	checkInputLength(len(input), data)
	output = make([]*utils.Tensor, len(input))
	switch kind {
	case types.MappingCovariant:
		assertFlag(data, types.UpdateCovariantTransformation)
		for i, D := range input {
			nr, nc := D.Dims()
			T := utils.NewTensor(nr, nc)
			copy(T.Data, D.Data())
			output[i] = T.TransformLegs(nil, data.Covariant[i])
		}
	default:
		notImplemented(kind, "derivative forms")
	}
	return
}

/*
TransformTensors2 maps rank two reference tensors (Dim x Dim). Contravariant maps act on the second index
only; the gradient kinds transform both indices:

	contravariant gradient  J T J^{-1}
	covariant gradient      J^{-T} T J^{-1}
	piola gradient          J T J^{-1} / det J
*/
func (m *Mapping) TransformTensors2(input []*utils.Tensor, kind types.MappingKind,
	data *InternalData) (output []*utils.Tensor) {
	checkInputLength(len(input), data)
	output = make([]*utils.Tensor, len(input))
	for _, T := range input {
		if T.Rank() != 2 {
			panic(fmt.Errorf("rank 2 transform applied to a tensor of rank %d", T.Rank()))
		}
	}
	switch kind {
	case types.MappingContravariant:
		assertFlag(data, types.UpdateContravariantTransformation)
		for i, T := range input {
			output[i] = T.TransformLegs(nil, data.Contravariant[i])
		}
	case types.MappingContravariantGradient:
		assertFlag(data, types.UpdateCovariantTransformation)
		assertFlag(data, types.UpdateContravariantTransformation)
		for i, T := range input {
			output[i] = T.TransformLegs(data.Contravariant[i], data.Covariant[i])
		}
	case types.MappingCovariantGradient:
		assertFlag(data, types.UpdateCovariantTransformation)
		for i, T := range input {
			output[i] = T.TransformLegs(data.Covariant[i], data.Covariant[i])
		}
	case types.MappingPiolaGradient:
		assertFlag(data, types.UpdateCovariantTransformation)
		assertFlag(data, types.UpdateContravariantTransformation)
		assertFlag(data, types.UpdateVolumeElements)
		for i, T := range input {
			output[i] = T.TransformLegs(data.Contravariant[i], data.Covariant[i])
			floats.Scale(1/data.VolumeElements[i], output[i].Data)
		}
	default:
		notImplemented(kind, "rank 2 tensors")
	}
	return
}

// TransformDerivativeForms2 maps second derivative forms (SpaceDim x Dim x Dim) with the covariant gradient rule.
func (m *Mapping) TransformDerivativeForms2(input []*utils.Tensor, kind types.MappingKind,
	data *InternalData) (output []*utils.Tensor) {
	checkInputLength(len(input), data)
	output = make([]*utils.Tensor, len(input))
	switch kind {
	case types.MappingCovariantGradient:
		assertFlag(data, types.UpdateCovariantTransformation)
		for i, T := range input {
			output[i] = T.TransformLegs(nil, data.Covariant[i], data.Covariant[i])
		}
	default:
		notImplemented(kind, "second derivative forms")
	}
	return
}

// TransformTensors3 maps rank three reference tensors, the hessians of reference fields.
func (m *Mapping) TransformTensors3(input []*utils.Tensor, kind types.MappingKind,
	data *InternalData) (output []*utils.Tensor) {
	checkInputLength(len(input), data)
	output = make([]*utils.Tensor, len(input))
	switch kind {
	case types.MappingContravariantHessian:
		assertFlag(data, types.UpdateCovariantTransformation)
		assertFlag(data, types.UpdateContravariantTransformation)
		for i, T := range input {
			C := data.Covariant[i]
			output[i] = T.TransformLegs(data.Contravariant[i], C, C)
		}
	case types.MappingCovariantHessian:
		assertFlag(data, types.UpdateCovariantTransformation)
		for i, T := range input {
			C := data.Covariant[i]
			output[i] = T.TransformLegs(C, C, C)
		}
	case types.MappingPiolaHessian:
		assertFlag(data, types.UpdateCovariantTransformation)
		assertFlag(data, types.UpdateContravariantTransformation)
		assertFlag(data, types.UpdateVolumeElements)
		for i, T := range input {
			C := data.Covariant[i]
			output[i] = T.TransformLegs(data.Contravariant[i], C, C)
			floats.Scale(1/data.VolumeElements[i], output[i].Data)
		}
	default:
		notImplemented(kind, "rank 3 tensors")
	}
	return
}
