package types

// CellSimilarity describes how the current cell relates to the previously processed one.
type CellSimilarity uint8

const (
	SimilarityNone CellSimilarity = iota
	SimilarityTranslation
	SimilarityInvertedTranslation
)

func (cs CellSimilarity) String() string {
	switch cs {
	case SimilarityNone:
		return "none"
	case SimilarityTranslation:
		return "translation"
	case SimilarityInvertedTranslation:
		return "inverted_translation"
	}
	return "invalid_similarity"
}

// MappingKind selects the transformation rule applied to a field defined on the reference cell.
type MappingKind uint8

const (
	MappingCovariant MappingKind = iota
	MappingContravariant
	MappingPiola
	MappingCovariantGradient
	MappingContravariantGradient
	MappingPiolaGradient
	MappingCovariantHessian
	MappingContravariantHessian
	MappingPiolaHessian
)

var MappingKindNameMap = map[string]MappingKind{
	"covariant":              MappingCovariant,
	"contravariant":          MappingContravariant,
	"piola":                  MappingPiola,
	"covariant_gradient":     MappingCovariantGradient,
	"contravariant_gradient": MappingContravariantGradient,
	"piola_gradient":         MappingPiolaGradient,
	"covariant_hessian":      MappingCovariantHessian,
	"contravariant_hessian":  MappingContravariantHessian,
	"piola_hessian":          MappingPiolaHessian,
}

func (mk MappingKind) String() string {
	for name, kind := range MappingKindNameMap {
		if kind == mk {
			return name
		}
	}
	return "invalid_mapping_kind"
}

// SubfaceCase describes how a refined neighbor splits a face.
type SubfaceCase uint8

const (
	SubfaceNone SubfaceCase = iota
	SubfaceIsotropic
)

// NSubfaces is the number of children of a face of a cell of dimension dim under the given case.
func (sc SubfaceCase) NSubfaces(dim int) int {
	if sc == SubfaceNone {
		return 0
	}
	switch dim {
	case 1:
		return 1
	case 2:
		return 2
	default:
		return 4
	}
}

// SubfaceRatio is the measure of one subface relative to its parent face.
func (sc SubfaceCase) SubfaceRatio(dim int) float64 {
	if sc == SubfaceNone {
		return 1
	}
	return 1. / float64(sc.NSubfaces(dim))
}
