package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateFlags(t *testing.T) {
	{ // single bits and the empty set
		assert.Equal(t, UpdateFlags(1), UpdateValues)
		assert.Equal(t, "update_default", UpdateDefault.String())
		assert.Equal(t, "update_JxW_values", UpdateJxWValues.String())
		f := UpdateJxWValues | UpdateNormalVectors | UpdateQuadraturePoints
		assert.Equal(t, "update_quadrature_points|update_JxW_values|update_normal_vectors", f.String())
		assert.True(t, f.Has(UpdateJxWValues|UpdateNormalVectors))
		assert.False(t, f.Has(UpdateJxWValues|UpdateJacobians))
		assert.True(t, f.HasAny(UpdateJxWValues|UpdateJacobians))
		assert.False(t, f.HasAny(UpdateJacobians))
		assert.True(t, f.Has(UpdateDefault))
	}
	{ // every flag is a distinct bit with a name
		seen := make(map[string]bool)
		var all UpdateFlags
		for _, fn := range updateFlagNames {
			assert.False(t, all.HasAny(fn.Flag), fn.Name)
			all |= fn.Flag
			assert.False(t, seen[fn.Name])
			seen[fn.Name] = true
		}
		assert.Equal(t, UpdateJacobianPushedForward3rdDerivatives<<1-1, all)
	}
	{ // parsing is case insensitive and accepts names with or without the prefix
		f, ok := ParseUpdateFlags([]string{"update_JxW_values", "Jacobians", " quadrature_points "})
		assert.True(t, ok)
		assert.Equal(t, UpdateJxWValues|UpdateJacobians|UpdateQuadraturePoints, f)
		f, ok = ParseUpdateFlags([]string{"jacobians", "no_such_flag"})
		assert.False(t, ok)
		assert.Equal(t, UpdateJacobians, f)
		f, ok = ParseUpdateFlags(nil)
		assert.True(t, ok)
		assert.Equal(t, UpdateDefault, f)
		// String output parses back to the same set
		in := UpdateCovariantTransformation | UpdateJacobian2ndDerivatives | UpdateBoundaryForms
		f, ok = ParseUpdateFlags(splitFlags(in.String()))
		assert.True(t, ok)
		assert.Equal(t, in, f)
	}
}

func splitFlags(s string) (names []string) {
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '|' {
			names = append(names, s[start:i])
			start = i + 1
		}
	}
	return
}

func TestSimilarityAndKinds(t *testing.T) {
	assert.Equal(t, "none", SimilarityNone.String())
	assert.Equal(t, "translation", SimilarityTranslation.String())
	assert.Equal(t, "inverted_translation", SimilarityInvertedTranslation.String())
	assert.Equal(t, "invalid_similarity", CellSimilarity(7).String())
	for name, kind := range MappingKindNameMap {
		assert.Equal(t, name, kind.String())
	}
	assert.Len(t, MappingKindNameMap, 9)
	assert.Equal(t, "invalid_mapping_kind", MappingKind(99).String())
}

func TestSubfaceCase(t *testing.T) {
	assert.Equal(t, 0, SubfaceNone.NSubfaces(2))
	assert.Equal(t, 1, SubfaceIsotropic.NSubfaces(1))
	assert.Equal(t, 2, SubfaceIsotropic.NSubfaces(2))
	assert.Equal(t, 4, SubfaceIsotropic.NSubfaces(3))
	assert.Equal(t, 0.5, SubfaceIsotropic.SubfaceRatio(2))
	assert.Equal(t, 0.25, SubfaceIsotropic.SubfaceRatio(3))
}
