package mapping

import (
	"fmt"

	"github.com/notargets/femapping/types"
)

// DistortedCellError reports a cell whose Jacobian determinant at a quadrature point is not safely positive.
type DistortedCellError struct {
	Center []float64
	Det    float64
	Point  int
}

func (e *DistortedCellError) Error() string {
	return fmt.Sprintf("the image of the mapping applied to cell with center %v is distorted: "+
		"Jacobian determinant %g at quadrature point %d", e.Center, e.Det, e.Point)
}

func assertFlag(data *InternalData, flag types.UpdateFlags) {
	if !data.UpdateEach.Has(flag) {
		panic(fmt.Errorf("access to uninitialized field: %s", flag.String()))
	}
}

func assertDimension(have, want int, what string) {
	if have != want {
		panic(fmt.Errorf("dimension mismatch for %s: have %d, want %d", what, have, want))
	}
}
