package cpu

import (
	"fmt"

	"github.com/spex-ml/spex/internal/sphericart"
	"github.com/spex-ml/spex/internal/tensor"
)

// SphericalHarmonics evaluates the calculator's basis for a batch of
// Cartesian points. The input must be [n, 3]; the output is
// [n, (lMax+1)^2] with features ordered by degree, then by order from
// -l to l.
func (cpu *CPUBackend) SphericalHarmonics(x *tensor.RawTensor, calc *sphericart.Calculator) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) != 2 || shape[1] != 3 {
		panic(fmt.Sprintf("sphericalharmonics: expected shape [n, 3], got %v", shape))
	}
	n := shape[0]

	outShape := tensor.Shape{n, calc.NumFeatures()}
	result := mustNewRaw("sphericalharmonics", outShape, x.DType(), cpu.device)
	switch x.DType() {
	case tensor.Float32:
		copy(result.AsFloat32(), sphericart.Compute(calc, x.AsFloat32(), n))
	case tensor.Float64:
		copy(result.AsFloat64(), sphericart.Compute(calc, x.AsFloat64(), n))
	}
	return result
}
