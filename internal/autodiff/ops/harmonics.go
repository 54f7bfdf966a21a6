package ops

import (
	"fmt"

	"github.com/spex-ml/spex/internal/sphericart"
	"github.com/spex-ml/spex/internal/tensor"
)

// SphericalHarmonicsOp records output = Y(x) for an [n, 3] batch of points.
//
// Backward: the evaluator provides analytical derivatives dY/dx for every
// feature, so the input gradient is the per-sample chain rule contraction
//
//	grad_x[i,k] = Σ_j outputGrad[i,j] * dY_j/dx_k(x_i)
//
// over the feature axis j.
type SphericalHarmonicsOp struct {
	input  *tensor.RawTensor
	calc   *sphericart.Calculator
	output *tensor.RawTensor
}

// NewSphericalHarmonicsOp creates a new SphericalHarmonicsOp.
func NewSphericalHarmonicsOp(input *tensor.RawTensor, calc *sphericart.Calculator, output *tensor.RawTensor) *SphericalHarmonicsOp {
	return &SphericalHarmonicsOp{input: input, calc: calc, output: output}
}

// Backward contracts the output gradient with the evaluator's derivatives.
func (op *SphericalHarmonicsOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	n := op.input.Shape()[0]

	grad, err := tensor.NewRaw(op.input.Shape(), op.input.DType(), backend.Device())
	if err != nil {
		panic(fmt.Sprintf("SphericalHarmonicsOp.Backward: %v", err))
	}

	switch op.input.DType() {
	case tensor.Float32:
		contractHarmonicGrads(op.calc, op.input.AsFloat32(), outputGrad.AsFloat32(), grad.AsFloat32(), n)
	case tensor.Float64:
		contractHarmonicGrads(op.calc, op.input.AsFloat64(), outputGrad.AsFloat64(), grad.AsFloat64(), n)
	}
	return []*tensor.RawTensor{grad}
}

func contractHarmonicGrads[T sphericart.Float](calc *sphericart.Calculator, xyz, outGrad, grad []T, n int) {
	w := calc.NumFeatures()
	_, dsph := sphericart.ComputeWithGradients(calc, xyz, n)

	for i := 0; i < n; i++ {
		for k := 0; k < 3; k++ {
			row := dsph[(i*3+k)*w : (i*3+k+1)*w]
			var total T
			for j, d := range row {
				total += outGrad[i*w+j] * d
			}
			grad[i*3+k] = total
		}
	}
}

// Inputs returns the point batch.
func (op *SphericalHarmonicsOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the feature tensor.
func (op *SphericalHarmonicsOp) Output() *tensor.RawTensor {
	return op.output
}
