package ops

import "github.com/spex-ml/spex/internal/tensor"

// SumOp records output = sum(x), a scalar.
//
// Backward: every element contributed with weight 1, so the scalar gradient
// is broadcast back over the input shape.
type SumOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSumOp creates a new SumOp.
func NewSumOp(x, output *tensor.RawTensor) *SumOp {
	return &SumOp{input: x, output: output}
}

// Backward broadcasts the scalar gradient over the input shape.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := backend.Add(zerosLike(op.input, backend.Device()), outputGrad)
	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor.
func (op *SumOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the scalar sum.
func (op *SumOp) Output() *tensor.RawTensor {
	return op.output
}

// SumDimOp records output = sum(x, dim).
type SumDimOp struct {
	input   *tensor.RawTensor
	dim     int
	keepDim bool
	output  *tensor.RawTensor
}

// NewSumDimOp creates a new SumDimOp.
func NewSumDimOp(x *tensor.RawTensor, dim int, keepDim bool, output *tensor.RawTensor) *SumDimOp {
	return &SumDimOp{input: x, dim: dim, keepDim: keepDim, output: output}
}

// Backward broadcasts the reduced gradient back along the summed dimension.
func (op *SumDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := outputGrad
	if !op.keepDim {
		grad = backend.Unsqueeze(grad, op.dim)
	}
	grad = backend.Add(zerosLike(op.input, backend.Device()), grad)
	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor.
func (op *SumDimOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the reduced tensor.
func (op *SumDimOp) Output() *tensor.RawTensor {
	return op.output
}

// MeanDimOp records output = mean(x, dim).
type MeanDimOp struct {
	input   *tensor.RawTensor
	dim     int
	keepDim bool
	output  *tensor.RawTensor
}

// NewMeanDimOp creates a new MeanDimOp.
func NewMeanDimOp(x *tensor.RawTensor, dim int, keepDim bool, output *tensor.RawTensor) *MeanDimOp {
	return &MeanDimOp{input: x, dim: dim, keepDim: keepDim, output: output}
}

// Backward broadcasts the reduced gradient and divides by the dimension size.
func (op *MeanDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	shape := op.input.Shape()
	dim := op.dim
	if dim < 0 {
		dim += len(shape)
	}

	grad := outputGrad
	if !op.keepDim {
		grad = backend.Unsqueeze(grad, dim)
	}
	grad = backend.Add(zerosLike(op.input, backend.Device()), grad)
	grad = backend.DivScalar(grad, shape[dim])
	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor.
func (op *MeanDimOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the reduced tensor.
func (op *MeanDimOp) Output() *tensor.RawTensor {
	return op.output
}
