package ops

import "github.com/spex-ml/spex/internal/tensor"

// scalarOp holds the shared bookkeeping for element-wise scalar operations.
type scalarOp struct {
	input  *tensor.RawTensor
	scalar any
	output *tensor.RawTensor
}

// Inputs returns the input tensor.
func (op *scalarOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the result tensor.
func (op *scalarOp) Output() *tensor.RawTensor {
	return op.output
}

// AddScalarOp records output = x + s. The gradient passes through unchanged.
type AddScalarOp struct{ scalarOp }

// NewAddScalarOp creates a new AddScalarOp.
func NewAddScalarOp(x *tensor.RawTensor, scalar any, output *tensor.RawTensor) *AddScalarOp {
	return &AddScalarOp{scalarOp{input: x, scalar: scalar, output: output}}
}

// Backward passes the output gradient through.
func (op *AddScalarOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{outputGrad.Clone()}
}

// SubScalarOp records output = x - s. The gradient passes through unchanged.
type SubScalarOp struct{ scalarOp }

// NewSubScalarOp creates a new SubScalarOp.
func NewSubScalarOp(x *tensor.RawTensor, scalar any, output *tensor.RawTensor) *SubScalarOp {
	return &SubScalarOp{scalarOp{input: x, scalar: scalar, output: output}}
}

// Backward passes the output gradient through.
func (op *SubScalarOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{outputGrad.Clone()}
}

// MulScalarOp records output = x * s.
type MulScalarOp struct{ scalarOp }

// NewMulScalarOp creates a new MulScalarOp.
func NewMulScalarOp(x *tensor.RawTensor, scalar any, output *tensor.RawTensor) *MulScalarOp {
	return &MulScalarOp{scalarOp{input: x, scalar: scalar, output: output}}
}

// Backward scales the output gradient by s.
func (op *MulScalarOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.MulScalar(outputGrad, op.scalar)}
}

// DivScalarOp records output = x / s.
type DivScalarOp struct{ scalarOp }

// NewDivScalarOp creates a new DivScalarOp.
func NewDivScalarOp(x *tensor.RawTensor, scalar any, output *tensor.RawTensor) *DivScalarOp {
	return &DivScalarOp{scalarOp{input: x, scalar: scalar, output: output}}
}

// Backward divides the output gradient by s.
func (op *DivScalarOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.DivScalar(outputGrad, op.scalar)}
}

// SqrtOp records output = sqrt(x).
//
// Backward: d(sqrt(x))/dx = 1 / (2*sqrt(x)), which reuses the forward output.
type SqrtOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSqrtOp creates a new SqrtOp.
func NewSqrtOp(x, output *tensor.RawTensor) *SqrtOp {
	return &SqrtOp{input: x, output: output}
}

// Backward computes grad = g / (2 * sqrt(x)).
func (op *SqrtOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := backend.DivScalar(backend.Div(outputGrad, op.output), 2)
	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor.
func (op *SqrtOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the result tensor.
func (op *SqrtOp) Output() *tensor.RawTensor {
	return op.output
}
