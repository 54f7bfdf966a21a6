package ops

import "github.com/spex-ml/spex/internal/tensor"

// CatOp records output = Cat(inputs, dim).
//
// Backward: split the gradient back into the per-input segment sizes.
type CatOp struct {
	inputs []*tensor.RawTensor
	dim    int
	output *tensor.RawTensor
}

// NewCatOp creates a new CatOp.
func NewCatOp(inputs []*tensor.RawTensor, dim int, output *tensor.RawTensor) *CatOp {
	return &CatOp{inputs: inputs, dim: dim, output: output}
}

// Backward splits the output gradient into the original segment sizes.
func (op *CatOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	dim := op.dim
	if dim < 0 {
		dim += len(op.output.Shape())
	}

	sizes := make([]int, len(op.inputs))
	for i, in := range op.inputs {
		sizes[i] = in.Shape()[dim]
	}
	return backend.Split(outputGrad, sizes, dim)
}

// Inputs returns the concatenated tensors.
func (op *CatOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the concatenated result.
func (op *CatOp) Output() *tensor.RawTensor {
	return op.output
}
