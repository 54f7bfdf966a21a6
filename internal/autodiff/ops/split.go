package ops

import "github.com/spex-ml/spex/internal/tensor"

// SplitOp records outputs = Split(input, sizes, dim). It is the inverse of
// CatOp: the backward pass concatenates the output gradients.
//
// Downstream code often uses only some of the segments (for example a single
// angular channel), so the tape fills gradients for unused outputs with
// zeros before calling BackwardMulti.
type SplitOp struct {
	input   *tensor.RawTensor
	sizes   []int
	dim     int
	outputs []*tensor.RawTensor
}

// NewSplitOp creates a new SplitOp.
func NewSplitOp(input *tensor.RawTensor, sizes []int, dim int, outputs []*tensor.RawTensor) *SplitOp {
	return &SplitOp{input: input, sizes: sizes, dim: dim, outputs: outputs}
}

// Inputs returns the split tensor.
func (op *SplitOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the first segment. The tape never uses this for gradient
// lookup on multi-output operations; see Outputs.
func (op *SplitOp) Output() *tensor.RawTensor {
	return op.outputs[0]
}

// Outputs returns all segments (implements MultiOutputOperation).
func (op *SplitOp) Outputs() []*tensor.RawTensor {
	return op.outputs
}

// Backward is unreachable for multi-output operations; the tape routes them
// through BackwardMulti.
func (op *SplitOp) Backward(_ *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	panic("SplitOp.Backward: multi-output operation requires BackwardMulti")
}

// BackwardMulti concatenates the segment gradients along the split dimension.
func (op *SplitOp) BackwardMulti(outputGrads []*tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	if len(outputGrads) != len(op.outputs) {
		panic("SplitOp.BackwardMulti: gradient count does not match segment count")
	}
	return []*tensor.RawTensor{backend.Cat(outputGrads, op.dim)}
}
