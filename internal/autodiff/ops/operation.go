// Package ops defines the differentiable operations recorded on the
// gradient tape.
//
// Each operation captures its inputs and output during the forward pass
// and knows how to turn an output gradient into input gradients during
// the backward pass.
package ops

import "github.com/spex-ml/spex/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
type Operation interface {
	// Backward computes gradients for the inputs given the output gradient.
	// The returned slice is parallel to Inputs().
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}

// MultiOutputOperation represents an operation producing multiple outputs,
// such as Split. The tape collects gradients for ALL outputs before calling
// BackwardMulti; missing output gradients arrive as zero tensors.
type MultiOutputOperation interface {
	Operation

	// Outputs returns all output tensors produced by this operation.
	Outputs() []*tensor.RawTensor

	// BackwardMulti computes input gradients given gradients for all outputs.
	BackwardMulti(outputGrads []*tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor
}
