// Package nn implements neural network modules for the spex feature library.
//
// This package provides the building blocks for equivariant feature
// pipelines:
//   - Module interface: base interface for all NN components
//   - Parameter: trainable parameters with gradient tracking
//   - SphericalHarmonics: expansion of direction vectors into an
//     orthonormal real spherical-harmonic basis
//   - Spec serialization for reconstructable layer state
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/spex-ml/spex/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Every module must implement:
//   - Forward: compute output from input
//   - Parameters: return all trainable parameters
//
// Type parameter T is the element type and B the computation backend.
type Module[T tensor.DType, B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	//
	// The input tensor must have the appropriate shape for this module;
	// SphericalHarmonics, for example, expects [n, 3]. Invalid input
	// panics; use the module's Compute method for a recoverable error.
	Forward(input *tensor.Tensor[T, B]) *tensor.Tensor[T, B]

	// Parameters returns all trainable parameters of this module,
	// including nested module parameters. Modules without trainable
	// state return an empty slice.
	Parameters() []*Parameter[T, B]
}
