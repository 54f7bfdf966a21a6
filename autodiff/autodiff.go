// Copyright 2026 The spex Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides automatic differentiation capabilities.
//
// This package implements reverse-mode automatic differentiation
// (backpropagation) using a gradient tape. It wraps any backend to add
// gradient tracking, including through the spherical-harmonics expansion,
// whose backward pass uses the evaluator's analytic Jacobian.
//
// Example:
//
//	base := cpu.New()
//	backend := autodiff.New(base)
//	backend.Tape().StartRecording()
//
//	x, _ := tensor.FromVectors([][3]float64{{0.3, -0.4, 1.2}}, backend)
//	layer, _ := nn.NewSphericalHarmonics[float64](2, backend)
//	features, _ := layer.Compute(x)
//
//	grads := autodiff.Backward(features.Sum(), backend)
//	grad := grads[x.Raw()] // [1, 3] gradient of the summed features
package autodiff

import (
	"github.com/spex-ml/spex/internal/autodiff"
	"github.com/spex-ml/spex/internal/tensor"
)

// Backend is the autodiff-enabled backend.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// New creates a new autodiff backend wrapping the given backend.
//
// Example:
//
//	base := cpu.New()
//	backend := autodiff.New(base)
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// BackwardCapable is the interface for backends that support backpropagation.
type BackwardCapable = autodiff.BackwardCapable

// Backward computes gradients via backpropagation, seeding the output
// gradient with ones. Returns a map from RawTensor to its gradient.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}
