// Copyright 2026 The spex Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/spex-ml/spex/internal/nn"
	"github.com/spex-ml/spex/internal/tensor"
)

// Module is the common interface for all neural network modules.
type Module[T tensor.DType, B tensor.Backend] = nn.Module[T, B]

// Parameter represents a trainable parameter in a neural network.
type Parameter[T tensor.DType, B tensor.Backend] = nn.Parameter[T, B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[T tensor.DType, B tensor.Backend](name string, t *tensor.Tensor[T, B]) *Parameter[T, B] {
	return nn.NewParameter(name, t)
}

// Errors

// ConfigError reports an invalid layer configuration.
type ConfigError = nn.ConfigError

// InputError reports input that violates a layer's contract.
type InputError = nn.InputError

// Layers

// SphericalHarmonics expands Cartesian direction vectors into an orthonormal
// real spherical-harmonic basis.
type SphericalHarmonics[T tensor.DType, B tensor.Backend] = nn.SphericalHarmonics[T, B]

// NewSphericalHarmonics creates a spherical-harmonics expansion layer for
// degrees 0..maxAngular. A negative maxAngular returns a *ConfigError.
//
// Example:
//
//	backend := cpu.New()
//	layer, err := nn.NewSphericalHarmonics[float64](3, backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	features, err := layer.Compute(points) // [n, 3] -> [n, 16]
func NewSphericalHarmonics[T tensor.DType, B tensor.Backend](maxAngular int, backend B) (*SphericalHarmonics[T, B], error) {
	return nn.NewSphericalHarmonics[T, B](maxAngular, backend)
}

// Serialization

// SphericalHarmonicsSpec is the reconstructable state of a
// SphericalHarmonics layer, JSON-serializable as {"max_angular": n}.
type SphericalHarmonicsSpec = nn.SphericalHarmonicsSpec

// SphericalHarmonicsFromSpec reconstructs a layer from its spec.
func SphericalHarmonicsFromSpec[T tensor.DType, B tensor.Backend](spec SphericalHarmonicsSpec, backend B) (*SphericalHarmonics[T, B], error) {
	return nn.SphericalHarmonicsFromSpec[T, B](spec, backend)
}
