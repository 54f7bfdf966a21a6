// Copyright 2026 The spex Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers and building blocks for
// equivariant feature pipelines.
//
// # Overview
//
// This package contains:
//   - SphericalHarmonics: angular featurization of direction vectors
//   - Module interface and Parameter
//   - Typed ConfigError / InputError
//   - Spec serialization for reconstructable layer state
//
// # Basic Usage
//
//	import (
//	    "github.com/spex-ml/spex/backend/cpu"
//	    "github.com/spex-ml/spex/nn"
//	    "github.com/spex-ml/spex/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    layer, err := nn.NewSphericalHarmonics[float64](3, backend)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    points, _ := tensor.FromVectors([][3]float64{{0, 0, 1}}, backend)
//	    features, err := layer.Compute(points) // [1, 16]
//	}
//
// # Gradients
//
// Build the layer on an autodiff backend and the expansion is recorded on
// the tape; the backward pass uses the evaluator's analytic Jacobian:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	features, _ := layer.Compute(points)
//	grads := autodiff.Backward(features.Sum(), backend)
//
// # Serialization
//
// A layer's reconstructable state round-trips through JSON:
//
//	data, _ := json.Marshal(layer.Spec()) // {"max_angular": 3}
//	restored, _ := nn.SphericalHarmonicsFromSpec[float64](spec, backend)
package nn
