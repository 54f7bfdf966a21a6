// Copyright 2026 The spex Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensor operations for spex.
//
// # Overview
//
// Tensors are the fundamental data structure in spex. This package
// provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - NumPy-style broadcasting
//   - Copy-on-write buffers with reference counting
//   - Device abstraction with a CPU implementation
//
// # Basic Usage
//
//	import (
//	    "github.com/spex-ml/spex/backend/cpu"
//	    "github.com/spex-ml/spex/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x := tensor.Zeros[float64](tensor.Shape{2, 3}, backend)
//	    y := tensor.Ones[float64](tensor.Shape{2, 3}, backend)
//
//	    z := x.Add(y)
//	    total := z.Sum().Item()
//	}
//
// # Supported Data Types
//
// Element types are float32 and float64; the DType constraint covers both.
// Harmonic features keep the dtype of their input points.
//
// # Backends
//
// Operations dispatch through the Backend interface. The cpu package
// provides the pure Go implementation, and the autodiff package wraps any
// backend with gradient recording.
package tensor
