// Copyright 2026 The spex Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU compute backend.
//
// The CPU backend implements the tensor.Backend interface with
// straightforward Go loops: element-wise arithmetic with NumPy-style
// broadcasting, reductions, shape manipulation, and the recursive
// spherical-harmonics evaluation. Operations reuse an input buffer when it
// is uniquely owned.
//
// Wrap it with the autodiff package when gradients are needed:
//
//	backend := autodiff.New(cpu.New())
package cpu
