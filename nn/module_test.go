// Copyright 2026 The spex Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spex-ml/spex/backend/cpu"
	"github.com/spex-ml/spex/nn"
	"github.com/spex-ml/spex/tensor"
)

// TestModuleInterface verifies that concrete types satisfy the Module
// interface through the public API.
func TestModuleInterface(t *testing.T) {
	backend := cpu.New()

	layer, err := nn.NewSphericalHarmonics[float64](2, backend)
	require.NoError(t, err)

	var module nn.Module[float64, *cpu.Backend] = layer

	input, err := tensor.FromVectors([][3]float64{{0, 0, 1}, {1, 0, 0}}, backend)
	require.NoError(t, err)

	output := module.Forward(input)
	assert.Equal(t, tensor.Shape{2, 9}, output.Shape())
	assert.Empty(t, module.Parameters())
}

func TestParameterInterface(t *testing.T) {
	backend := cpu.New()
	weights := tensor.Randn[float64](tensor.Shape{3, 3}, backend)

	param := nn.NewParameter("test.weight", weights)

	assert.Equal(t, "test.weight", param.Name())
	assert.Same(t, weights, param.Tensor())
	assert.Nil(t, param.Grad(), "gradient must be nil before backward pass")

	grad := tensor.Zeros[float64](tensor.Shape{3, 3}, backend)
	param.SetGrad(grad)
	assert.Same(t, grad, param.Grad())

	param.ZeroGrad()
	assert.Nil(t, param.Grad())
}
