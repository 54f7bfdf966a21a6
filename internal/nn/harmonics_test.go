package nn

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spex-ml/spex/internal/autodiff"
	"github.com/spex-ml/spex/internal/backend/cpu"
	"github.com/spex-ml/spex/internal/tensor"
)

func TestNewSphericalHarmonics(t *testing.T) {
	backend := cpu.New()

	tests := []struct {
		name       string
		maxAngular int
		wantMPerL  []int
		wantWidth  int
	}{
		{name: "degree zero only", maxAngular: 0, wantMPerL: []int{1}, wantWidth: 1},
		{name: "dipole", maxAngular: 1, wantMPerL: []int{1, 3}, wantWidth: 4},
		{name: "quadrupole", maxAngular: 2, wantMPerL: []int{1, 3, 5}, wantWidth: 9},
		{name: "high degree", maxAngular: 7, wantMPerL: []int{1, 3, 5, 7, 9, 11, 13, 15}, wantWidth: 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layer, err := NewSphericalHarmonics[float64](tt.maxAngular, backend)
			require.NoError(t, err)

			assert.Equal(t, tt.maxAngular, layer.MaxAngular())
			assert.Equal(t, tt.wantMPerL, layer.MPerL())
			assert.Equal(t, tt.wantWidth, layer.NumFeatures())
		})
	}
}

func TestNewSphericalHarmonics_NegativeDegree(t *testing.T) {
	backend := cpu.New()

	layer, err := NewSphericalHarmonics[float64](-1, backend)
	require.Error(t, err)
	assert.Nil(t, layer)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "SphericalHarmonics", cfgErr.Layer)
	assert.Equal(t, "maxAngular", cfgErr.Field)
}

func TestSphericalHarmonics_MPerLIsACopy(t *testing.T) {
	backend := cpu.New()
	layer, err := NewSphericalHarmonics[float64](2, backend)
	require.NoError(t, err)

	got := layer.MPerL()
	got[0] = 99
	assert.Equal(t, []int{1, 3, 5}, layer.MPerL())
}

func TestSphericalHarmonics_Compute(t *testing.T) {
	backend := cpu.New()
	layer, err := NewSphericalHarmonics[float64](2, backend)
	require.NoError(t, err)

	t.Run("OutputShape", func(t *testing.T) {
		x, err := tensor.FromVectors([][3]float64{
			{0.1, 0.2, 0.3},
			{-1, 2, 0.5},
			{3, -3, 3},
			{0, 1, 0},
			{2, 2, 2},
		}, backend)
		require.NoError(t, err)

		out, err := layer.Compute(x)
		require.NoError(t, err)
		assert.Equal(t, tensor.Shape{5, 9}, out.Shape())
	})

	t.Run("DegreeZeroIsConstant", func(t *testing.T) {
		x, err := tensor.FromVectors([][3]float64{
			{1, 0, 0},
			{0.3, -0.4, 1.2},
			{-5, 2, 1},
		}, backend)
		require.NoError(t, err)

		out, err := layer.Compute(x)
		require.NoError(t, err)

		y00 := 0.5 / math.Sqrt(math.Pi)
		for i := 0; i < 3; i++ {
			assert.InDelta(t, y00, out.At(i, 0), 1e-12)
		}
	})

	t.Run("AxisVectorsMatchClosedForms", func(t *testing.T) {
		x, err := tensor.FromVectors([][3]float64{
			{0, 0, 1}, // +z
			{2, 0, 0}, // +x, length 2: normalized features must not change
		}, backend)
		require.NoError(t, err)

		out, err := layer.Compute(x)
		require.NoError(t, err)

		y00 := 0.5 / math.Sqrt(math.Pi)
		y1 := math.Sqrt(3 / (4 * math.Pi))
		y20 := math.Sqrt(5 / (16 * math.Pi))
		y22 := math.Sqrt(15 / (16 * math.Pi))

		// +z: only (0,0), (1,0) at column 2, (2,0) at column 6 survive.
		wantZ := []float64{y00, 0, y1, 0, 0, 0, 2 * y20, 0, 0}
		for j, want := range wantZ {
			assert.InDeltaf(t, want, out.At(0, j), 1e-12, "z-axis column %d", j)
		}

		// +x: (0,0), (1,1) at column 3, (2,0) at column 6, (2,2) at column 8.
		wantX := []float64{y00, 0, 0, y1, 0, 0, -y20, 0, y22}
		for j, want := range wantX {
			assert.InDeltaf(t, want, out.At(1, j), 1e-12, "x-axis column %d", j)
		}
	})

	t.Run("WrongShape", func(t *testing.T) {
		x, err := tensor.FromSlice[float64](make([]float64, 10), tensor.Shape{5, 2}, backend)
		require.NoError(t, err)

		out, err := layer.Compute(x)
		require.Error(t, err)
		assert.Nil(t, out)

		var inputErr *InputError
		require.True(t, errors.As(err, &inputErr))
		assert.Contains(t, inputErr.Error(), "[5 2]")
	})

	t.Run("WrongRank", func(t *testing.T) {
		x, err := tensor.FromSlice[float64](make([]float64, 6), tensor.Shape{2, 1, 3}, backend)
		require.NoError(t, err)

		_, err = layer.Compute(x)
		var inputErr *InputError
		require.True(t, errors.As(err, &inputErr))
	})
}

func TestSphericalHarmonics_Float32(t *testing.T) {
	backend := cpu.New()
	layer, err := NewSphericalHarmonics[float32](1, backend)
	require.NoError(t, err)

	x, err := tensor.FromVectors([][3]float32{{0, 1, 0}}, backend)
	require.NoError(t, err)

	out, err := layer.Compute(x)
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{1, 4}, out.Shape())

	// (1,-1) carries the y component.
	assert.InDelta(t, math.Sqrt(3/(4*math.Pi)), float64(out.At(0, 1)), 1e-6)
}

func TestSphericalHarmonics_ForwardPanicsOnBadInput(t *testing.T) {
	backend := cpu.New()
	layer, err := NewSphericalHarmonics[float64](1, backend)
	require.NoError(t, err)

	x, err := tensor.FromSlice[float64](make([]float64, 4), tensor.Shape{2, 2}, backend)
	require.NoError(t, err)

	assert.Panics(t, func() { layer.Forward(x) })
}

func TestSphericalHarmonics_ForwardMatchesCompute(t *testing.T) {
	backend := cpu.New()
	layer, err := NewSphericalHarmonics[float64](2, backend)
	require.NoError(t, err)

	x, err := tensor.FromVectors([][3]float64{{0.3, -0.4, 1.2}}, backend)
	require.NoError(t, err)

	want, err := layer.Compute(x)
	require.NoError(t, err)
	got := layer.Forward(x)

	assert.Equal(t, want.Data(), got.Data())
}

func TestSphericalHarmonics_NoParameters(t *testing.T) {
	backend := cpu.New()
	layer, err := NewSphericalHarmonics[float64](3, backend)
	require.NoError(t, err)
	assert.Empty(t, layer.Parameters())
}

func TestSphericalHarmonics_SplitByDegree(t *testing.T) {
	backend := cpu.New()
	layer, err := NewSphericalHarmonics[float64](2, backend)
	require.NoError(t, err)

	x, err := tensor.FromVectors([][3]float64{
		{0.3, -0.4, 1.2},
		{-1, 1, 1},
	}, backend)
	require.NoError(t, err)

	features, err := layer.Compute(x)
	require.NoError(t, err)

	blocks, err := layer.SplitByDegree(features)
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	for l, block := range blocks {
		assert.Equal(t, tensor.Shape{2, 2*l + 1}, block.Shape())
	}

	// Block contents must line up with the flattened layout.
	assert.InDelta(t, features.At(0, 0), blocks[0].At(0, 0), 0)
	assert.InDelta(t, features.At(1, 4), blocks[2].At(1, 0), 0)

	t.Run("WrongWidth", func(t *testing.T) {
		bad, err := tensor.FromSlice[float64](make([]float64, 8), tensor.Shape{2, 4}, backend)
		require.NoError(t, err)

		_, err = layer.SplitByDegree(bad)
		var inputErr *InputError
		require.True(t, errors.As(err, &inputErr))
	})
}

func TestSphericalHarmonics_GradientRoundTrip(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	layer, err := NewSphericalHarmonics[float64](2, backend)
	require.NoError(t, err)

	x, err := tensor.FromVectors([][3]float64{
		{0.3, -0.4, 1.2},
		{-1.1, 0.5, 0.2},
	}, backend)
	require.NoError(t, err)

	features, err := layer.Compute(x)
	require.NoError(t, err)

	loss := features.Sum()
	grads := autodiff.Backward(loss, backend)

	grad := grads[x.Raw()]
	require.NotNil(t, grad, "gradient must flow back to the input points")
	assert.Equal(t, tensor.Shape{2, 3}, grad.Shape())

	// Normalized features are scale invariant, so the gradient is
	// perpendicular to the input direction: grad · x = 0.
	xData := x.Data()
	gData := grad.AsFloat64()
	for i := 0; i < 2; i++ {
		dot := 0.0
		for k := 0; k < 3; k++ {
			dot += xData[i*3+k] * gData[i*3+k]
		}
		assert.InDeltaf(t, 0, dot, 1e-10, "row %d", i)
	}
}

func TestSphericalHarmonics_SplitByDegreeGradient(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	layer, err := NewSphericalHarmonics[float64](2, backend)
	require.NoError(t, err)

	x, err := tensor.FromVectors([][3]float64{{0.5, -0.2, 0.8}}, backend)
	require.NoError(t, err)

	features, err := layer.Compute(x)
	require.NoError(t, err)

	blocks, err := layer.SplitByDegree(features)
	require.NoError(t, err)

	// Use only the l=1 block; gradients still reach the input.
	loss := blocks[1].Sum()
	grads := autodiff.Backward(loss, backend)

	require.NotNil(t, grads[x.Raw()])
	assert.Equal(t, tensor.Shape{1, 3}, grads[x.Raw()].Shape())
}

func TestSphericalHarmonicsSpec_RoundTrip(t *testing.T) {
	backend := cpu.New()
	layer, err := NewSphericalHarmonics[float64](2, backend)
	require.NoError(t, err)

	data, err := json.Marshal(layer.Spec())
	require.NoError(t, err)
	assert.JSONEq(t, `{"max_angular": 2}`, string(data))

	var spec SphericalHarmonicsSpec
	require.NoError(t, json.Unmarshal(data, &spec))

	restored, err := SphericalHarmonicsFromSpec[float64](spec, backend)
	require.NoError(t, err)
	assert.Equal(t, layer.MaxAngular(), restored.MaxAngular())
	assert.Equal(t, layer.MPerL(), restored.MPerL())

	x, err := tensor.FromVectors([][3]float64{{0.3, -0.4, 1.2}}, backend)
	require.NoError(t, err)

	want, err := layer.Compute(x)
	require.NoError(t, err)
	got, err := restored.Compute(x)
	require.NoError(t, err)
	assert.Equal(t, want.Data(), got.Data())
}
